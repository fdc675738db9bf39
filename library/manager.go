package library

// LibraryManager is a thin façade over the store, catalog, ledger and
// reports, keeping CLI code simple. It owns the only copy of the state.
type LibraryManager struct {
	store   *Store
	catalog *Catalog
	ledger  *Ledger
	reports *Reports
}

// NewLibraryManager opens the data file at dataPath, loading it if present.
func NewLibraryManager(dataPath string, opts ...Option) (*LibraryManager, error) {
	lm := NewEmptyLibraryManager(dataPath, opts...)
	if err := lm.store.Load(); err != nil {
		return nil, err
	}
	return lm, nil
}

// NewEmptyLibraryManager points at dataPath without reading it. It is the
// way back from a data file that no longer loads: Restore replaces the file
// and the in-memory state together.
func NewEmptyLibraryManager(dataPath string, opts ...Option) *LibraryManager {
	store := NewStore(dataPath, opts...)
	return &LibraryManager{
		store:   store,
		catalog: NewCatalog(store),
		ledger:  NewLedger(store),
		reports: NewReports(store),
	}
}

// ------------------ Data helpers ------------------

func (lm *LibraryManager) Save() error                    { return lm.store.Save() }
func (lm *LibraryManager) Reload() error                  { return lm.store.Load() }
func (lm *LibraryManager) Backup() (string, error)        { return lm.store.Backup() }
func (lm *LibraryManager) ListBackups() ([]string, error) { return lm.store.ListBackups() }
func (lm *LibraryManager) Restore(path string) error      { return lm.store.Restore(path) }
func (lm *LibraryManager) DataPath() string               { return lm.store.Path() }
func (lm *LibraryManager) Settings() Settings             { return lm.store.Settings() }

func (lm *LibraryManager) UpdateSettings(s Settings) error {
	return lm.store.UpdateSettings(s)
}

// ------------------ Member helpers ------------------

func (lm *LibraryManager) AddMember(f MemberFields) (Member, error) { return lm.catalog.AddMember(f) }
func (lm *LibraryManager) DeleteMember(studentID string) error      { return lm.catalog.DeleteMember(studentID) }
func (lm *LibraryManager) GetMember(studentID string) (Member, error) {
	return lm.catalog.Member(studentID)
}
func (lm *LibraryManager) GetAllMembers() []Member { return lm.catalog.Members() }

func (lm *LibraryManager) EditMember(studentID string, f MemberFields) (Member, error) {
	return lm.catalog.EditMember(studentID, f)
}

// ------------------ Book helpers ------------------

func (lm *LibraryManager) AddBook(title, author, publishDate string, copies int) (Book, error) {
	return lm.catalog.AddBook(title, author, publishDate, copies)
}

func (lm *LibraryManager) EditBook(bookID string, f BookFields) (Book, error) {
	return lm.catalog.EditBook(bookID, f)
}

func (lm *LibraryManager) DeleteBook(bookID string) error      { return lm.catalog.DeleteBook(bookID) }
func (lm *LibraryManager) GetBook(bookID string) (Book, error) { return lm.catalog.Book(bookID) }
func (lm *LibraryManager) GetAllBooks() []Book                 { return lm.catalog.Books() }

// ------------------ Circulation ------------------

func (lm *LibraryManager) IssueLoan(memberID, bookID string, periodDays int) (Loan, error) {
	return lm.ledger.IssueLoan(memberID, bookID, periodDays)
}

func (lm *LibraryManager) RenewLoan(loanID, extraDays int) (Loan, error) {
	return lm.ledger.RenewLoan(loanID, extraDays)
}

func (lm *LibraryManager) AssessFine(loanID int) (FineAssessment, error) {
	return lm.ledger.AssessFine(loanID)
}

func (lm *LibraryManager) ReturnBook(loanID int, s Settlement) (ReturnReceipt, error) {
	return lm.ledger.ReturnBook(loanID, s)
}

func (lm *LibraryManager) PayFines(memberID string) (FineSettlement, error) {
	return lm.ledger.PayFines(memberID)
}

func (lm *LibraryManager) GetLoan(loanID int) (Loan, error) { return lm.ledger.Loan(loanID) }

// ------------------ Reports & search ------------------

func (lm *LibraryManager) Stats() Stats                    { return lm.reports.Stats() }
func (lm *LibraryManager) ActiveLoans() []LoanView         { return lm.reports.ActiveLoans() }
func (lm *LibraryManager) Overdue() []OverdueLoan          { return lm.reports.Overdue() }
func (lm *LibraryManager) SearchMembers(q string) []Member { return lm.reports.SearchMembers(q) }
func (lm *LibraryManager) SearchBooks(q string) []Book     { return lm.reports.SearchBooks(q) }
func (lm *LibraryManager) SearchLoans(q string) []LoanView {
	return lm.reports.SearchLoans(q)
}

func (lm *LibraryManager) MemberReport(studentID string) (MemberReport, error) {
	return lm.reports.MemberReport(studentID)
}

func (lm *LibraryManager) BookReport(bookID string) (BookReport, error) {
	return lm.reports.BookReport(bookID)
}
