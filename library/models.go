package library

import "strings"

// Member represents a registered library member, keyed by student ID.
type Member struct {
	StudentID  string `json:"student_id"`
	NationalID string `json:"national_id"`
	Phone      string `json:"phone"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
}

// FullName joins first and last name the way lists display it.
func (m Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// MemberFields carries the editable fields of a member.
type MemberFields = Member

// Book represents a catalog title and its copy counts.
type Book struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	PublishDate     string `json:"publish_date"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
}

// IsBorrowed reports whether at least one copy is out on loan.
func (b Book) IsBorrowed() bool { return b.AvailableCopies < b.TotalCopies }

// OnLoan is the number of copies currently lent out.
func (b Book) OnLoan() int { return b.TotalCopies - b.AvailableCopies }

// BookFields carries the editable fields of a book.
type BookFields struct {
	Title       string
	Author      string
	PublishDate string
	TotalCopies int
}

// BookID derives the catalog key for a title/author/publish date triple.
func BookID(title, author, publishDate string) string {
	return strings.ReplaceAll(title+"_"+author+"_"+publishDate, " ", "_")
}

// Loan records one copy of a book lent to a member. ReturnDate is nil while
// the loan is active.
type Loan struct {
	ID         int     `json:"id"`
	MemberID   string  `json:"member_id"`
	BookID     string  `json:"book_id"`
	BookTitle  string  `json:"book_title"`
	LoanDate   string  `json:"loan_date"`
	DueDate    string  `json:"due_date"`
	ReturnDate *string `json:"return_date"`
	LoanPeriod int     `json:"loan_period"`
	Renewed    bool    `json:"renewed,omitempty"`
	FinePaid   bool    `json:"fine_paid,omitempty"`
	UnpaidFine int64   `json:"unpaid_fine,omitempty"`
}

// Active reports whether the loan has not been returned yet.
func (l Loan) Active() bool { return l.ReturnDate == nil }

// Returned is the return date, or "" for an active loan.
func (l Loan) Returned() string {
	if l.ReturnDate == nil {
		return ""
	}
	return *l.ReturnDate
}

// MarshalJSON writes fine_paid and unpaid_fine for every returned loan and
// leaves them out while the loan is active.
func (l Loan) MarshalJSON() ([]byte, error) {
	type plain Loan
	out := struct {
		plain
		FinePaid   *bool  `json:"fine_paid,omitempty"`
		UnpaidFine *int64 `json:"unpaid_fine,omitempty"`
	}{plain: plain(l)}
	if !l.Active() {
		out.FinePaid = &l.FinePaid
		out.UnpaidFine = &l.UnpaidFine
	}
	return json.Marshal(out)
}

// Settings holds the process-wide loan rules.
type Settings struct {
	DefaultLoanPeriod int   `json:"default_loan_period"`
	FinePerDay        int64 `json:"fine_per_day"`
}

// DefaultSettings are used until a data file says otherwise.
func DefaultSettings() Settings {
	return Settings{DefaultLoanPeriod: 14, FinePerDay: 1000}
}

func (s Settings) validate() error {
	if s.DefaultLoanPeriod < 1 {
		return validationf("default loan period must be at least 1 day, got %d", s.DefaultLoanPeriod)
	}
	if s.FinePerDay < 0 {
		return validationf("fine per day cannot be negative, got %d", s.FinePerDay)
	}
	return nil
}

// Document is the complete library state as persisted on disk.
type Document struct {
	Members  []Member `json:"members"`
	Books    []Book   `json:"books"`
	Loans    []Loan   `json:"loans"`
	Settings Settings `json:"settings"`
}

func newDocument() *Document {
	return &Document{
		Members:  []Member{},
		Books:    []Book{},
		Loans:    []Loan{},
		Settings: DefaultSettings(),
	}
}

// clone returns a deep copy. ReturnDate pointers are shared because they are
// only ever replaced, never written through.
func (d *Document) clone() *Document {
	return &Document{
		Members:  append([]Member{}, d.Members...),
		Books:    append([]Book{}, d.Books...),
		Loans:    append([]Loan{}, d.Loans...),
		Settings: d.Settings,
	}
}

func (d *Document) member(studentID string) (int, *Member) {
	for i := range d.Members {
		if d.Members[i].StudentID == studentID {
			return i, &d.Members[i]
		}
	}
	return -1, nil
}

func (d *Document) book(id string) (int, *Book) {
	for i := range d.Books {
		if d.Books[i].ID == id {
			return i, &d.Books[i]
		}
	}
	return -1, nil
}

func (d *Document) loan(id int) *Loan {
	for i := range d.Loans {
		if d.Loans[i].ID == id {
			return &d.Loans[i]
		}
	}
	return nil
}

func (d *Document) memberName(studentID string) string {
	if _, m := d.member(studentID); m != nil {
		return m.FullName()
	}
	return studentID
}

// nextLoanID is one past the largest id in use, so ids stay unique after
// deletions or partial restores.
func (d *Document) nextLoanID() int {
	highest := 0
	for _, l := range d.Loans {
		if l.ID > highest {
			highest = l.ID
		}
	}
	return highest + 1
}
