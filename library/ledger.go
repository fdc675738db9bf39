package library

import (
	"fmt"
	"strings"
)

// Settlement is the borrower's choice for an overdue fine at return time.
type Settlement int

const (
	// SettleLater leaves the fine on the member's account.
	SettleLater Settlement = iota
	// SettleNow records the fine as paid on the spot.
	SettleNow
)

func (s Settlement) String() string {
	if s == SettleNow {
		return "now"
	}
	return "later"
}

// ParseSettlement accepts "now" or "later".
func ParseSettlement(v string) (Settlement, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "now":
		return SettleNow, nil
	case "later":
		return SettleLater, nil
	}
	return SettleLater, validationf("settlement must be \"now\" or \"later\", got %q", v)
}

// FineAssessment is the live fine of an active loan.
type FineAssessment struct {
	LoanID      int
	DaysOverdue int
	Fine        int64
}

// ReturnReceipt describes a completed return.
type ReturnReceipt struct {
	Loan        Loan
	DaysOverdue int
	Fine        int64
	Settlement  Settlement
}

// FineSettlement summarises a PayFines call.
type FineSettlement struct {
	MemberID string
	Loans    int
	Amount   int64
}

// Ledger runs the loan lifecycle: issue, renew, return and fine settlement.
// Every loan is Active until returned; renewal does not change state.
type Ledger struct {
	store *Store
}

// NewLedger returns a ledger backed by store.
func NewLedger(store *Store) *Ledger { return &Ledger{store: store} }

// IssueLoan lends one copy of a book to a member for periodDays days. Zero
// means the configured default period.
func (l *Ledger) IssueLoan(memberID, bookID string, periodDays int) (Loan, error) {
	if periodDays < 0 {
		return Loan{}, validationf("loan period cannot be negative, got %d", periodDays)
	}

	tx := l.store.Begin()
	defer tx.Rollback()

	if periodDays == 0 {
		periodDays = tx.doc.Settings.DefaultLoanPeriod
	}
	if _, m := tx.doc.member(memberID); m == nil {
		return Loan{}, notFoundf("member %s does not exist", memberID)
	}
	_, book := tx.doc.book(bookID)
	if book == nil {
		return Loan{}, notFoundf("book %s does not exist", bookID)
	}
	if book.AvailableCopies <= 0 {
		return Loan{}, constraintf("no copies of %q are available", book.Title)
	}

	today := l.store.today()
	loan := Loan{
		ID:         tx.doc.nextLoanID(),
		MemberID:   memberID,
		BookID:     bookID,
		BookTitle:  book.Title,
		LoanDate:   formatDate(today),
		DueDate:    formatDate(today.AddDate(0, 0, periodDays)),
		LoanPeriod: periodDays,
	}
	book.AvailableCopies--
	tx.doc.Loans = append(tx.doc.Loans, loan)
	if err := tx.Commit(); err != nil {
		return Loan{}, err
	}

	l.store.logger.Info("loan issued",
		"loan", loan.ID, "member", memberID, "book", bookID, "due", loan.DueDate)
	return loan, nil
}

// RenewLoan pushes the due date of an active loan back by extraDays, counted
// from the current due date even when the loan is already overdue. Zero
// means the configured default period.
func (l *Ledger) RenewLoan(loanID, extraDays int) (Loan, error) {
	if extraDays < 0 {
		return Loan{}, validationf("renewal period cannot be negative, got %d", extraDays)
	}

	tx := l.store.Begin()
	defer tx.Rollback()

	if extraDays == 0 {
		extraDays = tx.doc.Settings.DefaultLoanPeriod
	}
	loan, err := activeLoan(tx.doc, loanID)
	if err != nil {
		return Loan{}, err
	}
	due, err := parseDate(loan.DueDate)
	if err != nil {
		return Loan{}, dataFormatErr(fmt.Sprintf("loan %d has an invalid due date %q", loanID, loan.DueDate), err)
	}

	loan.DueDate = formatDate(due.AddDate(0, 0, extraDays))
	loan.Renewed = true
	loan.LoanPeriod += extraDays
	renewed := *loan
	if err := tx.Commit(); err != nil {
		return Loan{}, err
	}

	l.store.logger.Info("loan renewed", "loan", loanID, "days", extraDays, "due", renewed.DueDate)
	return renewed, nil
}

// AssessFine computes what returning an active loan today would cost.
func (l *Ledger) AssessFine(loanID int) (FineAssessment, error) {
	loan, err := activeLoan(l.store.doc, loanID)
	if err != nil {
		return FineAssessment{}, err
	}
	days := overdueDays(loan.DueDate, l.store.today())
	return FineAssessment{
		LoanID:      loanID,
		DaysOverdue: days,
		Fine:        int64(days) * l.store.doc.Settings.FinePerDay,
	}, nil
}

// ReturnBook closes an active loan today. An overdue fine is either settled
// on the spot or left unpaid on the loan, as the settlement says; a loan
// returned on time is always recorded as paid.
func (l *Ledger) ReturnBook(loanID int, settlement Settlement) (ReturnReceipt, error) {
	tx := l.store.Begin()
	defer tx.Rollback()

	loan, err := activeLoan(tx.doc, loanID)
	if err != nil {
		return ReturnReceipt{}, err
	}

	today := l.store.today()
	days := overdueDays(loan.DueDate, today)
	fine := int64(days) * tx.doc.Settings.FinePerDay

	returned := formatDate(today)
	loan.ReturnDate = &returned
	if fine > 0 && settlement == SettleLater {
		loan.FinePaid = false
		loan.UnpaidFine = fine
	} else {
		loan.FinePaid = true
		loan.UnpaidFine = 0
	}

	if _, book := tx.doc.book(loan.BookID); book != nil {
		book.AvailableCopies = min(book.AvailableCopies+1, book.TotalCopies)
	} else {
		l.store.logger.Warn("returned loan references a missing book, availability unchanged",
			"loan", loanID, "book", loan.BookID)
	}

	receipt := ReturnReceipt{Loan: *loan, DaysOverdue: days, Fine: fine, Settlement: settlement}
	if fine == 0 {
		receipt.Settlement = SettleNow
	}
	if err := tx.Commit(); err != nil {
		return ReturnReceipt{}, err
	}

	l.store.logger.Info("loan returned",
		"loan", loanID, "days_overdue", days, "fine", fine, "settlement", receipt.Settlement.String())
	return receipt, nil
}

// PayFines settles every unpaid fine on the member's returned loans. Nothing
// is written when there is nothing to settle.
func (l *Ledger) PayFines(memberID string) (FineSettlement, error) {
	tx := l.store.Begin()
	defer tx.Rollback()

	result := FineSettlement{MemberID: memberID}
	for i := range tx.doc.Loans {
		loan := &tx.doc.Loans[i]
		if loan.MemberID != memberID || loan.Active() || loan.UnpaidFine <= 0 {
			continue
		}
		result.Loans++
		result.Amount += loan.UnpaidFine
		loan.UnpaidFine = 0
		loan.FinePaid = true
	}
	if result.Loans == 0 {
		return result, nil
	}
	if err := tx.Commit(); err != nil {
		return FineSettlement{}, err
	}

	l.store.logger.Info("fines settled", "member", memberID, "loans", result.Loans, "amount", result.Amount)
	return result, nil
}

// Loan fetches a single loan.
func (l *Ledger) Loan(loanID int) (Loan, error) {
	loan := l.store.doc.loan(loanID)
	if loan == nil {
		return Loan{}, notFoundf("loan %d does not exist", loanID)
	}
	return *loan, nil
}

func activeLoan(doc *Document, loanID int) (*Loan, error) {
	loan := doc.loan(loanID)
	if loan == nil {
		return nil, notFoundf("loan %d does not exist", loanID)
	}
	if !loan.Active() {
		return nil, constraintf("loan %d was already returned on %s", loanID, loan.Returned())
	}
	return loan, nil
}
