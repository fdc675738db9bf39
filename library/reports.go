package library

// Reports derives read-only views over the current collections.
type Reports struct {
	store *Store
}

// NewReports returns reports backed by store.
func NewReports(store *Store) *Reports { return &Reports{store: store} }

// Stats are the dashboard counters.
type Stats struct {
	Members         int
	Books           int
	ActiveLoans     int
	AvailableCopies int
}

// LoanView is a loan with its borrower's display name.
type LoanView struct {
	Loan
	MemberName string
}

// OverdueLoan is an active loan past its due date with its live fine.
type OverdueLoan struct {
	LoanView
	DaysLate int
	Fine     int64
}

// ActiveLoanStatus is an active loan with days left (negative once overdue)
// and its live fine.
type ActiveLoanStatus struct {
	Loan
	DaysRemaining int
	Fine          int64
}

// MemberReport is everything the desk needs about one member.
type MemberReport struct {
	Member  Member
	Active  []ActiveLoanStatus
	History []Loan
	// TotalUnpaid is stored unpaid fines plus live fines on overdue loans.
	TotalUnpaid int64
}

// BookReport is a book and every loan ever issued against its ID.
type BookReport struct {
	Book  Book
	Loans []LoanView
}

// Stats counts members, books, active loans and available copies.
func (r *Reports) Stats() Stats {
	doc := r.store.doc
	s := Stats{Members: len(doc.Members), Books: len(doc.Books)}
	for _, l := range doc.Loans {
		if l.Active() {
			s.ActiveLoans++
		}
	}
	for _, b := range doc.Books {
		s.AvailableCopies += b.AvailableCopies
	}
	return s
}

// ActiveLoans lists every loan not yet returned.
func (r *Reports) ActiveLoans() []LoanView {
	doc := r.store.doc
	out := []LoanView{}
	for _, l := range doc.Loans {
		if l.Active() {
			out = append(out, LoanView{Loan: l, MemberName: doc.memberName(l.MemberID)})
		}
	}
	return out
}

// Overdue lists active loans whose due date has passed, with live fines.
func (r *Reports) Overdue() []OverdueLoan {
	doc := r.store.doc
	today := r.store.today()
	out := []OverdueLoan{}
	for _, l := range doc.Loans {
		if !l.Active() {
			continue
		}
		days := overdueDays(l.DueDate, today)
		if days == 0 {
			continue
		}
		out = append(out, OverdueLoan{
			LoanView: LoanView{Loan: l, MemberName: doc.memberName(l.MemberID)},
			DaysLate: days,
			Fine:     int64(days) * doc.Settings.FinePerDay,
		})
	}
	return out
}

// MemberReport splits a member's loans into active and returned and totals
// what they owe.
func (r *Reports) MemberReport(studentID string) (MemberReport, error) {
	doc := r.store.doc
	_, m := doc.member(studentID)
	if m == nil {
		return MemberReport{}, notFoundf("member %s does not exist", studentID)
	}

	today := r.store.today()
	rep := MemberReport{Member: *m, Active: []ActiveLoanStatus{}, History: []Loan{}}
	for _, l := range doc.Loans {
		if l.MemberID != studentID {
			continue
		}
		if !l.Active() {
			rep.History = append(rep.History, l)
			rep.TotalUnpaid += l.UnpaidFine
			continue
		}
		status := ActiveLoanStatus{Loan: l}
		if due, err := parseDate(l.DueDate); err == nil {
			status.DaysRemaining = daysBetween(today, due)
		}
		status.Fine = int64(overdueDays(l.DueDate, today)) * doc.Settings.FinePerDay
		rep.TotalUnpaid += status.Fine
		rep.Active = append(rep.Active, status)
	}
	return rep, nil
}

// BookReport lists the full loan history of a book.
func (r *Reports) BookReport(bookID string) (BookReport, error) {
	doc := r.store.doc
	_, b := doc.book(bookID)
	if b == nil {
		return BookReport{}, notFoundf("book %s does not exist", bookID)
	}

	rep := BookReport{Book: *b, Loans: []LoanView{}}
	for _, l := range doc.Loans {
		if l.BookID == bookID {
			rep.Loans = append(rep.Loans, LoanView{Loan: l, MemberName: doc.memberName(l.MemberID)})
		}
	}
	return rep, nil
}
