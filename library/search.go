package library

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// fold normalises s for caseless comparison. A Caser keeps state, so each
// call gets its own.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// queryTerms splits a query into folded terms.
func queryTerms(q string) []string {
	return strings.Fields(fold(q))
}

// matchesAll reports whether every term is a substring of at least one field.
func matchesAll(terms []string, fields ...string) bool {
	folded := make([]string, len(fields))
	for i, f := range fields {
		folded[i] = fold(f)
	}
	for _, t := range terms {
		found := false
		for _, f := range folded {
			if strings.Contains(f, t) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// SearchMembers matches name, student ID, national ID and phone. An empty
// query returns every member.
func (r *Reports) SearchMembers(q string) []Member {
	terms := queryTerms(q)
	out := []Member{}
	for _, m := range r.store.doc.Members {
		if matchesAll(terms, m.FullName(), m.StudentID, m.NationalID, m.Phone) {
			out = append(out, m)
		}
	}
	return out
}

// SearchBooks matches title, author, publish date and book ID.
func (r *Reports) SearchBooks(q string) []Book {
	terms := queryTerms(q)
	out := []Book{}
	for _, b := range r.store.doc.Books {
		if matchesAll(terms, b.Title, b.Author, b.PublishDate, b.ID) {
			out = append(out, b)
		}
	}
	return out
}

// SearchLoans matches active loans on loan ID, borrower name, book title,
// loan date and due date.
func (r *Reports) SearchLoans(q string) []LoanView {
	terms := queryTerms(q)
	doc := r.store.doc
	out := []LoanView{}
	for _, l := range doc.Loans {
		if !l.Active() {
			continue
		}
		name := doc.memberName(l.MemberID)
		if matchesAll(terms, strconv.Itoa(l.ID), name, l.BookTitle, l.LoanDate, l.DueDate) {
			out = append(out, LoanView{Loan: l, MemberName: name})
		}
	}
	return out
}
