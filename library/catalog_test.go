package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMemberValidation(t *testing.T) {
	mgr, _ := newManager(t)

	_, err := mgr.AddMember(MemberFields{StudentID: "   ", FirstName: "Ali"})
	require.ErrorIs(t, err, ErrValidation)

	m, err := mgr.AddMember(MemberFields{StudentID: " 10000001 ", FirstName: " Ali ", LastName: "Rezaei"})
	require.NoError(t, err)
	assert.Equal(t, "10000001", m.StudentID)
	assert.Equal(t, "Ali Rezaei", m.FullName())

	_, err = mgr.AddMember(MemberFields{StudentID: "10000001", FirstName: "Someone"})
	require.ErrorIs(t, err, ErrValidation)
	assert.Len(t, mgr.GetAllMembers(), 1)
}

func TestEditMemberRekeysLoans(t *testing.T) {
	mgr, _ := newManager(t)
	addMember(t, mgr, "10000001", "Ali", "Rezaei")
	addMember(t, mgr, "10000002", "Sara", "Navabi")
	book := addBook(t, mgr, "Kelidar", "Mahmoud Dowlatabadi", 2)
	loan, err := mgr.IssueLoan("10000001", book.ID, 0)
	require.NoError(t, err)

	_, err = mgr.EditMember("10000001", MemberFields{StudentID: "10000002"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = mgr.EditMember("99999999", MemberFields{StudentID: "99999999"})
	require.ErrorIs(t, err, ErrNotFound)

	edited, err := mgr.EditMember("10000001", MemberFields{StudentID: "10000009", FirstName: "Ali", LastName: "Rezaei", Phone: "09151234567"})
	require.NoError(t, err)
	assert.Equal(t, "09151234567", edited.Phone)

	_, err = mgr.GetMember("10000001")
	require.ErrorIs(t, err, ErrNotFound)
	got, err := mgr.GetLoan(loan.ID)
	require.NoError(t, err)
	assert.Equal(t, "10000009", got.MemberID)
}

func TestDeleteMember(t *testing.T) {
	mgr, _ := newManager(t)
	addMember(t, mgr, "10000001", "Ali", "Rezaei")
	book := addBook(t, mgr, "Kelidar", "Mahmoud Dowlatabadi", 1)
	loan, err := mgr.IssueLoan("10000001", book.ID, 0)
	require.NoError(t, err)

	require.ErrorIs(t, mgr.DeleteMember("10000001"), ErrConstraint)
	require.ErrorIs(t, mgr.DeleteMember("10000002"), ErrNotFound)

	_, err = mgr.ReturnBook(loan.ID, SettleNow)
	require.NoError(t, err)
	require.NoError(t, mgr.DeleteMember("10000001"))
	assert.Empty(t, mgr.GetAllMembers())

	// History survives the member.
	got, err := mgr.GetLoan(loan.ID)
	require.NoError(t, err)
	assert.Equal(t, "10000001", got.MemberID)
}

func TestAddBookMergesCopies(t *testing.T) {
	mgr, _ := newManager(t)

	first, err := mgr.AddBook("The Little Prince", "Saint-Exupery", "1943", 2)
	require.NoError(t, err)
	assert.Equal(t, "The_Little_Prince_Saint-Exupery_1943", first.ID)
	assert.False(t, first.IsBorrowed())

	merged, err := mgr.AddBook("The Little Prince", "Saint-Exupery", "1943", 3)
	require.NoError(t, err)
	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, 5, merged.TotalCopies)
	assert.Equal(t, 5, merged.AvailableCopies)
	assert.Len(t, mgr.GetAllBooks(), 1)
}

func TestAddBookValidation(t *testing.T) {
	mgr, _ := newManager(t)

	_, err := mgr.AddBook("", "Author", "", 1)
	require.ErrorIs(t, err, ErrValidation)
	_, err = mgr.AddBook("Title", " ", "", 1)
	require.ErrorIs(t, err, ErrValidation)
	_, err = mgr.AddBook("Title", "Author", "", 0)
	require.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, mgr.GetAllBooks())
}

func TestEditBookAdjustsAvailability(t *testing.T) {
	mgr, _ := newManager(t)
	addMember(t, mgr, "10000001", "Ali", "Rezaei")
	book := addBook(t, mgr, "Suvashun", "Daneshvar", 3)
	for range 2 {
		_, err := mgr.IssueLoan("10000001", book.ID, 0)
		require.NoError(t, err)
	}

	grown, err := mgr.EditBook(book.ID, BookFields{Title: "Suvashun", Author: "Daneshvar", TotalCopies: 5})
	require.NoError(t, err)
	assert.Equal(t, book.ID, grown.ID)
	assert.Equal(t, 3, grown.AvailableCopies)

	shrunk, err := mgr.EditBook(book.ID, BookFields{Title: "Suvashun", Author: "Daneshvar", TotalCopies: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, shrunk.TotalCopies)
	assert.Equal(t, 0, shrunk.AvailableCopies)
}

func TestEditBookRederivesID(t *testing.T) {
	mgr, _ := newManager(t)
	addMember(t, mgr, "10000001", "Ali", "Rezaei")
	book := addBook(t, mgr, "Suvashun", "Daneshvar", 2)
	other := addBook(t, mgr, "Savushun", "Simin Daneshvar", 1)
	loan, err := mgr.IssueLoan("10000001", book.ID, 0)
	require.NoError(t, err)

	_, err = mgr.EditBook(book.ID, BookFields{Title: other.Title, Author: other.Author, TotalCopies: 2})
	require.ErrorIs(t, err, ErrValidation)

	// Publish date alone does not change the key.
	same, err := mgr.EditBook(book.ID, BookFields{Title: "Suvashun", Author: "Daneshvar", PublishDate: "1969", TotalCopies: 2})
	require.NoError(t, err)
	assert.Equal(t, book.ID, same.ID)
	assert.Equal(t, "1969", same.PublishDate)

	renamed, err := mgr.EditBook(book.ID, BookFields{Title: "Suvashun", Author: "Simin", PublishDate: "1969", TotalCopies: 2})
	require.NoError(t, err)
	assert.Equal(t, "Suvashun_Simin_1969", renamed.ID)

	// Issued loans keep the key and title they were issued under.
	got, err := mgr.GetLoan(loan.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, got.BookID)
	assert.Equal(t, "Suvashun", got.BookTitle)
}

func TestEditBookErrors(t *testing.T) {
	mgr, _ := newManager(t)
	book := addBook(t, mgr, "Suvashun", "Daneshvar", 2)

	_, err := mgr.EditBook("missing", BookFields{Title: "A", Author: "B", TotalCopies: 1})
	require.ErrorIs(t, err, ErrNotFound)
	_, err = mgr.EditBook(book.ID, BookFields{Title: "A", Author: "B", TotalCopies: 0})
	require.ErrorIs(t, err, ErrValidation)
	_, err = mgr.EditBook(book.ID, BookFields{Title: "", Author: "B", TotalCopies: 1})
	require.ErrorIs(t, err, ErrValidation)
}

func TestDeleteBook(t *testing.T) {
	mgr, _ := newManager(t)
	addMember(t, mgr, "10000001", "Ali", "Rezaei")
	book := addBook(t, mgr, "Suvashun", "Daneshvar", 2)
	loan, err := mgr.IssueLoan("10000001", book.ID, 0)
	require.NoError(t, err)

	require.ErrorIs(t, mgr.DeleteBook(book.ID), ErrConstraint)
	require.ErrorIs(t, mgr.DeleteBook("missing"), ErrNotFound)

	_, err = mgr.ReturnBook(loan.ID, SettleNow)
	require.NoError(t, err)
	require.NoError(t, mgr.DeleteBook(book.ID))
	_, err = mgr.GetBook(book.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
