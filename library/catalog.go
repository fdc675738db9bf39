package library

import "strings"

// Catalog manages members and books.
type Catalog struct {
	store *Store
}

// NewCatalog returns a catalog backed by store.
func NewCatalog(store *Store) *Catalog { return &Catalog{store: store} }

// ------------------ Members ------------------

// AddMember registers a member. The student ID must be present and unused.
func (c *Catalog) AddMember(f MemberFields) (Member, error) {
	m := trimMember(f)
	if m.StudentID == "" {
		return Member{}, validationf("student id is required")
	}

	tx := c.store.Begin()
	defer tx.Rollback()

	if _, existing := tx.doc.member(m.StudentID); existing != nil {
		return Member{}, validationf("a member with student id %s already exists", m.StudentID)
	}
	tx.doc.Members = append(tx.doc.Members, m)
	if err := tx.Commit(); err != nil {
		return Member{}, err
	}

	c.store.logger.Info("member added", "student_id", m.StudentID)
	return m, nil
}

// EditMember replaces every field of the member, the student ID included.
// When the ID changes, the member's loans follow it.
func (c *Catalog) EditMember(studentID string, f MemberFields) (Member, error) {
	m := trimMember(f)
	if m.StudentID == "" {
		return Member{}, validationf("student id is required")
	}

	tx := c.store.Begin()
	defer tx.Rollback()

	_, current := tx.doc.member(studentID)
	if current == nil {
		return Member{}, notFoundf("member %s does not exist", studentID)
	}
	if m.StudentID != studentID {
		if _, other := tx.doc.member(m.StudentID); other != nil {
			return Member{}, validationf("a member with student id %s already exists", m.StudentID)
		}
		for i := range tx.doc.Loans {
			if tx.doc.Loans[i].MemberID == studentID {
				tx.doc.Loans[i].MemberID = m.StudentID
			}
		}
	}
	*current = m
	if err := tx.Commit(); err != nil {
		return Member{}, err
	}

	c.store.logger.Info("member updated", "student_id", studentID, "new_student_id", m.StudentID)
	return m, nil
}

// DeleteMember removes a member that has no active loan.
func (c *Catalog) DeleteMember(studentID string) error {
	tx := c.store.Begin()
	defer tx.Rollback()

	i, m := tx.doc.member(studentID)
	if m == nil {
		return notFoundf("member %s does not exist", studentID)
	}
	for _, l := range tx.doc.Loans {
		if l.MemberID == studentID && l.Active() {
			return constraintf("member %s has a book on loan and cannot be deleted", studentID)
		}
	}
	tx.doc.Members = append(tx.doc.Members[:i], tx.doc.Members[i+1:]...)
	if err := tx.Commit(); err != nil {
		return err
	}

	c.store.logger.Info("member deleted", "student_id", studentID)
	return nil
}

// Member fetches a single member.
func (c *Catalog) Member(studentID string) (Member, error) {
	_, m := c.store.doc.member(studentID)
	if m == nil {
		return Member{}, notFoundf("member %s does not exist", studentID)
	}
	return *m, nil
}

// Members returns all members in registration order.
func (c *Catalog) Members() []Member {
	return append([]Member{}, c.store.doc.Members...)
}

func trimMember(f MemberFields) Member {
	return Member{
		StudentID:  strings.TrimSpace(f.StudentID),
		NationalID: strings.TrimSpace(f.NationalID),
		Phone:      strings.TrimSpace(f.Phone),
		FirstName:  strings.TrimSpace(f.FirstName),
		LastName:   strings.TrimSpace(f.LastName),
	}
}

// ------------------ Books ------------------

// AddBook adds copies of a title. A book with the same derived ID gets its
// copy counts increased instead of a second entry.
func (c *Catalog) AddBook(title, author, publishDate string, copies int) (Book, error) {
	title, author, publishDate = strings.TrimSpace(title), strings.TrimSpace(author), strings.TrimSpace(publishDate)
	if title == "" || author == "" {
		return Book{}, validationf("title and author are required")
	}
	if copies < 1 {
		return Book{}, validationf("copies must be at least 1, got %d", copies)
	}

	tx := c.store.Begin()
	defer tx.Rollback()

	id := BookID(title, author, publishDate)
	_, b := tx.doc.book(id)
	if b != nil {
		b.TotalCopies += copies
		b.AvailableCopies += copies
	} else {
		tx.doc.Books = append(tx.doc.Books, Book{
			ID:              id,
			Title:           title,
			Author:          author,
			PublishDate:     publishDate,
			TotalCopies:     copies,
			AvailableCopies: copies,
		})
		_, b = tx.doc.book(id)
	}
	added := *b
	if err := tx.Commit(); err != nil {
		return Book{}, err
	}

	c.store.logger.Info("book added", "book", id, "copies", copies, "total", added.TotalCopies)
	return added, nil
}

// EditBook updates a book's descriptive fields and copy count. Available
// copies move by the change in total, floored at zero. The ID is re-derived
// when title or author change; loans already issued keep the old book ID and
// title as a historical record.
func (c *Catalog) EditBook(bookID string, f BookFields) (Book, error) {
	title, author, publishDate := strings.TrimSpace(f.Title), strings.TrimSpace(f.Author), strings.TrimSpace(f.PublishDate)
	if title == "" || author == "" {
		return Book{}, validationf("title and author are required")
	}
	if f.TotalCopies < 1 {
		return Book{}, validationf("total copies must be at least 1, got %d", f.TotalCopies)
	}

	tx := c.store.Begin()
	defer tx.Rollback()

	_, b := tx.doc.book(bookID)
	if b == nil {
		return Book{}, notFoundf("book %s does not exist", bookID)
	}

	newID := b.ID
	if title != b.Title || author != b.Author {
		newID = BookID(title, author, publishDate)
		if _, other := tx.doc.book(newID); other != nil && other != b {
			return Book{}, validationf("a book with id %s already exists", newID)
		}
	}

	diff := f.TotalCopies - b.TotalCopies
	b.ID = newID
	b.Title = title
	b.Author = author
	b.PublishDate = publishDate
	b.TotalCopies = f.TotalCopies
	b.AvailableCopies = min(max(0, b.AvailableCopies+diff), b.TotalCopies)
	edited := *b
	if err := tx.Commit(); err != nil {
		return Book{}, err
	}

	c.store.logger.Info("book updated", "book", bookID, "new_book", newID, "total", edited.TotalCopies)
	return edited, nil
}

// DeleteBook removes a book with no copies out on loan.
func (c *Catalog) DeleteBook(bookID string) error {
	tx := c.store.Begin()
	defer tx.Rollback()

	i, b := tx.doc.book(bookID)
	if b == nil {
		return notFoundf("book %s does not exist", bookID)
	}
	if b.AvailableCopies != b.TotalCopies {
		return constraintf("book %s has %d copies on loan and cannot be deleted", bookID, b.OnLoan())
	}
	tx.doc.Books = append(tx.doc.Books[:i], tx.doc.Books[i+1:]...)
	if err := tx.Commit(); err != nil {
		return err
	}

	c.store.logger.Info("book deleted", "book", bookID)
	return nil
}

// Book fetches a single book.
func (c *Catalog) Book(bookID string) (Book, error) {
	_, b := c.store.doc.book(bookID)
	if b == nil {
		return Book{}, notFoundf("book %s does not exist", bookID)
	}
	return *b, nil
}

// Books returns all books in catalog order.
func (c *Catalog) Books() []Book {
	return append([]Book{}, c.store.doc.Books...)
}
