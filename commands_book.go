package main

import (
	"fmt"
	"strings"

	"library-ledger/library"

	"github.com/spf13/cobra"
)

func newBookCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "book",
		Aliases: []string{"books"},
		Short:   "Catalog books and their copies",
	}
	cmd.AddCommand(
		newBookAddCmd(a),
		newBookEditCmd(a),
		newBookDeleteCmd(a),
		newBookListCmd(a),
		newBookSearchCmd(a),
		newBookShowCmd(a),
	)
	return cmd
}

func newBookAddCmd(a *app) *cobra.Command {
	var (
		title, author, published string
		copies                   int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add copies of a book; an existing title gains copies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.mgr.AddBook(title, author, published, copies)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Book %s now has %d copies (%d available)\n", b.ID, b.TotalCopies, b.AvailableCopies)
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&title, "title", "", "book title")
	fs.StringVar(&author, "author", "", "author")
	fs.StringVar(&published, "published", "", "publish date or year")
	fs.IntVar(&copies, "copies", 1, "number of copies to add")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("author")
	return cmd
}

func newBookEditCmd(a *app) *cobra.Command {
	var f library.BookFields
	cmd := &cobra.Command{
		Use:   "edit <book-id>",
		Short: "Change a book's details or copy count; omitted flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := a.mgr.GetBook(args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("title") {
				f.Title = current.Title
			}
			if !flags.Changed("author") {
				f.Author = current.Author
			}
			if !flags.Changed("published") {
				f.PublishDate = current.PublishDate
			}
			if !flags.Changed("copies") {
				f.TotalCopies = current.TotalCopies
			}

			b, err := a.mgr.EditBook(args[0], f)
			if err != nil {
				return err
			}
			if b.ID != current.ID {
				fmt.Fprintf(a.out, "Book %s is now %s\n", current.ID, b.ID)
			}
			fmt.Fprintf(a.out, "Updated book %s: %d copies (%d available)\n", b.ID, b.TotalCopies, b.AvailableCopies)
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&f.Title, "title", "", "book title")
	fs.StringVar(&f.Author, "author", "", "author")
	fs.StringVar(&f.PublishDate, "published", "", "publish date or year")
	fs.IntVar(&f.TotalCopies, "copies", 0, "total number of copies")
	return cmd
}

func newBookDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <book-id>",
		Short: "Remove a book with no copies on loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.mgr.GetBook(args[0])
			if err != nil {
				return err
			}
			if err := a.confirm(fmt.Sprintf("Delete '%s' by %s?", b.Title, b.Author)); err != nil {
				return err
			}
			if err := a.mgr.DeleteBook(b.ID); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted book %s\n", b.ID)
			return nil
		},
	}
}

func newBookListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.printBooks(a.mgr.GetAllBooks(), "No books in library.")
			return nil
		},
	}
}

func newBookSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <terms...>",
		Short: "Find books by title, author or publish date",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := normalizeQuery(strings.Join(args, " "))
			books := a.mgr.SearchBooks(query)
			if len(books) > 0 {
				fmt.Fprintf(a.out, "Found %d book(s) matching '%s':\n", len(books), query)
			}
			a.printBooks(books, fmt.Sprintf("No books found matching '%s'.", query))
			return nil
		},
	}
}

func (a *app) printBooks(books []library.Book, empty string) {
	if len(books) == 0 {
		fmt.Fprintln(a.out, empty)
		return
	}
	fmt.Fprintf(a.out, "%-30s %-30s %-25s %-10s %-10s %s\n", "ID", "Title", "Author", "Published", "Available", "Borrowed")
	fmt.Fprintln(a.out, strings.Repeat("-", 120))
	for _, b := range books {
		fmt.Fprintf(a.out, "%-30s %-30s %-25s %-10s %-10s %s\n",
			truncateString(b.ID, 30),
			truncateString(b.Title, 30),
			truncateString(b.Author, 25),
			b.PublishDate,
			fmt.Sprintf("%d/%d", b.AvailableCopies, b.TotalCopies),
			yesNo(b.IsBorrowed()))
	}
}

func newBookShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <book-id>",
		Short: "Show a book and every loan issued against it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := a.mgr.BookReport(args[0])
			if err != nil {
				return err
			}
			b := rep.Book
			fmt.Fprintf(a.out, "'%s' by %s", b.Title, b.Author)
			if b.PublishDate != "" {
				fmt.Fprintf(a.out, " (%s)", b.PublishDate)
			}
			fmt.Fprintf(a.out, "\nID: %s | Copies: %d | Available: %d\n", b.ID, b.TotalCopies, b.AvailableCopies)

			fmt.Fprintln(a.out, "\nLoan history:")
			if len(rep.Loans) == 0 {
				fmt.Fprintln(a.out, "None")
				return nil
			}
			fmt.Fprintf(a.out, "%-6s %-30s %-12s %-12s %-12s\n", "Loan", "Member", "Loaned", "Due", "Returned")
			fmt.Fprintln(a.out, strings.Repeat("-", 78))
			for _, l := range rep.Loans {
				fmt.Fprintf(a.out, "%-6d %-30s %-12s %-12s %-12s\n",
					l.ID,
					truncateString(l.MemberName, 30),
					date(l.LoanDate),
					date(l.DueDate),
					returnedOn(l.Loan))
			}
			return nil
		},
	}
}
