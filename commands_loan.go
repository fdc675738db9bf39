package main

import (
	"fmt"
	"strconv"
	"strings"

	"library-ledger/library"

	"github.com/spf13/cobra"
)

func newLoanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "loan",
		Aliases: []string{"loans"},
		Short:   "Issue, renew and return loans",
	}
	cmd.AddCommand(
		newLoanIssueCmd(a),
		newLoanRenewCmd(a),
		newLoanReturnCmd(a),
		newLoanListCmd(a),
		newLoanSearchCmd(a),
		newLoanOverdueCmd(a),
	)
	return cmd
}

func parseLoanID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid loan ID: %s", s)
	}
	return id, nil
}

func newLoanIssueCmd(a *app) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "issue <student-id> <book-id>",
		Short: "Lend one copy of a book to a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loan, err := a.mgr.IssueLoan(args[0], args[1], days)
			if err != nil {
				return err
			}
			member, _ := a.mgr.GetMember(loan.MemberID)
			fmt.Fprintf(a.out, "Loan %d: '%s' lent to %s, due %s\n",
				loan.ID, loan.BookTitle, member.FullName(), date(loan.DueDate))
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "loan period in days (default from settings)")
	return cmd
}

func newLoanRenewCmd(a *app) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "renew <loan-id>",
		Short: "Extend an active loan from its current due date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLoanID(args[0])
			if err != nil {
				return err
			}
			loan, err := a.mgr.RenewLoan(id, days)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Loan %d renewed, now due %s\n", loan.ID, date(loan.DueDate))
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "days to add (default from settings)")
	return cmd
}

func newLoanReturnCmd(a *app) *cobra.Command {
	var settle string
	cmd := &cobra.Command{
		Use:   "return <loan-id>",
		Short: "Return a loaned book, settling or deferring any fine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLoanID(args[0])
			if err != nil {
				return err
			}
			assessed, err := a.mgr.AssessFine(id)
			if err != nil {
				return err
			}
			if assessed.DaysOverdue > 0 {
				fmt.Fprintf(a.out, "Loan %d is %d day(s) overdue.\n", id, assessed.DaysOverdue)
			}
			choice, err := a.settlement(settle, assessed.Fine)
			if err != nil {
				return err
			}

			receipt, err := a.mgr.ReturnBook(id, choice)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Book '%s' returned on %s\n", receipt.Loan.BookTitle, returnedOn(receipt.Loan))
			switch {
			case receipt.Fine == 0:
				fmt.Fprintln(a.out, "Returned on time, no fine.")
			case receipt.Settlement == library.SettleNow:
				fmt.Fprintf(a.out, "Fine of %s paid.\n", a.amount(receipt.Fine))
			default:
				fmt.Fprintf(a.out, "Fine of %s added to the member's account.\n", a.amount(receipt.Fine))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&settle, "settle", "", "pay an overdue fine \"now\" or \"later\"")
	return cmd
}

func newLoanListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active loans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.printLoans(a.mgr.ActiveLoans(), "No active loans.")
			return nil
		},
	}
}

func newLoanSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <terms...>",
		Short: "Find active loans by ID, member, title or date",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := normalizeQuery(strings.Join(args, " "))
			loans := a.mgr.SearchLoans(query)
			if len(loans) > 0 {
				fmt.Fprintf(a.out, "Found %d loan(s) matching '%s':\n", len(loans), query)
			}
			a.printLoans(loans, fmt.Sprintf("No active loans found matching '%s'.", query))
			return nil
		},
	}
}

func (a *app) printLoans(loans []library.LoanView, empty string) {
	if len(loans) == 0 {
		fmt.Fprintln(a.out, empty)
		return
	}
	fmt.Fprintf(a.out, "%-6s %-25s %-30s %-12s %-12s %s\n", "Loan", "Member", "Title", "Loaned", "Due", "Renewed")
	fmt.Fprintln(a.out, strings.Repeat("-", 100))
	for _, l := range loans {
		fmt.Fprintf(a.out, "%-6d %-25s %-30s %-12s %-12s %s\n",
			l.ID,
			truncateString(l.MemberName, 25),
			truncateString(l.BookTitle, 30),
			date(l.LoanDate),
			date(l.DueDate),
			yesNo(l.Renewed))
	}
}

func newLoanOverdueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "List loans past their due date with the fine so far",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			overdue := a.mgr.Overdue()
			if len(overdue) == 0 {
				fmt.Fprintln(a.out, "No overdue loans.")
				return nil
			}
			fmt.Fprintf(a.out, "%-6s %-25s %-30s %-12s %-6s %s\n", "Loan", "Member", "Title", "Due", "Late", "Fine")
			fmt.Fprintln(a.out, strings.Repeat("-", 100))
			var total int64
			for _, l := range overdue {
				total += l.Fine
				fmt.Fprintf(a.out, "%-6d %-25s %-30s %-12s %-6d %s\n",
					l.ID,
					truncateString(l.MemberName, 25),
					truncateString(l.BookTitle, 30),
					date(l.DueDate),
					l.DaysLate,
					a.amount(l.Fine))
			}
			fmt.Fprintf(a.out, "\nOverdue loans: %d | Fines so far: %s\n", len(overdue), a.amount(total))
			return nil
		},
	}
}

func newFinesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fines",
		Short: "Settle fines left on members' accounts",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "pay <student-id>",
		Short: "Mark every unpaid fine of a member as paid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := a.mgr.MemberReport(args[0])
			if err != nil {
				return err
			}
			var owed int64
			for _, l := range rep.History {
				owed += l.UnpaidFine
			}
			if owed == 0 {
				fmt.Fprintf(a.out, "%s has no unpaid fines.\n", rep.Member.FullName())
				return nil
			}
			if err := a.confirm(fmt.Sprintf("Settle %s in fines for %s?", a.amount(owed), rep.Member.FullName())); err != nil {
				return err
			}

			paid, err := a.mgr.PayFines(rep.Member.StudentID)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Settled %s across %d loan(s).\n", a.amount(paid.Amount), paid.Loans)
			return nil
		},
	})
	return cmd
}
