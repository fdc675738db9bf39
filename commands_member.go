package main

import (
	"fmt"
	"strings"

	"library-ledger/library"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newMemberCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "member",
		Aliases: []string{"members"},
		Short:   "Register, edit, remove and look up members",
	}
	cmd.AddCommand(
		newMemberAddCmd(a),
		newMemberEditCmd(a),
		newMemberDeleteCmd(a),
		newMemberListCmd(a),
		newMemberSearchCmd(a),
		newMemberShowCmd(a),
	)
	return cmd
}

func memberFlags(fs *pflag.FlagSet, f *library.MemberFields) {
	fs.StringVar(&f.StudentID, "id", "", "student ID")
	fs.StringVar(&f.NationalID, "national-id", "", "national ID")
	fs.StringVar(&f.Phone, "phone", "", "phone number")
	fs.StringVar(&f.FirstName, "first", "", "first name")
	fs.StringVar(&f.LastName, "last", "", "last name")
}

func newMemberAddCmd(a *app) *cobra.Command {
	var f library.MemberFields
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.mgr.AddMember(f)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added member '%s' with student ID %s\n", m.FullName(), m.StudentID)
			return nil
		},
	}
	memberFlags(cmd.Flags(), &f)
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newMemberEditCmd(a *app) *cobra.Command {
	var f library.MemberFields
	cmd := &cobra.Command{
		Use:   "edit <student-id>",
		Short: "Change a member's details; omitted flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := a.mgr.GetMember(args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			keep := func(name string, dst *string, old string) {
				if !flags.Changed(name) {
					*dst = old
				}
			}
			keep("id", &f.StudentID, current.StudentID)
			keep("national-id", &f.NationalID, current.NationalID)
			keep("phone", &f.Phone, current.Phone)
			keep("first", &f.FirstName, current.FirstName)
			keep("last", &f.LastName, current.LastName)

			m, err := a.mgr.EditMember(args[0], f)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated member %s\n", m.StudentID)
			return nil
		},
	}
	memberFlags(cmd.Flags(), &f)
	return cmd
}

func newMemberDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <student-id>",
		Short: "Remove a member with no book on loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.mgr.GetMember(args[0])
			if err != nil {
				return err
			}
			if err := a.confirm(fmt.Sprintf("Delete member '%s' (%s)?", m.FullName(), m.StudentID)); err != nil {
				return err
			}
			if err := a.mgr.DeleteMember(m.StudentID); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted member %s\n", m.StudentID)
			return nil
		},
	}
}

func newMemberListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.printMembers(a.mgr.GetAllMembers(), "No members registered.")
			return nil
		},
	}
}

func newMemberSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <terms...>",
		Short: "Find members whose name, IDs or phone match every term",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := normalizeQuery(strings.Join(args, " "))
			members := a.mgr.SearchMembers(query)
			if len(members) > 0 {
				fmt.Fprintf(a.out, "Found %d member(s) matching '%s':\n", len(members), query)
			}
			a.printMembers(members, fmt.Sprintf("No members found matching '%s'.", query))
			return nil
		},
	}
}

func (a *app) printMembers(members []library.Member, empty string) {
	if len(members) == 0 {
		fmt.Fprintln(a.out, empty)
		return
	}
	fmt.Fprintf(a.out, "%-12s %-30s %-12s %-14s\n", "Student ID", "Name", "National ID", "Phone")
	fmt.Fprintln(a.out, strings.Repeat("-", 70))
	for _, m := range members {
		fmt.Fprintf(a.out, "%-12s %-30s %-12s %-14s\n",
			m.StudentID,
			truncateString(m.FullName(), 30),
			m.NationalID,
			m.Phone)
	}
}

func newMemberShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <student-id>",
		Short: "Show a member's loans and what they owe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := a.mgr.MemberReport(args[0])
			if err != nil {
				return err
			}
			m := rep.Member
			fmt.Fprintf(a.out, "%s (%s)\n", m.FullName(), m.StudentID)
			fmt.Fprintf(a.out, "National ID: %s | Phone: %s\n", m.NationalID, m.Phone)

			fmt.Fprintln(a.out, "\nActive loans:")
			if len(rep.Active) == 0 {
				fmt.Fprintln(a.out, "None")
			} else {
				fmt.Fprintf(a.out, "%-6s %-30s %-12s %-12s %-10s %s\n", "Loan", "Title", "Loaned", "Due", "Days left", "Fine")
				fmt.Fprintln(a.out, strings.Repeat("-", 85))
				for _, l := range rep.Active {
					fmt.Fprintf(a.out, "%-6d %-30s %-12s %-12s %-10d %s\n",
						l.ID,
						truncateString(l.BookTitle, 30),
						date(l.LoanDate),
						date(l.DueDate),
						l.DaysRemaining,
						a.amount(l.Fine))
				}
			}

			fmt.Fprintln(a.out, "\nHistory:")
			if len(rep.History) == 0 {
				fmt.Fprintln(a.out, "None")
			} else {
				fmt.Fprintf(a.out, "%-6s %-30s %-12s %-12s %s\n", "Loan", "Title", "Loaned", "Returned", "Unpaid")
				fmt.Fprintln(a.out, strings.Repeat("-", 75))
				for _, l := range rep.History {
					fmt.Fprintf(a.out, "%-6d %-30s %-12s %-12s %s\n",
						l.ID,
						truncateString(l.BookTitle, 30),
						date(l.LoanDate),
						returnedOn(l),
						a.amount(l.UnpaidFine))
				}
			}

			fmt.Fprintf(a.out, "\nTotal unpaid: %s\n", a.amount(rep.TotalUnpaid))
			return nil
		},
	}
}
