package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the loan period and daily fine",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := a.mgr.Settings()
			fmt.Fprintf(a.out, "Default loan period: %d days\n", s.DefaultLoanPeriod)
			fmt.Fprintf(a.out, "Fine per day:        %s\n", a.amount(s.FinePerDay))
			return nil
		},
	}

	var (
		period int
		fine   int64
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Change one or both settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := a.mgr.Settings()
			flags := cmd.Flags()
			if !flags.Changed("loan-period") && !flags.Changed("fine-per-day") {
				return fmt.Errorf("nothing to change: pass --loan-period and/or --fine-per-day")
			}
			if flags.Changed("loan-period") {
				s.DefaultLoanPeriod = period
			}
			if flags.Changed("fine-per-day") {
				s.FinePerDay = fine
			}
			if err := a.mgr.UpdateSettings(s); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Settings saved: %d day loans, %s per day overdue\n", s.DefaultLoanPeriod, a.amount(s.FinePerDay))
			return nil
		},
	}
	set.Flags().IntVar(&period, "loan-period", 0, "default loan period in days")
	set.Flags().Int64Var(&fine, "fine-per-day", 0, "fine charged per overdue day")

	cmd.AddCommand(show, set)
	return cmd
}

func newBackupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create, list and restore backups of the library",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Write a timestamped copy of the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := a.mgr.Backup()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Backup written to %s\n", path)
			return nil
		},
	}

	list := &cobra.Command{
		Use:         "list",
		Short:       "List backups, newest first",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{recoveryCmd: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := a.mgr.ListBackups()
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				fmt.Fprintln(a.out, "No backups yet.")
				return nil
			}
			fmt.Fprintf(a.out, "%-45s %-10s %s\n", "File", "Size", "Created")
			fmt.Fprintln(a.out, strings.Repeat("-", 75))
			for _, p := range paths {
				info, err := os.Stat(p)
				if err != nil {
					fmt.Fprintf(a.out, "%-45s %v\n", filepath.Base(p), err)
					continue
				}
				fmt.Fprintf(a.out, "%-45s %-10s %s\n",
					filepath.Base(p),
					humanize.Bytes(uint64(info.Size())),
					humanize.Time(info.ModTime()))
			}
			return nil
		},
	}

	restore := &cobra.Command{
		Use:         "restore <file>",
		Short:       "Replace the library with a backup",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{recoveryCmd: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			// A bare file name refers to the backup directory.
			if !strings.ContainsRune(path, os.PathSeparator) {
				if _, err := os.Stat(path); err != nil {
					path = filepath.Join(a.cfg.BackupDir, path)
				}
			}
			if err := a.confirm(fmt.Sprintf("Replace all current data with %s?", filepath.Base(path))); err != nil {
				return err
			}
			if err := a.mgr.Restore(path); err != nil {
				return err
			}
			a.loadErr = nil
			st := a.mgr.Stats()
			fmt.Fprintf(a.out, "Restored %d members, %d books and %d active loans from %s\n",
				st.Members, st.Books, st.ActiveLoans, path)
			return nil
		},
	}

	cmd.AddCommand(create, list, restore)
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show library counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := a.mgr.Stats()
			fmt.Fprintf(a.out, "Members:          %d\n", st.Members)
			fmt.Fprintf(a.out, "Books:            %d\n", st.Books)
			fmt.Fprintf(a.out, "Active loans:     %d\n", st.ActiveLoans)
			fmt.Fprintf(a.out, "Available copies: %d\n", st.AvailableCopies)
			if overdue := a.mgr.Overdue(); len(overdue) > 0 {
				fmt.Fprintf(a.out, "Overdue loans:    %d\n", len(overdue))
			}
			return nil
		},
	}
}
