// Command seed_data builds a sample library data file by running members,
// books and a few months of circulation through the library API.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"library-ledger/library"

	"github.com/spf13/cobra"
)

var (
	firstNames = []string{"علی", "محمد", "رضا", "حسین", "مهدی", "امیر", "سجاد", "یاسین", "زهرا", "فاطمه", "مریم", "سارا", "نرگس", "لیلا", "آتنا"}
	lastNames  = []string{"احمدی", "محمدی", "رضایی", "کریمی", "جعفری", "حسینی", "قربانی", "صادقی", "سلطانی", "یوسفی", "کاظمی", "موسوی", "نجفی", "رضوانی"}
)

type options struct {
	out     string
	members int
	books   int
	days    int
	perDay  int
	seed    uint64
	force   bool
	verbose bool
}

func main() {
	var opts options
	cmd := &cobra.Command{
		Use:          "seed_data",
		Short:        "Generate a sample library data file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return seed(opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.out, "out", "library_data.json", "data file to write")
	flags.IntVar(&opts.members, "members", 200, "number of members")
	flags.IntVar(&opts.books, "books", 120, "number of distinct titles")
	flags.IntVar(&opts.days, "days", 90, "days of circulation to simulate, ending today")
	flags.IntVar(&opts.perDay, "loans-per-day", 4, "maximum loans issued per simulated day")
	flags.Uint64Var(&opts.seed, "seed", 1, "random seed")
	flags.BoolVar(&opts.force, "force", false, "overwrite an existing data file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log every operation")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func seed(opts options) error {
	if opts.members < 1 || opts.books < 1 || opts.days < 0 || opts.perDay < 0 {
		return errors.New("members and books must be at least 1, days and loans-per-day not negative")
	}
	if _, err := os.Stat(opts.out); err == nil {
		if !opts.force {
			return fmt.Errorf("%s already exists, pass --force to replace it", opts.out)
		}
		fmt.Println("Removing existing data file...")
		if err := os.Remove(opts.out); err != nil {
			return fmt.Errorf("remove %s: %w", opts.out, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))
	today := time.Now()
	clock := today.AddDate(0, 0, -opts.days)

	manager, err := library.NewLibraryManager(opts.out,
		library.WithLogger(logger),
		library.WithClock(func() time.Time { return clock }))
	if err != nil {
		return err
	}

	fmt.Printf("Adding %d members...\n", opts.members)
	memberIDs := make([]string, 0, opts.members)
	for i := range opts.members {
		m, err := manager.AddMember(library.MemberFields{
			StudentID:  fmt.Sprintf("%d", 10000000+i),
			NationalID: fmt.Sprintf("07%08d", rng.IntN(100000000)),
			Phone:      fmt.Sprintf("0915%07d", rng.IntN(10000000)),
			FirstName:  firstNames[rng.IntN(len(firstNames))],
			LastName:   lastNames[rng.IntN(len(lastNames))],
		})
		if err != nil {
			return err
		}
		memberIDs = append(memberIDs, m.StudentID)
	}

	fmt.Printf("Adding %d books...\n", opts.books)
	bookIDs := make([]string, 0, opts.books)
	for i := 1; i <= opts.books; i++ {
		b, err := manager.AddBook(
			fmt.Sprintf("کتاب %d", i),
			fmt.Sprintf("نویسنده %d", i),
			fmt.Sprintf("%d", 1395+rng.IntN(8)),
			1+rng.IntN(8))
		if err != nil {
			return err
		}
		bookIDs = append(bookIDs, b.ID)
	}

	fmt.Printf("Simulating %d days of circulation...\n", opts.days)
	issued, returned, refused := 0, 0, 0
	for day := 0; day < opts.days; day++ {
		clock = today.AddDate(0, 0, day-opts.days)

		for range rng.IntN(opts.perDay + 1) {
			_, err := manager.IssueLoan(
				memberIDs[rng.IntN(len(memberIDs))],
				bookIDs[rng.IntN(len(bookIDs))],
				7+rng.IntN(15))
			switch {
			case errors.Is(err, library.ErrConstraint):
				refused++
			case err != nil:
				return err
			default:
				issued++
			}
		}

		for _, l := range manager.ActiveLoans() {
			// About one active loan in twelve changes each day.
			if rng.IntN(12) != 0 {
				continue
			}
			if rng.IntN(3) == 0 {
				if _, err := manager.RenewLoan(l.ID, 7); err != nil {
					return err
				}
				continue
			}
			settle := library.SettleLater
			if rng.IntN(2) == 0 {
				settle = library.SettleNow
			}
			if _, err := manager.ReturnBook(l.ID, settle); err != nil {
				return err
			}
			returned++
		}
	}

	stats := manager.Stats()
	fmt.Printf("\nSeed complete! Data written to %s\n", opts.out)
	fmt.Printf("Loans issued: %d | returned: %d | refused (no copies left): %d\n", issued, returned, refused)
	fmt.Printf("Members: %d | Books: %d | Active loans: %d | Available copies: %d\n",
		stats.Members, stats.Books, stats.ActiveLoans, stats.AvailableCopies)

	clock = today
	if overdue := manager.Overdue(); len(overdue) > 0 {
		fmt.Println("\nOverdue today:")
		fmt.Printf("%-6s %-30s %-20s %s\n", "Loan", "Member", "Title", "Days late")
		fmt.Println(strings.Repeat("-", 70))
		for _, l := range overdue[:min(len(overdue), 10)] {
			fmt.Printf("%-6d %-30s %-20s %d\n", l.ID, l.MemberName, l.BookTitle, l.DaysLate)
		}
		if len(overdue) > 10 {
			fmt.Printf("... and %d more\n", len(overdue)-10)
		}
	}
	return nil
}
