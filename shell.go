package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
)

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "shell",
		Short:       "Run commands interactively against one open library",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{recoveryCmd: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runShell()
		},
	}
}

func (a *app) runShell() error {
	fmt.Fprintln(a.out, "Welcome to the Library Management System!")
	fmt.Fprintln(a.out, "Available commands:")
	fmt.Fprintln(a.out, "  Members: member add|edit|delete|list|search|show")
	fmt.Fprintln(a.out, "  Books: book add|edit|delete|list|search|show")
	fmt.Fprintln(a.out, "  Circulation: loan issue|renew|return|list|search|overdue, fines pay")
	fmt.Fprintln(a.out, "  System: settings show|set, backup create|list|restore, stats, help, exit")
	fmt.Fprintf(a.out, "Data file: %s\n", a.mgr.DataPath())
	if a.loadErr != nil {
		fmt.Fprintln(a.out, describeError(a.loadErr))
	}

	// Registering the flags again resets them, so --yes given to the
	// shell itself is re-applied to every line.
	yes := a.flags.yes

	for {
		line, err := a.readLine("\n> ")
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(a.out)
			return nil
		}
		if err != nil {
			return err
		}

		args, err := splitArgs(line)
		if err != nil {
			fmt.Fprintf(a.out, "Error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "exit", "quit":
			fmt.Fprintln(a.out, "Goodbye!")
			return nil
		case "shell":
			fmt.Fprintln(a.out, "Already in the shell.")
			continue
		}

		root := newRootCmd(a)
		a.flags.yes = yes
		root.SetArgs(args)
		if err := root.Execute(); err != nil {
			fmt.Fprintln(a.out, describeError(err))
		}
	}
}

// splitArgs breaks a shell line into words. Single or double quotes group
// words with spaces; a backslash escapes the next character outside single
// quotes.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case unicode.IsSpace(r):
			if inWord {
				args = append(args, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, errors.New("trailing backslash")
	}
	if inWord {
		args = append(args, cur.String())
	}
	return args, nil
}
