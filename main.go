package main

import (
	"errors"
	"fmt"
	"os"

	"library-ledger/config"
	"library-ledger/library"
)

func main() {
	config.LoadEnvFiles(".env", ".env.local")

	a := newApp(os.Stdin, os.Stdout, os.Stderr, stdinIsTerminal())
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		os.Exit(1)
	}
}

// describeError turns an error into the message shown to the user.
func describeError(err error) string {
	if errors.Is(err, errNotConfirmed) {
		return "Cancelled."
	}
	var le *library.Error
	if !errors.As(err, &le) {
		return fmt.Sprintf("Error: %v", err)
	}
	switch le.Kind {
	case library.KindNotFound:
		return fmt.Sprintf("Not found: %v", err)
	case library.KindConstraint:
		return fmt.Sprintf("Not allowed: %v", err)
	case library.KindValidation:
		return fmt.Sprintf("Invalid input: %v", err)
	case library.KindPersistence:
		return fmt.Sprintf("Could not access the data file: %v", err)
	case library.KindDataFormat:
		return fmt.Sprintf("Malformed data: %v", err)
	}
	return fmt.Sprintf("Error: %v", err)
}
