package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"library-ledger/library"

	"golang.org/x/term"
)

var errNotConfirmed = errors.New("cancelled")

func isTerminal(fd uintptr) bool { return term.IsTerminal(int(fd)) }

// readLine prints prompt and reads one line of input.
func (a *app) readLine(prompt string) (string, error) {
	fmt.Fprint(a.out, prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question. --yes answers it up front; without a
// terminal and without --yes the action is refused.
func (a *app) confirm(question string) error {
	if a.flags.yes {
		return nil
	}
	if !a.interactive {
		return fmt.Errorf("%s: pass --yes to confirm when input is not a terminal", question)
	}
	answer, err := a.readLine(question + " [y/N]: ")
	if err != nil {
		return err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return nil
	}
	return errNotConfirmed
}

// settlement decides what happens to an overdue fine at return time. An
// explicit --settle wins; on a terminal the borrower is asked; otherwise the
// fine stays on the member's account.
func (a *app) settlement(flag string, fine int64) (library.Settlement, error) {
	if flag != "" {
		return library.ParseSettlement(flag)
	}
	if fine == 0 {
		return library.SettleNow, nil
	}
	if !a.interactive {
		return library.SettleLater, nil
	}
	answer, err := a.readLine(fmt.Sprintf("Fine of %s is due. Pay it now? [y/N]: ", a.amount(fine)))
	if err != nil {
		return library.SettleLater, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return library.SettleNow, nil
	}
	return library.SettleLater, nil
}
