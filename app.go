package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"library-ledger/config"
	"library-ledger/library"

	"github.com/spf13/cobra"
	"golang.org/x/text/message"
)

// app is the state shared by every command: one open library, the
// resolved configuration and the terminal it talks to.
type app struct {
	cfg     config.Config
	mgr     *library.LibraryManager
	logger  *slog.Logger
	printer *message.Printer

	// loadErr is set while the data file does not decode. Only commands
	// annotated with recoveryCmd run until a restore clears it.
	loadErr error

	in          *bufio.Reader
	out         io.Writer
	errOut      io.Writer
	interactive bool

	flags struct {
		configPath string
		dataFile   string
		backupDir  string
		logLevel   string
		logFormat  string
		locale     string
		yes        bool
	}
}

func newApp(in io.Reader, out, errOut io.Writer, interactive bool) *app {
	return &app{
		in:          bufio.NewReader(in),
		out:         out,
		errOut:      errOut,
		interactive: interactive,
	}
}

// newRootCmd builds the full command tree. The shell builds a fresh tree for
// every line it reads, so nothing here may hold per-run state outside app.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "library",
		Short:         "Manage library members, books and loans",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(cmd); err != nil {
				return err
			}
			if a.loadErr != nil && cmd.Annotations[recoveryCmd] == "" {
				return fmt.Errorf("%w (restore a backup with 'backup restore')", a.loadErr)
			}
			return nil
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "YAML config file (default $"+config.FileEnv+")")
	pf.StringVar(&a.flags.dataFile, "data", "", "library data file")
	pf.StringVar(&a.flags.backupDir, "backup-dir", "", "directory for backups")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&a.flags.logFormat, "log-format", "", "text or json")
	pf.StringVar(&a.flags.locale, "locale", "", "locale for number formatting, e.g. en or fa")
	pf.BoolVarP(&a.flags.yes, "yes", "y", false, "answer yes to every confirmation")

	root.AddCommand(
		newMemberCmd(a),
		newBookCmd(a),
		newLoanCmd(a),
		newFinesCmd(a),
		newSettingsCmd(a),
		newBackupCmd(a),
		newStatsCmd(a),
		newShellCmd(a),
	)
	return root
}

// recoveryCmd marks commands that still run when the data file is malformed.
const recoveryCmd = "recovery"

// open resolves configuration and loads the library once per process.
func (a *app) open(cmd *cobra.Command) error {
	if a.mgr != nil {
		return nil
	}

	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataFile = a.flags.dataFile
	}
	if flags.Changed("backup-dir") {
		cfg.BackupDir = a.flags.backupDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.flags.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = a.flags.logFormat
	}
	if flags.Changed("locale") {
		cfg.Locale = a.flags.locale
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	a.logger, err = newLogger(cfg, a.errOut)
	if err != nil {
		return err
	}
	tag, err := cfg.Language()
	if err != nil {
		return err
	}
	a.printer = message.NewPrinter(tag)

	opts := []library.Option{
		library.WithLogger(a.logger),
		library.WithBackupDir(cfg.BackupDir),
	}
	a.mgr, err = library.NewLibraryManager(cfg.DataFile, opts...)
	switch {
	case errors.Is(err, library.ErrDataFormat):
		a.logger.Warn("data file is malformed, only backup commands are available",
			"path", cfg.DataFile, "err", err)
		a.loadErr = fmt.Errorf("open library %s: %w", cfg.DataFile, err)
		a.mgr = library.NewEmptyLibraryManager(cfg.DataFile, opts...)
	case err != nil:
		return fmt.Errorf("open library %s: %w", cfg.DataFile, err)
	}
	return nil
}

func newLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// stdinIsTerminal reports whether confirmations can be asked interactively.
func stdinIsTerminal() bool {
	return isTerminal(os.Stdin.Fd())
}
