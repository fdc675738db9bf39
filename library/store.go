package library

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errTxDone = errors.New("transaction already committed or rolled back")

// Logger is the logging surface the store writes to. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. Load, save, backup and restore are logged at
// info level, every individual write at debug level.
func WithLogger(logger Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithBackupDir sets the directory backups are written to.
func WithBackupDir(dir string) Option {
	return func(s *Store) { s.backupDir = dir }
}

// Store keeps the library document in memory and mirrors every committed
// change to a single JSON file. It is not safe for concurrent use.
type Store struct {
	path      string
	backupDir string
	doc       *Document
	logger    Logger
	now       func() time.Time
}

// NewStore returns an empty store bound to path. Call Load to read the file.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:      path,
		backupDir: "backup",
		doc:       newDocument(),
		logger:    nopLogger{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path is the data file location.
func (s *Store) Path() string { return s.path }

// BackupDir is where Backup writes snapshots.
func (s *Store) BackupDir() string { return s.backupDir }

// Load reads the data file if present. A missing file leaves the store empty.
// On any error the in-memory state is left as it was.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("no data file yet, starting empty", "path", s.path)
		return nil
	}
	if err != nil {
		return persistenceErr(fmt.Sprintf("read %s", s.path), err)
	}

	doc, err := s.decode(data)
	if err != nil {
		return err
	}
	s.doc = doc
	s.logger.Info("library loaded",
		"path", s.path,
		"members", len(doc.Members),
		"books", len(doc.Books),
		"loans", len(doc.Loans))
	return nil
}

// Save rewrites the whole data file from memory.
func (s *Store) Save() error { return s.write(s.doc) }

func (s *Store) write(doc *Document) error {
	data, err := encodeDocument(doc)
	if err != nil {
		return persistenceErr("encode library document", err)
	}
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return persistenceErr("create data dir", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return persistenceErr(fmt.Sprintf("write %s", s.path), err)
	}
	s.logger.Debug("library saved", "path", s.path, "bytes", len(data))
	return nil
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() *Document { return s.doc.clone() }

// Settings returns the current loan rules.
func (s *Store) Settings() Settings { return s.doc.Settings }

// UpdateSettings validates and persists new loan rules.
func (s *Store) UpdateSettings(settings Settings) error {
	if err := settings.validate(); err != nil {
		return err
	}
	tx := s.Begin()
	defer tx.Rollback()

	tx.doc.Settings = settings
	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("settings updated",
		"default_loan_period", settings.DefaultLoanPeriod,
		"fine_per_day", settings.FinePerDay)
	return nil
}

// today is the current calendar date at UTC midnight.
func (s *Store) today() time.Time {
	n := s.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// ---------------------------------------------------------------------------
// Transactions
// ---------------------------------------------------------------------------

// Tx is a working copy of the document. Changes become visible, and are
// written to disk, only on Commit; a failed write leaves the store untouched.
type Tx struct {
	store *Store
	doc   *Document
	done  bool
}

// Begin starts a transaction on a deep copy of the current document.
func (s *Store) Begin() *Tx {
	return &Tx{store: s, doc: s.doc.clone()}
}

// Commit saves the working copy and swaps it in.
func (tx *Tx) Commit() error {
	if tx.done {
		return errTxDone
	}
	tx.done = true
	if err := tx.store.write(tx.doc); err != nil {
		return err
	}
	tx.store.doc = tx.doc
	return nil
}

// Rollback discards the working copy. It is a no-op after Commit.
func (tx *Tx) Rollback() { tx.done = true }

// ---------------------------------------------------------------------------
// Encoding
// ---------------------------------------------------------------------------

func encodeDocument(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// rawDocument mirrors Document with optional settings keys so a file can
// override defaults key by key.
type rawDocument struct {
	Members  []Member `json:"members"`
	Books    []Book   `json:"books"`
	Loans    []Loan   `json:"loans"`
	Settings *struct {
		DefaultLoanPeriod *int   `json:"default_loan_period"`
		FinePerDay        *int64 `json:"fine_per_day"`
	} `json:"settings"`
}

func (s *Store) decode(data []byte) (*Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, dataFormatErr("decode library document", err)
	}

	doc := newDocument()
	doc.Settings = s.doc.Settings
	if raw.Members != nil {
		doc.Members = raw.Members
	}
	if raw.Books != nil {
		doc.Books = raw.Books
	}
	if raw.Loans != nil {
		doc.Loans = raw.Loans
	}
	if raw.Settings != nil {
		if p := raw.Settings.DefaultLoanPeriod; p != nil {
			doc.Settings.DefaultLoanPeriod = *p
		}
		if f := raw.Settings.FinePerDay; f != nil {
			doc.Settings.FinePerDay = *f
		}
	}
	if err := doc.Settings.validate(); err != nil {
		return nil, dataFormatErr("invalid settings", err)
	}

	// Files written by older versions can hold counts outside 0..total.
	for i := range doc.Books {
		b := &doc.Books[i]
		if b.AvailableCopies < 0 || b.AvailableCopies > b.TotalCopies {
			clamped := min(max(b.AvailableCopies, 0), b.TotalCopies)
			s.logger.Warn("available copies out of range, clamping",
				"book", b.ID, "available", b.AvailableCopies, "total", b.TotalCopies, "clamped", clamped)
			b.AvailableCopies = clamped
		}
	}
	return doc, nil
}
