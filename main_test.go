package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"library-ledger/library"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t   *testing.T
	dir string
}

func newCLI(t *testing.T) *cli {
	return &cli{t: t, dir: t.TempDir()}
}

func (c *cli) dataFile() string { return filepath.Join(c.dir, "library_data.json") }

// run executes one command line against the temp library, feeding stdin.
func (c *cli) run(stdin string, interactive bool, args ...string) (string, error) {
	c.t.Helper()
	var out, errOut bytes.Buffer
	a := newApp(strings.NewReader(stdin), &out, &errOut, interactive)
	root := newRootCmd(a)
	root.SetArgs(append([]string{
		"--data", c.dataFile(),
		"--backup-dir", filepath.Join(c.dir, "backup"),
		"--log-level", "error",
	}, args...))
	err := root.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run("", false, args...)
	require.NoError(c.t, err, out)
	return out
}

func TestCLICirculation(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("member", "add", "--id", "10000001", "--first", "Ali", "--last", "Rezaei", "--phone", "09121234567")
	assert.Contains(t, out, "Added member 'Ali Rezaei'")

	out = c.mustRun("book", "add", "--title", "The Blind Owl", "--author", "Hedayat", "--copies", "2")
	assert.Contains(t, out, "The_Blind_Owl_Hedayat_")

	out = c.mustRun("loan", "issue", "10000001", "The_Blind_Owl_Hedayat_", "--days", "7")
	assert.Contains(t, out, "Loan 1: 'The Blind Owl' lent to Ali Rezaei")

	out = c.mustRun("loan", "list")
	assert.Contains(t, out, "The Blind Owl")

	out = c.mustRun("stats")
	assert.Contains(t, out, "Active loans:     1")
	assert.Contains(t, out, "Available copies: 1")

	out = c.mustRun("loan", "return", "1")
	assert.Contains(t, out, "no fine")

	out = c.mustRun("book", "show", "The_Blind_Owl_Hedayat_")
	assert.Contains(t, out, "Ali Rezaei")
	assert.Contains(t, out, "Available: 2")
}

func TestCLIConfirmations(t *testing.T) {
	c := newCLI(t)
	c.mustRun("member", "add", "--id", "10000001", "--first", "Sara")

	_, err := c.run("", false, "member", "delete", "10000001")
	require.ErrorContains(t, err, "--yes")

	_, err = c.run("n\n", true, "member", "delete", "10000001")
	require.ErrorIs(t, err, errNotConfirmed)
	assert.Contains(t, c.mustRun("member", "list"), "Sara")

	out, err := c.run("y\n", true, "member", "delete", "10000001")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted member 10000001")

	c.mustRun("member", "add", "--id", "10000002", "--first", "Reza")
	c.mustRun("member", "delete", "10000002", "--yes")
	assert.Contains(t, c.mustRun("member", "list"), "No members registered.")
}

func writeOverdueLibrary(t *testing.T, c *cli) {
	t.Helper()
	doc := `{
  "members": [{"student_id": "10000001", "first_name": "Mina", "last_name": "Tehrani"}],
  "books": [{"id": "B1", "title": "Kelidar", "author": "Dowlatabadi", "total_copies": 1, "available_copies": 0}],
  "loans": [{"id": 1, "member_id": "10000001", "book_id": "B1", "book_title": "Kelidar",
             "loan_date": "2000-01-01", "due_date": "2000-01-15", "return_date": null, "loan_period": 14}],
  "settings": {"default_loan_period": 14, "fine_per_day": 1000}
}`
	require.NoError(t, os.WriteFile(c.dataFile(), []byte(doc), 0o644))
}

func TestCLIReturnDefersFineWithoutTerminal(t *testing.T) {
	c := newCLI(t)
	writeOverdueLibrary(t, c)

	out := c.mustRun("loan", "overdue")
	assert.Contains(t, out, "Kelidar")

	out = c.mustRun("loan", "return", "1")
	assert.Contains(t, out, "added to the member's account")

	out = c.mustRun("member", "show", "10000001")
	assert.NotContains(t, out, "Total unpaid: 0\n")

	_, err := c.run("", false, "fines", "pay", "10000001")
	require.ErrorContains(t, err, "--yes")

	out = c.mustRun("fines", "pay", "10000001", "--yes")
	assert.Contains(t, out, "across 1 loan(s)")
	out = c.mustRun("member", "show", "10000001")
	assert.Contains(t, out, "Total unpaid: 0\n")
}

func TestCLIReturnAsksOnTerminal(t *testing.T) {
	c := newCLI(t)
	writeOverdueLibrary(t, c)

	out, err := c.run("yes\n", true, "loan", "return", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Pay it now?")
	assert.Contains(t, out, "paid.")

	mgr, err := library.NewLibraryManager(c.dataFile())
	require.NoError(t, err)
	loan, err := mgr.GetLoan(1)
	require.NoError(t, err)
	assert.True(t, loan.FinePaid)
	assert.Zero(t, loan.UnpaidFine)
}

func TestCLIReturnSettleFlag(t *testing.T) {
	c := newCLI(t)
	writeOverdueLibrary(t, c)

	_, err := c.run("", false, "loan", "return", "1", "--settle", "someday")
	require.ErrorIs(t, err, library.ErrValidation)

	out := c.mustRun("loan", "return", "1", "--settle", "now")
	assert.Contains(t, out, "paid.")
}

func TestCLIErrors(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("", false, "loan", "return", "abc")
	require.ErrorContains(t, err, "invalid loan ID")

	_, err = c.run("", false, "book", "show", "nope")
	require.ErrorIs(t, err, library.ErrNotFound)
	assert.True(t, strings.HasPrefix(describeError(err), "Not found:"))

	_, err = c.run("", false, "settings", "set", "--loan-period", "0")
	require.ErrorIs(t, err, library.ErrValidation)
}

func TestCLISettingsAndBackup(t *testing.T) {
	c := newCLI(t)

	c.mustRun("settings", "set", "--fine-per-day", "2500")
	out := c.mustRun("settings", "show")
	assert.Contains(t, out, "2,500")
	assert.Contains(t, out, "14 days")

	out = c.mustRun("backup", "create")
	assert.Contains(t, out, "library_backup_")

	out = c.mustRun("backup", "list")
	assert.Contains(t, out, "library_backup_")

	c.mustRun("settings", "set", "--loan-period", "3")
	paths, err := filepath.Glob(filepath.Join(c.dir, "backup", "library_backup_*.json"))
	require.NoError(t, err)
	require.Len(t, paths, 1)

	out = c.mustRun("backup", "restore", filepath.Base(paths[0]), "--yes")
	assert.Contains(t, out, "Restored 0 members")
	assert.Contains(t, c.mustRun("settings", "show"), "14 days")
}

func TestCLIRestoresOverMalformedDataFile(t *testing.T) {
	c := newCLI(t)
	c.mustRun("member", "add", "--id", "10000001", "--first", "Ali", "--last", "Rezaei")
	c.mustRun("backup", "create")
	paths, err := filepath.Glob(filepath.Join(c.dir, "backup", "library_backup_*.json"))
	require.NoError(t, err)
	require.Len(t, paths, 1)

	require.NoError(t, os.WriteFile(c.dataFile(), []byte("{ corrupt"), 0o644))

	_, err = c.run("", false, "member", "list")
	require.ErrorIs(t, err, library.ErrDataFormat)
	_, err = c.run("", false, "member", "add", "--id", "10000002", "--first", "Sara")
	require.ErrorIs(t, err, library.ErrDataFormat)
	data, err := os.ReadFile(c.dataFile())
	require.NoError(t, err)
	assert.Equal(t, "{ corrupt", string(data))

	out := c.mustRun("backup", "list")
	assert.Contains(t, out, filepath.Base(paths[0]))

	out = c.mustRun("backup", "restore", paths[0], "--yes")
	assert.Contains(t, out, "Restored 1 members")
	assert.Contains(t, c.mustRun("member", "list"), "Ali")
}

func TestShellRestoresOverMalformedDataFile(t *testing.T) {
	c := newCLI(t)
	c.mustRun("member", "add", "--id", "10000001", "--first", "Ali", "--last", "Rezaei")
	out := c.mustRun("backup", "create")
	require.NoError(t, os.WriteFile(c.dataFile(), []byte("{ corrupt"), 0o644))
	paths, err := filepath.Glob(filepath.Join(c.dir, "backup", "library_backup_*.json"))
	require.NoError(t, err)
	require.Len(t, paths, 1, out)

	script := strings.Join([]string{
		`stats`,
		`backup restore ` + filepath.Base(paths[0]),
		`member list`,
	}, "\n") + "\n"
	out, err = c.run(script, false, "--yes", "shell")
	require.NoError(t, err)
	assert.Contains(t, out, "Malformed data:")
	assert.Contains(t, out, "Restored 1 members")
	assert.Contains(t, out, "Rezaei")
}

func TestShellKeepsYesFlag(t *testing.T) {
	c := newCLI(t)
	script := strings.Join([]string{
		`member add --id 10000001 --first Ali`,
		`member add --id 10000002 --first Sara`,
		`member delete 10000001`,
		`member delete 10000002`,
	}, "\n") + "\n"

	out, err := c.run(script, false, "--yes", "shell")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted member 10000001")
	assert.Contains(t, out, "Deleted member 10000002")
	assert.Contains(t, c.mustRun("member", "list"), "No members registered.")
}

func TestShell(t *testing.T) {
	c := newCLI(t)
	script := strings.Join([]string{
		`member add --id 10000001 --first "Ali Akbar" --last Dehkhoda`,
		`member search "ali akbar"`,
		`loan return 9`,
		`shell`,
		`exit`,
	}, "\n") + "\n"

	out, err := c.run(script, false, "shell")
	require.NoError(t, err)
	assert.Contains(t, out, "Added member 'Ali Akbar Dehkhoda'")
	assert.Contains(t, out, "Found 1 member(s)")
	assert.Contains(t, out, "Not found:")
	assert.Contains(t, out, "Already in the shell.")
	assert.Contains(t, out, "Goodbye!")
}

func TestShellEndsAtEOF(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("stats", false, "shell")
	require.NoError(t, err)
	assert.Contains(t, out, "Members:          0")
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"  stats  ", []string{"stats"}},
		{`book add --title "The Blind Owl" --author 'Sadegh Hedayat'`,
			[]string{"book", "add", "--title", "The Blind Owl", "--author", "Sadegh Hedayat"}},
		{`member search a\ b`, []string{"member", "search", "a b"}},
		{`x ""`, []string{"x", ""}},
		{`say 'it\s'`, []string{"say", `it\s`}},
	}
	for _, tt := range tests {
		got, err := splitArgs(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := splitArgs(`book add --title "open`)
	assert.Error(t, err)
	_, err = splitArgs(`trailing\`)
	assert.Error(t, err)
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "علی", normalizeQuery(" علي "))
	assert.Equal(t, "کتاب", normalizeQuery("كتاب"))
	assert.Equal(t, "Hedayat", normalizeQuery("Hedayat"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "abcdefg...", truncateString("abcdefghijklmnop", 10))
	assert.Equal(t, "بوف...", truncateString("بوف کور هدایت", 6))
}
