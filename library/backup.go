package library

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/crypto/blake2b"
)

const (
	backupPrefix = "library_backup_"
	backupStamp  = "20060102_150405"
	digestExt    = ".blake2b"
)

// Backup writes the current document to a timestamp-named file in the backup
// directory, next to a BLAKE2b-256 digest of its bytes. It returns the path
// of the backup file.
func (s *Store) Backup() (string, error) {
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", persistenceErr("create backup dir", err)
	}
	data, err := encodeDocument(s.doc)
	if err != nil {
		return "", persistenceErr("encode library document", err)
	}

	stamp := s.now().Format(backupStamp)
	path := filepath.Join(s.backupDir, backupPrefix+stamp+".json")
	for n := 2; exists(path); n++ {
		path = filepath.Join(s.backupDir, fmt.Sprintf("%s%s_%d.json", backupPrefix, stamp, n))
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", persistenceErr(fmt.Sprintf("write backup %s", path), err)
	}
	sum := blake2b.Sum256(data)
	if err := os.WriteFile(path+digestExt, []byte(hex.EncodeToString(sum[:])+"\n"), 0o644); err != nil {
		return "", persistenceErr(fmt.Sprintf("write digest for %s", path), err)
	}

	s.logger.Info("backup written", "path", path, "bytes", len(data))
	return path, nil
}

// ListBackups returns the backup files in the backup directory, newest first.
func (s *Store) ListBackups() ([]string, error) {
	entries, err := os.ReadDir(s.backupDir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, persistenceErr("read backup dir", err)
	}

	paths := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, backupPrefix) || filepath.Ext(name) != ".json" {
			continue
		}
		paths = append(paths, filepath.Join(s.backupDir, name))
	}
	// Timestamped names sort chronologically.
	slices.Sort(paths)
	slices.Reverse(paths)
	return paths, nil
}

// Restore replaces the whole in-memory state with the document at path and
// saves it to the data file. Settings keys missing from the backup keep their
// current values. Nothing changes if the file is missing, malformed, fails its
// digest check, or cannot be saved.
func (s *Store) Restore(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return persistenceErr(fmt.Sprintf("read backup %s", path), err)
	}
	if err := verifyDigest(path, data); err != nil {
		return err
	}

	doc, err := s.decode(data)
	if err != nil {
		return err
	}
	if err := s.write(doc); err != nil {
		return err
	}
	s.doc = doc

	s.logger.Info("library restored",
		"from", path,
		"members", len(doc.Members),
		"books", len(doc.Books),
		"loans", len(doc.Loans))
	return nil
}

// verifyDigest checks data against a sidecar digest when one exists. Files
// without a sidecar are accepted as-is.
func verifyDigest(path string, data []byte) error {
	want, err := os.ReadFile(path + digestExt)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return persistenceErr(fmt.Sprintf("read digest for %s", path), err)
	}
	sum := blake2b.Sum256(data)
	if strings.TrimSpace(string(want)) != hex.EncodeToString(sum[:]) {
		return dataFormatErr(fmt.Sprintf("backup %s does not match its digest", filepath.Base(path)), nil)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
