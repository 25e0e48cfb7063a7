// Package filesys wraps the file operations the config provider performs so
// that loading and saving docus.yaml can be tested without touching disk.
package filesys

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alexzhang1030/composable-vue/internal/log"
)

// ReadWriteFS is what the config loader needs to find and read a file.
type ReadWriteFS interface {
	Stat(string) (fs.FileInfo, error)
	MkdirAll(string, os.FileMode) error
	Open(string) (*os.File, error)
}

// FileOps is what AtomicWrite needs.
type FileOps interface {
	Open(string) (*os.File, error)
	CreateTemp(string, string) (*os.File, error)
	Rename(string, string) error
	Remove(string) error
	Chmod(string, os.FileMode) error
}

// FS is the full surface used by the config provider.
type FS interface {
	ReadWriteFS
	FileOps
}

// OS returns a file system implementation that delegates to the standard library.
func OS() OsFS {
	return OsFS{}
}

// OsFS implements FS against the local disk.
type OsFS struct{}

func (OsFS) Stat(p string) (fs.FileInfo, error)           { return os.Stat(p) }
func (OsFS) MkdirAll(p string, m os.FileMode) error       { return os.MkdirAll(p, m) }
func (OsFS) Open(p string) (*os.File, error)              { return os.Open(p) }
func (OsFS) CreateTemp(dir, pat string) (*os.File, error) { return os.CreateTemp(dir, pat) }
func (OsFS) Rename(old, newName string) error             { return os.Rename(old, newName) }
func (OsFS) Remove(p string) error                        { return os.Remove(p) }
func (OsFS) Chmod(p string, m os.FileMode) error          { return os.Chmod(p, m) }

var _ FS = OsFS{}

// AtomicWrite persists data to dst with the provided file mode:
//
//  1. temp file in the same dir
//  2. fsync(temp) + close
//  3. chmod(temp, perm)  (so rename doesn’t carry 0600 default)
//  4. rename(temp, dst)
//  5. fsync(dir)
//
// Readers of dst observe either the old content or the new, never a mix.
func AtomicWrite(fsys FileOps, dst string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(dst)
	tmp, err := fsys.CreateTemp(dir, ".docus-*")
	if err != nil {
		return err
	}
	if _, err = tmp.Write(data); err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = fsys.Chmod(tmp.Name(), perm)
	}
	if err == nil {
		err = fsys.Rename(tmp.Name(), dst)
	}
	if err != nil {
		if removeErr := fsys.Remove(tmp.Name()); removeErr != nil {
			log.Warn("failed to remove temp file", "path", tmp.Name(), "error", removeErr)
		}
		return err
	}

	d, err := fsys.Open(dir)
	if err != nil {
		return nil
	}
	if syncErr := d.Sync(); syncErr != nil {
		log.Debug("directory sync failed", "dir", dir, "error", syncErr)
	}
	if closeErr := d.Close(); closeErr != nil {
		log.Debug("directory close failed", "dir", dir, "error", closeErr)
	}
	return nil
}
