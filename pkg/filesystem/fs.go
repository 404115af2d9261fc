package filesystem

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/arthur-debert/leakrules/pkg/errors"
)

// FS is the subset of filesystem operations leakrules needs
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	Rename(oldpath, newpath string) error
	Remove(name string) error
}

// WriteFileAtomic writes data to path so that readers only ever see the
// previous content or the complete new content. The data goes to a
// sibling temp file which is then renamed over path. On failure the temp
// file is removed and path is left untouched.
func WriteFileAtomic(fsys FS, path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrSinkWrite, "failed to create output directory %s", dir).
			WithDetail("path", path)
	}

	tmp := fmt.Sprintf("%s.tmp-%d", path, time.Now().UnixNano())
	if err := fsys.WriteFile(tmp, data, perm); err != nil {
		_ = fsys.Remove(tmp)
		return errors.Wrapf(err, errors.ErrSinkWrite, "failed to write %s", path).
			WithDetail("path", path)
	}

	if err := fsys.Rename(tmp, path); err != nil {
		_ = fsys.Remove(tmp)
		return errors.Wrapf(err, errors.ErrSinkWrite, "failed to replace %s", path).
			WithDetail("path", path)
	}

	return nil
}
