package filesystem_test

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/leakrules/pkg/errors"
	"github.com/arthur-debert/leakrules/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// renameFailFS fails every rename so the cleanup path can be observed
type renameFailFS struct {
	filesystem.FS
}

func (r renameFailFS) Rename(oldpath, newpath string) error {
	return stderrors.New("rename refused")
}

func TestWriteFileAtomic(t *testing.T) {
	t.Run("creates_parent_dirs_and_writes", func(t *testing.T) {
		mem := afero.NewMemMapFs()
		fsys := filesystem.NewAferoFS(mem)

		err := filesystem.WriteFileAtomic(fsys, "/out/nested/rules.json", []byte("[]\n"), 0644)
		require.NoError(t, err)

		data, err := fsys.ReadFile("/out/nested/rules.json")
		require.NoError(t, err)
		assert.Equal(t, "[]\n", string(data))

		entries, err := afero.ReadDir(mem, "/out/nested")
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temp file must not survive")
	})

	t.Run("replaces_existing_content", func(t *testing.T) {
		fsys := filesystem.NewAferoFS(afero.NewMemMapFs())
		require.NoError(t, fsys.WriteFile("/rules.json", []byte("old"), 0644))

		require.NoError(t, filesystem.WriteFileAtomic(fsys, "/rules.json", []byte("new"), 0644))

		data, err := fsys.ReadFile("/rules.json")
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))
	})

	t.Run("read_only_fs_fails_without_artifact", func(t *testing.T) {
		mem := afero.NewMemMapFs()
		require.NoError(t, mem.MkdirAll("/out", 0755))
		fsys := filesystem.NewAferoFS(afero.NewReadOnlyFs(mem))

		err := filesystem.WriteFileAtomic(fsys, "/out/rules.json", []byte("[]"), 0644)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrSinkWrite))

		exists, _ := afero.Exists(mem, "/out/rules.json")
		assert.False(t, exists)
	})

	t.Run("rename_failure_keeps_previous_artifact", func(t *testing.T) {
		mem := afero.NewMemMapFs()
		base := filesystem.NewAferoFS(mem)
		require.NoError(t, base.MkdirAll("/out", 0755))
		require.NoError(t, base.WriteFile("/out/rules.json", []byte("previous"), 0644))

		err := filesystem.WriteFileAtomic(renameFailFS{base}, "/out/rules.json", []byte("next"), 0644)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrSinkWrite))
		assert.Equal(t, "/out/rules.json", errors.GetErrorDetails(err)["path"])

		data, err := base.ReadFile("/out/rules.json")
		require.NoError(t, err)
		assert.Equal(t, "previous", string(data))

		entries, err := afero.ReadDir(mem, "/out")
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temp file must be cleaned up")
	})
}

func TestNewOS(t *testing.T) {
	fsys := filesystem.NewOS()
	require.NotNil(t, fsys)

	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "sub", "rules.json")

	require.NoError(t, filesystem.WriteFileAtomic(fsys, target, []byte("hello"), 0644))

	info, err := fsys.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAferoFS_ReadFileOnDirectory(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll("/dir", 0755))

	_, err := filesystem.NewAferoFS(mem).ReadFile("/dir")
	assert.Error(t, err)
}
