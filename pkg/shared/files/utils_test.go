package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := ExpandPath("~/.ssh/id_ed25519")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".ssh", "id_ed25519"), expanded)

	unchanged, err := ExpandPath("/etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, "/etc/passwd", unchanged)
}

func TestValidatePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.NoError(t, ValidatePath(file))
	assert.Error(t, ValidatePath(dir))
	assert.Error(t, ValidatePath(filepath.Join(dir, "missing.txt")))
}

func TestCreateFolderIfNotExists(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "c")

	require.NoError(t, CreateFolderIfNotExists(target))
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent on an existing folder.
	assert.NoError(t, CreateFolderIfNotExists(target))
}

func TestReadSourceLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Voting.sol")
	require.NoError(t, os.WriteFile(path, []byte("contract Voting {\n    uint count;\n}\n"), 0644))

	lines, err := ReadSourceLines(path)
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assert.Equal(t, "contract Voting {", lines[0])
	assert.Equal(t, "    uint count;", lines[1])
	assert.Equal(t, "}", lines[2])
	assert.Equal(t, "", lines[3])

	_, err = ReadSourceLines(filepath.Join(t.TempDir(), "missing.sol"))
	assert.Error(t, err)
}
