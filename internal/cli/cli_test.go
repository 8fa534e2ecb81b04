package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPassword_FromPipe(t *testing.T) {
	pw, err := readPassword(strings.NewReader("s3cret-pass\n"), &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, "s3cret-pass", pw)
}

func TestReadPassword_NoTrailingNewline(t *testing.T) {
	pw, err := readPassword(strings.NewReader("s3cret-pass"), &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, "s3cret-pass", pw)
}

func sqliteEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GO_ENV", "dev")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "cli.db"))
}

func TestMigrateThenCreateAdmin(t *testing.T) {
	sqliteEnv(t)

	out := &bytes.Buffer{}
	root := NewRootCommand()
	root.SetOut(out)
	root.SetArgs([]string{"migrate", "--log-format", "text"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "schema is up to date")

	out.Reset()
	root = NewRootCommand()
	root.SetOut(out)
	root.SetIn(strings.NewReader("admin-password-1\n"))
	root.SetArgs([]string{"create-admin", "--username", "root", "--email", "root@example.com"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), `admin "root" created`)

	root = NewRootCommand()
	root.SetIn(strings.NewReader("admin-password-1\n"))
	root.SetArgs([]string{"create-admin", "--username", "root", "--email", "root@example.com"})
	assert.Error(t, root.Execute())
}

func TestCreateAdmin_RequiresUsername(t *testing.T) {
	sqliteEnv(t)

	root := NewRootCommand()
	root.SetIn(strings.NewReader("admin-password-1\n"))
	root.SetArgs([]string{"create-admin", "--email", "root@example.com"})

	assert.Error(t, root.Execute())
}
