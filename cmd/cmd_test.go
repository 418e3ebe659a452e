package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathquest/internal/entity"
)

// cli runs commands against one SQLite file.
type cli struct {
	t  *testing.T
	db string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("MATHQUEST_LOG_LEVEL", "error")
	return &cli{t: t, db: filepath.Join(dir, "mathquest.db")}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--backend", "sqlite", "--db", c.db}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "mathquest %v", args)
	return out
}

func TestRewardsLifecycle(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("rewards", "add", "Movie night", "50")
	assert.Contains(t, out, `Added "Movie night"`)

	out = c.mustRun("rewards", "list")
	assert.Contains(t, out, "0 points available")
	assert.Contains(t, out, "Movie night")

	_, err := c.run("rewards", "add", "Nothing", "abc")
	assert.Error(t, err)
}

func TestGroupJoinShowsInStats(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("group", "join", "vector")
	assert.Contains(t, out, "Vector Vanguards")

	out = c.mustRun("group", "list")
	assert.Contains(t, out, "* → Vector Vanguards")

	out = c.mustRun("stats")
	assert.Contains(t, out, "Vector Vanguards")
	assert.Contains(t, out, "Mastery")

	_, err := c.run("group", "join", "NOPE")
	assert.Error(t, err)
}

func TestExportImportRoundTrip(t *testing.T) {
	c := newCLI(t)
	c.mustRun("rewards", "add", "Snack", "10")

	file := filepath.Join(t.TempDir(), "bundle.json")
	c.mustRun("export", file)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mathquest-export")

	other := newCLI(t)
	other.mustRun("import", file)
	assert.Contains(t, other.mustRun("rewards", "list"), "Snack")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"format":"other","data":{}}`), 0o600))
	_, err = other.run("import", bad)
	assert.Error(t, err)
}

func TestLeaderboardIncludesMe(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("leaderboard")
	assert.Contains(t, out, "New Student")
	assert.Contains(t, out, "<- you")
}

func TestBadgesListed(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("badges")
	assert.Contains(t, out, "Math Genesis")
	assert.Contains(t, out, "[0/50]")
}

func TestNotebookEmpty(t *testing.T) {
	c := newCLI(t)
	assert.Contains(t, c.mustRun("notebook", "list"), "empty")
	_, err := c.run("notebook", "retry", "abc", "A")
	assert.Error(t, err)
}

func TestDiscussRequiresGroup(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("discuss", "list")
	assert.Error(t, err)
}

func TestDiscussListAfterJoin(t *testing.T) {
	c := newCLI(t)
	c.mustRun("group", "join", "VECTOR")
	assert.Contains(t, c.mustRun("discuss", "list"), "No posts yet")

	c.mustRun("group", "leave")
	_, err := c.run("discuss", "list")
	assert.Error(t, err)
}

func TestResetNeedsConfirmation(t *testing.T) {
	c := newCLI(t)
	c.mustRun("rewards", "add", "Snack", "10")

	_, err := c.run("reset")
	require.Error(t, err)
	assert.Contains(t, c.mustRun("rewards", "list"), "Snack")

	c.mustRun("reset", "--yes")
	resetCmd.Flags().Set("yes", "false")
	assert.Contains(t, c.mustRun("rewards", "list"), "No rewards yet.")
}

func TestResolveID(t *testing.T) {
	ids := []string{"abc123", "abd456", "xyz789"}

	id, err := resolveID("thing", ids, "ABC")
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	_, err = resolveID("thing", ids, "ab")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = resolveID("thing", ids, "q")
	assert.ErrorContains(t, err, "no thing")

	_, err = resolveID("thing", ids, " ")
	assert.Error(t, err)
}

func TestFindNotebookProblem(t *testing.T) {
	p := entity.MathProblem{ID: "1234abcd-0000", Question: "q"}
	got, err := findNotebookProblem([]entity.MistakeRecord{{Problem: p}}, "1234")
	require.NoError(t, err)
	assert.Equal(t, "q", got.Question)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "12345678", shortID("12345678-aaaa"))
	assert.Equal(t, "abc", shortID("abc"))
}
