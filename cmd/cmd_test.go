package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/flashcarding/internal/deck"
)

type cli struct {
	t  *testing.T
	db string
}

func newCLI(t *testing.T) cli {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
	return cli{t: t, db: filepath.Join(t.TempDir(), "flashcarding.db")}
}

func (c cli) run(args ...string) (string, error) {
	c.t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--db", c.db, "--log-level", "error"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (c cli) must(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "flashcarding %s", strings.Join(args, " "))
	return out
}

// seed creates a set with one ingested lecture and returns their ids.
func (c cli) seed() (setID, lectureID string) {
	c.t.Helper()
	setID = strings.TrimSpace(c.must("set", "create", "Biology"))
	lectureID = strings.TrimSpace(c.must("lecture", "add", setID, "Cells"))
	c.must("ingest", lectureID, "--text", "Mitosis: Cell division\nMeiosis: Reductional division")
	return setID, lectureID
}

func TestCLI_CRUDSurvivesRestarts(t *testing.T) {
	c := newCLI(t)
	setID, lectureID := c.seed()

	sets := c.must("set", "list")
	assert.Contains(t, sets, setID)
	assert.Contains(t, sets, "Biology")

	cards := c.must("card", "list", lectureID)
	assert.Contains(t, cards, "Mitosis")
	assert.Contains(t, cards, "Reductional division")

	c.must("set", "rename", setID, "Cell Biology")
	assert.Contains(t, c.must("set", "list"), "Cell Biology")

	c.must("lecture", "delete", lectureID)
	assert.Contains(t, c.must("lecture", "list", setID), "No lectures")
}

func TestCLI_IngestFileAndText(t *testing.T) {
	c := newCLI(t)
	setID := strings.TrimSpace(c.must("set", "create", "Chem"))
	lectureID := strings.TrimSpace(c.must("lecture", "add", setID, "Bonds"))

	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("Ionic bond: electron transfer\n"), 0o644))

	out := c.must("ingest", lectureID, path, "--text", "Covalent bond: shared electrons")
	assert.Contains(t, out, "notes.md")
	assert.Contains(t, out, "2 cards in lecture")

	jobs := c.must("jobs")
	assert.Contains(t, jobs, "heuristic")
	assert.Contains(t, jobs, lectureID)
}

func TestCLI_IngestNeedsInput(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("ingest", "some-lecture")
	assert.ErrorContains(t, err, "nothing to ingest")
}

func TestCLI_NotFound(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("set", "rename", "missing", "x")
	assert.ErrorIs(t, err, deck.ErrNotFound)

	_, err = c.run("card", "add", "missing", "t", "e")
	assert.ErrorIs(t, err, deck.ErrNotFound)
}

func TestCLI_BlankTitleRejected(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("set", "create", "   ")
	assert.ErrorIs(t, err, deck.ErrValidation)
}

func TestCLI_Learn(t *testing.T) {
	c := newCLI(t)
	setID, _ := c.seed()

	out := c.must("learn", "start", setID)
	runID := strings.Fields(out)[1]
	assert.Contains(t, out, "[1/2]")

	assert.Contains(t, c.must("learn", "next", runID), "[2/2]")
	assert.Contains(t, c.must("learn", "next", runID), "Last card.")
	assert.Contains(t, c.must("learn", "prev", runID), "[1/2]")

	_, err := c.run("learn", "show", "nope")
	assert.ErrorIs(t, err, deck.ErrNotFound)
}

var itemRe = regexp.MustCompile(`\(item (\S+)\)`)

func TestCLI_Evaluation(t *testing.T) {
	c := newCLI(t)
	setID, _ := c.seed()

	out := c.must("eval", "start", setID, "--options", "2")
	runID := strings.Fields(out)[1]
	items := itemRe.FindAllStringSubmatch(out, -1)
	require.Len(t, items, 2)
	assert.Contains(t, out, "2) ")

	for _, m := range items {
		res := c.must("eval", "answer", runID, m[1], "1")
		assert.Regexp(t, `^(Correct!|Incorrect\. Answer: )`, res)
	}

	_, err := c.run("eval", "answer", runID, items[0][1], "1")
	assert.Error(t, err)

	summary := c.must("eval", "finish", runID)
	assert.Contains(t, summary, "Score: ")
	assert.Contains(t, summary, "2 answered")

	hist := c.must("history")
	assert.Contains(t, hist, runID)
	assert.Contains(t, hist, "Biology")
}

func TestCLI_ExportImport(t *testing.T) {
	src := newCLI(t)
	setID, _ := src.seed()

	path := filepath.Join(t.TempDir(), "deck.json")
	assert.Equal(t, path+"\n", src.must("export", path))

	dst := cli{t: t, db: filepath.Join(t.TempDir(), "other.db")}
	assert.Equal(t, "1 sets, 1 lectures, 2 cards\n", dst.must("import", path))
	assert.Contains(t, dst.must("set", "list"), setID)

	assert.Contains(t, dst.must("history", "--snapshots"), "Seq")
}

func TestCLI_ExportDefaultName(t *testing.T) {
	c := newCLI(t)
	out := strings.TrimSpace(c.must("export"))
	assert.Regexp(t, `^flashcarding_.+\.json$`, out)
	_, err := os.Stat(out)
	assert.NoError(t, err)
}

func TestCLI_ImportRejectsGarbage(t *testing.T) {
	c := newCLI(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":2}`), 0o644))
	_, err := c.run("import", path)
	assert.Error(t, err)
}

func TestCLI_Version(t *testing.T) {
	c := newCLI(t)
	assert.Equal(t, "flashcarding (devel)\n", c.must("version"))
}
