package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/partsbin/pkg/partsbin"
	"github.com/mesh-intelligence/partsbin/pkg/types"
)

// testEnv runs CLI invocations against private config and data dirs.
type testEnv struct {
	t         *testing.T
	configDir string
	dataDir   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("PARTSBIN_BACKEND", "")
	t.Setenv("PARTSBIN_LOG_LEVEL", "")
	t.Setenv("PARTSBIN_DATA_DIR", "")
	root := t.TempDir()
	return &testEnv{t: t, configDir: filepath.Join(root, "config"), dataDir: filepath.Join(root, "data")}
}

// writeConfig replaces config.yaml with content.
func (e *testEnv) writeConfig(content string) {
	e.t.Helper()
	require.NoError(e.t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(e.t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"), []byte(content), 0o644))
}

func (e *testEnv) run(args ...string) (string, string, int) {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...)
	code := Run(full, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

// runJSON runs args with --json, requires success and decodes stdout into v.
func (e *testEnv) runJSON(v any, args ...string) {
	e.t.Helper()
	stdout, stderr, code := e.run(append(args, "--json")...)
	require.Equal(e.t, exitSuccess, code, "args %v: stderr %s", args, stderr)
	require.NoError(e.t, json.Unmarshal([]byte(stdout), v), "stdout: %s", stdout)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitSuccess},
		{"not found", fmt.Errorf("part %q: %w", "x", types.ErrNotFound), exitUserError},
		{"in use", &types.InUseError{Kind: "category", Name: "Frames", Count: 1}, exitUserError},
		{"validation", &types.ValidationError{Fields: []string{"data"}}, exitUserError},
		{"sink failure", fmt.Errorf("%w: writing parts: disk full", types.ErrSinkFailure), exitSysError},
		{"explicit system", sysErr(fmt.Errorf("open workshop")), exitSysError},
		{"usage", fmt.Errorf("unknown flag: --bogus"), exitUserError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	code := Run([]string{"version"}, &out, &bytes.Buffer{})
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, out.String(), "partsbin v"+partsbin.Version)
}

func TestInit_WritesDefaultConfigAndSeeds(t *testing.T) {
	e := newTestEnv(t)
	var out map[string]any
	e.runJSON(&out, "init")

	assert.Equal(t, types.BackendSQLite, out["backend"])
	assert.Equal(t, float64(7), out["parts"])

	raw, err := os.ReadFile(filepath.Join(e.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "backend: sqlite")
	assert.FileExists(t, filepath.Join(e.dataDir, "partsbin.db"))
}

func TestPartLifecycle(t *testing.T) {
	e := newTestEnv(t)

	var added types.Part
	e.runJSON(&added, "part", "add", "--name", "Spare Arm", "--category", "Frames", "--quantity", "2", "--price", "4.5")
	require.NotEmpty(t, added.ID)
	assert.Equal(t, 2, added.Quantity)

	var got types.Part
	e.runJSON(&got, "part", "get", added.ID)
	assert.Equal(t, added, got)

	_, stderr, code := e.run("part", "update", added.ID, "--in-use", "5")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, types.ErrInvalidQuantity.Error())

	var updated types.Part
	e.runJSON(&updated, "part", "update", added.ID, "--quantity", "10", "--in-use", "5")
	assert.Equal(t, 10, updated.Quantity)
	assert.Equal(t, 5, updated.InUse)
	assert.Equal(t, "Spare Arm", updated.Name)
	require.NotNil(t, updated.DateUpdated)

	var listed []types.Part
	e.runJSON(&listed, "part", "list", "--search", "spare arm")
	require.Len(t, listed, 1)
	assert.Equal(t, added.ID, listed[0].ID)

	stdout, _, code := e.run("part", "delete", added.ID)
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, stdout, "Deleted part "+added.ID)

	_, _, code = e.run("part", "get", added.ID)
	assert.Equal(t, exitUserError, code)
}

func TestPartAdd_DefaultCategory(t *testing.T) {
	e := newTestEnv(t)
	var p types.Part
	e.runJSON(&p, "part", "add", "--name", "Zip ties")
	assert.Equal(t, "Uncategorized", p.Category)
}

func TestPartList_HumanTable(t *testing.T) {
	e := newTestEnv(t)
	stdout, _, code := e.run("part", "list", "--low-stock")
	require.Equal(t, exitSuccess, code)
	assert.Contains(t, stdout, "45A 4-in-1 ESC")
	assert.Contains(t, stdout, "low")
	assert.NotContains(t, stdout, "5.1x3.1x3 Props")
}

func TestCategoryDelete_InUse(t *testing.T) {
	e := newTestEnv(t)

	var cats []categoryView
	e.runJSON(&cats, "category", "list", "--search", "frames")
	require.Len(t, cats, 1)
	assert.Equal(t, "Frames", cats[0].Name)
	assert.Positive(t, cats[0].PartCount)

	_, stderr, code := e.run("category", "delete", cats[0].ID)
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, "in use")
	assert.Contains(t, stderr, fmt.Sprintf("hint: reassign or delete the %d referencing record(s) first", cats[0].PartCount))

	var empty types.Category
	e.runJSON(&empty, "category", "add", "--name", "Antennas")
	_, _, code = e.run("category", "delete", empty.ID)
	assert.Equal(t, exitSuccess, code)
}

func TestTodoFlow(t *testing.T) {
	e := newTestEnv(t)
	e.writeConfig("backend: sqlite\nseed: false\n")

	var todo types.TodoItem
	e.runJSON(&todo, "todo", "add", "--title", "Rebuild quad")
	assert.Equal(t, types.PriorityMedium, todo.Priority)

	var toggled map[string]any
	e.runJSON(&toggled, "todo", "done", todo.ID)
	assert.Equal(t, true, toggled["completed"])

	var done []types.TodoItem
	e.runJSON(&done, "todo", "list", "--done")
	require.Len(t, done, 1)
	require.NotNil(t, done[0].DateCompleted)

	var open []types.TodoItem
	e.runJSON(&open, "todo", "list", "--open")
	assert.Empty(t, open)

	var cleared map[string]int
	e.runJSON(&cleared, "todo", "clear")
	assert.Equal(t, 1, cleared["removed"])

	_, _, code := e.run("todo", "list", "--done", "--open")
	assert.Equal(t, exitUserError, code)
}

func TestTagsAndGallery(t *testing.T) {
	e := newTestEnv(t)
	e.writeConfig("backend: diskv\nseed: false\n")

	var added map[string]string
	e.runJSON(&added, "tag", "add", "  FPV ")
	assert.Equal(t, "fpv", added["tag"])

	var item types.GalleryItem
	e.runJSON(&item, "gallery", "add", "--title", "Night flight", "--tag", "LongRange")

	var tags []string
	e.runJSON(&tags, "tag", "list")
	assert.Contains(t, tags, "fpv")
	assert.Contains(t, tags, "LongRange")

	_, stderr, code := e.run("tag", "remove", "LongRange")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, "in use")

	_, _, code = e.run("gallery", "delete", item.ID)
	require.Equal(t, exitSuccess, code)
	_, _, code = e.run("tag", "remove", "fpv")
	assert.Equal(t, exitSuccess, code)

	e.runJSON(&tags, "tag", "list")
	assert.NotContains(t, tags, "fpv")
}

func TestSettings(t *testing.T) {
	e := newTestEnv(t)

	_, _, code := e.run("settings", "set", "--theme", "neon")
	assert.Equal(t, exitUserError, code)

	var s settingsView
	e.runJSON(&s, "settings", "set", "--theme", "midnight", "--low-stock-threshold", "5")
	assert.Equal(t, types.ThemeMidnight, s.Theme)
	assert.Equal(t, "#0f172a", s.ThemeColor)
	assert.Equal(t, 5, s.LowStockThreshold)

	e.runJSON(&s, "settings", "show")
	assert.Equal(t, types.ThemeMidnight, s.Theme)
	assert.Equal(t, "USD", s.CurrencyFormat)
}

func TestBackupRoundTrip(t *testing.T) {
	src := newTestEnv(t)
	backupDir := t.TempDir()

	var exported map[string]any
	src.runJSON(&exported, "backup", "export", "--dir", backupDir, "--name", "bench.json")
	assert.Equal(t, "bench.json", exported["name"])
	assert.Equal(t, false, exported["cancelled"])
	assert.FileExists(t, filepath.Join(backupDir, "bench.json"))

	dst := newTestEnv(t)
	dst.writeConfig("backend: sqlite\nseed: false\n")
	var imported struct {
		Version string `json:"version"`
		Summary struct {
			TotalParts int `json:"totalParts"`
		} `json:"summary"`
	}
	dst.runJSON(&imported, "backup", "import", "bench.json", "--dir", backupDir)
	assert.Equal(t, "1.0.0", imported.Version)
	assert.Equal(t, 7, imported.Summary.TotalParts)

	var srcParts, dstParts []types.Part
	src.runJSON(&srcParts, "part", "list")
	dst.runJSON(&dstParts, "part", "list")
	assert.Equal(t, srcParts, dstParts)
}

func TestBackupImport_InvalidDocument(t *testing.T) {
	e := newTestEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"version":"1.0.0","timestamp":"2026-01-01T00:00:00Z"}`), 0o644))

	var before []types.Part
	e.runJSON(&before, "part", "list")

	_, stderr, code := e.run("backup", "import", "bad.json", "--dir", dir)
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, "data")

	var after []types.Part
	e.runJSON(&after, "part", "list")
	assert.Equal(t, before, after)
}

func TestSummaryAndMetricsFile(t *testing.T) {
	e := newTestEnv(t)
	metricsPath := filepath.Join(t.TempDir(), "partsbin.prom")

	_, _, code := e.run("part", "add", "--name", "Capacitor", "--category", "ESCs", "--metrics-file", metricsPath)
	require.Equal(t, exitSuccess, code)

	raw, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `partsbin_operations_total{collection="parts",op="add",outcome="ok"} 1`)
	assert.Contains(t, string(raw), `partsbin_records{collection="parts"} 8`)

	var s map[string]any
	e.runJSON(&s, "summary")
	assert.Equal(t, float64(8), s["totalParts"])
}

func TestUnknownBackupTarget(t *testing.T) {
	e := newTestEnv(t)
	_, stderr, code := e.run("backup", "export", "--target", "ftp")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, "unknown backup target")
}
