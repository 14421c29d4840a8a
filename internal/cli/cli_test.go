package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/store"
)

// testEnv isolates config and data directories for one test.
func testEnv(t *testing.T) string {
	t.Helper()
	data := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return data
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func snapshot(t *testing.T, args ...string) store.Snapshot {
	t.Helper()
	out := mustExecute(t, append([]string{"layout", "show", "--json"}, args...)...)
	var snap store.Snapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("decode snapshot: %v\n%s", err, out)
	}
	return snap
}

func TestChartAddAndShow(t *testing.T) {
	testEnv(t)

	out := mustExecute(t, "chart", "add", "pie")
	if !strings.Contains(out, "Added pie chart") {
		t.Errorf("add output = %q", out)
	}

	snap := snapshot(t)
	if !reflect.DeepEqual(snap.Keys, []int{0, 1}) {
		t.Errorf("keys = %v, want [0 1]", snap.Keys)
	}
	if snap.Types["1"] != "pie" || snap.Types["0"] != "bar" {
		t.Errorf("types = %v", snap.Types)
	}

	out = mustExecute(t, "layout", "show", "-b", "md")
	for _, want := range []string{"md", "6 cols", "pie", "bar"} {
		if !strings.Contains(out, want) {
			t.Errorf("layout show output lacks %q:\n%s", want, out)
		}
	}
}

func TestChartAddWithGeometry(t *testing.T) {
	testEnv(t)
	mustExecute(t, "chart", "add", "line", "-b", "sm", "--x", "1", "--y", "4", "--w", "3", "--h", "2")

	snap := snapshot(t)
	p, ok := snap.Layouts.Find("sm", "1")
	if !ok || p.X != 1 || p.Y != 4 || p.W != 3 || p.H != 2 {
		t.Errorf("sm placement = %+v, %v", p, ok)
	}
}

func TestChartAddUnknownTypeWarns(t *testing.T) {
	testEnv(t)
	out := mustExecute(t, "chart", "add", "piee")
	if !strings.Contains(out, "did you mean") || !strings.Contains(out, "pie") {
		t.Errorf("output = %q, want a suggestion", out)
	}
	if snap := snapshot(t); snap.Types["1"] != "piee" {
		t.Errorf("stored type = %q, want the tag kept as given", snap.Types["1"])
	}
}

func TestChartDelete(t *testing.T) {
	testEnv(t)

	out := mustExecute(t, "chart", "delete", "7")
	if !strings.Contains(out, "nothing changed") {
		t.Errorf("output = %q", out)
	}

	mustExecute(t, "chart", "delete", "0")
	if snap := snapshot(t); len(snap.Keys) != 0 {
		t.Errorf("keys after delete = %v", snap.Keys)
	}

	_, err := execute(t, "chart", "rm", "x")
	if !errors.Is(err, errors.ErrCodeInvalidChartID) {
		t.Errorf("delete x error = %v", err)
	}
}

func TestChartOption(t *testing.T) {
	testEnv(t)

	out := mustExecute(t, "chart", "option", "heatMap")
	if !strings.Contains(out, `"heatmap"`) {
		t.Errorf("heatMap option lacks heatmap series")
	}

	out = mustExecute(t, "chart", "option", "0")
	if !strings.Contains(out, `"bar"`) {
		t.Errorf("option of chart 0 lacks bar series")
	}

	_, err := execute(t, "chart", "option", "5")
	if !errors.Is(err, errors.ErrCodeChartNotFound) {
		t.Errorf("option 5 error = %v", err)
	}
}

func TestChartTypes(t *testing.T) {
	out := mustExecute(t, "chart", "types")
	for _, want := range []string{"barRace", "heatMap", "semiDonut", "default"} {
		if !strings.Contains(out, want) {
			t.Errorf("types output lacks %q", want)
		}
	}
}

func TestTabs(t *testing.T) {
	testEnv(t)

	mustExecute(t, "tab", "use", "2")
	if snap := snapshot(t); snap.Tab != "2" || len(snap.Keys) != 0 {
		t.Errorf("snapshot after tab use = %+v", snap)
	}
	mustExecute(t, "chart", "add", "donut")
	if snap := snapshot(t, "--tab", "1"); len(snap.Keys) != 1 {
		t.Errorf("tab 1 changed: keys %v", snap.Keys)
	}

	out := mustExecute(t, "tab", "list")
	for _, want := range []string{"Dashboard", "NDR", "Billing", iconActive} {
		if !strings.Contains(out, want) {
			t.Errorf("tab list lacks %q:\n%s", want, out)
		}
	}

	_, err := execute(t, "tab", "use", "9")
	if !errors.Is(err, errors.ErrCodeTabNotFound) {
		t.Errorf("tab use 9 error = %v", err)
	}
}

func TestLayoutReset(t *testing.T) {
	testEnv(t)
	mustExecute(t, "chart", "add", "pie")
	mustExecute(t, "layout", "reset")
	if snap := snapshot(t); !reflect.DeepEqual(snap.Keys, []int{0}) {
		t.Errorf("keys after reset = %v", snap.Keys)
	}
}

func TestLayoutValidate(t *testing.T) {
	data := testEnv(t)

	out := mustExecute(t, "layout", "validate")
	if !strings.Contains(out, "No record") {
		t.Errorf("validate on empty storage = %q", out)
	}

	dir := filepath.Join(data, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	rec := `{"state":{"activeTab":"1","tabLayouts":{"1":{"layouts":{"xxl":[{"i":"0","x":0,"y":0,"w":4,"h":3,"chartType":"pie"}]},"layoutKeys":[0]}}},"version":0}`
	if err := os.WriteFile(filepath.Join(dir, "layout-storage.json"), []byte(rec), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "layout", "validate")
	if !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(out, "derived from xxl") {
		t.Errorf("validate output lacks the repair:\n%s", out)
	}

	// Opening the store repairs the record; the next write persists it.
	if snap := snapshot(t); snap.Types["0"] != "pie" {
		t.Errorf("repaired type = %q", snap.Types["0"])
	}
	mustExecute(t, "tab", "use", "2")
	mustExecute(t, "layout", "validate")
}

func TestStateExportImportClear(t *testing.T) {
	testEnv(t)
	mustExecute(t, "chart", "add", "semiDonut")

	file := filepath.Join(t.TempDir(), "board.json")
	mustExecute(t, "state", "export", "-o", file)

	mustExecute(t, "state", "clear")
	if snap := snapshot(t); !reflect.DeepEqual(snap.Keys, []int{0}) {
		t.Errorf("keys after clear = %v", snap.Keys)
	}

	out := mustExecute(t, "state", "import", file)
	if !strings.Contains(out, "Imported 3 tabs") {
		t.Errorf("import output = %q", out)
	}
	snap := snapshot(t)
	if !reflect.DeepEqual(snap.Keys, []int{0, 1}) || snap.Types["1"] != "semiDonut" {
		t.Errorf("snapshot after import = %+v", snap)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "state", "import", bad); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("import of bad record error = %v", err)
	}
}

func TestStatePath(t *testing.T) {
	data := testEnv(t)
	out := mustExecute(t, "state", "path")
	if !strings.Contains(out, filepath.Join(data, appName, "layout-storage.json")) {
		t.Errorf("state path output = %q", out)
	}
}

func TestConfigFile(t *testing.T) {
	testEnv(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	body := `
[dashboard]
default_chart = "line"

[storage]
backend = "sqlite"

[storage.sqlite]
path = "` + filepath.Join(dir, "grid.db") + `"

[[tabs]]
id = "ops"
name = "Operations"
`
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	out := mustExecute(t, "--config", cfgPath, "config", "show")
	if !strings.Contains(out, `backend = "sqlite"`) || !strings.Contains(out, `default_chart = "line"`) {
		t.Errorf("config show = %s", out)
	}

	mustExecute(t, "--config", cfgPath, "tab", "use", "ops")
	mustExecute(t, "--config", cfgPath, "chart", "add", "pie")
	snap := snapshot(t, "--config", cfgPath)
	// The first configured tab is seeded with one chart of the default type.
	if snap.Tab != "ops" || !reflect.DeepEqual(snap.Keys, []int{0, 1}) || snap.Types["0"] != "line" {
		t.Errorf("snapshot = %+v", snap)
	}
	if _, err := os.Stat(filepath.Join(dir, "grid.db")); err != nil {
		t.Errorf("sqlite database not created: %v", err)
	}

	if out := mustExecute(t, "--config", cfgPath, "config", "path"); strings.TrimSpace(out) != cfgPath {
		t.Errorf("config path = %q", out)
	}
}

func TestBackendFlag(t *testing.T) {
	testEnv(t)

	mustExecute(t, "--backend", "memory", "chart", "add", "pie")
	if snap := snapshot(t, "--backend", "memory"); len(snap.Keys) != 1 {
		t.Errorf("memory backend persisted across runs: %v", snap.Keys)
	}

	_, err := execute(t, "--backend", "etcd", "tab", "list")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("unknown backend error = %v", err)
	}
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out := mustExecute(t, "completion", shell)
		if !strings.Contains(out, appName) {
			t.Errorf("%s completion does not mention %s", shell, appName)
		}
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
}
