package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixgeelhaar/patrol-go/domain/report"
	"github.com/felixgeelhaar/patrol-go/infrastructure/gridfile"
)

const sampleGrid = `....#.....
.........#
..........
..#.......
.......#..
..........
.#..^.....
........#.
#.........
......#...
`

// writeFile writes content to name inside a fresh temp dir.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return p
}

func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := New().WithOutput(&out, &errOut)
	err = app.ExecuteWithArgs(context.Background(), args)
	return out.String(), errOut.String(), err
}

func TestApp_Version(t *testing.T) {
	out, _, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(out, "patrol version") {
		t.Errorf("version output missing 'patrol version', got: %s", out)
	}
}

func TestApp_Help(t *testing.T) {
	out, _, err := runCLI(t, "--help")
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}
	for _, want := range []string{"guard", "run", "render", "validate", "history", "schema"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q, got: %s", want, out)
		}
	}
}

func TestApp_Run(t *testing.T) {
	gridPath := writeFile(t, "floor.txt", sampleGrid)

	out, _, err := runCLI(t, "run", "--workers", "3", "--name", "sample", gridPath)
	if err != nil {
		t.Fatalf("run command failed: %v", err)
	}

	for _, want := range []string{
		"Patrol complete",
		"Name: sample",
		"Grid: 10x10",
		"Start: (4,6) up",
		"Visited: 41",
		"Loop-inducing obstructions: 6 of 40 candidates",
		"Workers: 3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("run output missing %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Metrics:") {
		t.Errorf("metrics printed without being enabled:\n%s", out)
	}
}

func TestApp_RunJSON(t *testing.T) {
	gridPath := writeFile(t, "floor.txt", sampleGrid)

	out, _, err := runCLI(t, "run", "--json", gridPath)
	if err != nil {
		t.Fatalf("run --json failed: %v", err)
	}

	var r report.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("run --json output is not a report: %v\n%s", err, out)
	}
	if r.Visited != 41 || r.LoopCount != 6 || len(r.Loops) != 6 {
		t.Errorf("report = visited %d loops %d (%v), want 41 and 6", r.Visited, r.LoopCount, r.Loops)
	}
	if r.ID == "" {
		t.Error("report ID is empty")
	}
}

func TestApp_RunRender(t *testing.T) {
	gridPath := writeFile(t, "floor.txt", sampleGrid)

	out, _, err := runCLI(t, "run", "--render", gridPath)
	if err != nil {
		t.Fatalf("run --render failed: %v", err)
	}

	if got := strings.Count(out, "O"); got != 6 {
		t.Errorf("rendered %d obstructions, want 6:\n%s", got, out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("rendered grid missing the guard:\n%s", out)
	}
}

func TestApp_RunWithMetrics(t *testing.T) {
	gridPath := writeFile(t, "floor.txt", sampleGrid)
	cfgPath := writeFile(t, "patrol.yaml", `
version: "1.0"
search:
  workers: 2
metrics:
  enabled: true
`)

	out, _, err := runCLI(t, "run", "-c", cfgPath, gridPath)
	if err != nil {
		t.Fatalf("run with metrics failed: %v", err)
	}
	for _, want := range []string{"Workers: 2", "Metrics:", "patrol.trials", "patrol.loops.found"} {
		if !strings.Contains(out, want) {
			t.Errorf("run output missing %q, got:\n%s", want, out)
		}
	}
}

func TestApp_RunErrors(t *testing.T) {
	noGuard := writeFile(t, "empty.txt", "...\n...\n")
	looped := writeFile(t, "looped.txt", ".#..\n...#\n#^..\n..#.\n")

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "missing argument", args: []string{"run"}},
		{name: "missing file", args: []string{"run", filepath.Join(t.TempDir(), "nope.txt")}, wantErr: os.ErrNotExist},
		{name: "no guard", args: []string{"run", noGuard}, wantErr: gridfile.ErrNoGuard},
		{name: "bad config", args: []string{"run", "-c", filepath.Join(t.TempDir(), "nope.yaml"), noGuard}},
		{name: "baseline loops", args: []string{"run", looped}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestApp_RunAndHistory(t *testing.T) {
	gridPath := writeFile(t, "floor.txt", sampleGrid)
	dir := t.TempDir()

	stores := []struct {
		backend string
		path    string
	}{
		{"sqlite", "file:" + filepath.Join(dir, "reports.db") + "?mode=rwc"},
		{"badger", filepath.Join(dir, "badger")},
	}

	for _, s := range stores {
		t.Run(s.backend, func(t *testing.T) {
			storeArgs := []string{"--store", s.backend, "--store-path", s.path}

			for i := 0; i < 2; i++ {
				args := append([]string{"run", "--json"}, storeArgs...)
				if _, _, err := runCLI(t, append(args, gridPath)...); err != nil {
					t.Fatalf("run %d failed: %v", i, err)
				}
			}

			out, _, err := runCLI(t, append([]string{"history", "--json"}, storeArgs...)...)
			if err != nil {
				t.Fatalf("history --json failed: %v", err)
			}
			var reports []report.Report
			if err := json.Unmarshal([]byte(out), &reports); err != nil {
				t.Fatalf("history output is not JSON: %v\n%s", err, out)
			}
			if len(reports) != 2 {
				t.Fatalf("history returned %d reports, want 2", len(reports))
			}
			if reports[0].CreatedAt.Before(reports[1].CreatedAt) {
				t.Error("history is not newest first")
			}

			out, _, err = runCLI(t, append([]string{"history", "--limit", "1"}, storeArgs...)...)
			if err != nil {
				t.Fatalf("history failed: %v", err)
			}
			if !strings.Contains(out, "VISITED") || !strings.Contains(out, reports[0].ID) {
				t.Errorf("history table missing newest report, got:\n%s", out)
			}
			if strings.Contains(out, reports[1].ID) {
				t.Errorf("history --limit 1 listed the older report:\n%s", out)
			}
		})
	}
}

func TestApp_HistoryEmpty(t *testing.T) {
	storeArgs := []string{"--store", "sqlite", "--store-path", "file:" + filepath.Join(t.TempDir(), "empty.db") + "?mode=rwc"}

	out, _, err := runCLI(t, append([]string{"history"}, storeArgs...)...)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, "No reports found") {
		t.Errorf("history output = %q", out)
	}

	out, _, err = runCLI(t, append([]string{"history", "--json"}, storeArgs...)...)
	if err != nil {
		t.Fatalf("history --json failed: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("history --json = %q, want []", out)
	}
}

func TestApp_HistoryRejectsMemoryStore(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"default backend", []string{"history"}},
		{"explicit memory", []string{"history", "--store", "memory"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			if !errors.Is(err, ErrEphemeralStore) {
				t.Errorf("history error = %v, want %v", err, ErrEphemeralStore)
			}
		})
	}
}

func TestApp_Render(t *testing.T) {
	gridPath := writeFile(t, "small.txt", ".#.\n...\n.^.\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"plain", []string{"render", gridPath}, ".#.\n...\n.^.\n"},
		{"visited", []string{"render", "--visited", gridPath}, ".#.\n.+-\n.^.\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCLI(t, tt.args...)
			if err != nil {
				t.Fatalf("render failed: %v", err)
			}
			if out != tt.want {
				t.Errorf("render output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestApp_Validate(t *testing.T) {
	cfgPath := writeFile(t, "patrol.yaml", `
name: lab-floor
version: "1.0"
search:
  workers: 4
  trial_timeout: 2s
storage:
  backend: sqlite
`)

	out, _, err := runCLI(t, "validate", "-c", cfgPath)
	if err != nil {
		t.Fatalf("validate command failed: %v", err)
	}
	for _, want := range []string{"valid", "Name: lab-floor", "Workers: 4", "Trial timeout: 2s", "Storage: sqlite"} {
		if !strings.Contains(out, want) {
			t.Errorf("validate output missing %q, got:\n%s", want, out)
		}
	}
}

func TestApp_ValidateInvalid(t *testing.T) {
	tests := map[string]string{
		"missing version": "name: x\n",
		"unknown field":   "version: \"1.0\"\nturbo: true\n",
		"bad backend":     "version: \"1.0\"\nstorage:\n  backend: redis\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			cfgPath := writeFile(t, "patrol.yaml", content)
			if _, _, err := runCLI(t, "validate", "-c", cfgPath); err == nil {
				t.Fatal("validate command should fail for invalid config")
			}
		})
	}

	if _, _, err := runCLI(t, "validate"); err == nil {
		t.Error("validate without -c should fail")
	}
}

func TestApp_Schema(t *testing.T) {
	out, _, err := runCLI(t, "schema")
	if err != nil {
		t.Fatalf("schema command failed: %v", err)
	}
	if !strings.Contains(out, "$schema") || !strings.Contains(out, "Patrol Configuration") {
		t.Errorf("schema output unexpected, got: %s", out)
	}

	path := filepath.Join(t.TempDir(), "schema.json")
	out, _, err = runCLI(t, "schema", "-o", path)
	if err != nil {
		t.Fatalf("schema -o failed: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("schema -o output = %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("schema file not written: %v", err)
	}
	if !json.Valid(data) {
		t.Error("schema file is not valid JSON")
	}
}
