package lint

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lex00/ass-lsp-go/script"
)

func TestRun(t *testing.T) {
	doc := script.Parse("")
	rules := []Rule{
		&mockRule{id: "TEST001", diags: []Diagnostic{{Code: "first", Severity: SeverityError}}},
		&mockRule{id: "TEST002", diags: []Diagnostic{{Code: "second", Severity: SeverityHint}}},
	}

	t.Run("fills rule id", func(t *testing.T) {
		diags := Run(doc, rules, nil)
		if len(diags) != 2 {
			t.Fatalf("Run() returned %d diagnostics, want 2", len(diags))
		}
		if diags[0].Rule != "TEST001" || diags[1].Rule != "TEST002" {
			t.Errorf("rules = %q, %q", diags[0].Rule, diags[1].Rule)
		}
	})

	t.Run("respects disabled rules in config", func(t *testing.T) {
		cfg := &Config{DisabledRules: []string{"TEST001"}, MinSeverity: SeverityHint}
		diags := Run(doc, rules, cfg)
		if len(diags) != 1 || diags[0].Code != "second" {
			t.Errorf("Run() = %+v, want only TEST002", diags)
		}
	})

	t.Run("respects min severity", func(t *testing.T) {
		diags := Run(doc, rules, &Config{MinSeverity: SeverityWarning})
		if len(diags) != 1 || diags[0].Code != "first" {
			t.Errorf("Run() = %+v, want only errors", diags)
		}
	})
}

func TestLintFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.ass")

	content := "[Script Info]\nTitle: x\n\n[Events]\nDialogue: 0,0:00:01.00,0:00:02.00,Ghost,,0,0,0,,hi\n"
	if err := os.WriteFile(testFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("returns diagnostics with file set", func(t *testing.T) {
		diags, err := LintFile(testFile, nil)
		if err != nil {
			t.Fatalf("LintFile() error = %v", err)
		}
		if len(diags) != 1 {
			t.Fatalf("LintFile() returned %d diagnostics, want 1", len(diags))
		}
		if diags[0].Code != CodeUndefinedStyle || diags[0].File != testFile {
			t.Errorf("diagnostic = %+v", diags[0])
		}
	})

	t.Run("returns error for non-existent file", func(t *testing.T) {
		_, err := LintFile("/nonexistent/file.ass", nil)
		if err == nil {
			t.Error("LintFile() expected error for non-existent file")
		}
	})
}

func TestLintFiles(t *testing.T) {
	tmpDir := t.TempDir()
	var paths []string
	for i, content := range []string{
		"[Script Info]\n[Events]\n",
		"",
		"[Events]\n",
	} {
		path := filepath.Join(tmpDir, string(rune('a'+i))+".ass")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}

	results, err := LintFiles(context.Background(), paths, nil, 2)
	if err != nil {
		t.Fatalf("LintFiles() error = %v", err)
	}
	want := []int{0, 2, 1}
	for i, r := range results {
		if r.Path != paths[i] {
			t.Errorf("result %d path = %q, want %q", i, r.Path, paths[i])
		}
		if len(r.Diagnostics) != want[i] {
			t.Errorf("result %d has %d diagnostics, want %d", i, len(r.Diagnostics), want[i])
		}
	}

	_, err = LintFiles(context.Background(), append(paths, filepath.Join(tmpDir, "missing.ass")), nil, 0)
	if err == nil {
		t.Error("LintFiles() expected error for missing file")
	}
}
