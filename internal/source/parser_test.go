package source

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mohdfareed/health-vaults-sub001/internal/model"
)

func writeExport(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFileBasic(t *testing.T) {
	path := writeExport(t, "export.jsonl", `{"type":"weight","date":"2026-03-01","value":82.4}
{"type":"intake","date":"2026-03-01","value":650}
{"type":"bodyfat","date":"2026-03-01","value":0.24}
`)

	res := ParseFile(path)
	if res.Err != nil {
		t.Fatalf("ParseFile: %v", res.Err)
	}
	if res.ParseErrors != 0 {
		t.Fatalf("parse errors = %d, want 0", res.ParseErrors)
	}
	if len(res.Samples) != 3 {
		t.Fatalf("samples = %d, want 3", len(res.Samples))
	}

	w := res.Samples[0]
	if w.Metric != model.MetricWeight || w.Value != 82.4 {
		t.Fatalf("weight sample = %+v", w)
	}
	if !w.Day.Equal(model.NewDate(2026, time.March, 1)) {
		t.Fatalf("weight day = %v", w.Day)
	}
}

func TestParseFileToleratesMalformedLines(t *testing.T) {
	path := writeExport(t, "export.jsonl", `{"type":"weight","date":"2026-03-01","value":82.4}
not json at all
{"type":"steps","date":"2026-03-01","value":9000}
{"type":"weight","date":"yesterday","value":81}
{"type":"intake","date":"2026-03-02","value":700}
`)

	res := ParseFile(path)
	if res.Err != nil {
		t.Fatalf("ParseFile: %v", res.Err)
	}
	if len(res.Samples) != 2 {
		t.Fatalf("samples = %d, want 2", len(res.Samples))
	}
	if res.ParseErrors != 3 {
		t.Fatalf("parse errors = %d, want 3", res.ParseErrors)
	}
}

func TestParseFileUnitNormalization(t *testing.T) {
	path := writeExport(t, "export.jsonl", `{"type":"weight","date":"2026-03-01","value":180,"unit":"lb"}
{"type":"bodyfat","date":"2026-03-01","value":24,"unit":"percent"}
`)

	res := ParseFile(path)
	if res.Err != nil || res.ParseErrors != 0 {
		t.Fatalf("ParseFile: err=%v errors=%d", res.Err, res.ParseErrors)
	}

	if got := res.Samples[0].Value; math.Abs(got-81.6466266) > 1e-6 {
		t.Fatalf("180 lb = %v kg, want 81.6466266", got)
	}
	if got := res.Samples[1].Value; got != 0.24 {
		t.Fatalf("24 percent = %v, want 0.24", got)
	}
}

func TestParseFileRejectsOutOfRangeValues(t *testing.T) {
	path := writeExport(t, "export.jsonl", `{"type":"weight","date":"2026-03-01","value":-5}
{"type":"intake","date":"2026-03-01","value":-100}
{"type":"bodyfat","date":"2026-03-01","value":1.4}
`)

	res := ParseFile(path)
	if len(res.Samples) != 0 {
		t.Fatalf("samples = %d, want 0", len(res.Samples))
	}
	if res.ParseErrors != 3 {
		t.Fatalf("parse errors = %d, want 3", res.ParseErrors)
	}
}

func TestParseFileLoggedAt(t *testing.T) {
	path := writeExport(t, "export.jsonl", `{"type":"weight","date":"2026-03-01","value":81,"logged_at":"2026-03-01T07:30:00Z"}
`)

	res := ParseFile(path)
	if res.Err != nil || len(res.Samples) != 1 {
		t.Fatalf("ParseFile: err=%v n=%d", res.Err, len(res.Samples))
	}
	want := time.Date(2026, 3, 1, 7, 30, 0, 0, time.UTC)
	if !res.Samples[0].LoggedAt.Equal(want) {
		t.Fatalf("logged_at = %v, want %v", res.Samples[0].LoggedAt, want)
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.jsonl", "a.jsonl", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "c.jsonl"), []byte("{}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	files, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("files = %d, want 3", len(files))
	}
	if files[0].Name != "a.jsonl" {
		t.Fatalf("first file = %q, want sorted order", files[0].Name)
	}
	for _, f := range files {
		if f.SizeBytes == 0 {
			t.Fatalf("file %q has zero size", f.Path)
		}
	}
}

func TestScanDirMissing(t *testing.T) {
	files, err := ScanDir(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if files != nil {
		t.Fatalf("files = %v, want nil", files)
	}
}
