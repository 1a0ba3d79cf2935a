package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "signpress.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Driver != DriverMemory {
		t.Fatalf("Store.Driver = %q, want memory", cfg.Store.Driver)
	}
	if cfg.Label.Width != 102 || cfg.Label.Height != 36 {
		t.Fatalf("label size = %gx%g, want 102x36", cfg.Label.Width, cfg.Label.Height)
	}
	if cfg.Page.LabelsPerPage() != 16 {
		t.Fatalf("LabelsPerPage = %d, want 16", cfg.Page.LabelsPerPage())
	}
	if cfg.Cleaner.Attempts != 2 || cfg.Cleaner.Backoff.Std() != 2*time.Second {
		t.Fatalf("cleaner defaults = %+v", cfg.Cleaner)
	}
	if cfg.Store.Attempts != 3 || cfg.Store.Backoff.Std() != 200*time.Millisecond {
		t.Fatalf("store retry defaults = %+v", cfg.Store)
	}
	if cfg.Columns.ID == "" {
		t.Fatal("column mapping not defaulted")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
label:
  width: 90
  barcode_symbology: ean13
page:
  rows: 4
  columns: 3
cleaner:
  model: gemini-2.0-flash
  backoff: 500ms
store:
  driver: sqlite
  path: /tmp/state.db
columns:
  id: Barcode
emit_original: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Label.Width != 90 || cfg.Label.Symbology != "ean13" {
		t.Fatalf("label overrides not applied: %+v", cfg.Label)
	}
	if cfg.Label.Height != 36 {
		t.Fatalf("Height = %g, want default kept for unset field", cfg.Label.Height)
	}
	if cfg.Page.Rows != 4 || cfg.Page.Columns != 3 {
		t.Fatalf("page overrides not applied: %+v", cfg.Page)
	}
	if cfg.Cleaner.Model != "gemini-2.0-flash" || cfg.Cleaner.Backoff.Std() != 500*time.Millisecond {
		t.Fatalf("cleaner overrides not applied: %+v", cfg.Cleaner)
	}
	if cfg.Store.Driver != DriverSQLite || cfg.Store.Path != "/tmp/state.db" {
		t.Fatalf("store overrides not applied: %+v", cfg.Store)
	}
	if cfg.Columns.ID != "Barcode" {
		t.Fatalf("Columns.ID = %q", cfg.Columns.ID)
	}
	if !cfg.EmitOriginal {
		t.Fatal("emit_original not applied")
	}
}

func TestLoadPageSizeShorthand(t *testing.T) {
	tests := []struct {
		in   string
		w, h float64
	}{
		{"a4", 210, 297},
		{"letter", 215.9, 279.4},
		{"100x150", 100, 150},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cfg, err := Load(writeFile(t, "page_size: "+tt.in+"\n"))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.Page.Width != tt.w || cfg.Page.Height != tt.h {
				t.Fatalf("page = %gx%g, want %gx%g", cfg.Page.Width, cfg.Page.Height, tt.w, tt.h)
			}
		})
	}

	if _, err := Load(writeFile(t, "page_size: huge\n")); err == nil || !strings.Contains(err.Error(), "page_size") {
		t.Fatalf("err = %v, want page_size rejection", err)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "store:\n  driver: sqlite\n")
	t.Setenv("SIGNPRESS_STORE_DRIVER", "firestore")
	t.Setenv("SIGNPRESS_STORE_PROJECT", "shop-prod")
	t.Setenv("SIGNPRESS_WORKERS", "8")
	t.Setenv("SIGNPRESS_CLEANER_DISABLED", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Driver != DriverFirestore || cfg.Store.Project != "shop-prod" {
		t.Fatalf("env overrides not applied: %+v", cfg.Store)
	}
	if cfg.Workers != 8 {
		t.Fatalf("Workers = %d, want 8", cfg.Workers)
	}
	if !cfg.Cleaner.Disabled {
		t.Fatal("SIGNPRESS_CLEANER_DISABLED not applied")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantSub string
	}{
		{"unknown driver", "store:\n  driver: redis\n", "unknown store driver"},
		{"firestore without project", "store:\n  driver: firestore\n", "store.project"},
		{"bad duration", "cleaner:\n  backoff: soon\n", "bad duration"},
		{"zero attempts", "cleaner:\n  attempts: -1\n", "cleaner.attempts"},
		{"zero store attempts", "store:\n  attempts: -1\n", "store.attempts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.wantSub) {
				t.Fatalf("err = %v, want %q", err, tt.wantSub)
			}
		})
	}
}

func TestAPIKeyComesFromEnvironmentOnly(t *testing.T) {
	t.Setenv("TEST_SIGNPRESS_KEY", "secret-123")
	c := Cleaner{APIKeyEnv: "TEST_SIGNPRESS_KEY"}
	if got := c.APIKey(); got != "secret-123" {
		t.Fatalf("APIKey = %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load succeeded on a missing file")
	}
}
