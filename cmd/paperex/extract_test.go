package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestCheckPDF(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "ok.pdf")
	txt := filepath.Join(dir, "notes.pdf")
	os.WriteFile(pdf, []byte("%PDF-1.4\n%%EOF"), 0o644)
	os.WriteFile(txt, []byte("just text"), 0o644)

	if err := checkPDF(pdf); err != nil {
		t.Fatalf("checkPDF(pdf) error = %v", err)
	}
	if err := checkPDF(txt); err == nil {
		t.Fatal("expected error for a file without the PDF header")
	}
	if err := checkPDF(filepath.Join(dir, "missing.pdf")); err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func TestReadFields(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("fields", "")
	viper.Set("fields-file", "")
	if _, err := readFields(); err == nil {
		t.Fatal("expected error without fields")
	}

	file := filepath.Join(t.TempDir(), "fields.json")
	os.WriteFile(file, []byte(`["Title"]`), 0o644)
	viper.Set("fields-file", file)
	raw, err := readFields()
	if err != nil || string(raw) != `["Title"]` {
		t.Fatalf("readFields() = %s, %v", raw, err)
	}

	viper.Set("fields", `["Inline"]`)
	raw, err = readFields()
	if err != nil || string(raw) != `["Inline"]` {
		t.Fatalf("inline fields must win, got %s, %v", raw, err)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("GCP_PROJECT_ID", "env-project")
	t.Setenv("EXTRACTION_MODEL", "")

	viper.Set("extraction-model", "gemini-2.5-flash")
	viper.Set("max-pages", 25)

	cfg := loadConfig()

	if cfg.GCPProjectID != "env-project" {
		t.Fatalf("expected environment project to be kept, got %s", cfg.GCPProjectID)
	}
	if cfg.ExtractionModel != "gemini-2.5-flash" {
		t.Fatalf("expected flag model override, got %s", cfg.ExtractionModel)
	}
	if cfg.MaxPages != 25 {
		t.Fatalf("expected max pages 25, got %d", cfg.MaxPages)
	}
}
