package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atelierliu/renoquote-backend/pkg/migrate"
)

func TestQuotesMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_quotes.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no quotes migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS quotes",
		"CREATE TABLE IF NOT EXISTS line_items",
		"FOREIGN KEY (quote_id) REFERENCES quotes(id) ON DELETE CASCADE",
		"CHECK (total_cents >= 0)",
		"CHECK (quantity >= 0)",
		"CREATE INDEX IF NOT EXISTS idx_line_items_quote_position",
		"DROP TABLE IF EXISTS line_items",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirValidates(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) < 7 {
		t.Fatalf("expected full schema migration set, got %d files", len(matches))
	}

	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}
