package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stridesales/fieldops-backend/pkg/migrate"
)

func TestLendingMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_lending_tables.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no lending migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS shoe_requests",
		"CREATE TABLE IF NOT EXISTS event_shoe_variants",
		"CREATE TABLE IF NOT EXISTS shoe_returns",
		"CHECK (quantity > 0)",
		"CHECK (status IN ('pending', 'approved', 'rejected'))",
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_event_shoe_variants_event_variant",
		"DROP TABLE IF EXISTS shoe_returns",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}
