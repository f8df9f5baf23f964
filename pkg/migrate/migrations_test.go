package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/pos-backend/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations: %v", err)
	}
}

func TestSalesMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_sales.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS sales",
		"CREATE TABLE IF NOT EXISTS sale_items",
		"FOREIGN KEY (sale_id) REFERENCES sales(id) ON DELETE CASCADE",
		"CHECK (quantity > 0)",
		"'completed', 'refunded', 'cancelled'",
		"DROP TABLE IF EXISTS sale_items",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestProductsMigrationAllowsNegativeQuantity(t *testing.T) {
	content := readMigration(t, "*_create_categories_and_products.sql")

	if !strings.Contains(content, "version INTEGER NOT NULL DEFAULT 1") {
		t.Errorf("expected optimistic version column")
	}
	if strings.Contains(content, "CHECK (quantity >= 0)") {
		t.Errorf("quantity must not carry a floor constraint; the direct set path may write negatives")
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %s", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
