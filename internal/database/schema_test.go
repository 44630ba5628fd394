package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrationFilesExist(t *testing.T) {
	migrationsDir := "../../migrations"

	// Check if migrations directory exists
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		t.Fatal("Migrations directory does not exist")
	}

	// Expected migration files
	expectedMigrations := []string{
		"00001_create_users_table.sql",
		"00002_create_stores_table.sql",
		"00003_create_products_table.sql",
		"00004_create_orders_table.sql",
		"00005_create_messages_table.sql",
		"00006_create_feedbacks_table.sql",
		"00007_create_updated_at_trigger.sql",
	}

	for _, migration := range expectedMigrations {
		path := filepath.Join(migrationsDir, migration)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Migration file %s does not exist", migration)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	migrationsDir := "../../migrations"

	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		sqlFileCount++
		content, err := os.ReadFile(filepath.Join(migrationsDir, file.Name()))
		if err != nil {
			t.Errorf("Failed to read migration file %s: %v", file.Name(), err)
			continue
		}

		contentStr := string(content)

		// Check for goose Up directive
		if !strings.Contains(contentStr, "-- +goose Up") {
			t.Errorf("Migration file %s missing '-- +goose Up' directive", file.Name())
		}

		// Check for goose Down directive
		if !strings.Contains(contentStr, "-- +goose Down") {
			t.Errorf("Migration file %s missing '-- +goose Down' directive", file.Name())
		}

		// Check for StatementBegin/End
		if !strings.Contains(contentStr, "-- +goose StatementBegin") {
			t.Errorf("Migration file %s missing '-- +goose StatementBegin' directive", file.Name())
		}

		if !strings.Contains(contentStr, "-- +goose StatementEnd") {
			t.Errorf("Migration file %s missing '-- +goose StatementEnd' directive", file.Name())
		}
	}

	if sqlFileCount == 0 {
		t.Error("No migration files found")
	}
}

func TestOrderSchemaEnforcesGuards(t *testing.T) {
	content, err := os.ReadFile(filepath.Join("../../migrations", "00004_create_orders_table.sql"))
	if err != nil {
		t.Fatalf("Failed to read orders migration: %v", err)
	}

	contentStr := string(content)

	checks := []string{
		"CHECK (quantity > 0)",
		"product_name",
		"unit_price_cents",
		"product_image_url",
	}
	for _, c := range checks {
		if !strings.Contains(contentStr, c) {
			t.Errorf("Orders migration missing %q", c)
		}
	}
}

func TestFeedbackSchemaEnforcesRatingBounds(t *testing.T) {
	content, err := os.ReadFile(filepath.Join("../../migrations", "00006_create_feedbacks_table.sql"))
	if err != nil {
		t.Fatalf("Failed to read feedbacks migration: %v", err)
	}

	if !strings.Contains(string(content), "CHECK (rating BETWEEN 1 AND 5)") {
		t.Error("Feedbacks migration missing rating bounds check")
	}
}
