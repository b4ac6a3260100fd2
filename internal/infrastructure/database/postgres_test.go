package database

import (
	"strings"
	"testing"
)

func TestMigrationSource(t *testing.T) {
	found, err := MigrationSource().FindMigrations()
	if err != nil {
		t.Fatalf("find migrations: %v", err)
	}
	if len(found) < 2 {
		t.Fatalf("expected schema and seed migrations, got %d", len(found))
	}
	if !strings.HasPrefix(found[0].Id, "001_") {
		t.Fatalf("migrations should be ordered, first is %q", found[0].Id)
	}
	if len(found[0].Up) == 0 || len(found[0].Down) == 0 {
		t.Fatalf("first migration should have up and down statements")
	}
}
