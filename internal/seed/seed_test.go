package seed

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/h2d-systems/printcost/internal/catalog"
	"github.com/h2d-systems/printcost/internal/db"
	"github.com/h2d-systems/printcost/internal/history"
	"github.com/h2d-systems/printcost/internal/migrations"
	"github.com/h2d-systems/printcost/internal/pricing"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "seed-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := migrations.Up(database, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return database
}

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)
	defaults := len(defaultMaterials) + len(defaultPrinters) + len(defaultNozzles)

	for i := 0; i < 5; i++ {
		stats, err := Run(database)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != defaults {
				t.Fatalf("expected %d inserts in first run, got %d", defaults, stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM materials WHERE name = ?`, []any{"PLA Basic"}, 1)
	assertCount(t, database, `SELECT COUNT(*) FROM printers WHERE brand = ? AND model = ?`, []any{"Bambu Lab", "X1 Carbon"}, 1)
	assertCount(t, database, `SELECT COUNT(*) FROM nozzles WHERE name = ?`, []any{"Brass 0.4 mm"}, 1)
}

func TestImportCatalogFile(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)
	if _, err := Run(database); err != nil {
		t.Fatalf("run seed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	contents := `
materials:
  - name: PLA Basic
    brand: Bambu Lab
    family: PLA
    price_per_kg: 12.49
  - name: PLA Silk
    brand: eSUN
    family: PLA
    price_per_kg: 21.99
printers:
  - brand: Creality
    model: K1 Max
    price: 899
    power_kw: 0.9
    depreciation_years: 3
    jobs_per_year: 350
nozzles:
  - name: Ruby 0.6 mm
    diameter_mm: 0.6
    tip_material: ruby
    price: 95
    lifetime_hours: 8000
    wear_factor: 0.1
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write catalog file: %v", err)
	}

	stats, err := ImportCatalogFile(database, path)
	if err != nil {
		t.Fatalf("import catalog file: %v", err)
	}
	if stats.Inserts != 3 {
		t.Fatalf("expected 3 inserts, got %d", stats.Inserts)
	}
	if stats.Updates != 1 {
		t.Fatalf("expected 1 update, got %d", stats.Updates)
	}

	var price float64
	if err := database.QueryRow(`SELECT price_per_kg FROM materials WHERE name = ?`, "PLA Basic").Scan(&price); err != nil {
		t.Fatalf("query updated price: %v", err)
	}
	if price != 12.49 {
		t.Fatalf("PLA Basic price_per_kg = %v, want 12.49", price)
	}
}

func TestImportCatalogFile_RejectsUnknownFamily(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	contents := `
materials:
  - name: Mystery
    family: VINYL
    price_per_kg: 10
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write catalog file: %v", err)
	}

	if _, err := ImportCatalogFile(database, path); err == nil {
		t.Fatal("expected an error for an unknown family")
	}

	assertCount(t, database, `SELECT COUNT(*) FROM materials WHERE name = ?`, []any{"Mystery"}, 0)
}

func TestSampleHistory(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)
	if _, err := Run(database); err != nil {
		t.Fatalf("run seed: %v", err)
	}

	catalogStore := catalog.NewStore(database)
	historyStore := history.NewStore(database)

	if err := SampleHistory(catalogStore, historyStore, pricing.DefaultConfig(), 25); err != nil {
		t.Fatalf("generate sample history: %v", err)
	}

	records, err := historyStore.List("")
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(records) != 25 {
		t.Fatalf("expected 25 records, got %d", len(records))
	}
	for _, rec := range records {
		if rec.SalePrice <= 0 {
			t.Fatalf("record %s has non-positive sale price %v", rec.ID, rec.SalePrice)
		}
		if rec.RequestJSON == "" {
			t.Fatalf("record %s is missing its request snapshot", rec.ID)
		}
	}
}

func assertCount(t *testing.T, database *sql.DB, query string, args []any, expected int) {
	t.Helper()

	var count int
	if err := database.QueryRow(query, args...).Scan(&count); err != nil {
		t.Fatalf("count query %q: %v", query, err)
	}
	if count != expected {
		t.Fatalf("count for %q = %d, want %d", query, count, expected)
	}
}
