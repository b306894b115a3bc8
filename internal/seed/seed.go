// Package seed loads the default catalog on startup in an idempotent way,
// optionally merges a YAML catalog file, and can generate sample history
// for local analytics demos.
package seed

import (
	"database/sql"
	"fmt"

	"github.com/h2d-systems/printcost/internal/catalog"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

type defaultMaterial struct {
	name       string
	brand      string
	family     catalog.Family
	pricePerKg float64
	density    float64
	tempMin    int
	tempMax    int
	supportPct float64
	failurePct float64
}

// Bulk prices for six-spool orders, December 2024.
var defaultMaterials = []defaultMaterial{
	{"PLA Basic", "Bambu Lab", catalog.FamilyPLA, 13.99, 1.24, 190, 220, 15, 10},
	{"PLA Matte", "Bambu Lab", catalog.FamilyPLA, 19.99, 1.24, 190, 220, 15, 10},
	{"PLA Wood", "Bambu Lab", catalog.FamilyPLAWood, 24.99, 1.20, 190, 220, 15, 12},
	{"PETG Basic", "Bambu Lab", catalog.FamilyPETG, 19.99, 1.27, 230, 250, 15, 10},
	{"ABS", "Bambu Lab", catalog.FamilyABS, 19.99, 1.04, 240, 270, 15, 12},
	{"ASA", "Bambu Lab", catalog.FamilyASA, 24.99, 1.07, 240, 280, 15, 12},
	{"PC", "Bambu Lab", catalog.FamilyPC, 49.99, 1.19, 260, 290, 20, 15},
	{"TPU 95A", "Bambu Lab", catalog.FamilyTPU, 34.99, 1.21, 220, 240, 5, 15},
	{"PLA-CF", "Bambu Lab", catalog.FamilyPLACF, 29.99, 1.29, 200, 230, 15, 10},
	{"PETG-CF", "Bambu Lab", catalog.FamilyPETGCF, 36.29, 1.30, 240, 270, 15, 10},
	{"PETG-GF", "Bambu Lab", catalog.FamilyPETGGF, 39.99, 1.32, 240, 270, 15, 10},
	{"PA-CF", "Bambu Lab", catalog.FamilyPACF, 79.99, 1.17, 260, 300, 20, 15},
}

type defaultPrinter struct {
	brand, model      string
	price             float64
	buildX, buildY    int
	buildZ            int
	powerKW           float64
	maintenance       float64
	depreciationYears float64
	jobsPerYear       float64
	features          string
}

var defaultPrinters = []defaultPrinter{
	{"Bambu Lab", "X1 Carbon", 1499, 256, 256, 256, 1.05, 120, 3, 500, "ams,enclosed,lidar"},
	{"Prusa", "MK4", 1099, 250, 210, 220, 0.35, 80, 4, 400, "open_frame,input_shaper"},
}

type defaultNozzle struct {
	name     string
	diameter float64
	tip      catalog.TipMaterial
	price    float64
	lifetime float64
	wear     float64
}

var defaultNozzles = []defaultNozzle{
	{"Brass 0.4 mm", 0.4, catalog.TipBrass, 5.00, 1000, 1.0},
	{"Brass 0.6 mm", 0.6, catalog.TipBrass, 5.50, 1000, 1.0},
	{"Hardened steel 0.4 mm", 0.4, catalog.TipHardenedSteel, 25.00, 3000, 0.4},
	{"Hardened steel 0.6 mm", 0.6, catalog.TipHardenedSteel, 27.50, 3000, 0.4},
	{"Ruby 0.4 mm", 0.4, catalog.TipRuby, 90.00, 8000, 0.1},
	{"Tungsten carbide 0.6 mm", 0.6, catalog.TipTungstenCarbide, 60.00, 5000, 0.15},
}

// Run executes the startup seed in an idempotent way: entries that already
// exist (matched by their unique name) are left untouched.
func Run(db *sql.DB) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := seedMaterials(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := seedPrinters(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := seedNozzles(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedMaterials(tx *sql.Tx, stats *Stats) error {
	for _, m := range defaultMaterials {
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM materials WHERE name = ? LIMIT 1)`, m.name).Scan(&exists); err != nil {
			return fmt.Errorf("check material %q existence: %w", m.name, err)
		}
		if exists {
			continue
		}

		if _, err := tx.Exec(`
			INSERT INTO materials (
				name, brand, family, price_per_kg, density_g_cm3,
				print_temp_min_c, print_temp_max_c, default_support_pct, default_failure_pct,
				diameter_mm, active
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, TRUE)
		`, m.name, m.brand, string(m.family), m.pricePerKg, m.density,
			m.tempMin, m.tempMax, m.supportPct, m.failurePct, 1.75); err != nil {
			return fmt.Errorf("insert material %q: %w", m.name, err)
		}
		stats.Inserts++
	}
	return nil
}

func seedPrinters(tx *sql.Tx, stats *Stats) error {
	for _, p := range defaultPrinters {
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM printers WHERE brand = ? AND model = ? LIMIT 1)`, p.brand, p.model).Scan(&exists); err != nil {
			return fmt.Errorf("check printer %q %q existence: %w", p.brand, p.model, err)
		}
		if exists {
			continue
		}

		if _, err := tx.Exec(`
			INSERT INTO printers (
				brand, model, price, build_x_mm, build_y_mm, build_z_mm,
				power_kw, maintenance_per_year, depreciation_years, jobs_per_year,
				features, active
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, TRUE)
		`, p.brand, p.model, p.price, p.buildX, p.buildY, p.buildZ,
			p.powerKW, p.maintenance, p.depreciationYears, p.jobsPerYear, p.features); err != nil {
			return fmt.Errorf("insert printer %q %q: %w", p.brand, p.model, err)
		}
		stats.Inserts++
	}
	return nil
}

func seedNozzles(tx *sql.Tx, stats *Stats) error {
	for _, n := range defaultNozzles {
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM nozzles WHERE name = ? LIMIT 1)`, n.name).Scan(&exists); err != nil {
			return fmt.Errorf("check nozzle %q existence: %w", n.name, err)
		}
		if exists {
			continue
		}

		if _, err := tx.Exec(`
			INSERT INTO nozzles (name, diameter_mm, tip_material, price, lifetime_hours, wear_factor, active)
			VALUES (?, ?, ?, ?, ?, ?, TRUE)
		`, n.name, n.diameter, string(n.tip), n.price, n.lifetime, n.wear); err != nil {
			return fmt.Errorf("insert nozzle %q: %w", n.name, err)
		}
		stats.Inserts++
	}
	return nil
}
