package seed

import (
	"database/sql"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/h2d-systems/printcost/internal/catalog"
)

// catalogFile is the shape of an optional YAML catalog overlay. Entries
// are matched by their unique name and upserted, so the file can both add
// entries and adjust prices of seeded ones.
type catalogFile struct {
	Materials []materialEntry `yaml:"materials"`
	Printers  []printerEntry  `yaml:"printers"`
	Nozzles   []nozzleEntry   `yaml:"nozzles"`
}

type materialEntry struct {
	Name              string  `yaml:"name"`
	Brand             string  `yaml:"brand"`
	Family            string  `yaml:"family"`
	PricePerKg        float64 `yaml:"price_per_kg"`
	DensityGCM3       float64 `yaml:"density_g_cm3"`
	PrintTempMinC     int     `yaml:"print_temp_min_c"`
	PrintTempMaxC     int     `yaml:"print_temp_max_c"`
	DefaultSupportPct float64 `yaml:"default_support_pct"`
	DefaultFailurePct float64 `yaml:"default_failure_pct"`
}

type printerEntry struct {
	Brand              string  `yaml:"brand"`
	Model              string  `yaml:"model"`
	Price              float64 `yaml:"price"`
	BuildXMM           int     `yaml:"build_x_mm"`
	BuildYMM           int     `yaml:"build_y_mm"`
	BuildZMM           int     `yaml:"build_z_mm"`
	PowerKW            float64 `yaml:"power_kw"`
	MaintenancePerYear float64 `yaml:"maintenance_per_year"`
	DepreciationYears  float64 `yaml:"depreciation_years"`
	JobsPerYear        float64 `yaml:"jobs_per_year"`
	Features           string  `yaml:"features"`
}

type nozzleEntry struct {
	Name          string  `yaml:"name"`
	DiameterMM    float64 `yaml:"diameter_mm"`
	TipMaterial   string  `yaml:"tip_material"`
	Price         float64 `yaml:"price"`
	LifetimeHours float64 `yaml:"lifetime_hours"`
	WearFactor    float64 `yaml:"wear_factor"`
}

// ImportCatalogFile merges a YAML catalog file into the database.
func ImportCatalogFile(db *sql.DB, path string) (Stats, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Stats{}, fmt.Errorf("read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Stats{}, fmt.Errorf("parse catalog file: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin catalog import transaction: %w", err)
	}

	stats := Stats{}
	if err := importMaterials(tx, file.Materials, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := importPrinters(tx, file.Printers, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := importNozzles(tx, file.Nozzles, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit catalog import transaction: %w", err)
	}
	return stats, nil
}

func importMaterials(tx *sql.Tx, entries []materialEntry, stats *Stats) error {
	for _, e := range entries {
		if _, err := catalog.ParseFamily(e.Family); err != nil {
			return fmt.Errorf("catalog file material %q: %w", e.Name, err)
		}
		if e.Name == "" || e.PricePerKg <= 0 {
			return fmt.Errorf("catalog file material %q: name and a positive price_per_kg are required", e.Name)
		}

		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM materials WHERE name = ? LIMIT 1)`, e.Name).Scan(&exists); err != nil {
			return fmt.Errorf("check material %q existence: %w", e.Name, err)
		}

		if exists {
			if _, err := tx.Exec(`
				UPDATE materials
				SET brand = ?, family = ?, price_per_kg = ?, updated_at = CURRENT_TIMESTAMP
				WHERE name = ?
			`, e.Brand, e.Family, e.PricePerKg, e.Name); err != nil {
				return fmt.Errorf("update material %q: %w", e.Name, err)
			}
			stats.Updates++
			continue
		}

		if _, err := tx.Exec(`
			INSERT INTO materials (
				name, brand, family, price_per_kg, density_g_cm3,
				print_temp_min_c, print_temp_max_c, default_support_pct, default_failure_pct,
				diameter_mm, active
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, TRUE)
		`, e.Name, e.Brand, e.Family, e.PricePerKg, orDefault(e.DensityGCM3, 1.24),
			orDefaultInt(e.PrintTempMinC, 190), orDefaultInt(e.PrintTempMaxC, 220),
			orDefault(e.DefaultSupportPct, 15), orDefault(e.DefaultFailurePct, 10), 1.75); err != nil {
			return fmt.Errorf("insert material %q: %w", e.Name, err)
		}
		stats.Inserts++
	}
	return nil
}

func importPrinters(tx *sql.Tx, entries []printerEntry, stats *Stats) error {
	for _, e := range entries {
		if e.Brand == "" || e.Model == "" || e.Price <= 0 || e.PowerKW <= 0 || e.DepreciationYears <= 0 || e.JobsPerYear <= 0 {
			return fmt.Errorf("catalog file printer %q %q: brand, model and positive price, power_kw, depreciation_years, jobs_per_year are required", e.Brand, e.Model)
		}

		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM printers WHERE brand = ? AND model = ? LIMIT 1)`, e.Brand, e.Model).Scan(&exists); err != nil {
			return fmt.Errorf("check printer %q %q existence: %w", e.Brand, e.Model, err)
		}

		if exists {
			if _, err := tx.Exec(`
				UPDATE printers
				SET price = ?, power_kw = ?, maintenance_per_year = ?, depreciation_years = ?, jobs_per_year = ?, updated_at = CURRENT_TIMESTAMP
				WHERE brand = ? AND model = ?
			`, e.Price, e.PowerKW, e.MaintenancePerYear, e.DepreciationYears, e.JobsPerYear, e.Brand, e.Model); err != nil {
				return fmt.Errorf("update printer %q %q: %w", e.Brand, e.Model, err)
			}
			stats.Updates++
			continue
		}

		if _, err := tx.Exec(`
			INSERT INTO printers (
				brand, model, price, build_x_mm, build_y_mm, build_z_mm,
				power_kw, maintenance_per_year, depreciation_years, jobs_per_year,
				features, active
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, TRUE)
		`, e.Brand, e.Model, e.Price, orDefaultInt(e.BuildXMM, 256), orDefaultInt(e.BuildYMM, 256), orDefaultInt(e.BuildZMM, 256),
			e.PowerKW, e.MaintenancePerYear, e.DepreciationYears, e.JobsPerYear, e.Features); err != nil {
			return fmt.Errorf("insert printer %q %q: %w", e.Brand, e.Model, err)
		}
		stats.Inserts++
	}
	return nil
}

func importNozzles(tx *sql.Tx, entries []nozzleEntry, stats *Stats) error {
	for _, e := range entries {
		if _, err := catalog.ParseTipMaterial(e.TipMaterial); err != nil {
			return fmt.Errorf("catalog file nozzle %q: %w", e.Name, err)
		}
		if !catalog.ValidDiameter(e.DiameterMM) {
			return fmt.Errorf("catalog file nozzle %q: diameter %.2f is not in the supported set", e.Name, e.DiameterMM)
		}
		if e.Name == "" || e.Price <= 0 || e.LifetimeHours <= 0 {
			return fmt.Errorf("catalog file nozzle %q: name and positive price, lifetime_hours are required", e.Name)
		}

		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM nozzles WHERE name = ? LIMIT 1)`, e.Name).Scan(&exists); err != nil {
			return fmt.Errorf("check nozzle %q existence: %w", e.Name, err)
		}

		if exists {
			if _, err := tx.Exec(`
				UPDATE nozzles
				SET diameter_mm = ?, tip_material = ?, price = ?, lifetime_hours = ?, wear_factor = ?, updated_at = CURRENT_TIMESTAMP
				WHERE name = ?
			`, e.DiameterMM, e.TipMaterial, e.Price, e.LifetimeHours, e.WearFactor, e.Name); err != nil {
				return fmt.Errorf("update nozzle %q: %w", e.Name, err)
			}
			stats.Updates++
			continue
		}

		if _, err := tx.Exec(`
			INSERT INTO nozzles (name, diameter_mm, tip_material, price, lifetime_hours, wear_factor, active)
			VALUES (?, ?, ?, ?, ?, ?, TRUE)
		`, e.Name, e.DiameterMM, e.TipMaterial, e.Price, e.LifetimeHours, e.WearFactor); err != nil {
			return fmt.Errorf("insert nozzle %q: %w", e.Name, err)
		}
		stats.Inserts++
	}
	return nil
}

func orDefault(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}

func orDefaultInt(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}
