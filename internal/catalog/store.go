package catalog

import (
	"database/sql"
	"errors"
	"fmt"
)

// Store reads and writes catalog entities in SQLite. Calculations receive
// entity values resolved through it as a point-in-time snapshot; the engine
// itself never touches the database.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Snapshot bundles the three entities a calculation references.
type Snapshot struct {
	Material Material
	Printer  Printer
	Nozzle   Nozzle
}

// Resolve fetches the three referenced entities in one pass. Any id that
// does not resolve fails the whole snapshot with a NotFoundError.
func (s *Store) Resolve(materialID, printerID, nozzleID int64) (Snapshot, error) {
	material, err := s.GetMaterial(materialID)
	if err != nil {
		return Snapshot{}, err
	}
	printer, err := s.GetPrinter(printerID)
	if err != nil {
		return Snapshot{}, err
	}
	nozzle, err := s.GetNozzle(nozzleID)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Material: material, Printer: printer, Nozzle: nozzle}, nil
}

func (s *Store) GetMaterial(id int64) (Material, error) {
	var m Material
	var family string
	err := s.db.QueryRow(`
		SELECT id, name, COALESCE(brand, ''), family, price_per_kg, density_g_cm3,
		       print_temp_min_c, print_temp_max_c, default_support_pct, default_failure_pct,
		       diameter_mm, active
		FROM materials
		WHERE id = ?
	`, id).Scan(
		&m.ID, &m.Name, &m.Brand, &family, &m.PricePerKg, &m.DensityGCM3,
		&m.PrintTempMinC, &m.PrintTempMaxC, &m.DefaultSupportPct, &m.DefaultFailurePct,
		&m.DiameterMM, &m.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Material{}, &NotFoundError{Kind: "material", ID: id}
	}
	if err != nil {
		return Material{}, fmt.Errorf("query material: %w", err)
	}

	m.Family, err = ParseFamily(family)
	if err != nil {
		return Material{}, fmt.Errorf("material %d: %w", id, err)
	}
	return m, nil
}

func (s *Store) ListMaterials() ([]Material, error) {
	rows, err := s.db.Query(`
		SELECT id, name, COALESCE(brand, ''), family, price_per_kg, density_g_cm3,
		       print_temp_min_c, print_temp_max_c, default_support_pct, default_failure_pct,
		       diameter_mm, active
		FROM materials
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}
	defer rows.Close()

	materials := make([]Material, 0)
	for rows.Next() {
		var m Material
		var family string
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Brand, &family, &m.PricePerKg, &m.DensityGCM3,
			&m.PrintTempMinC, &m.PrintTempMaxC, &m.DefaultSupportPct, &m.DefaultFailurePct,
			&m.DiameterMM, &m.Active,
		); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		if m.Family, err = ParseFamily(family); err != nil {
			return nil, fmt.Errorf("material %d: %w", m.ID, err)
		}
		materials = append(materials, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate materials: %w", err)
	}
	return materials, nil
}

func (s *Store) CreateMaterial(m Material) (int64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	result, err := s.db.Exec(`
		INSERT INTO materials (
			name, brand, family, price_per_kg, density_g_cm3,
			print_temp_min_c, print_temp_max_c, default_support_pct, default_failure_pct,
			diameter_mm, active
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.Name, m.Brand, string(m.Family), m.PricePerKg, m.DensityGCM3,
		m.PrintTempMinC, m.PrintTempMaxC, m.DefaultSupportPct, m.DefaultFailurePct,
		m.DiameterMM, m.Active)
	if err != nil {
		return 0, fmt.Errorf("insert material: %w", err)
	}
	return result.LastInsertId()
}

func (s *Store) UpdateMaterial(m Material) error {
	if err := m.Validate(); err != nil {
		return err
	}
	result, err := s.db.Exec(`
		UPDATE materials
		SET
			name = ?,
			brand = ?,
			family = ?,
			price_per_kg = ?,
			density_g_cm3 = ?,
			print_temp_min_c = ?,
			print_temp_max_c = ?,
			default_support_pct = ?,
			default_failure_pct = ?,
			diameter_mm = ?,
			active = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, m.Name, m.Brand, string(m.Family), m.PricePerKg, m.DensityGCM3,
		m.PrintTempMinC, m.PrintTempMaxC, m.DefaultSupportPct, m.DefaultFailurePct,
		m.DiameterMM, m.Active, m.ID)
	if err != nil {
		return fmt.Errorf("update material: %w", err)
	}
	return checkAffected(result, "material", m.ID)
}

func (s *Store) GetPrinter(id int64) (Printer, error) {
	var p Printer
	var features string
	err := s.db.QueryRow(`
		SELECT id, brand, model, price, build_x_mm, build_y_mm, build_z_mm,
		       power_kw, maintenance_per_year, depreciation_years, jobs_per_year,
		       COALESCE(features, ''), active
		FROM printers
		WHERE id = ?
	`, id).Scan(
		&p.ID, &p.Brand, &p.Model, &p.Price, &p.BuildXMM, &p.BuildYMM, &p.BuildZMM,
		&p.PowerKW, &p.MaintenancePerYear, &p.DepreciationYears, &p.JobsPerYear,
		&features, &p.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Printer{}, &NotFoundError{Kind: "printer", ID: id}
	}
	if err != nil {
		return Printer{}, fmt.Errorf("query printer: %w", err)
	}
	p.Features = splitFeatures(features)
	return p, nil
}

func (s *Store) ListPrinters() ([]Printer, error) {
	rows, err := s.db.Query(`
		SELECT id, brand, model, price, build_x_mm, build_y_mm, build_z_mm,
		       power_kw, maintenance_per_year, depreciation_years, jobs_per_year,
		       COALESCE(features, ''), active
		FROM printers
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query printers: %w", err)
	}
	defer rows.Close()

	printers := make([]Printer, 0)
	for rows.Next() {
		var p Printer
		var features string
		if err := rows.Scan(
			&p.ID, &p.Brand, &p.Model, &p.Price, &p.BuildXMM, &p.BuildYMM, &p.BuildZMM,
			&p.PowerKW, &p.MaintenancePerYear, &p.DepreciationYears, &p.JobsPerYear,
			&features, &p.Active,
		); err != nil {
			return nil, fmt.Errorf("scan printer: %w", err)
		}
		p.Features = splitFeatures(features)
		printers = append(printers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate printers: %w", err)
	}
	return printers, nil
}

func (s *Store) CreatePrinter(p Printer) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	result, err := s.db.Exec(`
		INSERT INTO printers (
			brand, model, price, build_x_mm, build_y_mm, build_z_mm,
			power_kw, maintenance_per_year, depreciation_years, jobs_per_year,
			features, active
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.Brand, p.Model, p.Price, p.BuildXMM, p.BuildYMM, p.BuildZMM,
		p.PowerKW, p.MaintenancePerYear, p.DepreciationYears, p.JobsPerYear,
		joinFeatures(p.Features), p.Active)
	if err != nil {
		return 0, fmt.Errorf("insert printer: %w", err)
	}
	return result.LastInsertId()
}

func (s *Store) UpdatePrinter(p Printer) error {
	if err := p.Validate(); err != nil {
		return err
	}
	result, err := s.db.Exec(`
		UPDATE printers
		SET
			brand = ?,
			model = ?,
			price = ?,
			build_x_mm = ?,
			build_y_mm = ?,
			build_z_mm = ?,
			power_kw = ?,
			maintenance_per_year = ?,
			depreciation_years = ?,
			jobs_per_year = ?,
			features = ?,
			active = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, p.Brand, p.Model, p.Price, p.BuildXMM, p.BuildYMM, p.BuildZMM,
		p.PowerKW, p.MaintenancePerYear, p.DepreciationYears, p.JobsPerYear,
		joinFeatures(p.Features), p.Active, p.ID)
	if err != nil {
		return fmt.Errorf("update printer: %w", err)
	}
	return checkAffected(result, "printer", p.ID)
}

func (s *Store) GetNozzle(id int64) (Nozzle, error) {
	var n Nozzle
	var tip string
	err := s.db.QueryRow(`
		SELECT id, name, diameter_mm, tip_material, price, lifetime_hours, wear_factor, active
		FROM nozzles
		WHERE id = ?
	`, id).Scan(&n.ID, &n.Name, &n.DiameterMM, &tip, &n.Price, &n.LifetimeHours, &n.WearFactor, &n.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return Nozzle{}, &NotFoundError{Kind: "nozzle", ID: id}
	}
	if err != nil {
		return Nozzle{}, fmt.Errorf("query nozzle: %w", err)
	}

	n.Tip, err = ParseTipMaterial(tip)
	if err != nil {
		return Nozzle{}, fmt.Errorf("nozzle %d: %w", id, err)
	}
	return n, nil
}

func (s *Store) ListNozzles() ([]Nozzle, error) {
	rows, err := s.db.Query(`
		SELECT id, name, diameter_mm, tip_material, price, lifetime_hours, wear_factor, active
		FROM nozzles
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query nozzles: %w", err)
	}
	defer rows.Close()

	nozzles := make([]Nozzle, 0)
	for rows.Next() {
		var n Nozzle
		var tip string
		if err := rows.Scan(&n.ID, &n.Name, &n.DiameterMM, &tip, &n.Price, &n.LifetimeHours, &n.WearFactor, &n.Active); err != nil {
			return nil, fmt.Errorf("scan nozzle: %w", err)
		}
		if n.Tip, err = ParseTipMaterial(tip); err != nil {
			return nil, fmt.Errorf("nozzle %d: %w", n.ID, err)
		}
		nozzles = append(nozzles, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nozzles: %w", err)
	}
	return nozzles, nil
}

func (s *Store) CreateNozzle(n Nozzle) (int64, error) {
	if err := n.Validate(); err != nil {
		return 0, err
	}
	result, err := s.db.Exec(`
		INSERT INTO nozzles (name, diameter_mm, tip_material, price, lifetime_hours, wear_factor, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, n.Name, n.DiameterMM, string(n.Tip), n.Price, n.LifetimeHours, n.WearFactor, n.Active)
	if err != nil {
		return 0, fmt.Errorf("insert nozzle: %w", err)
	}
	return result.LastInsertId()
}

func (s *Store) UpdateNozzle(n Nozzle) error {
	if err := n.Validate(); err != nil {
		return err
	}
	result, err := s.db.Exec(`
		UPDATE nozzles
		SET
			name = ?,
			diameter_mm = ?,
			tip_material = ?,
			price = ?,
			lifetime_hours = ?,
			wear_factor = ?,
			active = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, n.Name, n.DiameterMM, string(n.Tip), n.Price, n.LifetimeHours, n.WearFactor, n.Active, n.ID)
	if err != nil {
		return fmt.Errorf("update nozzle: %w", err)
	}
	return checkAffected(result, "nozzle", n.ID)
}

func checkAffected(result sql.Result, kind string, id int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s: %w", kind, err)
	}
	if affected == 0 {
		return &NotFoundError{Kind: kind, ID: id}
	}
	return nil
}
