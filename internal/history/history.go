// Package history is the append-only record of past calculations. The
// engine only produces breakdowns; this store persists them for listing,
// CSV export and aggregate statistics. Records are never updated.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record is one persisted calculation: the inputs that identify the job
// plus the flat projection of its breakdown. RequestJSON keeps the full
// original request for audit.
type Record struct {
	ID        string
	CreatedAt time.Time

	MaterialName string
	PrinterName  string
	NozzleName   string
	WeightGrams  float64
	PrintHours   float64

	MaterialCost       float64
	EnergyCost         float64
	NozzleWearCost     float64
	DirectSubtotal     float64
	FailureCost        float64
	DepreciationCost   float64
	MaintenanceCost    float64
	BedAdhesionCost    float64
	IndirectSubtotal   float64
	LaborCost          float64
	PostProcessingCost float64
	ShippingCost       float64
	OverheadCost       float64
	BusinessSubtotal   float64
	PreTaxTotal        float64
	TaxAmount          float64
	PostTaxTotal       float64
	SalePrice          float64
	Profit             float64
	MarginPct          float64
	BreakEvenJobs      int
	Profitable         bool

	Multicolor bool
	Rush       bool
	Abrasive   bool

	RequestJSON string
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append persists one finished calculation. A missing ID or timestamp is
// filled in here so callers only hand over the projection.
func (s *Store) Append(rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO calculations (
			id, created_at, material_name, printer_name, nozzle_name,
			weight_grams, print_hours,
			material_cost, energy_cost, nozzle_wear_cost, direct_subtotal,
			failure_cost, depreciation_cost, maintenance_cost, bed_adhesion_cost, indirect_subtotal,
			labor_cost, post_processing_cost, shipping_cost, overhead_cost, business_subtotal,
			pre_tax_total, tax_amount, post_tax_total,
			sale_price, profit, margin_pct, break_even_jobs, profitable,
			multicolor, rush, abrasive, request_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID, rec.CreatedAt.Format(time.RFC3339), rec.MaterialName, rec.PrinterName, rec.NozzleName,
		rec.WeightGrams, rec.PrintHours,
		rec.MaterialCost, rec.EnergyCost, rec.NozzleWearCost, rec.DirectSubtotal,
		rec.FailureCost, rec.DepreciationCost, rec.MaintenanceCost, rec.BedAdhesionCost, rec.IndirectSubtotal,
		rec.LaborCost, rec.PostProcessingCost, rec.ShippingCost, rec.OverheadCost, rec.BusinessSubtotal,
		rec.PreTaxTotal, rec.TaxAmount, rec.PostTaxTotal,
		rec.SalePrice, rec.Profit, rec.MarginPct, rec.BreakEvenJobs, rec.Profitable,
		rec.Multicolor, rec.Rush, rec.Abrasive, rec.RequestJSON,
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert calculation: %w", err)
	}
	return rec, nil
}

// List returns calculations newest first, optionally filtered by a
// substring of the material, printer or nozzle name.
func (s *Store) List(query string) ([]Record, error) {
	search := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT id, created_at, material_name, printer_name, nozzle_name,
		       weight_grams, print_hours,
		       material_cost, energy_cost, nozzle_wear_cost, direct_subtotal,
		       failure_cost, depreciation_cost, maintenance_cost, bed_adhesion_cost, indirect_subtotal,
		       labor_cost, post_processing_cost, shipping_cost, overhead_cost, business_subtotal,
		       pre_tax_total, tax_amount, post_tax_total,
		       sale_price, profit, margin_pct, break_even_jobs, profitable,
		       multicolor, rush, abrasive, request_json
		FROM calculations
		WHERE (? = '' OR material_name LIKE ? OR printer_name LIKE ? OR nozzle_name LIKE ?)
		ORDER BY datetime(created_at) DESC, id DESC
	`, query, search, search, search)
	if err != nil {
		return nil, fmt.Errorf("query calculations: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var rec Record
		var createdAt string
		if err := rows.Scan(
			&rec.ID, &createdAt, &rec.MaterialName, &rec.PrinterName, &rec.NozzleName,
			&rec.WeightGrams, &rec.PrintHours,
			&rec.MaterialCost, &rec.EnergyCost, &rec.NozzleWearCost, &rec.DirectSubtotal,
			&rec.FailureCost, &rec.DepreciationCost, &rec.MaintenanceCost, &rec.BedAdhesionCost, &rec.IndirectSubtotal,
			&rec.LaborCost, &rec.PostProcessingCost, &rec.ShippingCost, &rec.OverheadCost, &rec.BusinessSubtotal,
			&rec.PreTaxTotal, &rec.TaxAmount, &rec.PostTaxTotal,
			&rec.SalePrice, &rec.Profit, &rec.MarginPct, &rec.BreakEvenJobs, &rec.Profitable,
			&rec.Multicolor, &rec.Rush, &rec.Abrasive, &rec.RequestJSON,
		); err != nil {
			return nil, fmt.Errorf("scan calculation: %w", err)
		}
		rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse calculation timestamp: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calculations: %w", err)
	}
	return records, nil
}

// Stats is the aggregate view over the whole history.
type Stats struct {
	TotalCalculations int             `json:"total_calculations"`
	AvgWeightGrams    float64         `json:"avg_weight_grams"`
	AvgPostTaxTotal   float64         `json:"avg_post_tax_total"`
	AvgSalePrice      float64         `json:"avg_sale_price"`
	AvgMarginPct      float64         `json:"avg_margin_pct"`
	TotalRevenue      float64         `json:"total_revenue"`
	TotalProfit       float64         `json:"total_profit"`
	RushCount         int             `json:"rush_count"`
	MulticolorCount   int             `json:"multicolor_count"`
	ByMaterial        []MaterialStats `json:"by_material"`
}

// MaterialStats groups the history by material name.
type MaterialStats struct {
	Material       string  `json:"material"`
	Count          int     `json:"count"`
	AvgMarginPct   float64 `json:"avg_margin_pct"`
	TotalProfit    float64 `json:"total_profit"`
	AvgWeightGrams float64 `json:"avg_weight_grams"`
}

// Stats runs the read-only aggregate queries over the history.
func (s *Store) Stats() (Stats, error) {
	var stats Stats
	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(AVG(weight_grams), 0),
		       COALESCE(AVG(post_tax_total), 0),
		       COALESCE(AVG(sale_price), 0),
		       COALESCE(AVG(margin_pct), 0),
		       COALESCE(SUM(sale_price), 0),
		       COALESCE(SUM(profit), 0),
		       COALESCE(SUM(rush), 0),
		       COALESCE(SUM(multicolor), 0)
		FROM calculations
	`).Scan(
		&stats.TotalCalculations,
		&stats.AvgWeightGrams,
		&stats.AvgPostTaxTotal,
		&stats.AvgSalePrice,
		&stats.AvgMarginPct,
		&stats.TotalRevenue,
		&stats.TotalProfit,
		&stats.RushCount,
		&stats.MulticolorCount,
	)
	if err != nil {
		return Stats{}, fmt.Errorf("query calculation totals: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT material_name, COUNT(*), AVG(margin_pct), SUM(profit), AVG(weight_grams)
		FROM calculations
		GROUP BY material_name
		ORDER BY SUM(profit) DESC
	`)
	if err != nil {
		return Stats{}, fmt.Errorf("query per-material stats: %w", err)
	}
	defer rows.Close()

	stats.ByMaterial = make([]MaterialStats, 0)
	for rows.Next() {
		var ms MaterialStats
		if err := rows.Scan(&ms.Material, &ms.Count, &ms.AvgMarginPct, &ms.TotalProfit, &ms.AvgWeightGrams); err != nil {
			return Stats{}, fmt.Errorf("scan per-material stats: %w", err)
		}
		stats.ByMaterial = append(stats.ByMaterial, ms)
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("iterate per-material stats: %w", err)
	}
	return stats, nil
}
