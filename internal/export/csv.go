// Package export projects calculation records into flat key-value form for
// CSV download and JSON display. This is the single presentation boundary
// where monetary values get rounded to cents; everything upstream keeps
// full precision.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/h2d-systems/printcost/internal/history"
)

// Round2 rounds a monetary value to cents for display.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Money formats a monetary value with exactly two decimals.
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Columns is the fixed header of the CSV export. The order is stable and
// matches the breakdown's field set; consumers key on it.
var Columns = []string{
	"created_at",
	"material",
	"printer",
	"nozzle",
	"weight_grams",
	"print_hours",
	"material_cost",
	"energy_cost",
	"nozzle_wear_cost",
	"direct_subtotal",
	"failure_cost",
	"depreciation_cost",
	"maintenance_cost",
	"bed_adhesion_cost",
	"indirect_subtotal",
	"labor_cost",
	"post_processing_cost",
	"shipping_cost",
	"overhead_cost",
	"business_subtotal",
	"pre_tax_total",
	"tax_amount",
	"post_tax_total",
	"sale_price",
	"profit",
	"margin_pct",
	"break_even_jobs",
	"multicolor",
	"rush",
	"abrasive",
}

// WriteCSV writes the header row followed by one row per record.
func WriteCSV(w io.Writer, records []history.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(row(rec)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func row(rec history.Record) []string {
	breakEven := "not profitable"
	if rec.Profitable {
		breakEven = strconv.Itoa(rec.BreakEvenJobs)
	}
	return []string{
		rec.CreatedAt.Format("2006-01-02 15:04:05"),
		rec.MaterialName,
		rec.PrinterName,
		rec.NozzleName,
		strconv.FormatFloat(rec.WeightGrams, 'f', 1, 64),
		strconv.FormatFloat(rec.PrintHours, 'f', 2, 64),
		Money(rec.MaterialCost),
		Money(rec.EnergyCost),
		Money(rec.NozzleWearCost),
		Money(rec.DirectSubtotal),
		Money(rec.FailureCost),
		Money(rec.DepreciationCost),
		Money(rec.MaintenanceCost),
		Money(rec.BedAdhesionCost),
		Money(rec.IndirectSubtotal),
		Money(rec.LaborCost),
		Money(rec.PostProcessingCost),
		Money(rec.ShippingCost),
		Money(rec.OverheadCost),
		Money(rec.BusinessSubtotal),
		Money(rec.PreTaxTotal),
		Money(rec.TaxAmount),
		Money(rec.PostTaxTotal),
		Money(rec.SalePrice),
		Money(rec.Profit),
		strconv.FormatFloat(rec.MarginPct, 'f', 1, 64),
		breakEven,
		strconv.FormatBool(rec.Multicolor),
		strconv.FormatBool(rec.Rush),
		strconv.FormatBool(rec.Abrasive),
	}
}
