package history

import (
	"github.com/h2d-systems/printcost/internal/pricing"
)

// Project flattens one finished calculation into a Record ready for Append.
func Project(req pricing.Request, b pricing.Breakdown, materialName, printerName, nozzleName, requestJSON string) Record {
	return Record{
		MaterialName:       materialName,
		PrinterName:        printerName,
		NozzleName:         nozzleName,
		WeightGrams:        req.WeightGrams,
		PrintHours:         b.PrintHours,
		MaterialCost:       b.MaterialCost,
		EnergyCost:         b.EnergyCost,
		NozzleWearCost:     b.NozzleWearCost,
		DirectSubtotal:     b.DirectSubtotal,
		FailureCost:        b.FailureCost,
		DepreciationCost:   b.DepreciationCost,
		MaintenanceCost:    b.MaintenanceCost,
		BedAdhesionCost:    b.BedAdhesionCost,
		IndirectSubtotal:   b.IndirectSubtotal,
		LaborCost:          b.LaborCost,
		PostProcessingCost: b.PostProcessingCost,
		ShippingCost:       b.ShippingCost,
		OverheadCost:       b.OverheadCost,
		BusinessSubtotal:   b.BusinessSubtotal,
		PreTaxTotal:        b.PreTaxTotal,
		TaxAmount:          b.TaxAmount,
		PostTaxTotal:       b.PostTaxTotal,
		SalePrice:          b.SalePrice,
		Profit:             b.Profit,
		MarginPct:          b.MarginPct,
		BreakEvenJobs:      b.BreakEvenJobs,
		Profitable:         b.Profitable,
		Multicolor:         req.Multicolor,
		Rush:               req.Rush,
		Abrasive:           req.Abrasive,
		RequestJSON:        requestJSON,
	}
}
