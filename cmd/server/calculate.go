package main

import (
	"encoding/json"
	"net/http"

	"github.com/h2d-systems/printcost/internal/catalog"
	"github.com/h2d-systems/printcost/internal/export"
	"github.com/h2d-systems/printcost/internal/history"
	"github.com/h2d-systems/printcost/internal/insight"
	"github.com/h2d-systems/printcost/internal/logger"
	"github.com/h2d-systems/printcost/internal/pricing"
)

// calculateRequest is the wire form of a job request. Optional fields are
// pointers so an absent key gets its documented default while an explicit
// zero is kept and validated as given.
type calculateRequest struct {
	MaterialID int64 `json:"material_id"`
	PrinterID  int64 `json:"printer_id"`
	NozzleID   int64 `json:"nozzle_id"`

	WeightGrams float64 `json:"weight_grams"`
	PrintHours  float64 `json:"print_hours,omitempty"`

	SupportPct      *float64 `json:"support_percent,omitempty"`
	FailureRate     *float64 `json:"failure_rate,omitempty"`
	ElectricityCost *float64 `json:"electricity_cost,omitempty"`
	DesignHours     *float64 `json:"design_hours,omitempty"`
	HourlyRate      *float64 `json:"hourly_rate,omitempty"`
	MarkupPct       *float64 `json:"markup_percent,omitempty"`
	PostProcessing  *float64 `json:"post_processing_cost,omitempty"`
	Shipping        *float64 `json:"shipping_cost,omitempty"`
	OverheadPct     *float64 `json:"overhead_percent,omitempty"`
	TaxPct          *float64 `json:"tax_percent,omitempty"`

	Multicolor bool `json:"multicolor,omitempty"`
	Rush       bool `json:"rush,omitempty"`
	Abrasive   bool `json:"abrasive,omitempty"`
}

func (cr calculateRequest) toPricing() pricing.Request {
	return pricing.Request{
		MaterialID:        cr.MaterialID,
		PrinterID:         cr.PrinterID,
		NozzleID:          cr.NozzleID,
		WeightGrams:       cr.WeightGrams,
		PrintHours:        cr.PrintHours,
		SupportPct:        orDefault(cr.SupportPct, 15),
		FailurePct:        orDefault(cr.FailureRate, 10),
		ElectricityPerKWh: orDefault(cr.ElectricityCost, 0.40),
		DesignHours:       orDefault(cr.DesignHours, 0.5),
		HourlyRate:        orDefault(cr.HourlyRate, 25),
		MarkupPct:         orDefault(cr.MarkupPct, 50),
		PostProcessing:    orDefault(cr.PostProcessing, 0),
		Shipping:          orDefault(cr.Shipping, 0),
		OverheadPct:       orDefault(cr.OverheadPct, 20),
		TaxPct:            orDefault(cr.TaxPct, 21),
		Multicolor:        cr.Multicolor,
		Rush:              cr.Rush,
		Abrasive:          cr.Abrasive,
	}
}

func orDefault(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

// breakdownView is the rounded presentation of a Breakdown. Rounding to
// cents happens here, never inside the engine.
type breakdownView struct {
	EffectiveWeightGrams float64 `json:"effective_weight_grams"`
	PrintHours           float64 `json:"print_hours"`
	EnergyKWh            float64 `json:"energy_kwh"`

	MaterialCost   float64 `json:"material_cost"`
	EnergyCost     float64 `json:"energy_cost"`
	NozzleWearCost float64 `json:"nozzle_wear_cost"`
	DirectSubtotal float64 `json:"direct_subtotal"`

	FailureCost      float64 `json:"failure_cost"`
	DepreciationCost float64 `json:"depreciation_cost"`
	MaintenanceCost  float64 `json:"maintenance_cost"`
	BedAdhesionCost  float64 `json:"bed_adhesion_cost"`
	IndirectSubtotal float64 `json:"indirect_subtotal"`

	LaborCost          float64 `json:"labor_cost"`
	PostProcessingCost float64 `json:"post_processing_cost"`
	ShippingCost       float64 `json:"shipping_cost"`
	OverheadCost       float64 `json:"overhead_cost"`
	BusinessSubtotal   float64 `json:"business_subtotal"`

	PreTaxTotal  float64 `json:"pre_tax_total"`
	TaxAmount    float64 `json:"tax_amount"`
	PostTaxTotal float64 `json:"post_tax_total"`

	SalePrice float64 `json:"sale_price"`
	Profit    float64 `json:"profit"`
	MarginPct float64 `json:"margin_pct"`

	BreakEvenJobs int  `json:"break_even_jobs"`
	Profitable    bool `json:"profitable"`
}

func viewBreakdown(b pricing.Breakdown) breakdownView {
	return breakdownView{
		EffectiveWeightGrams: export.Round2(b.EffectiveWeightGrams),
		PrintHours:           export.Round2(b.PrintHours),
		EnergyKWh:            export.Round2(b.EnergyKWh),
		MaterialCost:         export.Round2(b.MaterialCost),
		EnergyCost:           export.Round2(b.EnergyCost),
		NozzleWearCost:       export.Round2(b.NozzleWearCost),
		DirectSubtotal:       export.Round2(b.DirectSubtotal),
		FailureCost:          export.Round2(b.FailureCost),
		DepreciationCost:     export.Round2(b.DepreciationCost),
		MaintenanceCost:      export.Round2(b.MaintenanceCost),
		BedAdhesionCost:      export.Round2(b.BedAdhesionCost),
		IndirectSubtotal:     export.Round2(b.IndirectSubtotal),
		LaborCost:            export.Round2(b.LaborCost),
		PostProcessingCost:   export.Round2(b.PostProcessingCost),
		ShippingCost:         export.Round2(b.ShippingCost),
		OverheadCost:         export.Round2(b.OverheadCost),
		BusinessSubtotal:     export.Round2(b.BusinessSubtotal),
		PreTaxTotal:          export.Round2(b.PreTaxTotal),
		TaxAmount:            export.Round2(b.TaxAmount),
		PostTaxTotal:         export.Round2(b.PostTaxTotal),
		SalePrice:            export.Round2(b.SalePrice),
		Profit:               export.Round2(b.Profit),
		MarginPct:            export.Round2(b.MarginPct),
		BreakEvenJobs:        b.BreakEvenJobs,
		Profitable:           b.Profitable,
	}
}

type calculateResponse struct {
	Breakdown       breakdownView            `json:"breakdown"`
	Insights        []insight.Insight        `json:"insights"`
	Recommendations []insight.Recommendation `json:"recommendations"`
	Material        materialView             `json:"material"`
	Printer         printerView              `json:"printer"`
	Nozzle          nozzleView               `json:"nozzle"`
}

func (s *server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var cr calculateRequest
	if err := decodeJSON(r, &cr); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	req := cr.toPricing()
	snapshot, err := s.catalog.Resolve(req.MaterialID, req.PrinterID, req.NozzleID)
	if err != nil {
		writeError(w, err)
		return
	}

	breakdown, err := s.engine.Calculate(req, snapshot.Material, snapshot.Printer, snapshot.Nozzle)
	if err != nil {
		writeError(w, err)
		return
	}

	nozzles, err := s.catalog.ListNozzles()
	if err != nil {
		writeError(w, err)
		return
	}

	in := insight.Input{
		Breakdown:          breakdown,
		Request:            req,
		Material:           snapshot.Material,
		Printer:            snapshot.Printer,
		Nozzle:             snapshot.Nozzle,
		Nozzles:            nozzles,
		BaselinePricePerKg: s.engine.BaselinePricePerKg,
	}

	s.appendHistory(req, breakdown, snapshot)

	writeJSON(w, http.StatusOK, calculateResponse{
		Breakdown:       viewBreakdown(breakdown),
		Insights:        insight.Insights(in),
		Recommendations: insight.Recommendations(in),
		Material:        viewMaterial(snapshot.Material),
		Printer:         viewPrinter(snapshot.Printer),
		Nozzle:          viewNozzle(snapshot.Nozzle),
	})
}

// appendHistory records the finished calculation. The breakdown was already
// computed, so a persistence failure is logged rather than failing the
// response.
func (s *server) appendHistory(req pricing.Request, b pricing.Breakdown, snapshot catalog.Snapshot) {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		logger.Error("marshal request for history", logger.ErrorF(err))
		return
	}

	rec := history.Project(req, b,
		snapshot.Material.Name,
		snapshot.Printer.Brand+" "+snapshot.Printer.Model,
		snapshot.Nozzle.Name,
		string(reqJSON),
	)
	if _, err := s.history.Append(rec); err != nil {
		logger.Error("append calculation history", logger.ErrorF(err))
	}
}
