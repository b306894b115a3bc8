package main

import (
	"net/http"
	"time"

	"github.com/h2d-systems/printcost/internal/export"
	"github.com/h2d-systems/printcost/internal/history"
	"github.com/h2d-systems/printcost/internal/logger"
)

type historyRecordView struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Material    string  `json:"material"`
	Printer     string  `json:"printer"`
	Nozzle      string  `json:"nozzle"`
	WeightGrams float64 `json:"weight_grams"`
	PrintHours  float64 `json:"print_hours"`

	PostTaxTotal  float64 `json:"post_tax_total"`
	SalePrice     float64 `json:"sale_price"`
	Profit        float64 `json:"profit"`
	MarginPct     float64 `json:"margin_pct"`
	BreakEvenJobs int     `json:"break_even_jobs"`
	Profitable    bool    `json:"profitable"`

	Multicolor bool `json:"multicolor"`
	Rush       bool `json:"rush"`
	Abrasive   bool `json:"abrasive"`
}

func viewHistoryRecord(rec history.Record) historyRecordView {
	return historyRecordView{
		ID:            rec.ID,
		CreatedAt:     rec.CreatedAt,
		Material:      rec.MaterialName,
		Printer:       rec.PrinterName,
		Nozzle:        rec.NozzleName,
		WeightGrams:   export.Round2(rec.WeightGrams),
		PrintHours:    export.Round2(rec.PrintHours),
		PostTaxTotal:  export.Round2(rec.PostTaxTotal),
		SalePrice:     export.Round2(rec.SalePrice),
		Profit:        export.Round2(rec.Profit),
		MarginPct:     export.Round2(rec.MarginPct),
		BreakEvenJobs: rec.BreakEvenJobs,
		Profitable:    rec.Profitable,
		Multicolor:    rec.Multicolor,
		Rush:          rec.Rush,
		Abrasive:      rec.Abrasive,
	}
}

func (s *server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	records, err := s.history.List(r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]historyRecordView, 0, len(records))
	for _, rec := range records {
		views = append(views, viewHistoryRecord(rec))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *server) handleHistoryExport(w http.ResponseWriter, r *http.Request) {
	records, err := s.history.List(r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="calculations.csv"`)
	if err := export.WriteCSV(w, records); err != nil {
		logger.Error("write csv export", logger.ErrorF(err))
	}
}

func (s *server) handleHistoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.history.Stats()
	if err != nil {
		writeError(w, err)
		return
	}

	stats.AvgWeightGrams = export.Round2(stats.AvgWeightGrams)
	stats.AvgPostTaxTotal = export.Round2(stats.AvgPostTaxTotal)
	stats.AvgSalePrice = export.Round2(stats.AvgSalePrice)
	stats.AvgMarginPct = export.Round2(stats.AvgMarginPct)
	stats.TotalRevenue = export.Round2(stats.TotalRevenue)
	stats.TotalProfit = export.Round2(stats.TotalProfit)
	for i := range stats.ByMaterial {
		stats.ByMaterial[i].AvgMarginPct = export.Round2(stats.ByMaterial[i].AvgMarginPct)
		stats.ByMaterial[i].TotalProfit = export.Round2(stats.ByMaterial[i].TotalProfit)
		stats.ByMaterial[i].AvgWeightGrams = export.Round2(stats.ByMaterial[i].AvgWeightGrams)
	}

	writeJSON(w, http.StatusOK, stats)
}
