package seed

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/h2d-systems/printcost/internal/catalog"
	"github.com/h2d-systems/printcost/internal/history"
	"github.com/h2d-systems/printcost/internal/pricing"
)

// SampleHistory generates count plausible past calculations and appends
// them to the history store. It runs real calculations over the seeded
// catalog so the analytics views have internally consistent numbers.
func SampleHistory(catalogStore *catalog.Store, historyStore *history.Store, engineCfg pricing.Config, count int) error {
	materials, err := catalogStore.ListMaterials()
	if err != nil {
		return err
	}
	printers, err := catalogStore.ListPrinters()
	if err != nil {
		return err
	}
	nozzles, err := catalogStore.ListNozzles()
	if err != nil {
		return err
	}
	if len(materials) == 0 || len(printers) == 0 || len(nozzles) == 0 {
		return fmt.Errorf("sample history needs a seeded catalog")
	}

	now := time.Now().UTC()
	for i := 0; i < count; i++ {
		material := materials[gofakeit.IntRange(0, len(materials)-1)]
		printer := printers[gofakeit.IntRange(0, len(printers)-1)]
		nozzle := nozzles[gofakeit.IntRange(0, len(nozzles)-1)]

		req := pricing.Request{
			MaterialID:        material.ID,
			PrinterID:         printer.ID,
			NozzleID:          nozzle.ID,
			WeightGrams:       gofakeit.Float64Range(20, 500),
			SupportPct:        material.DefaultSupportPct,
			FailurePct:        material.DefaultFailurePct,
			ElectricityPerKWh: 0.40,
			DesignHours:       gofakeit.Float64Range(0.25, 2),
			HourlyRate:        25,
			MarkupPct:         gofakeit.Float64Range(30, 80),
			OverheadPct:       20,
			TaxPct:            21,
			Multicolor:        gofakeit.Bool() && gofakeit.Bool(),
			Rush:              gofakeit.Bool() && gofakeit.Bool(),
			Abrasive:          material.Family.Filled(),
		}

		breakdown, err := engineCfg.Calculate(req, material, printer, nozzle)
		if err != nil {
			return fmt.Errorf("sample calculation: %w", err)
		}

		reqJSON, err := json.Marshal(req)
		if err != nil {
			return fmt.Errorf("marshal sample request: %w", err)
		}

		rec := history.Project(req, breakdown, material.Name, printer.Brand+" "+printer.Model, nozzle.Name, string(reqJSON))
		rec.CreatedAt = gofakeit.DateRange(now.AddDate(0, -6, 0), now)
		if _, err := historyStore.Append(rec); err != nil {
			return err
		}
	}
	return nil
}
