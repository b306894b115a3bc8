package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/h2d-systems/printcost/internal/catalog"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func testMaterial() catalog.Material {
	return catalog.Material{
		ID:            1,
		Name:          "PLA Basic",
		Family:        catalog.FamilyPLA,
		PricePerKg:    18.50,
		PrintTempMinC: 190,
		PrintTempMaxC: 220,
		Active:        true,
	}
}

func testPrinter() catalog.Printer {
	return catalog.Printer{
		ID:                 1,
		Brand:              "Bambu Lab",
		Model:              "X1 Carbon",
		Price:              1499,
		PowerKW:            1.05,
		MaintenancePerYear: 120,
		DepreciationYears:  3,
		JobsPerYear:        500,
		Active:             true,
	}
}

func testNozzle() catalog.Nozzle {
	return catalog.Nozzle{
		ID:            1,
		Name:          "Brass 0.4mm",
		DiameterMM:    0.4,
		Tip:           catalog.TipBrass,
		Price:         5.00,
		LifetimeHours: 1000,
		Active:        true,
	}
}

func baseRequest() Request {
	return Request{
		MaterialID:        1,
		PrinterID:         1,
		NozzleID:          1,
		WeightGrams:       100,
		PrintHours:        4,
		SupportPct:        15,
		FailurePct:        10,
		ElectricityPerKWh: 0.40,
		DesignHours:       0.5,
		HourlyRate:        25,
		MarkupPct:         50,
		OverheadPct:       20,
		TaxPct:            21,
	}
}

func TestCalculate_ReferenceScenario(t *testing.T) {
	b, err := DefaultConfig().Calculate(baseRequest(), testMaterial(), testPrinter(), testNozzle())
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	nearlyEqual(t, "effectiveWeight", b.EffectiveWeightGrams, 115)
	nearlyEqual(t, "materialCost", b.MaterialCost, 2.1275)
	nearlyEqual(t, "energyCost", b.EnergyCost, 1.68)
	nearlyEqual(t, "nozzleWearCost", b.NozzleWearCost, 0.02)
	nearlyEqual(t, "directSubtotal", b.DirectSubtotal, 3.8275)
	nearlyEqual(t, "failureCost", b.FailureCost, 0.38275)
	nearlyEqual(t, "depreciationCost", b.DepreciationCost, 1499.0/1500.0)
	nearlyEqual(t, "maintenanceCost", b.MaintenanceCost, 0.24)
	nearlyEqual(t, "laborCost", b.LaborCost, 12.5)
	nearlyEqual(t, "overheadCost", b.OverheadCost, 0.7655)
	nearlyEqual(t, "taxAmount", b.TaxAmount, b.PreTaxTotal*0.21)

	if b.SalePrice <= b.PostTaxTotal {
		t.Fatalf("salePrice %v should exceed postTaxTotal %v", b.SalePrice, b.PostTaxTotal)
	}
	if b.Profit <= 0 {
		t.Fatalf("profit = %v, want > 0", b.Profit)
	}
	if b.MarginPct <= 0 {
		t.Fatalf("marginPct = %v, want > 0", b.MarginPct)
	}
	if !b.Profitable {
		t.Fatal("expected a profitable breakdown")
	}
}

func TestCalculate_Additivity(t *testing.T) {
	b, err := DefaultConfig().Calculate(baseRequest(), testMaterial(), testPrinter(), testNozzle())
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	nearlyEqual(t, "directSubtotal", b.DirectSubtotal, b.MaterialCost+b.EnergyCost+b.NozzleWearCost)
	nearlyEqual(t, "indirectSubtotal", b.IndirectSubtotal, b.FailureCost+b.DepreciationCost+b.MaintenanceCost+b.BedAdhesionCost)
	nearlyEqual(t, "businessSubtotal", b.BusinessSubtotal, b.LaborCost+b.PostProcessingCost+b.ShippingCost+b.OverheadCost)
	nearlyEqual(t, "preTaxTotal", b.PreTaxTotal, b.DirectSubtotal+b.IndirectSubtotal+b.BusinessSubtotal)
	nearlyEqual(t, "postTaxTotal", b.PostTaxTotal, b.PreTaxTotal*1.21)
}

func TestCalculate_WeightLinearityAndLaborIndependence(t *testing.T) {
	cfg := DefaultConfig()
	material, printer, nozzle := testMaterial(), testPrinter(), testNozzle()

	single, err := cfg.Calculate(baseRequest(), material, printer, nozzle)
	if err != nil {
		t.Fatalf("calculate single: %v", err)
	}

	doubled := baseRequest()
	doubled.WeightGrams *= 2
	double, err := cfg.Calculate(doubled, material, printer, nozzle)
	if err != nil {
		t.Fatalf("calculate double: %v", err)
	}

	nearlyEqual(t, "doubled materialCost", double.MaterialCost, 2*single.MaterialCost)
	nearlyEqual(t, "laborCost unchanged", double.LaborCost, single.LaborCost)
}

func TestCalculate_ZeroMarkupYieldsZeroProfit(t *testing.T) {
	req := baseRequest()
	req.MarkupPct = 0

	b, err := DefaultConfig().Calculate(req, testMaterial(), testPrinter(), testNozzle())
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	nearlyEqual(t, "salePrice", b.SalePrice, b.PostTaxTotal)
	nearlyEqual(t, "profit", b.Profit, 0)
	if b.Profitable {
		t.Fatal("zero-profit breakdown must not be marked profitable")
	}
	if b.BreakEvenJobs != 0 {
		t.Fatalf("breakEvenJobs = %d, want 0 without profit", b.BreakEvenJobs)
	}
}

func TestCalculate_BreakEvenJobs(t *testing.T) {
	req := baseRequest()
	req.MarkupPct = 40

	b, err := DefaultConfig().Calculate(req, testMaterial(), testPrinter(), testNozzle())
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	// profit = 40% of post-tax total, so 2.5 jobs round up to 3.
	if b.BreakEvenJobs != 3 {
		t.Fatalf("breakEvenJobs = %d, want 3", b.BreakEvenJobs)
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	cfg := DefaultConfig()
	material, printer, nozzle := testMaterial(), testPrinter(), testNozzle()

	first, err := cfg.Calculate(baseRequest(), material, printer, nozzle)
	if err != nil {
		t.Fatalf("calculate first: %v", err)
	}
	second, err := cfg.Calculate(baseRequest(), material, printer, nozzle)
	if err != nil {
		t.Fatalf("calculate second: %v", err)
	}

	if first != second {
		t.Fatalf("identical inputs produced different breakdowns:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestCalculate_ColorSetupFeeThenRushSurcharge(t *testing.T) {
	cfg := DefaultConfig()
	material, printer, nozzle := testMaterial(), testPrinter(), testNozzle()

	plain, err := cfg.Calculate(baseRequest(), material, printer, nozzle)
	if err != nil {
		t.Fatalf("calculate plain: %v", err)
	}

	req := baseRequest()
	req.Multicolor = true
	req.Rush = true
	surcharged, err := cfg.Calculate(req, material, printer, nozzle)
	if err != nil {
		t.Fatalf("calculate surcharged: %v", err)
	}

	want := (plain.SalePrice + cfg.ColorSetupFee()) * (1 + cfg.RushSurchargePct/100)
	nearlyEqual(t, "salePrice", surcharged.SalePrice, want)
}

func TestCalculate_ColorSetupFeeIsMidpoint(t *testing.T) {
	nearlyEqual(t, "colorSetupFee", DefaultConfig().ColorSetupFee(), 22.50)
}

func TestCalculate_EstimatesHoursFromWeight(t *testing.T) {
	req := baseRequest()
	req.WeightGrams = 90
	req.PrintHours = 0

	b, err := DefaultConfig().Calculate(req, testMaterial(), testPrinter(), testNozzle())
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	// PLA deposits 30 g/h, so 90 g estimate to 3 hours.
	nearlyEqual(t, "printHours", b.PrintHours, 3)
}

func TestCalculate_ValidationErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Request)
		field  string
	}{
		{"negative weight", func(r *Request) { r.WeightGrams = -1 }, "weight_grams"},
		{"zero weight", func(r *Request) { r.WeightGrams = 0 }, "weight_grams"},
		{"negative hours", func(r *Request) { r.PrintHours = -2 }, "print_hours"},
		{"support over 100", func(r *Request) { r.SupportPct = 150 }, "support_percent"},
		{"failure over 100", func(r *Request) { r.FailurePct = 101 }, "failure_rate"},
		{"negative electricity", func(r *Request) { r.ElectricityPerKWh = -0.1 }, "electricity_cost"},
		{"negative markup", func(r *Request) { r.MarkupPct = -5 }, "markup_percent"},
		{"tax over 100", func(r *Request) { r.TaxPct = 110 }, "tax_percent"},
	}

	cfg := DefaultConfig()
	material, printer, nozzle := testMaterial(), testPrinter(), testNozzle()

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := baseRequest()
			tc.mutate(&req)

			_, err := cfg.Calculate(req, material, printer, nozzle)
			if !IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tc.field {
				t.Fatalf("error field = %v, want %s", err, tc.field)
			}
		})
	}
}

func TestCalculate_RejectsBadCatalogEntities(t *testing.T) {
	cfg := DefaultConfig()

	freeMaterial := testMaterial()
	freeMaterial.PricePerKg = 0
	if _, err := cfg.Calculate(baseRequest(), freeMaterial, testPrinter(), testNozzle()); !IsValidation(err) {
		t.Fatalf("expected validation error for free material, got %v", err)
	}

	oddNozzle := testNozzle()
	oddNozzle.DiameterMM = 0.45
	if _, err := cfg.Calculate(baseRequest(), testMaterial(), testPrinter(), oddNozzle); !IsValidation(err) {
		t.Fatalf("expected validation error for odd nozzle diameter, got %v", err)
	}
}
