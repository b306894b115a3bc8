package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/h2d-systems/printcost/internal/history"
)

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{2.1275, 2.13},
		{1.684999, 1.68},
		{0, 0},
		{-3.456, -3.46},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Fatalf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestMoney(t *testing.T) {
	if got := Money(22.5); got != "22.50" {
		t.Fatalf("Money(22.5) = %q, want 22.50", got)
	}
	if got := Money(-1.005); got != "-1.01" {
		t.Fatalf("Money(-1.005) = %q, want -1.01", got)
	}
}

func TestWriteCSV_HeaderAndRows(t *testing.T) {
	created := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	records := []history.Record{
		{
			CreatedAt:    created,
			MaterialName: "PLA Basic",
			PrinterName:  "Bambu Lab X1 Carbon",
			NozzleName:   "Brass 0.4mm",
			WeightGrams:  115,
			PrintHours:   4,
			MaterialCost: 2.1275,
			SalePrice:    34.023456,
			Profit:       11.341,
			MarginPct:    50,
			Profitable:   true, BreakEvenJobs: 2,
		},
		{
			CreatedAt:    created,
			MaterialName: "PA-CF",
			PrinterName:  "Prusa MK4",
			NozzleName:   "Hardened 0.4mm",
			Profit:       -2.5,
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}

	for i, col := range Columns {
		if rows[0][i] != col {
			t.Fatalf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}

	first := rows[1]
	if len(first) != len(Columns) {
		t.Fatalf("row width = %d, want %d", len(first), len(Columns))
	}
	if first[0] != "2025-03-14 09:30:00" {
		t.Fatalf("created_at = %q", first[0])
	}
	if first[1] != "PLA Basic" {
		t.Fatalf("material = %q", first[1])
	}
	if first[6] != "2.13" {
		t.Fatalf("material_cost = %q, want 2.13", first[6])
	}
	if first[26] != "2" {
		t.Fatalf("break_even_jobs = %q, want 2", first[26])
	}

	second := rows[2]
	if second[26] != "not profitable" {
		t.Fatalf("break_even_jobs = %q, want 'not profitable'", second[26])
	}
	if second[24] != "-2.50" {
		t.Fatalf("profit = %q, want -2.50", second[24])
	}
}
