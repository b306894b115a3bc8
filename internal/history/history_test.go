package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/h2d-systems/printcost/internal/db"
	"github.com/h2d-systems/printcost/internal/migrations"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "history-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, migrations.Up(database, "../../migrations"))
	return NewStore(database)
}

func testRecord(material string) Record {
	return Record{
		MaterialName: material,
		PrinterName:  "Bambu Lab X1 Carbon",
		NozzleName:   "Brass 0.4mm",
		WeightGrams:  100,
		PrintHours:   4,
		MaterialCost: 2.13, EnergyCost: 1.68, NozzleWearCost: 0.02, DirectSubtotal: 3.83,
		FailureCost: 0.38, DepreciationCost: 1.0, MaintenanceCost: 0.24, BedAdhesionCost: 0.03,
		IndirectSubtotal: 1.65,
		LaborCost:        12.5, OverheadCost: 0.77, BusinessSubtotal: 13.27,
		PreTaxTotal: 18.75, TaxAmount: 3.94, PostTaxTotal: 22.69,
		SalePrice: 34.02, Profit: 11.33, MarginPct: 50,
		BreakEvenJobs: 2, Profitable: true,
		RequestJSON: `{"material_id":1}`,
	}
}

func TestStore_AppendFillsIDAndTimestamp(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	rec, err := store.Append(testRecord("PLA Basic"))
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)
	require.False(t, rec.CreatedAt.IsZero())

	records, err := store.List("")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, rec.ID, records[0].ID)
	require.Equal(t, `{"material_id":1}`, records[0].RequestJSON)
	require.InDelta(t, 34.02, records[0].SalePrice, 1e-9)
	require.True(t, records[0].Profitable)
}

func TestStore_ListNewestFirstWithFilter(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	older := testRecord("PLA Basic")
	older.CreatedAt = time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	_, err := store.Append(older)
	require.NoError(t, err)

	newer := testRecord("PETG-CF")
	newer.CreatedAt = time.Date(2025, 2, 20, 12, 0, 0, 0, time.UTC)
	_, err = store.Append(newer)
	require.NoError(t, err)

	records, err := store.List("")
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "PETG-CF", records[0].MaterialName)
	require.Equal(t, "PLA Basic", records[1].MaterialName)

	filtered, err := store.List("PETG")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "PETG-CF", filtered[0].MaterialName)

	none, err := store.List("nylon")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestStore_Stats(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	empty, err := store.Stats()
	require.NoError(t, err)
	require.Zero(t, empty.TotalCalculations)
	require.Empty(t, empty.ByMaterial)

	first := testRecord("PLA Basic")
	first.Rush = true
	_, err = store.Append(first)
	require.NoError(t, err)

	second := testRecord("PLA Basic")
	second.WeightGrams = 200
	second.Multicolor = true
	_, err = store.Append(second)
	require.NoError(t, err)

	third := testRecord("PETG-CF")
	third.Profit = 20
	_, err = store.Append(third)
	require.NoError(t, err)

	stats, err := store.Stats()
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalCalculations)
	require.InDelta(t, (100.0+200.0+100.0)/3, stats.AvgWeightGrams, 1e-9)
	require.InDelta(t, 3*34.02, stats.TotalRevenue, 1e-9)
	require.InDelta(t, 11.33+11.33+20, stats.TotalProfit, 1e-9)
	require.Equal(t, 1, stats.RushCount)
	require.Equal(t, 1, stats.MulticolorCount)

	require.Len(t, stats.ByMaterial, 2)
	require.Equal(t, "PLA Basic", stats.ByMaterial[0].Material)
	require.Equal(t, 2, stats.ByMaterial[0].Count)
	require.Equal(t, "PETG-CF", stats.ByMaterial[1].Material)
	require.InDelta(t, 20, stats.ByMaterial[1].TotalProfit, 1e-9)
}
