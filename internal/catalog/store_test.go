package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/h2d-systems/printcost/internal/db"
	"github.com/h2d-systems/printcost/internal/migrations"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "catalog-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, migrations.Up(database, "../../migrations"))
	return NewStore(database)
}

func testStoreMaterial() Material {
	return Material{
		Name:              "PETG Basic",
		Brand:             "Bambu Lab",
		Family:            FamilyPETG,
		PricePerKg:        19.99,
		DensityGCM3:       1.27,
		PrintTempMinC:     230,
		PrintTempMaxC:     250,
		DefaultSupportPct: 15,
		DefaultFailurePct: 10,
		DiameterMM:        1.75,
		Active:            true,
	}
}

func TestStore_MaterialRoundTrip(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	id, err := store.CreateMaterial(testStoreMaterial())
	require.NoError(t, err)
	require.Positive(t, id)

	got, err := store.GetMaterial(id)
	require.NoError(t, err)
	require.Equal(t, "PETG Basic", got.Name)
	require.Equal(t, FamilyPETG, got.Family)
	require.InDelta(t, 19.99, got.PricePerKg, 1e-9)
	require.True(t, got.Active)

	got.PricePerKg = 17.49
	got.Active = false
	require.NoError(t, store.UpdateMaterial(got))

	updated, err := store.GetMaterial(id)
	require.NoError(t, err)
	require.InDelta(t, 17.49, updated.PricePerKg, 1e-9)
	require.False(t, updated.Active)
}

func TestStore_MaterialNotFound(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	_, err := store.GetMaterial(9999)
	require.True(t, IsNotFound(err), "got %v", err)

	missing := testStoreMaterial()
	missing.ID = 9999
	err = store.UpdateMaterial(missing)
	require.True(t, IsNotFound(err), "got %v", err)
}

func TestStore_MaterialRejectsInvalid(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	free := testStoreMaterial()
	free.PricePerKg = 0
	_, err := store.CreateMaterial(free)
	require.Error(t, err)

	unknown := testStoreMaterial()
	unknown.Family = Family("VINYL")
	_, err = store.CreateMaterial(unknown)
	require.Error(t, err)
}

func TestStore_PrinterFeaturesRoundTrip(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	id, err := store.CreatePrinter(Printer{
		Brand:              "Bambu Lab",
		Model:              "X1 Carbon",
		Price:              1499,
		BuildXMM:           256,
		BuildYMM:           256,
		BuildZMM:           256,
		PowerKW:            1.05,
		MaintenancePerYear: 120,
		DepreciationYears:  3,
		JobsPerYear:        500,
		Features:           []string{"ams", "enclosed", "lidar"},
		Active:             true,
	})
	require.NoError(t, err)

	got, err := store.GetPrinter(id)
	require.NoError(t, err)
	require.Equal(t, []string{"ams", "enclosed", "lidar"}, got.Features)
	require.InDelta(t, 1.05, got.PowerKW, 1e-9)
}

func TestStore_NozzleRoundTrip(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	id, err := store.CreateNozzle(Nozzle{
		Name:          "Hardened 0.6mm",
		DiameterMM:    0.6,
		Tip:           TipHardenedSteel,
		Price:         14.99,
		LifetimeHours: 3000,
		WearFactor:    0.4,
		Active:        true,
	})
	require.NoError(t, err)

	got, err := store.GetNozzle(id)
	require.NoError(t, err)
	require.Equal(t, TipHardenedSteel, got.Tip)
	require.InDelta(t, 0.6, got.DiameterMM, 1e-9)

	_, err = store.CreateNozzle(Nozzle{
		Name: "Odd", DiameterMM: 0.45, Tip: TipBrass, Price: 5, LifetimeHours: 1000,
	})
	require.Error(t, err)
}

func TestStore_Resolve(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	materialID, err := store.CreateMaterial(testStoreMaterial())
	require.NoError(t, err)
	printerID, err := store.CreatePrinter(Printer{
		Brand: "Prusa", Model: "MK4", Price: 799,
		BuildXMM: 250, BuildYMM: 210, BuildZMM: 220,
		PowerKW: 0.24, DepreciationYears: 4, JobsPerYear: 400, Active: true,
	})
	require.NoError(t, err)
	nozzleID, err := store.CreateNozzle(Nozzle{
		Name: "Brass 0.4mm", DiameterMM: 0.4, Tip: TipBrass,
		Price: 5, LifetimeHours: 1000, Active: true,
	})
	require.NoError(t, err)

	snapshot, err := store.Resolve(materialID, printerID, nozzleID)
	require.NoError(t, err)
	require.Equal(t, materialID, snapshot.Material.ID)
	require.Equal(t, printerID, snapshot.Printer.ID)
	require.Equal(t, nozzleID, snapshot.Nozzle.ID)

	_, err = store.Resolve(materialID, printerID, 9999)
	require.True(t, IsNotFound(err), "got %v", err)
}
