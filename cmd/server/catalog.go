package main

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/h2d-systems/printcost/internal/catalog"
)

type materialView struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Brand             string  `json:"brand,omitempty"`
	Family            string  `json:"family"`
	PricePerKg        float64 `json:"price_per_kg"`
	DensityGCM3       float64 `json:"density_g_cm3"`
	PrintTempMinC     int     `json:"print_temp_min_c"`
	PrintTempMaxC     int     `json:"print_temp_max_c"`
	DefaultSupportPct float64 `json:"default_support_pct"`
	DefaultFailurePct float64 `json:"default_failure_pct"`
	DiameterMM        float64 `json:"diameter_mm"`
	Active            bool    `json:"active"`
}

func viewMaterial(m catalog.Material) materialView {
	return materialView{
		ID:                m.ID,
		Name:              m.Name,
		Brand:             m.Brand,
		Family:            string(m.Family),
		PricePerKg:        m.PricePerKg,
		DensityGCM3:       m.DensityGCM3,
		PrintTempMinC:     m.PrintTempMinC,
		PrintTempMaxC:     m.PrintTempMaxC,
		DefaultSupportPct: m.DefaultSupportPct,
		DefaultFailurePct: m.DefaultFailurePct,
		DiameterMM:        m.DiameterMM,
		Active:            m.Active,
	}
}

func (v materialView) toMaterial() (catalog.Material, error) {
	family, err := catalog.ParseFamily(v.Family)
	if err != nil {
		return catalog.Material{}, err
	}
	return catalog.Material{
		ID:                v.ID,
		Name:              v.Name,
		Brand:             v.Brand,
		Family:            family,
		PricePerKg:        v.PricePerKg,
		DensityGCM3:       v.DensityGCM3,
		PrintTempMinC:     v.PrintTempMinC,
		PrintTempMaxC:     v.PrintTempMaxC,
		DefaultSupportPct: v.DefaultSupportPct,
		DefaultFailurePct: v.DefaultFailurePct,
		DiameterMM:        v.DiameterMM,
		Active:            v.Active,
	}, nil
}

type printerView struct {
	ID                 int64    `json:"id"`
	Brand              string   `json:"brand"`
	Model              string   `json:"model"`
	Price              float64  `json:"price"`
	BuildXMM           int      `json:"build_x_mm"`
	BuildYMM           int      `json:"build_y_mm"`
	BuildZMM           int      `json:"build_z_mm"`
	PowerKW            float64  `json:"power_kw"`
	MaintenancePerYear float64  `json:"maintenance_per_year"`
	DepreciationYears  float64  `json:"depreciation_years"`
	JobsPerYear        float64  `json:"jobs_per_year"`
	Features           []string `json:"features,omitempty"`
	Active             bool     `json:"active"`
}

func viewPrinter(p catalog.Printer) printerView {
	return printerView{
		ID:                 p.ID,
		Brand:              p.Brand,
		Model:              p.Model,
		Price:              p.Price,
		BuildXMM:           p.BuildXMM,
		BuildYMM:           p.BuildYMM,
		BuildZMM:           p.BuildZMM,
		PowerKW:            p.PowerKW,
		MaintenancePerYear: p.MaintenancePerYear,
		DepreciationYears:  p.DepreciationYears,
		JobsPerYear:        p.JobsPerYear,
		Features:           p.Features,
		Active:             p.Active,
	}
}

func (v printerView) toPrinter() catalog.Printer {
	return catalog.Printer{
		ID:                 v.ID,
		Brand:              v.Brand,
		Model:              v.Model,
		Price:              v.Price,
		BuildXMM:           v.BuildXMM,
		BuildYMM:           v.BuildYMM,
		BuildZMM:           v.BuildZMM,
		PowerKW:            v.PowerKW,
		MaintenancePerYear: v.MaintenancePerYear,
		DepreciationYears:  v.DepreciationYears,
		JobsPerYear:        v.JobsPerYear,
		Features:           v.Features,
		Active:             v.Active,
	}
}

type nozzleView struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	DiameterMM    float64 `json:"diameter_mm"`
	TipMaterial   string  `json:"tip_material"`
	Price         float64 `json:"price"`
	LifetimeHours float64 `json:"lifetime_hours"`
	WearFactor    float64 `json:"wear_factor"`
	Active        bool    `json:"active"`
}

func viewNozzle(n catalog.Nozzle) nozzleView {
	return nozzleView{
		ID:            n.ID,
		Name:          n.Name,
		DiameterMM:    n.DiameterMM,
		TipMaterial:   string(n.Tip),
		Price:         n.Price,
		LifetimeHours: n.LifetimeHours,
		WearFactor:    n.WearFactor,
		Active:        n.Active,
	}
}

func (v nozzleView) toNozzle() (catalog.Nozzle, error) {
	tip, err := catalog.ParseTipMaterial(v.TipMaterial)
	if err != nil {
		return catalog.Nozzle{}, err
	}
	return catalog.Nozzle{
		ID:            v.ID,
		Name:          v.Name,
		DiameterMM:    v.DiameterMM,
		Tip:           tip,
		Price:         v.Price,
		LifetimeHours: v.LifetimeHours,
		WearFactor:    v.WearFactor,
		Active:        v.Active,
	}, nil
}

func (s *server) handleMaterialsList(w http.ResponseWriter, r *http.Request) {
	materials, err := s.catalog.ListMaterials()
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]materialView, 0, len(materials))
	for _, m := range materials {
		views = append(views, viewMaterial(m))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *server) handleMaterialsCreate(w http.ResponseWriter, r *http.Request) {
	var v materialView
	if err := decodeJSON(r, &v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	m, err := v.toMaterial()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := m.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	id, err := s.catalog.CreateMaterial(m)
	if err != nil {
		writeError(w, err)
		return
	}
	m.ID = id
	writeJSON(w, http.StatusCreated, viewMaterial(m))
}

func (s *server) handleMaterialsUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var v materialView
	if err := decodeJSON(r, &v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	m, err := v.toMaterial()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	m.ID = id
	if err := m.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.catalog.UpdateMaterial(m); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewMaterial(m))
}

func (s *server) handlePrintersList(w http.ResponseWriter, r *http.Request) {
	printers, err := s.catalog.ListPrinters()
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]printerView, 0, len(printers))
	for _, p := range printers {
		views = append(views, viewPrinter(p))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *server) handlePrintersCreate(w http.ResponseWriter, r *http.Request) {
	var v printerView
	if err := decodeJSON(r, &v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	p := v.toPrinter()
	if err := p.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	id, err := s.catalog.CreatePrinter(p)
	if err != nil {
		writeError(w, err)
		return
	}
	p.ID = id
	writeJSON(w, http.StatusCreated, viewPrinter(p))
}

func (s *server) handlePrintersUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var v printerView
	if err := decodeJSON(r, &v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	p := v.toPrinter()
	p.ID = id
	if err := p.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.catalog.UpdatePrinter(p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewPrinter(p))
}

func (s *server) handleNozzlesList(w http.ResponseWriter, r *http.Request) {
	nozzles, err := s.catalog.ListNozzles()
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]nozzleView, 0, len(nozzles))
	for _, n := range nozzles {
		views = append(views, viewNozzle(n))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *server) handleNozzlesCreate(w http.ResponseWriter, r *http.Request) {
	var v nozzleView
	if err := decodeJSON(r, &v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	n, err := v.toNozzle()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := n.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	id, err := s.catalog.CreateNozzle(n)
	if err != nil {
		writeError(w, err)
		return
	}
	n.ID = id
	writeJSON(w, http.StatusCreated, viewNozzle(n))
}

func (s *server) handleNozzlesUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var v nozzleView
	if err := decodeJSON(r, &v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	n, err := v.toNozzle()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	n.ID = id
	if err := n.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.catalog.UpdateNozzle(n); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewNozzle(n))
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}
