package main

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/h2d-systems/printcost/internal/catalog"
	"github.com/h2d-systems/printcost/internal/config"
	"github.com/h2d-systems/printcost/internal/db"
	"github.com/h2d-systems/printcost/internal/history"
	"github.com/h2d-systems/printcost/internal/logger"
	"github.com/h2d-systems/printcost/internal/migrations"
	"github.com/h2d-systems/printcost/internal/pricing"
	"github.com/h2d-systems/printcost/internal/seed"
)

type server struct {
	catalog *catalog.Store
	history *history.Store
	engine  pricing.Config
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel, cfg.IsDev()); err != nil {
		os.Stderr.WriteString("init logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", logger.ErrorF(err))
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database, cfg.MigrationsDir); err != nil {
			logger.Fatal("failed to run database migrations", logger.ErrorF(err))
		}
	}

	seedStats, err := seed.Run(database)
	if err != nil {
		logger.Fatal("failed to seed catalog", logger.ErrorF(err))
	}
	logger.Info("catalog seeded",
		logger.Int("inserts", seedStats.Inserts),
		logger.Int("updates", seedStats.Updates),
	)

	if cfg.CatalogFile != "" {
		fileStats, err := seed.ImportCatalogFile(database, cfg.CatalogFile)
		if err != nil {
			logger.Fatal("failed to import catalog file",
				logger.String("path", cfg.CatalogFile),
				logger.ErrorF(err),
			)
		}
		logger.Info("catalog file imported",
			logger.String("path", cfg.CatalogFile),
			logger.Int("inserts", fileStats.Inserts),
			logger.Int("updates", fileStats.Updates),
		)
	}

	srv := &server{
		catalog: catalog.NewStore(database),
		history: history.NewStore(database),
		engine:  pricing.DefaultConfig(),
	}

	if cfg.SampleHistory > 0 {
		if err := seed.SampleHistory(srv.catalog, srv.history, srv.engine, cfg.SampleHistory); err != nil {
			logger.Fatal("failed to generate sample history", logger.ErrorF(err))
		}
		logger.Info("sample history generated", logger.Int("count", cfg.SampleHistory))
	}

	addr := ":" + cfg.Port
	logger.Info("listening", logger.String("addr", addr))
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		logger.Fatal("server stopped", logger.ErrorF(err))
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()

	r.Post("/api/calculate", s.handleCalculate)

	r.Get("/api/materials", s.handleMaterialsList)
	r.Post("/api/materials", s.handleMaterialsCreate)
	r.Put("/api/materials/{id}", s.handleMaterialsUpdate)

	r.Get("/api/printers", s.handlePrintersList)
	r.Post("/api/printers", s.handlePrintersCreate)
	r.Put("/api/printers/{id}", s.handlePrintersUpdate)

	r.Get("/api/nozzles", s.handleNozzlesList)
	r.Post("/api/nozzles", s.handleNozzlesCreate)
	r.Put("/api/nozzles/{id}", s.handleNozzlesUpdate)

	r.Get("/api/history", s.handleHistoryList)
	r.Get("/api/history/export", s.handleHistoryExport)
	r.Get("/api/history/stats", s.handleHistoryStats)

	return r
}
