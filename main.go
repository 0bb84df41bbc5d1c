package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"printflow/collections"
	"printflow/config"
	"printflow/handlers"
	"printflow/logging"
	"printflow/metrics"
	"printflow/services"
	"printflow/static"
)

func main() {
	cfg := config.Load()
	logger, err := logging.New(cfg.Logging())
	if err != nil {
		logger = logging.NewDefault()
		logger.Warn("invalid logging config, using defaults", zap.Error(err))
	}
	defer logger.Sync() //nolint:errcheck
	zap.ReplaceGlobals(logger)

	app := pocketbase.New()
	app.RootCmd.AddCommand(seedCatalogCommand(app, logger))

	// Create collections, seed the catalog and backfill design codes on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		if err := collections.Setup(app, logger); err != nil {
			return fmt.Errorf("setup collections: %w", err)
		}
		if cfg.SeedCatalog() {
			if err := collections.Seed(app, logger); err != nil {
				logger.Warn("seed catalog failed", zap.Error(err))
			}
		}
		if err := collections.MigrateMissingDesignCodes(app, logger, services.DesignCodeFor); err != nil {
			logger.Warn("design code migration failed", zap.Error(err))
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		deps := &handlers.Deps{
			Catalog:  services.NewCatalogStore(app, logger),
			Designs:  services.NewDesignStore(app, logger),
			Sessions: handlers.NewWizardSessions(cfg.SessionTTL(), logger),
			Logger:   logger.Named("handlers"),
			PageSize: cfg.PageSize(),
			Policy:   cfg.ClassificationPolicy(),
		}

		se.Router.BindFunc(handlers.RequestLogger(logger.Named("http")))

		se.Router.GET("/static/{path...}", apis.Static(static.FS, false))
		se.Router.GET("/metrics", apis.WrapStdHandler(metrics.Handler()))

		// ── Design list ──────────────────────────────────────────
		se.Router.GET("/designs", handlers.HandleDesignList(deps))
		se.Router.DELETE("/designs/bulk", handlers.HandleDesignBulkDelete(deps))
		se.Router.POST("/designs/{id}/actions/{action}", handlers.HandleDesignAction(deps))

		// ── Design wizard ────────────────────────────────────────
		se.Router.GET("/designs/wizard/new", handlers.HandleWizardNew(deps))
		se.Router.GET("/designs/wizard/{sid}", handlers.HandleWizardShow(deps))
		se.Router.POST("/designs/wizard/{sid}/basic", handlers.HandleWizardBasicInfo(deps))
		se.Router.GET("/designs/wizard/{sid}/materials", handlers.HandleWizardMaterials(deps))
		se.Router.POST("/designs/wizard/{sid}/next", handlers.HandleWizardNext(deps))
		se.Router.POST("/designs/wizard/{sid}/back", handlers.HandleWizardBack(deps))
		se.Router.POST("/designs/wizard/{sid}/options", handlers.HandleWizardOptions(deps))
		se.Router.POST("/designs/wizard/{sid}/save", handlers.HandleWizardSave(deps))
		se.Router.POST("/designs/wizard/{sid}/cancel", handlers.HandleWizardCancel(deps))

		// Redirect home to the design list
		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/designs")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		logger.Fatal("app stopped", zap.Error(err))
	}
}

// seedCatalogCommand loads a catalog into an existing data directory. Without
// --file the embedded reference catalog is used.
func seedCatalogCommand(app *pocketbase.PocketBase, logger *zap.Logger) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed-catalog",
		Short: "Create the collections and load the material catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Bootstrap(); err != nil {
				return fmt.Errorf("bootstrap: %w", err)
			}
			if err := collections.Setup(app, logger); err != nil {
				return err
			}
			if file == "" {
				return collections.Seed(app, logger)
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read catalog: %w", err)
			}
			return collections.SeedCatalog(app, logger, data)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML catalog to load instead of the built-in one")
	return cmd
}
