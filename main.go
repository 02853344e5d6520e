package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"compro/admin"
	"compro/cache"
	"compro/common"
	"compro/config"
	"compro/database"
	"compro/guard"
	"compro/site"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	cmd := &cobra.Command{
		Use:          "compro",
		Short:        "Company profile site with content admin",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	cmd.AddCommand(serve, newMigrateCmd(), newSeedCmd(), newCheckCmd())
	return cmd
}

// openDb loads the config and connects to the database with migrations applied.
func openDb() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	db := common.ConnectDb(cfg.SqliteDB)
	if db == nil {
		return nil, nil, fmt.Errorf("failed to connect to database %s", cfg.SqliteDB)
	}
	if err := database.RunMigrations(db); err != nil {
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return cfg, db, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDb()
			if err != nil {
				return err
			}
			if err := cfg.ValidateServe(); err != nil {
				return err
			}

			router := newRouter(cfg, db)

			log.Printf("Starting server on port %s...", cfg.Port)
			return router.Run(":" + cfg.Port)
		},
	}
}

func newRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   false,
	})
	router.Use(sessions.Sessions("compro-session", store))

	pageCache := cache.NewStore(cfg.CacheDir)
	go sweepCache(pageCache, cfg.CacheMaxAge)

	adminModule := admin.NewAdminModule(db, pageCache, cfg.NavigationName)
	adminModule.RegisterRoutes(router)

	siteModule := site.NewSiteModule(db, site.Options{
		Domain:         cfg.Domain,
		NavigationName: cfg.NavigationName,
		DefaultLocale:  cfg.DefaultLocale,
		Cache:          pageCache,
		CacheMaxAge:    cfg.CacheMaxAge,
	})
	siteModule.RegisterRoutes(router)

	return router
}

// sweepCache removes expired cache files once per maxAge.
func sweepCache(store *cache.Store, maxAge time.Duration) {
	if maxAge <= 0 {
		return
	}
	ticker := time.NewTicker(maxAge)
	defer ticker.Stop()
	for range ticker.C {
		if err := store.ClearOld(maxAge); err != nil {
			log.Printf("clear old cache: %v", err)
		}
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, err := openDb()
			return err
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the initial admin user, navigation and pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDb()
			if err != nil {
				return err
			}
			return database.Seed(db, database.SeedOptions{
				AdminEmail:     cfg.AdminEmail,
				AdminPassword:  cfg.AdminPassword,
				NavigationName: cfg.NavigationName,
			})
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report ordering and reference violations in the stored content",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDb()
			if err != nil {
				return err
			}
			snapshot, err := guard.LoadSnapshot(db)
			if err != nil {
				return err
			}
			violations := guard.CheckAll(snapshot)
			for _, v := range violations {
				fmt.Fprintln(cmd.OutOrStdout(), v.String())
			}
			if len(violations) > 0 {
				return fmt.Errorf("%d integrity violations", len(violations))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}
