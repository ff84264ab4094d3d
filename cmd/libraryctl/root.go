package main

import (
	"database/sql"
	"errors"

	"library_backend/internal/config"
	"library_backend/internal/logger"
	"library_backend/internal/models"
	"library_backend/internal/repository"
	"library_backend/internal/repository/db"
	"library_backend/internal/service"

	"github.com/spf13/cobra"
)

// operator is the actor recorded for changes made from the command line.
var operator = models.Identity{UserID: "libraryctl", Role: models.RoleAdmin}

// app holds what every subcommand needs once the config is resolved.
type app struct {
	configDir string
	dbPath    string

	cfg   config.Config
	log   *logger.Logger
	conn  *sql.DB
	repos *repository.Repository
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "libraryctl",
		Short:         "Operator tasks for the library backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().StringVar(&a.configDir, "config", "configs", "directory holding config.yml")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite file (overrides db.path)")

	root.AddCommand(
		newCreateAdminCmd(a),
		newImportBooksCmd(a),
		newSeedCmd(a),
	)
	return root
}

// open loads the config and the database. The signing key is not needed here.
func (a *app) open() error {
	cfg, err := config.Load(a.configDir)
	if err != nil && !errors.Is(err, config.ErrMissingSecret) {
		return err
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	a.cfg = cfg
	a.log = logger.Get(cfg.LogLevel)

	conn, err := db.InitDB(cfg.DBPath)
	if err != nil {
		return err
	}
	a.conn = conn
	a.repos = repository.NewRepository(conn)
	return nil
}

func (a *app) close() error {
	if a.conn == nil {
		return nil
	}
	return a.conn.Close()
}

func (a *app) seeder() *service.Seeder {
	ledger := service.NewLedgerService(a.repos.Borrows, a.repos.Books, a.repos.Users, a.repos.Events, a.log)
	return service.NewSeeder(a.repos, ledger, a.log)
}

func (a *app) catalog() *service.CatalogService {
	return service.NewCatalogService(a.repos.Books, a.repos.Events, a.log)
}
