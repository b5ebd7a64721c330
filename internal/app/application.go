package app

import (
	"fmt"
	"io"

	"wpbreez_sync/config"
	"wpbreez_sync/internal/breez"
	"wpbreez_sync/internal/catalog"
	"wpbreez_sync/internal/catalog/memstore"
	"wpbreez_sync/internal/events"
	"wpbreez_sync/internal/importer"
	"wpbreez_sync/internal/journal"
	"wpbreez_sync/internal/woocommerce"
	"wpbreez_sync/migrations/infrastructure"
	"wpbreez_sync/pkg/dbconnect"
	"wpbreez_sync/pkg/dbconnect/migration"
	"wpbreez_sync/pkg/dbconnect/postgres"
	"wpbreez_sync/pkg/logger"
)

// Application - собранное приложение: импорт, журнал, публикатор событий.
type Application struct {
	Runner  *Runner
	Journal journal.Repository

	cfg       *config.AppConfig
	database  dbconnect.Database
	publisher events.Publisher
	log       logger.Logger
	writer    io.Writer
}

// NewApplication собирает зависимости по конфигу. При dryRun изменения
// пишутся в память, а не в магазин.
func NewApplication(cfg *config.AppConfig, dryRun bool, writer io.Writer) (*Application, error) {
	a := &Application{
		cfg:    cfg,
		log:    logger.NewLogger(writer, "[Application]"),
		writer: writer,
	}

	var store catalog.Store
	if dryRun {
		a.log.Log("dry run: catalog changes stay in memory")
		store = memstore.New()
	} else {
		wc, err := woocommerce.NewStore(cfg.WooCommerce, writer)
		if err != nil {
			return nil, err
		}
		store = wc
	}

	repo, err := a.openJournal()
	if err != nil {
		return nil, err
	}
	a.Journal = repo
	a.publisher = events.NewPublisher(cfg.Kafka, writer)

	synchronizer := importer.NewSynchronizer(breez.NewFeed(cfg.Breez, writer), store, cfg.Sync, writer)
	a.Runner = NewRunner(synchronizer, repo, a.publisher, writer)
	return a, nil
}

func (a *Application) openJournal() (journal.Repository, error) {
	if !a.cfg.Postgres.Enabled() {
		a.log.Log("postgres is not configured, run history is not kept")
		return journal.Nop{}, nil
	}

	pg := postgres.NewPgConnector(&a.cfg.Postgres, a.writer)
	db, err := pg.Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to open run journal: %w", err)
	}
	a.database = pg

	err = migration.Apply(db,
		&infrastructure.MigrationsSchema{},
		&infrastructure.BreezSchema{},
		&infrastructure.SyncRunsTable{},
	)
	if err != nil {
		pg.Close()
		return nil, err
	}
	a.log.Log("journal migrations applied successfully")
	return journal.NewPostgresJournal(db, a.writer), nil
}

func (a *Application) NewServer() (*SyncServer, error) {
	return NewSyncServer(a.cfg.Server, a.Runner, a.Journal, a.writer)
}

func (a *Application) Close() error {
	var firstErr error
	if err := a.publisher.Close(); err != nil {
		firstErr = err
	}
	if a.database != nil {
		if err := a.database.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
