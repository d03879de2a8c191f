package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/multierr"

	"story_sync/internal/publisher"
	"story_sync/internal/service"
	"story_sync/internal/storage/postgres"
	"story_sync/internal/webflow"
	"story_sync/internal/xano"
)

// deps holds the optional collaborators of a sync pass. Nil interface values
// mean the feature is not configured.
type deps struct {
	db        *sqlx.DB
	ledger    *postgres.RunStore
	runs      service.RunStore
	txManager service.TransactionManager
	publisher service.Publisher
}

func (a *app) xanoClient() *xano.Client {
	return xano.New(xano.Config{
		BaseURL:        a.cfg.Xano.BaseURL,
		Timeout:        a.cfg.Xano.Timeout,
		MaxAttempts:    a.cfg.Xano.Retry.MaxAttempts,
		InitialBackoff: a.cfg.Xano.Retry.InitialBackoff,
		MaxBackoff:     a.cfg.Xano.Retry.MaxBackoff,
	}, a.logger)
}

func (a *app) metaClient(token string) *xano.MetaClient {
	return xano.NewMeta(xano.MetaConfig{
		BaseURL: a.cfg.Xano.MetadataURL,
		Token:   token,
		Timeout: a.cfg.Xano.Timeout,
	}, a.logger)
}

func (a *app) webflowClient() *webflow.Client {
	return webflow.New(webflow.Config{
		BaseURL:      a.cfg.Webflow.BaseURL,
		Token:        a.cfg.Webflow.Token,
		CollectionID: a.cfg.Webflow.CollectionID,
		Timeout:      a.cfg.Webflow.Timeout,
	}, a.logger)
}

func (a *app) openDB(ctx context.Context) (*sqlx.DB, error) {
	db, err := postgres.Open(ctx, a.cfg.Database.DSN())
	if err != nil {
		return nil, err
	}
	a.logger.Info("connected to database", "host", a.cfg.Database.Host, "dbname", a.cfg.Database.DBName)
	return db, nil
}

func (a *app) buildDeps(ctx context.Context) (*deps, error) {
	d := &deps{}

	if a.cfg.Database.Enabled() {
		db, err := a.openDB(ctx)
		if err != nil {
			return nil, err
		}
		d.db = db
		d.ledger = postgres.NewRunStore(db)
		d.runs = d.ledger
		d.txManager = postgres.NewTransactionManager(db)
	}

	if a.cfg.RabbitMQ.Enabled() {
		pub, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        a.cfg.RabbitMQ.URL,
			Exchange:   a.cfg.RabbitMQ.Exchange,
			RoutingKey: a.cfg.RabbitMQ.RoutingKey,
			QueueName:  a.cfg.RabbitMQ.QueueName,
		}, a.logger)
		if err != nil {
			return nil, multierr.Append(err, d.Close())
		}
		d.publisher = pub
	}

	return d, nil
}

func (d *deps) Close() error {
	var err error
	if d.publisher != nil {
		err = multierr.Append(err, d.publisher.Close())
	}
	if d.db != nil {
		err = multierr.Append(err, d.db.Close())
	}
	if err != nil {
		return fmt.Errorf("close resources: %w", err)
	}
	return nil
}

func (a *app) syncService(d *deps, recorder service.Recorder) *service.SyncService {
	return service.NewSyncService(
		a.xanoClient(),
		a.webflowClient(),
		d.runs,
		d.txManager,
		d.publisher,
		recorder,
		a.logger,
	)
}
