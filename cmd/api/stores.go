package main

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-youapp/internal/config"
	profilerepo "github.com/ovaphlow/pitchfork/service-youapp/internal/profile/repo"
	userrepo "github.com/ovaphlow/pitchfork/service-youapp/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-youapp/pkg/database"
)

type stores struct {
	users    userrepo.Directory
	profiles profilerepo.Store
	ready    func(context.Context) error
	close    func()
}

func openStores(ctx context.Context, cfg config.Config, log *zap.SugaredLogger) (*stores, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		log.Warn("using in-memory store; data is lost on exit")
		return &stores{
			users:    userrepo.NewMemoryRepo(),
			profiles: profilerepo.NewMemoryRepo(),
			close:    func() {},
		}, nil

	case config.StoreMongo:
		client, db, err := database.ConnectMongo(ctx, database.MongoConfig{
			URI: cfg.MongoURI, Database: cfg.MongoDatabase, Timeout: cfg.ConnectTimeout,
		})
		if err != nil {
			return nil, err
		}
		users, profiles := userrepo.NewMongoRepo(db), profilerepo.NewMongoRepo(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		if err := profiles.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &stores{
			users:    users,
			profiles: profiles,
			ready:    func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
			close:    func() { _ = client.Disconnect(context.Background()) },
		}, nil

	case config.StorePostgres, config.StoreSQLite:
		dbCfg := database.ConfigFromEnv()
		dbCfg.DSN = cfg.DatabaseURL
		if cfg.StoreBackend == config.StoreSQLite {
			dbCfg = database.SQLiteConfig(cfg.SQLitePath)
		}
		dbCfg.Timeout = cfg.ConnectTimeout
		db, err := database.Connect(dbCfg)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &stores{
			users:    userrepo.NewSQLRepo(db),
			profiles: profilerepo.NewSQLRepo(db),
			ready:    db.PingContext,
			close:    func() { db.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
