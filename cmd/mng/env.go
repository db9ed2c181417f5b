package main

import (
	"errors"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/auth"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/config"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/infra/db"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/infra/elastic"
	infraRepo "github.com/btran-developer/gmice-online-ecommerce-back-end/internal/infra/repository"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/logger"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/search"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/usecase"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const bcryptCost = 12

var errSearchDisabled = errors.New("ELASTICSEARCH_URL is required")

// env holds what a command needs. Commands get a fresh one per run.
type env struct {
	cfg    config.Config
	db     *gorm.DB
	log    *zap.Logger
	hasher usecase.PasswordHasher
	store  search.DocumentStore
	closer func()
}

type opener func() (*env, error)

func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.GoEnv)
	if err != nil {
		return nil, err
	}
	gdb, err := db.Connect(cfg.DSN())
	if err != nil {
		return nil, err
	}

	e := &env{
		cfg:    cfg,
		db:     gdb,
		log:    log,
		hasher: auth.NewBcryptPasswordHasher(bcryptCost),
		closer: func() {
			_ = log.Sync()
			_ = db.Close(gdb)
		},
	}
	if cfg.ElasticsearchURL != "" {
		es, err := elastic.Connect(cfg.ElasticsearchURL, cfg.ElasticsearchAPIKey)
		if err != nil {
			_ = db.Close(gdb)
			return nil, err
		}
		e.store = es
	}
	return e, nil
}

func (e *env) close() {
	if e.closer != nil {
		e.closer()
	}
}

// synchronizer is disabled when no document store is configured.
func (e *env) synchronizer() *search.Synchronizer {
	s := search.NewSynchronizer(e.store, e.log)
	s.Register(search.ProductSource(infraRepo.NewProductGormRepository(e.db)))
	return s
}
