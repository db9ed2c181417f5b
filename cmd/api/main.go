package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/auth"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/config"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/handler"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/infra/db"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/infra/elastic"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/infra/mail"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/infra/redisstore"
	infraRepo "github.com/btran-developer/gmice-online-ecommerce-back-end/internal/infra/repository"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/logger"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/middleware"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/search"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/server"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/telemetry"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/templates"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/tokenledger"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/usecase"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	bcryptCost      = 12
	shutdownTimeout = 10 * time.Second
	version         = "1.0.0"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	config.LoadDotenv()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.GoEnv)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(cfg.OTELEnabled, version, os.Stdout)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	//DB
	gormDB, err := db.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(gormDB) }()
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	//Redis
	kv, err := redisstore.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer func() { _ = kv.Close() }()

	//Repository
	txm := infraRepo.NewTxManagerGorm(gormDB)
	carts := infraRepo.NewCartGormRepository(gormDB)
	products := infraRepo.NewProductGormRepository(gormDB)
	tags := infraRepo.NewTagGormRepository(gormDB)
	brands := infraRepo.NewBrandGormRepository(gormDB)
	features := infraRepo.NewFeatureGormRepository(gormDB)
	users := infraRepo.NewUserGormRepository(gormDB)
	orders := infraRepo.NewOrderGormRepository(gormDB)

	index, err := newSynchronizer(cfg, products, log)
	if err != nil {
		return err
	}

	mailer, err := mail.NewSMTPSender(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
	})
	if err != nil {
		return err
	}
	renderer, err := templates.New()
	if err != nil {
		return err
	}

	hasher := auth.NewBcryptPasswordHasher(bcryptCost)
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	ledger := tokenledger.New(kv, log)

	//Usecase
	activationUC := usecase.NewActivationUsecase(kv, users, mailer, renderer, usecase.ActivationConfig{
		APIDomain: cfg.APIDomain,
		Sender:    cfg.MailSender,
		TTL:       cfg.ActivationTTL,
	}, log)
	authUC := usecase.NewAuthUsecase(txm, users, carts, hasher, issuer, ledger, activationUC, log)
	cartUC := usecase.NewCartUsecase(txm, carts, users, log)
	orderUC := usecase.NewOrderUsecase(txm, orders, usecase.AcceptAllGateway{}, usecase.SystemClock{}, log)
	productUC := usecase.NewProductUsecase(products, tags, brands, index, log)
	contactUC := usecase.NewContactUsecase(mailer, renderer, cfg.MailSender, cfg.CustomerServiceEmail, log)
	catalogAdminUC := usecase.NewCatalogAdminUsecase(products, tags, brands, features, index, log)
	userAdminUC := usecase.NewUserAdminUsecase(users, hasher, log)
	orderAdminUC := usecase.NewOrderAdminUsecase(orders, log)

	//Middleware
	limiter := middleware.NewRateLimiter(ctx)
	strict := middleware.TierStrict
	strict.Limit = rate.Limit(cfg.RateLimitRPS)
	guards := handler.Guards{
		Access:     middleware.AuthJWT(authUC, auth.AccessToken),
		Refresh:    middleware.AuthJWT(authUC, auth.RefreshToken),
		BackOffice: middleware.BackOfficeGuard(users),
		Admin:      middleware.AdminGuard(),
		Strict:     limiter.Middleware(strict),
		General:    limiter.Middleware(middleware.TierGeneral),
	}

	//Handler
	srv := server.New(server.Options{
		Addr:        ":" + cfg.Port,
		FrontendURL: cfg.FEURL,
		Tracing:     cfg.OTELEnabled,
	}, log, guards,
		handler.NewCartHandler(cartUC),
		handler.NewOrderHandler(orderUC),
		handler.NewUserHandler(authUC, orderUC),
		handler.NewProductHandler(productUC),
		handler.NewContactHandler(contactUC),
		handler.NewActivationHandler(activationUC, renderer, cfg.FEURL),
		handler.NewAdminCatalogHandler(catalogAdminUC),
		handler.NewAdminUserHandler(userAdminUC),
		handler.NewAdminOrderHandler(orderAdminUC),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newSynchronizer returns a disabled synchronizer when ELASTICSEARCH_URL is empty.
func newSynchronizer(cfg config.Config, products search.ProductLister, log *zap.Logger) (*search.Synchronizer, error) {
	var store search.DocumentStore
	if cfg.ElasticsearchURL != "" {
		es, err := elastic.Connect(cfg.ElasticsearchURL, cfg.ElasticsearchAPIKey)
		if err != nil {
			return nil, err
		}
		store = es
	} else {
		log.Warn("search disabled", zap.String("reason", "ELASTICSEARCH_URL is empty"))
	}

	s := search.NewSynchronizer(store, log)
	s.Register(search.ProductSource(products))
	return s, nil
}
