package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookstore/internal/cart"
	"bookstore/internal/checkout"
	"bookstore/internal/config"
	"bookstore/internal/handler"
	"bookstore/internal/infra/db"
	"bookstore/internal/infra/memory"
	"bookstore/internal/infra/messaging"
	infraRepo "bookstore/internal/infra/repository"
	"bookstore/internal/logger"
	"bookstore/internal/repository"
	"bookstore/internal/server"
	"bookstore/internal/usecase"
	auth "bookstore/internal/usecase/auth_usecase"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// 永続化の部品
type stores struct {
	books     repository.BookRepository
	users     repository.UserRepository
	orders    repository.OrderRepository
	auditLogs repository.AuditLogRepository
	tx        repository.TransactionManager
}

func openStores(cfg config.Config, log zerolog.Logger) (stores, error) {
	if cfg.DBDriver == config.DriverMemory {
		log.Warn().Msg("using in-memory store; data is lost on restart")
		s := memory.NewStore()
		return stores{
			books:     s.Books(),
			users:     s.Users(),
			orders:    s.Orders(),
			auditLogs: s.AuditLogs(),
			tx:        memory.NewTxManager(s),
		}, nil
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return stores{}, err
	}
	if err := db.Migrate(gormDB); err != nil {
		return stores{}, err
	}

	//Repository（GORM実装）生成
	return stores{
		books:     infraRepo.NewBookGormRepository(gormDB),
		users:     infraRepo.NewUserGormRepository(gormDB),
		orders:    infraRepo.NewOrderGormRepository(gormDB),
		auditLogs: infraRepo.NewAuditLogGormRepository(gormDB),
		tx:        infraRepo.NewTxManagerGorm(gormDB),
	}, nil
}

type publisher interface {
	usecase.EventPublisher
	Close() error
}

func openPublisher(cfg config.Config, log zerolog.Logger) publisher {
	if cfg.RabbitMQURL == "" {
		return messaging.NopPublisher{}
	}
	p, err := messaging.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
	if err != nil {
		//イベントは必須ではないので起動は続ける
		log.Error().Err(err).Msg("rabbitmq unavailable; events disabled")
		return messaging.NopPublisher{}
	}
	return p
}

func main() {
	//.envは無くてもよい
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.LogLevel, cfg.GoEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}

	cat, err := usecase.LoadCatalog(ctx, st.books, cfg.SeedCatalog, log)
	if err != nil {
		log.Fatal().Err(err).Msg("load catalog")
	}

	pub := openPublisher(cfg, log)
	defer pub.Close()

	carts := cart.NewStore(cat)
	engine := checkout.NewEngine(cat, checkout.WithLogger(log.With().Str("component", "checkout").Logger()))

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute)
	clock := auth.RealClock{}

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(st.users, hasher, clock)
	loginUC := auth.NewLoginUsecase(st.users, verifier, issuer, clock)
	catalogUC := usecase.NewCatalogUsecase(cat, st.tx, st.auditLogs, pub, log)
	cartUC := usecase.NewCartUsecase(carts)
	checkoutUC := usecase.NewCheckoutUsecase(carts, engine, st.tx, pub, log)
	orderUC := usecase.NewOrderUsecase(st.orders)

	if cfg.AdminUsername != "" {
		if _, err := registerUC.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("ensure admin")
		}
	}

	//Handler生成
	e := server.New(log)
	server.RegisterRoutes(e, cfg, server.Handlers{
		Auth:      handler.NewAuthHandler(registerUC, loginUC),
		Books:     handler.NewBookHandler(catalogUC),
		Cart:      handler.NewCartHandler(cartUC),
		Checkout:  handler.NewCheckoutHandler(checkoutUC, orderUC),
		AdminBook: handler.NewAdminBookHandler(catalogUC),
	})

	addr := ":8080"
	if v := cfg.Port; v != "" {
		if v[0] != ':' {
			addr = ":" + v
		} else {
			addr = v
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx, e, addr, log)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Int("titles", cat.Len()).Int("carts", carts.Len()).Msg("stopping")
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server")
	}
}
