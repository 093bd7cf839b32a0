package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"studenthub-server-go/internal/domain/audit"
	"studenthub-server-go/internal/domain/auth"
	"studenthub-server-go/internal/domain/auth/denylist"
	"studenthub-server-go/internal/domain/eventbus"
	"studenthub-server-go/internal/platform/config"
	"studenthub-server-go/internal/platform/logging"
	"studenthub-server-go/internal/platform/storage"
	httptransport "studenthub-server-go/internal/transport/http"
	"studenthub-server-go/internal/transport/http/webapi"
)

// defaultAdminPassword protects a fresh deployment until the operator logs in
// and changes it. Seeding logs a loud warning when it is used.
const defaultAdminPassword = "ChangeMe123!"

const (
	auditWorkerCount = 4
	shutdownTimeout  = 10 * time.Second
)

// Run wires the whole server together and blocks until the context is
// cancelled or a termination signal arrives.
func Run(ctx context.Context, configPath string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := config.NewLoader().WithDotEnv(true)
	if configPath != "" {
		loader = loader.WithPath(configPath)
	}
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Level:    cfg.Log.Level,
		Dir:      cfg.Log.Dir,
		Filename: cfg.Log.File,
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logger.Close()

	if cfg.Auth.Secret == "" {
		logger.WarnTag("BOOT", "no signing secret configured, every login and token check will fail with a server configuration error")
	}

	db, err := storage.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := storage.Migrate(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.InfoTag("BOOT", "database ready (%s)", cfg.Database.Driver)

	hasher := auth.NewPasswordHasher(auth.DefaultCost)

	adminHash, err := hasher.Hash(defaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}
	created, err := storage.EnsureAdminUser(ctx, db, adminHash)
	if err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	if created {
		logger.WarnTag("BOOT", "created default admin %s with the default password, change it immediately", storage.DefaultAdminEmail)
	}

	revoked, err := denylist.New(denylist.Config{
		Driver: cfg.Auth.Denylist.Driver,
		Redis: &denylist.RedisConfig{
			Addr:     cfg.Auth.Denylist.Redis.Addr,
			Username: cfg.Auth.Denylist.Redis.Username,
			Password: cfg.Auth.Denylist.Redis.Password,
			DB:       cfg.Auth.Denylist.Redis.DB,
			Prefix:   cfg.Auth.Denylist.Redis.Prefix,
		},
	})
	if err != nil {
		return fmt.Errorf("init denylist: %w", err)
	}
	if revoked != nil {
		defer revoked.Close(context.Background())
		logger.InfoTag("BOOT", "token denylist enabled (%s)", cfg.Auth.Denylist.Driver)
	}

	bus := eventbus.New(auditWorkerCount)
	defer bus.Close()

	recorder := audit.NewRecorder(bus, storage.NewAuditRepository(db), logger)
	if err := recorder.Start(); err != nil {
		return fmt.Errorf("start audit recorder: %w", err)
	}
	defer recorder.Stop()

	codec := auth.NewTokenCodec(auth.StaticSecret(cfg.Auth.Secret))
	credentials := storage.NewCredentialStore(db)
	login := auth.NewService(credentials, hasher, codec, cfg.Auth.TokenTTL, logger)
	logger.InfoTag("BOOT", "auth ready, tokens valid for %s", login.TTL())

	router, err := httptransport.Build(httptransport.Options{
		Config:         cfg,
		Logger:         logger,
		AuthMiddleware: httptransport.JWTAuth(codec, revoked, logger),
	})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	users := storage.NewUserRepository(db)
	roles := storage.NewRoleRepository(db)
	webapi.NewAuthHandlers(login, hasher, users, roles, revoked, bus, logger).
		Register(router.API, router.Secured)
	webapi.NewStudentHandlers(storage.NewStudentRepository(db), bus, logger).
		Register(router.Secured)
	webapi.NewAuditHandlers(storage.NewAuditRepository(db), logger).
		Register(router.Secured)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.InfoTag("BOOT", "http server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.InfoTag("BOOT", "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
