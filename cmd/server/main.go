package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"eventpoll/internal/adapters/discord"
	"eventpoll/internal/adapters/httpapi"
	"eventpoll/internal/application"
	"eventpoll/internal/config"
	"eventpoll/internal/infrastructure/database"
	"eventpoll/internal/infrastructure/i18n"
	"eventpoll/internal/infrastructure/memory"
	"eventpoll/internal/infrastructure/redislock"
	"eventpoll/internal/infrastructure/security"
	"eventpoll/internal/ports/output"
	"eventpoll/pkg/tz"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("❌ arrêt du serveur", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, cleanup, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	tr := i18n.NewTranslator(cfg.DefaultLocale, logger)

	var notifier output.Notifier
	if cfg.DiscordWebhook != "" {
		loc, err := tz.Load(cfg.DisplayTimezone)
		if err != nil {
			return err
		}
		n, err := discord.NewNotifier(cfg.DiscordWebhook, tr, cfg.DefaultLocale, loc, logger)
		if err != nil {
			return err
		}
		notifier = n
	}

	identity := application.NewIdentityService(
		repos.Users,
		security.BcryptHasher{},
		security.NewJWTIssuer(cfg.JWTSecret, cfg.TokenTTL),
		notifier,
		nil,
		logger,
	)
	defer identity.Wait()

	if cfg.SuperuserEmail != "" {
		if err := identity.EnsureSuperuser(ctx, cfg.SuperuserEmail, cfg.SuperuserPassword); err != nil {
			return err
		}
	}

	if cfg.AutoStopInterval > 0 {
		locker, closeLocker, err := openLocker(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeLocker()
		stopper := application.NewAutoStopper(repos.Polls, repos.Tx, locker, nil, logger)
		go stopper.Run(ctx, cfg.AutoStopInterval)
	}

	gin.SetMode(gin.ReleaseMode)
	router := httpapi.NewRouter(httpapi.Services{
		Identity: identity,
		Events:   application.NewEventService(repos, nil, logger),
		Polls:    application.NewPollService(repos, nil, logger),
		Answers:  application.NewAnswerService(repos, nil, logger),
	}, tr, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("✅ serveur HTTP démarré", "addr", cfg.HTTPAddr, "storage", cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("arrêt en cours")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (application.Repositories, func(), error) {
	if cfg.Storage == config.StorageMemory {
		store := memory.NewStore()
		logger.Warn("stockage en mémoire : les données seront perdues à l'arrêt")
		return application.Repositories{
			Users:         store.Users(),
			Events:        store.Events(),
			AccessGrants:  store.AccessGrants(),
			Polls:         store.Polls(),
			AnswerOptions: store.AnswerOptions(),
			Answers:       store.Answers(),
			Tx:            store,
		}, func() {}, nil
	}

	if err := database.RunMigrations(cfg.DatabaseURL, logger); err != nil {
		return application.Repositories{}, nil, err
	}
	pool, err := database.NewPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return application.Repositories{}, nil, err
	}
	return application.Repositories{
		Users:         database.NewUserRepository(pool),
		Events:        database.NewEventRepository(pool),
		AccessGrants:  database.NewAccessGrantRepository(pool),
		Polls:         database.NewPollRepository(pool),
		AnswerOptions: database.NewAnswerOptionRepository(pool),
		Answers:       database.NewAnswerRepository(pool),
		Tx:            database.NewTransactor(pool),
	}, pool.Close, nil
}

// openLocker picks Redis when configured so several replicas share the
// auto-stop lease; a single process falls back to an in-memory lease.
func openLocker(ctx context.Context, cfg *config.Config, logger *slog.Logger) (output.Locker, func(), error) {
	if cfg.RedisURL == "" {
		return memory.NewStore(), func() {}, nil
	}
	client, err := redislock.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("redis connecté pour le verrou d'arrêt automatique")
	return redislock.New(client), func() { _ = client.Close() }, nil
}
