// Package app wires configuration, storage, notifications and the HTTP
// server of the site service, and runs them until a shutdown signal.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/silahub/site/internal/blog"
	"github.com/silahub/site/internal/config"
	"github.com/silahub/site/internal/domain"
	"github.com/silahub/site/internal/httpserver"
	"github.com/silahub/site/internal/httpserver/deps"
	"github.com/silahub/site/internal/httpserver/handlers"
	"github.com/silahub/site/internal/leads"
	"github.com/silahub/site/internal/logger"
	"github.com/silahub/site/internal/metrics"
	"github.com/silahub/site/internal/notify"
	"github.com/silahub/site/internal/notify/mail"
	"github.com/silahub/site/internal/notify/queue"
	"github.com/silahub/site/internal/scheduler"
	"github.com/silahub/site/internal/session"
	"github.com/silahub/site/internal/sources/seed"
	"github.com/silahub/site/internal/store"
	"github.com/silahub/site/internal/store/memory"
	redisstore "github.com/silahub/site/internal/store/redis"
	"github.com/silahub/site/internal/utils"
	"github.com/silahub/site/internal/version"
)

const sessionReapInterval = time.Minute

type App struct {
	cfg        *config.Config
	logger     logger.Logger
	server     *httpserver.Server
	dispatcher *scheduler.NotificationDispatcher
	reaper     *scheduler.SessionReaper
	closers    []namedCloser
}

type namedCloser struct {
	name string
	c    io.Closer
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	a, err := build(cfg, loggerClient)
	if err != nil {
		loggerClient.Error("failed to initialize", logger.Error(err))
		_ = loggerClient.Sync()
		os.Exit(1)
	}
	return a
}

func build(cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	ctx := context.Background()
	a := &App{cfg: cfg, logger: loggerClient}

	kv, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	seeder, err := newSeeder(cfg.BlogSeedFile, loggerClient)
	if err != nil {
		return nil, err
	}

	notifier, notifierState, err := a.openNotifier()
	if err != nil {
		return nil, err
	}

	m := metrics.New()

	a.dispatcher = scheduler.NewNotificationDispatcher(notifier, loggerClient, m, cfg.NotifyTimeout, cfg.NotifyQueueSize)

	gate, err := session.New(ctx, kv,
		session.Credentials{Username: cfg.AdminUsername, Password: cfg.AdminPassword},
		session.Options{Secret: cfg.SessionSecret, TTL: cfg.SessionTTL},
		loggerClient)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize admin session: %w", err)
	}
	a.reaper = scheduler.NewSessionReaper(gate, loggerClient, sessionReapInterval, cfg.SessionTTL)

	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		AllowedOrigins: cfg.AllowedOrigins,
		TrustProxy:     cfg.TrustProxy,

		Store:    kv,
		Leads:    leads.New(kv, a.dispatcher, loggerClient),
		Blog:     blog.New(kv, seeder, loggerClient),
		Session:  gate,
		Metrics:  m,
		Validate: handlers.NewValidator(),

		NotifierName:  notifier.Name(),
		NotifierState: notifierState,

		PhoneRegion:       cfg.PhoneRegion,
		LeadRateBurst:     cfg.LeadRateBurst,
		LeadRatePerMinute: cfg.LeadRatePerMinute,
	}

	a.server = httpserver.New(cfg, loggerClient, d)
	return a, nil
}

func (a *App) openStore(ctx context.Context) (store.Store, error) {
	cfg := a.cfg
	if cfg.StoreBackend == config.BackendMemory {
		a.logger.Warn("using in-memory store, data is lost on restart")
		return memory.New(), nil
	}

	client, err := redisstore.Dial(ctx, redisstore.DialOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		DB:             cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, a.logger.Named("redis"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	a.closers = append(a.closers, namedCloser{"redis", client})
	return redisstore.NewStore(client, cfg.RedisTxRetries), nil
}

// openNotifier returns the configured lead notifier. Remote notifiers are
// wrapped in a circuit breaker whose state is reported by /infra.
func (a *App) openNotifier() (notify.Notifier, func() string, error) {
	cfg := a.cfg
	var remote notify.Notifier

	switch cfg.Notifier {
	case config.NotifierSMTP:
		remote = mail.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom, cfg.NotifyTo)
	case config.NotifierAMQP:
		pub, err := queue.Dial(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, namedCloser{"amqp", pub})
		remote = pub
	default:
		return notify.NewLogNotifier(a.logger), nil, nil
	}

	b := notify.NewBreaker(remote, notify.DefaultBreakerConfig(), a.logger)
	a.logger.Info("lead notifications enabled", logger.String("notifier", remote.Name()))
	return b, b.State, nil
}

// newSeeder builds the first-use blog seed from the YAML file when one is
// configured, otherwise from the built-in posts.
func newSeeder(path string, log logger.Logger) (blog.Seeder, error) {
	f := seed.Builtin
	if path != "" {
		loaded, err := seed.NewLoader(path).Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load blog seed: %w", err)
		}
		log.Info("blog seed file loaded",
			logger.String("file", path),
			logger.Int("posts", len(loaded.Posts)))
		f = loaded
	}

	mapper := seed.NewMapper(uuid.NewString)
	// Map once up front so a broken file fails startup, not the first page view.
	if _, err := mapper.MapPosts(f, time.Now()); err != nil {
		return nil, fmt.Errorf("invalid blog seed: %w", err)
	}
	return func(now time.Time) ([]domain.BlogPost, error) {
		return mapper.MapPosts(f, now)
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Silahub site %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Silahub site %s", version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Not bound to the signal context: Stop drains the queue after the server is down.
	a.dispatcher.Start(context.Background())
	a.reaper.Start(ctx)
	a.logger.Info("background workers started",
		logger.Duration("session_reap_interval", sessionReapInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	// Server first so no new lead can be queued after the drain.
	a.reaper.Stop()
	a.dispatcher.Stop()

	for i := len(a.closers) - 1; i >= 0; i-- {
		utils.CloseLogged(a.closers[i].name, a.closers[i].c, a.logger)
	}

	if runErr == nil {
		a.logger.Info("✅ Silahub site stopped cleanly")
	}
	_ = a.logger.Sync()
	return runErr
}
