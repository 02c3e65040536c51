package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/adapter/catalogfile"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/metrics"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/adapter/view"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/money"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sr"
	"gopkg.in/natefinch/lumberjack.v2"
)

type App struct {
	ctx        context.Context
	cfg        config.Config
	catalog    domain.Catalog
	slots      port.CartSlots
	sinks      []port.CartEventSink
	service    port.Storefront
	httpServer httphandler.HTTPServer
	closers    []func()
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initCatalog()
	app.initStorage()
	app.initEvents()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	var w io.Writer = os.Stderr
	if app.cfg.LogFile != "" {
		rot := &lumberjack.Logger{
			Filename:   app.cfg.LogFile,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
		}
		w = io.MultiWriter(os.Stderr, rot)
		app.closers = append(app.closers, func() { _ = rot.Close() })
	}

	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(w, opts))
	slog.SetDefault(logger)
}

func (app *App) initCatalog() {
	const op = "App.initCatalog"

	catalog, err := catalogfile.Load(app.cfg.Catalog.File)
	if err != nil {
		app.fallDown(op, err)
	}
	app.catalog = catalog
}

func (app *App) initStorage() {
	const op = "App.initStorage"
	ctx := app.ctx
	cfg := app.cfg.Storage

	switch cfg.Driver {
	case storage.DriverMemory:
		app.slots = storage.NewMemorySlots()

	case storage.DriverRedis:
		client, err := storage.OpenRedis(
			ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
		)
		if err != nil {
			app.fallDown(op, err)
		}
		app.slots = storage.NewRedisSlots(client)
		app.closers = append(app.closers, func() { _ = client.Close() })

	case storage.DriverPostgres, storage.DriverSQLite:
		db, err := storage.NewSQLDB(ctx, cfg.Driver, cfg.SQLDSN)
		if err != nil {
			app.fallDown(op, err)
		}
		slots, err := storage.NewSQLSlots(db, db.Driver())
		if err != nil {
			app.fallDown(op, err)
		}
		app.slots = slots
		app.closers = append(app.closers, db.Close)

	default:
		app.fallDown(op, fmt.Errorf("%w: %q", storage.ErrUnknownDriver, cfg.Driver))
	}

	slog.Info("cart storage is ready", "op", op, "driver", cfg.Driver)
}

func (app *App) initEvents() {
	const op = "App.initEvents"
	app.sinks = append(app.sinks, metrics.CartSink{})

	cfg := app.cfg.Events
	if !cfg.Enabled {
		return
	}
	ctx := app.ctx

	srClient, err := sr.NewClient(sr.URLs(cfg.SchemaRegistryURLs...))
	if err != nil {
		app.fallDown(op, err)
	}

	serde, err := schema.NewSerdeCartEventV1(
		ctx,
		schema.SubjectOpt(cfg.Topic+"-value"),
		schema.SchemaIdentifierOpt(schema.NewRegistryIdentifier(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	var extra []kgo.Opt
	if cfg.TLS.Enabled() {
		tlsCfg := adapter.MakeTLSConfig(cfg.TLS.CA, cfg.TLS.Cert, cfg.TLS.Key)
		extra = append(extra, kgo.DialTLSConfig(tlsCfg))
	}

	producer, err := kafka.NewCartEventsProducer(
		kafka.ProducerClientOpt(ctx, cfg.SeedBrokers, cfg.Topic, extra...),
		kafka.ProducerEncoderOpt(serde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.sinks = append(app.sinks, producer)
	app.closers = append(app.closers, producer.Close)
	slog.Info("cart events are published", "op", op, "topic", cfg.Topic)
}

func (app *App) initCoreService() {
	app.service = service.New(
		app.catalog,
		app.slots,
		service.KeyPrefixOpt(app.cfg.Storage.KeyPrefix),
		service.SinksOpt(app.sinks...),
	)
}

func (app *App) initInboundAdapters() {
	const op = "App.initInboundAdapters"

	formatter, err := money.NewFormatter(app.cfg.Currency)
	if err != nil {
		app.fallDown(op, err)
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		app.fallDown(op, err)
	}

	router := httphandler.NewRouter(
		app.service,
		view.NewPages(formatter),
		renderer,
		httphandler.SessionConfig{
			CookieName: app.cfg.Session.CookieName,
			MaxAge:     app.cfg.Session.MaxAge,
			Secure:     app.cfg.Session.Secure,
		},
	)

	app.httpServer = httphandler.NewHTTPServer(
		app.cfg.HTTPServerAddr, router, app.cfg.RequestTimeout,
	)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	slog.Info("application is running", "addr", app.cfg.HTTPServerAddr)
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	for i := len(app.closers) - 1; i >= 0; i-- {
		app.closers[i]()
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
