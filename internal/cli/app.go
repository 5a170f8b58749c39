package cli

import (
	"context"
	"net/http"
	"sync"
	"time"

	goption "google.golang.org/api/option"

	"calsheets/internal/amqp"
	"calsheets/internal/auth"
	"calsheets/internal/backend"
	"calsheets/internal/calendar"
	calgoogle "calsheets/internal/calendar/google"
	"calsheets/internal/config"
	"calsheets/internal/log"
	"calsheets/internal/services"
	"calsheets/internal/storage"
)

// App holds the configuration and the constructors the commands use. The
// constructors are fields so tests can swap the Google clients for
// in-memory ones.
type App struct {
	Config *config.Config
	Logger *log.Logger
	Now    func() time.Time

	Settings  func() (*config.Settings, error)
	Calendars func(ctx context.Context) (calendar.Lister, error)
	Backend   func(ctx context.Context, settings *config.Settings, dryRun bool) (*backend.BackendResult, error)
	// History returns nil when history is disabled.
	History func() (*storage.SQLiteRepository, error)
	// Notifier returns nil when notifications are disabled.
	Notifier func() (services.Notifier, func() error, error)

	mu     sync.Mutex
	client *http.Client
}

// NewApp wires the production constructors.
func NewApp(cfg *config.Config, logger *log.Logger) *App {
	app := &App{Config: cfg, Logger: logger, Now: time.Now}

	app.Settings = func() (*config.Settings, error) {
		return config.LoadSettings(app.Config.SettingsFile)
	}

	app.Calendars = func(ctx context.Context) (calendar.Lister, error) {
		client, err := app.httpClient(ctx)
		if err != nil {
			return nil, err
		}
		return calgoogle.New(ctx, logger.WithComponent(log.ComponentCalendar).Logger, goption.WithHTTPClient(client))
	}

	app.Backend = func(ctx context.Context, settings *config.Settings, dryRun bool) (*backend.BackendResult, error) {
		c := *app.Config
		if dryRun {
			c.DataBackend = backend.MemoryBackend.String()
		}
		var client *http.Client
		if backend.BackendType(c.DataBackend) == backend.SheetsBackend {
			var err error
			if client, err = app.httpClient(ctx); err != nil {
				return nil, err
			}
		}
		bcfg, err := backend.FromAppConfig(&c, settings, client)
		if err != nil {
			return nil, err
		}
		return backend.NewFactory(logger.WithComponent(log.ComponentSheets).Logger).CreateBackend(ctx, bcfg)
	}

	app.History = func() (*storage.SQLiteRepository, error) {
		return InitHistory(logger.WithComponent(log.ComponentHistory).Logger, app.Config.HistoryDBPath)
	}

	app.Notifier = func() (services.Notifier, func() error, error) {
		if app.Config.AMQPURL == "" {
			return nil, nil, nil
		}
		client, err := amqp.NewClient(app.Config.AMQPURL, app.Config.AMQPExchange, app.Config.AMQPQueue,
			logger.WithComponent(log.ComponentAMQP).Logger)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	}

	return app
}

// httpClient authorizes once per process and shares the client between the
// calendar and sheets adapters.
func (a *App) httpClient(ctx context.Context) (*http.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client != nil {
		return a.client, nil
	}

	provider := auth.NewProvider(auth.Options{
		ServiceAccountJSON: a.Config.GoogleServiceAccountJSON,
		ServiceAccountFile: a.Config.GoogleServiceAccountFile,
		TokenCacheFile:     a.Config.GoogleTokenCacheFile,
	}, a.Logger.WithComponent(log.ComponentAuth).Logger)

	creds, err := provider.Credentials(ctx)
	if err != nil {
		return nil, err
	}
	a.client = auth.NewHTTPClient(ctx, creds.TokenSource())
	return a.client, nil
}
