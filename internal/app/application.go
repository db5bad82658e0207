package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/MultiChat/internal/config"
	"github.com/Rorical/MultiChat/internal/core"
	"github.com/Rorical/MultiChat/internal/credentials"
	"github.com/Rorical/MultiChat/internal/dispatcher"
	"github.com/Rorical/MultiChat/internal/eventbus"
	"github.com/Rorical/MultiChat/internal/logging"
	"github.com/Rorical/MultiChat/internal/models"
	"github.com/Rorical/MultiChat/internal/provider"
	"github.com/Rorical/MultiChat/ui/components"
)

// Options are the command line overrides for a session.
type Options struct {
	ModelID   string // empty selects the configured default
	Ephemeral bool   // keep credentials in memory only
}

// Runtime is the non-UI part of a session: config, logging, credential
// store and the chat service. The TUI and one-shot commands both use it.
type Runtime struct {
	Config  *config.Config
	Logger  *slog.Logger
	Store   *credentials.Store
	Service *core.ChatService

	logCloser io.Closer
}

// NewRuntime loads configuration and builds the chat service. A nil bus
// gives a service that only reports through return values.
func NewRuntime(opts Options, eb *eventbus.EventBus) (*Runtime, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve log path: %w", err)
	}
	logger, logCloser, err := logging.Setup(cfg.Log, logPath)
	if err != nil {
		return nil, err
	}

	store, err := OpenCredentials(cfg, opts.Ephemeral)
	if err != nil {
		logCloser.Close()
		return nil, err
	}

	modelID := opts.ModelID
	if modelID == "" {
		modelID = cfg.DefaultModel
	}

	catalog := cfg.Catalog()
	service, err := core.NewChatService(core.Options{
		Adapter:       NewRouter(cfg, catalog),
		Credentials:   store,
		EventBus:      eb,
		Logger:        logger,
		Catalog:       catalog,
		SelectedModel: modelID,
	})
	if err != nil {
		store.Close()
		logCloser.Close()
		return nil, fmt.Errorf("failed to initialize chat service: %w", err)
	}

	return &Runtime{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Service:   service,
		logCloser: logCloser,
	}, nil
}

// OpenCredentials opens the configured credential backend, or an in-memory
// one when ephemeral is set.
func OpenCredentials(cfg *config.Config, ephemeral bool) (*credentials.Store, error) {
	if ephemeral {
		return credentials.Open("memory", "")
	}
	path, err := cfg.CredentialsPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve credentials path: %w", err)
	}
	store, err := credentials.Open(cfg.Credentials.Backend, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open credentials: %w", err)
	}
	return store, nil
}

// NewRouter wires one adapter per provider using the configured endpoints.
func NewRouter(cfg *config.Config, catalog []models.Model) *provider.Router {
	return provider.NewRouter(catalog, map[models.Provider]provider.Adapter{
		models.ProviderAnthropic: provider.NewAnthropicAdapter(cfg.Providers.Anthropic.BaseURL, nil),
		models.ProviderOpenAI:    provider.NewOpenAIAdapter(cfg.Providers.OpenAI.BaseURL, nil),
	})
}

func (r *Runtime) Close() error {
	r.Service.Stop()
	return errors.Join(r.Store.Close(), r.logCloser.Close())
}

// Application manages the complete application lifecycle
type Application struct {
	runtime    *Runtime
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	model      *AppModel
	ctx        context.Context
	cancel     context.CancelFunc
}

type AppModel struct {
	appModel   models.AppModel
	dispatcher *dispatcher.EventDispatcher
	markdown   *components.MarkdownRenderer
}

func NewApplication(opts Options) (*Application, error) {
	// Create event bus
	eb := eventbus.NewEventBus()

	runtime, err := NewRuntime(opts, eb)
	if err != nil {
		eb.Close()
		return nil, err
	}

	// Create dispatcher
	disp := dispatcher.NewEventDispatcher(eb, runtime.Logger)

	// Create app model; messages arrive from core as the single source of truth
	appModel := models.NewAppModel()
	appModel.State = runtime.Service.State()

	ctx, cancel := context.WithCancel(context.Background())

	return &Application{
		runtime:    runtime,
		eventBus:   eb,
		dispatcher: disp,
		model: &AppModel{
			appModel:   appModel,
			dispatcher: disp,
			markdown:   components.NewMarkdownRenderer("dark"),
		},
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

func (app *Application) Start() error {
	// Start background services
	app.dispatcher.Start()
	app.runtime.Service.Start()
	app.watchCredentials()

	// Run UI
	p := tea.NewProgram(app.model, tea.WithAltScreen())
	_, err := p.Run()

	return err
}

// watchCredentials reloads keys saved from another process, such as
// "multichat key set" in a second terminal.
func (app *Application) watchCredentials() {
	fileBackend, ok := app.runtime.Store.Backend().(*credentials.FileBackend)
	if !ok {
		return
	}
	logger := app.runtime.Logger
	err := fileBackend.Watch(app.ctx, func() {
		if err := app.runtime.Service.ReloadCredentials(); err != nil {
			logger.Warn("failed to reload credentials", "error", err)
		}
	})
	if err != nil {
		logger.Warn("credential file watch disabled", "path", fileBackend.Path(), "error", err)
	}
}

func (app *Application) Stop() {
	app.cancel()
	app.dispatcher.Stop()
	if err := app.runtime.Close(); err != nil {
		slog.Warn("shutdown error", "error", err)
	}
	app.eventBus.Close()
}
