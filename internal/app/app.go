// Package app wires the console together: configuration, logging, plugin
// stores, the generator, the display, touch input, the screen host and the
// built-in screens.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/dshills/gamemaker/internal/config"
	"github.com/dshills/gamemaker/internal/generate"
	"github.com/dshills/gamemaker/internal/input"
	"github.com/dshills/gamemaker/internal/logging"
	"github.com/dshills/gamemaker/internal/plugin"
	"github.com/dshills/gamemaker/internal/render"
	"github.com/dshills/gamemaker/internal/render/display"
	"github.com/dshills/gamemaker/internal/screen"
	"github.com/dshills/gamemaker/internal/storage"
	"github.com/dshills/gamemaker/internal/storage/sqlite"
	"github.com/dshills/gamemaker/internal/ui"
)

// DefaultLogFile is used when the terminal display owns the tty and no
// log file is configured. It lives in the storage directory.
const DefaultLogFile = "gamemaker.log"

// Options configures the application. Flag values override the
// configuration file and environment.
type Options struct {
	// ConfigPath is the TOML file to load. Empty means config.DefaultPath.
	ConfigPath string

	// LogLevel overrides logging.level when set.
	LogLevel string

	// Headless draws into memory instead of the terminal.
	Headless bool

	// Frames stops the loop after n frames. Zero runs until the context is
	// cancelled.
	Frames int

	// Screenshot writes the last headless frame as a PNG on exit.
	Screenshot string

	// Touches are replayed one per frame in headless mode.
	Touches []input.Sample

	// Touch is a raw panel reader such as the FT6x36 driver. It is
	// calibrated with touch.calibration and replaces the built-in input.
	Touch input.Reader

	// Clock paces the frame loop. Nil means the system clock.
	Clock screen.Clock

	// Environ replaces the process environment for configuration.
	Environ map[string]string

	// Stderr receives log output. Defaults to os.Stderr.
	Stderr io.Writer

	Version string
}

// Application owns every long-lived component of the console.
type Application struct {
	opts Options
	cfg  *config.Config

	logger   *logging.Logger
	logFile  *os.File
	settings *config.Settings

	games storage.Store
	apps  storage.Store

	memory   *display.Memory
	terminal *display.Terminal
	termUp   atomic.Bool
	latch    *input.Latch
	touch    input.Reader

	renderer *render.Renderer
	host     *screen.Host
	shell    *ui.Shell

	mu        sync.Mutex
	completer generate.Completer

	closers  []io.Closer
	running  atomic.Bool
	shutdown sync.Once
	closed   atomic.Bool
}

// New loads configuration and builds every component. Nothing is drawn
// until Run.
func New(opts Options) (*Application, error) {
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.DefaultPath
	}

	a := &Application{opts: opts}
	if err := a.bootstrap(); err != nil {
		a.Shutdown()
		return nil, err
	}
	return a, nil
}

// bootstrap initializes components in dependency order.
func (a *Application) bootstrap() error {
	cfg, err := config.LoadWithEnv(a.opts.ConfigPath, a.opts.Environ)
	if err != nil {
		return &OperationError{Op: "load config", Target: a.opts.ConfigPath, Err: err}
	}
	if a.opts.LogLevel != "" {
		cfg.Logging.Level = a.opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return &OperationError{Op: "validate config", Target: a.opts.ConfigPath, Err: err}
	}
	a.cfg = cfg

	if !a.opts.Headless {
		term, err := display.NewTerminal()
		if err != nil {
			return &OperationError{Op: "open terminal", Err: err}
		}
		a.terminal = term
	}

	if err := a.setupLogging(); err != nil {
		return err
	}
	a.logger.Info("starting version %s, config %s", a.opts.Version, a.opts.ConfigPath)

	if a.settings, err = config.LoadSettings(cfg.Generate.Settings); err != nil {
		a.logger.Warn("ignoring settings: %v", err)
		a.settings, _ = config.LoadSettings("")
	}

	if err := a.openStores(); err != nil {
		return err
	}

	gen, err := a.buildGenerator(context.Background())
	if err != nil {
		a.logger.Warn("generator unavailable, running offline: %v", err)
		gen = a.setGenerator(generate.NewStatic())
	}

	var disp render.Display
	if a.terminal != nil {
		disp = a.terminal
	} else {
		a.memory = display.NewMemory()
		disp = a.memory
	}
	a.renderer = render.New(cfg.Display.Width, cfg.Display.Height, disp)

	a.touch = a.buildInput()

	a.host = screen.NewHost(a.touch, screen.Options{
		FPS:        cfg.Display.FPS,
		Clock:      a.opts.Clock,
		Logger:     a.logger,
		StatsEvery: cfg.Plugin.StatsEvery,
	})

	a.shell = ui.New(ui.Options{
		Renderer:    a.renderer,
		Touch:       a.host.Touch(),
		Screens:     a.host,
		Clock:       a.opts.Clock,
		Games:       a.games,
		Apps:        a.apps,
		Generator:   gen,
		Settings:    a.settings,
		Reconfigure: a.Reconfigure,
		Debounce:    cfg.Debounce(),
		CallBudget:  cfg.CallBudget(),
		Splash:      cfg.Splash(),
		Version:     a.opts.Version,
		Logger:      a.logger,
	})
	return nil
}

func (a *Application) setupLogging() error {
	lc := logging.LoggerConfig{
		Level:  logging.ParseLogLevel(a.cfg.Logging.Level),
		Output: a.opts.Stderr,
		Prefix: "gamemaker",
	}

	path := a.cfg.Logging.File
	if path == "" && a.terminal != nil {
		path = filepath.Join(a.cfg.Storage.Dir, DefaultLogFile)
	}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return &OperationError{Op: "open log", Target: path, Err: err}
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return &OperationError{Op: "open log", Target: path, Err: err}
		}
		a.logFile = f
		if a.cfg.Logging.JSON {
			lc.JSONOutput = f
			if a.terminal != nil {
				lc.Output = io.Discard
			}
		} else {
			lc.Output = f
		}
	}

	a.logger = logging.NewLogger(lc)
	return nil
}

func (a *Application) openStores() error {
	sc := a.cfg.Storage
	switch sc.Driver {
	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(sc.SQLitePath), 0o755); err != nil {
			return &OperationError{Op: "open database", Target: sc.SQLitePath, Err: err}
		}
		db, err := sqlite.Open(sc.SQLitePath)
		if err != nil {
			return &OperationError{Op: "open database", Target: sc.SQLitePath, Err: err}
		}
		a.closers = append(a.closers, db)
		games, err := db.Collection(plugin.KindGame.Collection(), sc.Limit)
		if err != nil {
			return &OperationError{Op: "open collection", Target: plugin.KindGame.Collection(), Err: err}
		}
		apps, err := db.Collection(plugin.KindApp.Collection(), sc.Limit)
		if err != nil {
			return &OperationError{Op: "open collection", Target: plugin.KindApp.Collection(), Err: err}
		}
		a.games, a.apps = games, apps
		a.logger.Info("plugins stored in %s", sc.SQLitePath)

	default:
		open := func(kind plugin.Kind) (storage.Store, error) {
			dir := a.cfg.CollectionDir(kind.Collection())
			fs, err := storage.OpenFileStore(dir, storage.WithLimit(sc.Limit), storage.WithLogger(a.logger))
			if err != nil {
				return nil, &OperationError{Op: "open store", Target: dir, Err: err}
			}
			a.closers = append(a.closers, fs)
			return fs, nil
		}
		var err error
		if a.games, err = open(plugin.KindGame); err != nil {
			return err
		}
		if a.apps, err = open(plugin.KindApp); err != nil {
			return err
		}
		a.logger.Info("plugins stored under %s", sc.Dir)
	}
	return nil
}

// buildInput picks the touch source: a raw panel reader behind the
// calibration, the terminal mouse, or the scripted headless samples.
func (a *Application) buildInput() input.Reader {
	switch {
	case a.opts.Touch != nil:
		return input.NewCalibrated(a.opts.Touch, a.cfg.Touch.Calibration)
	case a.terminal != nil:
		a.latch = input.NewLatch()
		return a.latch
	case len(a.opts.Touches) > 0:
		return input.NewScript(a.opts.Touches...)
	default:
		return input.None
	}
}

// buildGenerator creates a generator from the configuration with the
// user settings applied on top.
func (a *Application) buildGenerator(ctx context.Context) (*generate.Generator, error) {
	gc := a.settings.Overlay(a.cfg.Generate)
	completer, err := generate.NewCompleter(ctx, generate.ProviderConfig{
		Provider: gc.Provider,
		Model:    gc.Model,
		APIKey:   gc.APIKey,
	})
	if err != nil {
		return nil, err
	}
	provider := gc.Provider
	if provider == "" {
		provider = "offline"
	}
	a.logger.Info("generator provider %s, api key %s", provider, config.MaskKey(gc.APIKey))
	return a.setGenerator(completer), nil
}

func (a *Application) setGenerator(c generate.Completer) *generate.Generator {
	a.mu.Lock()
	old := a.completer
	a.completer = c
	a.mu.Unlock()

	if closer, ok := old.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			a.logger.Warn("closing previous completer: %v", err)
		}
	}
	return generate.New(c, generate.Options{
		CodeTokens:    a.cfg.Generate.MaxTokens,
		SuggestTokens: a.cfg.Generate.SuggestTokens,
		Logger:        a.logger,
	})
}

// Reconfigure rebuilds the generator after the settings changed. The
// previous generator stays in place when the new one cannot be built.
func (a *Application) Reconfigure(ctx context.Context) error {
	if a.closed.Load() {
		return ErrShutDown
	}
	gen, err := a.buildGenerator(ctx)
	if err != nil {
		return fmt.Errorf("reconfigure generator: %w", err)
	}
	a.shell.SetGenerator(gen)
	return nil
}

// Config returns the effective configuration.
func (a *Application) Config() *config.Config { return a.cfg }

// Host returns the screen host.
func (a *Application) Host() *screen.Host { return a.host }

// Shell returns the built-in screens.
func (a *Application) Shell() *ui.Shell { return a.shell }

// Memory returns the headless display, or nil on the terminal.
func (a *Application) Memory() *display.Memory { return a.memory }

// Logger returns the application logger.
func (a *Application) Logger() *logging.Logger { return a.logger }

// Run opens the splash screen and drives frames until ctx is cancelled or
// the frame limit is reached. Cancellation is a normal exit.
func (a *Application) Run(ctx context.Context) (err error) {
	if a.closed.Load() {
		return ErrShutDown
	}
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = &RecoveredPanicError{Value: r, Stack: string(debug.Stack())}
			a.logger.Error("frame loop panicked: %v", r)
		}
	}()

	if a.terminal != nil {
		if err := a.terminal.Init(); err != nil {
			return &OperationError{Op: "init terminal", Err: err}
		}
		a.termUp.Store(true)
		var sink display.TouchSink
		if a.latch != nil {
			sink = a.latch
		}
		go a.terminal.Listen(sink, cancel)
	}

	if a.cfg.Storage.Watch {
		for _, s := range []storage.Store{a.games, a.apps} {
			if fs, ok := s.(*storage.FileStore); ok {
				if err := fs.Watch(ctx); err != nil {
					a.logger.Warn("watching %s failed: %v", fs.Dir(), err)
				}
			}
		}
	}

	a.host.Start(ctx, a.shell.Splash())
	if a.opts.Frames > 0 {
		err = a.host.RunFrames(ctx, a.opts.Frames)
	} else {
		err = a.host.Run(ctx)
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	if a.memory != nil && a.opts.Screenshot != "" {
		if serr := a.memory.SavePNG(a.opts.Screenshot); serr != nil {
			a.logger.Error("saving screenshot: %v", serr)
			err = errors.Join(err, &OperationError{Op: "save screenshot", Target: a.opts.Screenshot, Err: serr})
		} else {
			a.logger.Info("screenshot saved to %s", a.opts.Screenshot)
		}
	}
	return err
}

// Shutdown leaves the active screen and releases stores, the completer,
// the terminal and the log file. It is safe to call more than once.
func (a *Application) Shutdown() error {
	var errs []error
	a.shutdown.Do(func() {
		a.closed.Store(true)
		logger := logging.OrNull(a.logger)

		if a.host != nil && a.host.Active() != nil {
			a.host.Active().Exit()
		}
		for i := len(a.closers) - 1; i >= 0; i-- {
			if err := a.closers[i].Close(); err != nil {
				errs = append(errs, &OperationError{Op: "close store", Err: err})
			}
		}
		a.mu.Lock()
		if closer, ok := a.completer.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, &OperationError{Op: "close completer", Err: err})
			}
		}
		a.completer = nil
		a.mu.Unlock()

		if a.terminal != nil && a.termUp.Load() {
			a.terminal.Shutdown()
		}
		logger.Info("shut down")
		if a.logFile != nil {
			if err := a.logFile.Close(); err != nil {
				errs = append(errs, &OperationError{Op: "close log", Target: a.logFile.Name(), Err: err})
			}
		}
	})
	return errors.Join(errs...)
}
