package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"github.com/warpdl/warphud/internal/api"
	"github.com/warpdl/warphud/internal/coalesce"
	"github.com/warpdl/warphud/internal/config"
	"github.com/warpdl/warphud/internal/looper"
	"github.com/warpdl/warphud/internal/overlay"
	"github.com/warpdl/warphud/internal/registry"
	"github.com/warpdl/warphud/internal/server"
	"github.com/warpdl/warphud/pkg/logger"
	"golang.org/x/term"
)

const webShutdownTimeout = 2 * time.Second

type rendererOptions struct {
	ConfigDir string
	Fs        afero.Fs
	// Surface overrides the config file when set.
	Surface string
	Out     *os.File
	Port    int
	// RPC enables the JSON-RPC endpoint when non-nil.
	RPC   *server.RPCConfig
	Watch bool
}

// RendererComponents is everything a running renderer owns.
type RendererComponents struct {
	Config    *config.Config
	Loop      *looper.Looper
	Registry  *registry.Registry
	Presenter *overlay.Presenter
	Coalescer *coalesce.Coalescer
	Api       *api.Api
	Server    *server.Server
	Notifier  *server.RPCNotifier
	Web       *server.WebServer
	Watcher   *config.Watcher

	log        logger.Logger
	stopLooper context.CancelFunc
}

// initRendererComponents wires the renderer together. Nothing is listening
// until Run.
var initRendererComponents = func(opts rendererOptions, log logger.Logger) (*RendererComponents, error) {
	cfg, err := config.Load(opts.Fs, opts.ConfigDir)
	if err != nil {
		return nil, err
	}
	kind := cfg.Surface
	if opts.Surface != "" {
		kind = opts.Surface
	}
	newSurface, perm, err := surfaceFactory(kind, opts.Out, cfg.RequireTTY, log)
	if err != nil {
		return nil, err
	}

	loopCtx, stop := context.WithCancel(context.Background())
	c := &RendererComponents{
		Config:     cfg,
		Loop:       looper.New(loopCtx, log),
		log:        log,
		stopLooper: stop,
	}
	c.Registry = registry.New(c.Loop, log)
	c.Presenter = overlay.NewPresenter(c.Registry, newSurface, perm, log)
	c.Presenter.Restyle(cfg.OverlayStyle())
	c.Coalescer = coalesce.New(c.Loop, c.Presenter.Render)
	c.Registry.OnChange(c.Coalescer.Trigger)

	c.Server = server.NewServer(log, opts.Port)
	c.Api = api.NewApi(log, c.Registry)
	c.Api.RegisterHandlers(c.Server)

	if opts.RPC != nil {
		c.Notifier = server.NewRPCNotifier(log)
		c.Presenter.OnRender(c.Notifier.FrameRendered)
		rpc := server.NewRPCServer(opts.RPC, c.Registry, c.Notifier, log)
		c.Web = server.NewWebServer(log, rpc, opts.RPC)
	}

	if opts.Watch {
		c.Watcher, err = config.NewWatcher(opts.Fs, opts.ConfigDir, log, c.reload)
		if err != nil {
			// Live reload is optional; the renderer works without it.
			log.Warning("renderer: config reload disabled: %v", err)
		}
	}
	return c, nil
}

// reload applies a new config file. Surface and require_tty only take
// effect on restart.
func (c *RendererComponents) reload(cfg *config.Config) {
	c.Loop.Post(func() {
		c.Config = cfg
		c.Presenter.Restyle(cfg.OverlayStyle())
	})
	c.Coalescer.Trigger()
}

// Run serves clients until ctx is canceled.
func (c *RendererComponents) Run(ctx context.Context) error {
	if c.Web != nil {
		go func() {
			if err := c.Web.Start(); err != nil {
				c.log.Error("renderer: rpc server: %v", err)
			}
		}()
	}
	// First pass brings the surface up before any client arrives.
	c.Coalescer.Trigger()
	return c.Server.Start(ctx)
}

// Close stops every component, collecting their errors.
func (c *RendererComponents) Close() error {
	c.log.Info("Shutting down renderer...")
	var result *multierror.Error
	if c.Watcher != nil {
		if err := c.Watcher.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("config watcher: %w", err))
		}
	}
	if c.Web != nil {
		ctx, cancel := context.WithTimeout(context.Background(), webShutdownTimeout)
		if err := c.Web.Shutdown(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("rpc server: %w", err))
		}
		cancel()
	}
	if err := c.Server.Shutdown(); err != nil {
		result = multierror.Append(result, fmt.Errorf("server: %w", err))
	}

	var perr error
	err := c.Loop.Call(context.Background(), func() { perr = c.Presenter.Close() })
	if errors.Is(err, looper.ErrStopped) {
		perr = c.Presenter.Close()
	}
	if perr != nil {
		result = multierror.Append(result, fmt.Errorf("surface: %w", perr))
	}
	c.stopLooper()
	<-c.Loop.Done()

	c.log.Info("Renderer stopped")
	return result.ErrorOrNil()
}

// surfaceFactory picks the surface kind. auto means the terminal when out
// is one and the log otherwise.
func surfaceFactory(kind string, out *os.File, requireTTY bool, log logger.Logger) (func() (overlay.Surface, error), overlay.Permission, error) {
	if kind == config.SurfaceAuto {
		kind = config.SurfaceLog
		if out != nil && term.IsTerminal(int(out.Fd())) {
			kind = config.SurfaceTerminal
		}
	}
	switch kind {
	case config.SurfaceTerminal:
		if out == nil {
			out = os.Stdout
		}
		perm := overlay.Permission(overlay.Always)
		if requireTTY {
			perm = overlay.TerminalPermission(out)
		}
		return func() (overlay.Surface, error) { return overlay.NewTerminalSurface(out), nil }, perm, nil
	case config.SurfaceLog:
		return func() (overlay.Surface, error) { return overlay.NewLogSurface(log), nil }, overlay.Always, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", errInvalidSurface, kind)
}
