package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/muurk/kasactl/internal/config"
	"github.com/muurk/kasactl/internal/device"
	"github.com/muurk/kasactl/internal/discovery"
	"github.com/muurk/kasactl/internal/logging"
	"github.com/muurk/kasactl/internal/resolve"
	"github.com/muurk/kasactl/internal/transport"
	"github.com/muurk/kasactl/internal/ui"
)

// app is the state shared by every command of one invocation
type app struct {
	v   *viper.Viper
	cfg *config.Config

	in      io.Reader
	out     *ui.Printer
	spinner *ui.Spinner

	// newResolver builds the resolver once the configuration is known
	newResolver func(cfg *config.Config) *resolve.Resolver
	resolver    *resolve.Resolver

	// flags not backed by a config key
	ip    string
	debug bool
	bulb  bool
	plug  bool
	strip bool
}

func newApp(in io.Reader, out io.Writer) *app {
	return &app{
		v:           viper.New(),
		in:          in,
		out:         ui.NewPrinter(out),
		spinner:     ui.NewSpinner(out),
		newResolver: networkResolver,
	}
}

// networkResolver probes over UDP and talks to devices over TCP, both on
// the configured port
func networkResolver(cfg *config.Config) *resolve.Resolver {
	probe := transport.NewUDPProbe()
	probe.Port = cfg.Port

	r := resolve.New(probe, device.TCPDialer(cfg.Port))
	r.Factory.DetectTimeout = cfg.DetectTimeout
	return r
}

// setup loads the configuration and builds the resolver. It runs before
// every command.
func (a *app) setup(cmd *cobra.Command) error {
	if a.ip != "" && !cmd.Flags().Changed("host") {
		a.v.Set(config.KeyHost, a.ip)
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if a.debug {
		level = "debug"
	}
	if err := logging.Initialize(level); err != nil {
		return err
	}

	if cfg.File != "" {
		logging.Debug("Loaded config file", zap.String("path", cfg.File))
	}

	a.cfg = cfg
	a.resolver = a.newResolver(cfg)
	return nil
}

// kind returns the kind selected by --bulb, --plug or --strip
func (a *app) kind() discovery.Kind {
	switch {
	case a.bulb:
		return discovery.KindBulb
	case a.plug:
		return discovery.KindPlug
	case a.strip:
		return discovery.KindStrip
	default:
		return discovery.KindUnknown
	}
}

// hasSelection reports whether a host or an alias was given
func (a *app) hasSelection() bool {
	return a.cfg.Host != "" || a.cfg.Alias != ""
}

// request builds the resolution request from the configuration. Alias
// lookups use the shorter per-attempt window.
func (a *app) request() resolve.Request {
	req := resolve.Request{
		Host:     a.cfg.Host,
		Alias:    a.cfg.Alias,
		Kind:     a.kind(),
		Target:   a.cfg.Target,
		Timeout:  a.cfg.Timeout,
		Attempts: a.cfg.Attempts,
	}
	if req.Alias != "" {
		req.Timeout = a.cfg.AliasTimeout
	}
	return req
}

// device resolves the selected device
func (a *app) device() (*device.Handle, error) {
	req := a.request()

	label := fmt.Sprintf("Connecting to %s...", req.Host)
	switch {
	case req.Alias != "":
		label = fmt.Sprintf("Trying to discover %s using %d attempts of %s...", req.Alias, req.Attempts, req.Timeout)
	case req.Host == "":
		label = fmt.Sprintf("Discovering the device on %s...", req.Target)
	case !req.Kind.Known():
		label = fmt.Sprintf("Detecting the type of %s...", req.Host)
	}

	var h *device.Handle
	err := a.spinner.Run(label, func(report func(string)) error {
		if req.Alias != "" {
			progress := ui.NewAttemptProgress(req.Alias, req.Attempts)
			a.resolver.Aliases.OnAttempt = func(at discovery.Attempt) {
				progress.Observe(at)
				report(progress.Render())
			}
			defer func() { a.resolver.Aliases.OnAttempt = nil }()
		}

		var err error
		h, err = a.resolver.Resolve(req)
		return err
	})
	if err != nil {
		return nil, err
	}

	logging.Debug("Resolved device", zap.Stringer("device", h))
	return h, nil
}

// withDevice adapts a device command to cobra
func (a *app) withDevice(run func(h *device.Handle, args []string) error) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		h, err := a.device()
		if err != nil {
			return err
		}
		return run(h, args)
	}
}
