package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/muurk/kasactl/internal/discovery"
	"github.com/muurk/kasactl/internal/logging"
	"github.com/muurk/kasactl/internal/ui"
)

type discoverOptions struct {
	discoverOnly bool
	dumpRaw      bool
}

func newDiscoverCmd(a *app) *cobra.Command {
	var opts discoverOptions

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Discover devices in the network",
		Long: `Broadcast a discovery probe and show every device that answers.

Each device's state is printed in turn. Use --discover-only for a compact
table, or --dump-raw to print the replies exactly as the devices sent them.`,
		Example: `  # Listen for 5 seconds on the default broadcast address
  kasactl discover --timeout 5s

  # Only list the devices on one subnet
  kasactl discover --target 192.168.1.255 --discover-only`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runDiscover(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.discoverOnly, "discover-only", false, "List the devices without querying their state")
	cmd.Flags().BoolVar(&opts.dumpRaw, "dump-raw", false, "Print the raw discovery replies")
	return cmd
}

// discoverRound runs one discovery round under the spinner
func (a *app) discoverRound(raw bool) (discovery.Result, error) {
	target, timeout := a.cfg.Target, a.cfg.Timeout

	var result discovery.Result
	err := a.spinner.Run(fmt.Sprintf("Discovering devices on %s for %s...", target, timeout), func(report func(string)) error {
		a.resolver.Discoverer.OnRound = func(info discovery.RoundInfo) {
			report(fmt.Sprintf("  round %s: %d replies, %d devices", info.ID, info.Replies, info.Devices))
		}
		defer func() { a.resolver.Discoverer.OnRound = nil }()

		var err error
		result, err = a.resolver.Discover(target, timeout, raw)
		return err
	})
	return result, err
}

func (a *app) runDiscover(opts discoverOptions) error {
	a.out.Printf("Discovering devices for %s\n", a.cfg.Timeout)

	result, err := a.discoverRound(opts.dumpRaw)
	if err != nil {
		return err
	}

	if len(result) == 0 {
		a.out.PrintWarning("No devices answered",
			ui.Field{Key: "Target", Value: a.cfg.Target},
			ui.Field{Key: "Timeout", Value: a.cfg.Timeout.String()},
		)
		return nil
	}

	devices := result.Sorted()

	switch {
	case opts.dumpRaw:
		for _, d := range devices {
			if err := a.printJSON(d.Raw); err != nil {
				return err
			}
		}
		return nil

	case opts.discoverOnly:
		a.out.Println(ui.RenderDevices(devices))
		return nil
	}

	for _, d := range devices {
		h, err := a.resolver.Factory.FromDescriptor(d)
		if err != nil {
			logging.Warn("Skipping device", zap.Stringer("addr", d.Addr), zap.Error(err))
			a.out.PrintWarning("Unsupported device",
				ui.Field{Key: "Address", Value: d.Addr.String()},
				ui.Field{Key: "Model", Value: d.Model},
			)
			continue
		}
		if err := a.printState(h); err != nil {
			return err
		}
		a.out.Newline()
	}
	return nil
}

func newDumpDiscoverCmd(a *app) *cobra.Command {
	var (
		save   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "dump-discover",
		Short: "Dump discovery information",
		Long: `Save the raw discovery reply of every device to a file named
<model>_<hw_ver>.json (or .yaml) in the --save directory.

The dumps are useful as fixtures when adding support for new models.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if format != "json" && format != "yaml" {
				return discovery.NewInvalidArgument("format must be json or yaml, got %q", format)
			}

			result, err := a.discoverRound(true)
			if err != nil {
				return err
			}

			for _, d := range result.Sorted() {
				path := filepath.Join(save, dumpFileName(d, format))
				a.out.Printf("Saving info to %s\n", path)

				data, err := marshalDump(d.Raw, format)
				if err != nil {
					return err
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", path, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&save, "save", ".", "Directory to write the dumps to")
	cmd.Flags().StringVar(&format, "format", "json", "Dump format (json, yaml)")
	return cmd
}

// dumpFileName names a dump after the model and hardware version, falling
// back to the address for replies without them
func dumpFileName(d discovery.Descriptor, format string) string {
	name := d.Addr.String()
	if d.Model != "" {
		name = d.Model + "_" + d.HWVersion
	}
	name = strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(name)
	return name + "." + format
}

// marshalDump encodes a raw reply with sorted keys
func marshalDump(raw map[string]any, format string) ([]byte, error) {
	if format == "yaml" {
		data, err := yaml.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		return data, nil
	}
	data, err := json.MarshalIndent(raw, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode json: %w", err)
	}
	return append(data, '\n'), nil
}
