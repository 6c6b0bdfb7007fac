package main

import (
	"github.com/spf13/cobra"

	"github.com/muurk/kasactl/internal/config"
	"github.com/muurk/kasactl/internal/version"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "kasactl",
		Short: "Control TP-Link Kasa smart plugs, strips and bulbs",
		Long: `A command line tool for TP-Link Kasa smart home devices.

Select a device with --host (IP address or host name) or --alias (the name
shown in the Kasa app). Without either, commands act on the only device on
the network and fail if several answer.

The device type is detected with a short probe unless --plug, --bulb or
--strip is given.

Settings can also come from $XDG_CONFIG_HOME/kasactl/config.yaml and from
KASACTL_* environment variables (PYHS100_HOST, PYHS100_IP and PYHS100_NAME
are honored too).`,
		Example: `  # List every device on the network
  kasactl discover

  # Show the state of the device named "Kitchen"
  kasactl --alias Kitchen

  # Turn on the second outlet of a power strip
  kasactl --host 192.168.1.12 --strip on 2

  # Dim a bulb
  kasactl --host 192.168.1.20 brightness 40`,
		Version:       version.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.hasSelection() {
				a.out.Println("No host name given, trying discovery..")
				return a.runDiscover(discoverOptions{})
			}
			h, err := a.device()
			if err != nil {
				return err
			}
			return a.printState(h)
		},
	}

	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.String("host", "", "Host name or IP address of the device")
	flags.StringVar(&a.ip, "ip", "", "IP address of the device")
	flags.String("alias", "", "Device name (alias) to look up by discovery")
	flags.String("target", config.DefaultTarget, "Broadcast address used for discovery")
	flags.Duration("timeout", config.DefaultTimeout, "Discovery listen window")
	flags.Duration("alias-timeout", config.DefaultAliasTimeout, "Listen window of each alias lookup attempt")
	flags.Duration("detect-timeout", config.DefaultDetectTimeout, "Listen window of the device type probe")
	flags.Int("attempts", config.DefaultAttempts, "Alias lookup attempts")
	flags.Int("port", config.DefaultPort, "Device port for discovery and commands")
	flags.String("config", "", "Config file (default $XDG_CONFIG_HOME/kasactl/config.yaml)")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&a.bulb, "bulb", false, "Treat the device as a bulb")
	flags.BoolVar(&a.plug, "plug", false, "Treat the device as a plug")
	flags.BoolVar(&a.strip, "strip", false, "Treat the device as a power strip")

	_ = flags.MarkDeprecated("ip", "use --host instead")
	root.MarkFlagsMutuallyExclusive("bulb", "plug", "strip")
	root.MarkFlagsMutuallyExclusive("host", "alias")
	root.MarkFlagsMutuallyExclusive("ip", "alias")

	for key, flag := range map[string]string{
		config.KeyHost:          "host",
		config.KeyAlias:         "alias",
		config.KeyTarget:        "target",
		config.KeyTimeout:       "timeout",
		config.KeyAliasTimeout:  "alias-timeout",
		config.KeyDetectTimeout: "detect-timeout",
		config.KeyAttempts:      "attempts",
		config.KeyPort:          "port",
		config.KeyConfigFile:    "config",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		newDiscoverCmd(a),
		newDumpDiscoverCmd(a),
		newStateCmd(a),
		newSysinfoCmd(a),
		newAliasCmd(a),
		newRawCommandCmd(a),
		newEmeterCmd(a),
		newBrightnessCmd(a),
		newTemperatureCmd(a),
		newHSVCmd(a),
		newLEDCmd(a),
		newTimeCmd(a),
		newPowerCmd(a, true),
		newPowerCmd(a, false),
		newRebootCmd(a),
		newDecodeCmd(a),
		newVersionCmd(a),
	)

	return root
}
