// Kasactl controls TP-Link Kasa smart plugs, power strips and bulbs on the
// local network.
//
// Devices are found by UDP broadcast and addressed by IP address, host name
// or alias. Commands travel over the vendor's encrypted TCP protocol on
// port 9999; no cloud account is involved.
//
// Usage:
//
//	kasactl [flags] [command]
//
// Running without a command shows the state of the selected device, or
// discovers every device when none is selected.
// See 'kasactl --help' for available commands.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/muurk/kasactl/internal/discovery"
	"github.com/muurk/kasactl/internal/logging"
	"github.com/muurk/kasactl/internal/ui"
)

func main() {
	a := newApp(os.Stdin, os.Stdout)
	cmd, err := newRootCmd(a).ExecuteC()
	logging.Sync()
	if err != nil {
		name := "kasactl"
		if cmd != nil {
			name = cmd.CommandPath()
		}
		reportError(name, err)
		os.Exit(1)
	}
}

// reportError prints resolution failures as a boxed message with
// troubleshooting tips and anything else as a plain line
func reportError(command string, err error) {
	var re *discovery.ResolveError
	if errors.As(err, &re) {
		ui.NewPrinter(os.Stderr).PrintError(command+" failed", err)
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
