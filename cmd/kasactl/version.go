package main

import (
	"github.com/spf13/cobra"

	"github.com/muurk/kasactl/internal/version"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			i := version.Get()
			a.out.Printf("kasactl %s (commit: %s, %s, %s)\n", i.Version, i.Commit, i.GoVersion, i.Platform)
		},
	}
}
