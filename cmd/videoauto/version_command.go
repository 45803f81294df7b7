package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// buildVersion is stamped by the release build via -ldflags.
var buildVersion = "dev"

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the videoauto version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "videoauto %s\n", buildVersion)
		},
	}
}
