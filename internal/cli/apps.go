package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"coop/coopos/apps"
	"coop/internal/config"
)

func newAppsCmd() *cobra.Command {
	var showManifest bool

	cmd := &cobra.Command{
		Use:   "apps",
		Short: "List the built-in user programs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if showManifest {
				data, err := config.DefaultManifest().Marshal()
				if err != nil {
					return fmt.Errorf("encode manifest: %w", err)
				}
				_, err = out.Write(data)
				return err
			}

			fmt.Fprintf(out, "%-10s  %s\n", "PROGRAM", "DESCRIPTION")
			fmt.Fprintf(out, "%-10s  %s\n", "-------", "-----------")
			for _, name := range apps.Names() {
				fmt.Fprintf(out, "%-10s  %s\n", name, apps.Describe(name))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showManifest, "manifest", false, "Print the default boot manifest as YAML")
	return cmd
}
