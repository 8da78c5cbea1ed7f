package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aristath/taskblaster/internal/config"
)

func newInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default project config",
		Long: `Write the built-in configuration to .taskblaster/config.json (or the
--config path) so it can be edited. Environment overrides are not saved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", a.configPath)
			}
			if err := config.Save(config.DefaultConfig(), a.configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", a.configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	return cmd
}
