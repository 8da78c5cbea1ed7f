package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aristath/taskblaster/internal/seed"
)

func newSeedCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load projects and tasks from a YAML fixture",
		Long: `Create the tags, projects and tasks described in a fixture file.

Projects that already exist are skipped together with their tasks, so
seeding the same file twice leaves the board unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fixture, err := seed.LoadFile(file)
			if err != nil {
				return err
			}
			plan, err := seed.Plan(fixture)
			if err != nil {
				return err
			}

			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			report, err := seed.Apply(cmd.Context(), a.newMover(store, nil), plan, a.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d tags, %d projects, %d tasks", report.Tags, report.Projects, report.Tasks)
			if n := len(report.SkippedProjects); n > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), " (%d existing projects skipped)", n)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "seed.yaml", "fixture file")
	return cmd
}
