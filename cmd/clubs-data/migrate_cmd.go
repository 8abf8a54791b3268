package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iota-uz/clubs/modules/clubs/infrastructure/persistence"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply or inspect the clubs schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer env.Close()

			m, err := persistence.NewMigrator(env.pool, env.conf.MigrationsTable)
			if err != nil {
				return withCode(exitDB, err)
			}
			defer m.Close()

			switch args[0] {
			case "up":
				err = m.Up(ctx)
			case "down":
				err = m.Down(ctx)
			default:
				err = m.Status(ctx, cmd.OutOrStdout())
			}
			if err != nil {
				return withCode(exitDB, fmt.Errorf("migrate %s: %w", args[0], err))
			}
			return nil
		},
	}
	return cmd
}
