package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meetcute/meetcute-setup/internal/bootstrap"
	"github.com/meetcute/meetcute-setup/internal/dbconn"
)

func newInitDBCmd(a *app) *cobra.Command {
	var skipSeed, assumeYes bool

	cmd := &cobra.Command{
		Use:   "init-db",
		Short: "Create the database if needed, run migrations and optionally seed",
		Long: `init-db loads the env file into the process environment (variables already
set win), resolves the connection from DATABASE_URL or the DB_* variables and
runs the bootstrap. A database configured through DATABASE_URL must already
exist; with the DB_* variables a missing database is created.

Seeding is offered interactively and a failed seed fails the command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.loadProcessEnv(ctx, a.cfg.EnvFile); err != nil {
				return err
			}

			d, err := dbconn.Resolve(a.lookupEnv)
			if err != nil {
				return fmt.Errorf("resolve connection: %w", err)
			}

			policy := bootstrap.InitPolicy()
			if skipSeed {
				policy = policy.WithoutSeed()
			}
			var confirm bootstrap.Confirmer = a.sess
			if assumeYes {
				confirm = yes{}
			}

			rep := a.orchestrator(d, policy, confirm, nil).Run(ctx, d)
			return a.report(rep)
		},
	}

	cmd.Flags().BoolVar(&skipSeed, "skip-seed", false, "do not offer to seed")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "seed without asking")
	return cmd
}
