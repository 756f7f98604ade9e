package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meetcute/meetcute-setup/internal/bootstrap"
	"github.com/meetcute/meetcute-setup/internal/common"
	"github.com/meetcute/meetcute-setup/internal/config"
	"github.com/meetcute/meetcute-setup/internal/dbconn"
	"github.com/meetcute/meetcute-setup/internal/envstore"
	"github.com/meetcute/meetcute-setup/internal/menu"
)

func newSetupCmd(a *app) *cobra.Command {
	var interactive, skipSeed bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "First-run wizard: write the env file and bootstrap the database",
		Long: `setup fills every missing required variable with its default (a fresh
random JWT_SECRET included), optionally opens the editor, validates and saves
the env file, then bootstraps the database.

Seeding runs without asking and a failed seed is reported as a warning only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			vars, err := envstore.Load(a.cfg.EnvFile)
			if err != nil {
				return fmt.Errorf("load env file: %w", err)
			}

			if filled := config.ApplyDefaults(vars); len(filled) > 0 {
				a.sess.Printf("Using defaults for: %s\n", strings.Join(filled, ", "))
			}

			if interactive {
				out, err := menu.New(a.sess, vars, a.cfg.EnvFile, a.cfg.TemplateFile, a.logger).Run(ctx)
				if err != nil {
					return err
				}
				if !out.Saved {
					a.sess.Println("Setup cancelled; nothing was written.")
					return nil
				}
			}

			res := config.Validate(vars, config.RequiredKeys)
			if !res.Valid {
				return fmt.Errorf("%w: %s", common.ErrMissingConfig, strings.Join(res.Missing, ", "))
			}

			if !interactive {
				if err := envstore.Save(a.cfg.EnvFile, vars); err != nil {
					return fmt.Errorf("save env file: %w", err)
				}
				a.sess.Printf("Wrote %s\n", a.cfg.EnvFile)
			}

			d, err := dbconn.Resolve(dbconn.Chain(vars.Lookup, a.lookupEnv))
			if err != nil {
				return fmt.Errorf("resolve connection: %w", err)
			}

			policy := bootstrap.WizardPolicy()
			if skipSeed {
				policy = policy.WithoutSeed()
			}

			rep := a.orchestrator(d, policy, nil, environ(vars)).Run(ctx, d)
			return a.report(rep)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "review the variables in the editor before saving")
	cmd.Flags().BoolVar(&skipSeed, "skip-seed", false, "do not seed")
	return cmd
}

// environ renders vars as KEY=VALUE pairs for a child process.
func environ(vars *envstore.Map) []string {
	out := make([]string, 0, vars.Len())
	for _, k := range vars.Keys() {
		v, _ := vars.Get(k)
		out = append(out, k+"="+v)
	}
	return out
}
