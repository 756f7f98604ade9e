package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meetcute/meetcute-setup/internal/common"
	"github.com/meetcute/meetcute-setup/internal/config"
	"github.com/meetcute/meetcute-setup/internal/envstore"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that every required variable is set in the env file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vars, err := envstore.Load(a.cfg.EnvFile)
			if err != nil {
				return fmt.Errorf("load env file: %w", err)
			}
			res := config.Validate(vars, config.RequiredKeys)
			if !res.Valid {
				return fmt.Errorf("%w in %s: %s", common.ErrMissingConfig, a.cfg.EnvFile, strings.Join(res.Missing, ", "))
			}
			a.sess.Printf("%s: all %d required variables are set\n", a.cfg.EnvFile, len(config.RequiredKeys))
			return nil
		},
	}
}
