package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meetcute/meetcute-setup/internal/envstore"
	"github.com/meetcute/meetcute-setup/internal/menu"
)

func newEnvCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Interactively edit the env file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vars, err := envstore.Load(a.cfg.EnvFile)
			if err != nil {
				return fmt.Errorf("load env file: %w", err)
			}
			_, err = menu.New(a.sess, vars, a.cfg.EnvFile, a.cfg.TemplateFile, a.logger).Run(cmd.Context())
			return err
		},
	}
}
