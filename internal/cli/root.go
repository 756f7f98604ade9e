// Package cli is the command-line surface of meetcute-setup. It wires the
// env-file editor, the validator and the two bootstrap entry points
// (one-shot init-db and the setup wizard) to a console session.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meetcute/meetcute-setup/internal/config"
	"github.com/meetcute/meetcute-setup/internal/dbconn"
	"github.com/meetcute/meetcute-setup/internal/dbx"
	"github.com/meetcute/meetcute-setup/internal/logging"
	"github.com/meetcute/meetcute-setup/internal/session"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	warnColor  = color.New(color.FgYellow)
	okColor    = color.New(color.FgGreen)
)

// app carries what every command needs. Fields are filled in by the root
// command's PersistentPreRunE.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger logging.Logger
	sess   *session.Session
	stderr io.Writer

	// seams for tests
	open      dbx.Opener
	lookupEnv dbconn.LookupFunc
	setenv    func(key, value string) error
}

func newApp(sess *session.Session, stderr io.Writer) *app {
	v := viper.New()
	config.SetDefaults(v)
	return &app{
		v:         v,
		sess:      sess,
		stderr:    stderr,
		open:      dbx.OpenPostgres,
		lookupEnv: os.LookupEnv,
		setenv:    os.Setenv,
	}
}

// NewRootCmd builds the command tree over sess. Log records go to stderr.
func NewRootCmd(sess *session.Session, stderr io.Writer) *cobra.Command {
	return newRootCmd(newApp(sess, stderr))
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "meetcute-setup",
		Short: "Manage the MeetCute backend environment and bootstrap its database",
		Long: `meetcute-setup edits the backend's .env file and prepares PostgreSQL for it:
it checks the server is reachable, creates the database when it is missing,
runs the schema migrations and optionally seeds sample data.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.LoadConfig(a.v)
			a.logger = logging.NewTextLogger(a.stderr, a.cfg.Verbose)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.String(config.KeyEnvFile, ".env", "env file to edit and load")
	pf.String(config.KeyTemplateFile, ".env.example", "template merged by the import action")
	pf.String(config.KeyAdminDatabase, "postgres", "administrative database used for probing and creation")
	pf.String(config.KeyMigrateCommand, "npx sequelize-cli db:migrate", "migration command")
	pf.String(config.KeySeedCommand, "npm run seed", "seed command")
	pf.String(config.KeyMigrationsDir, "", "run SQL migrations from this directory with goose instead of the migration command")
	pf.String(config.KeyWorkDir, "", "working directory for the migration and seed commands")
	pf.Duration(config.KeyConnectTimeout, 0, "timeout for each connection attempt (default 10s)")
	pf.BoolP(config.KeyVerbose, "v", false, "enable debug logging")
	if err := a.v.BindPFlags(pf); err != nil {
		panic(err)
	}

	root.AddCommand(newEnvCmd(a))
	root.AddCommand(newValidateCmd(a))
	root.AddCommand(newInitDBCmd(a))
	root.AddCommand(newSetupCmd(a))

	return root
}

// Execute runs the command tree against the console and returns the process
// exit code: 0 on success, 1 on any failure.
func Execute(ctx context.Context) int {
	return run(ctx, NewRootCmd(session.NewConsole(), os.Stderr), os.Args[1:], os.Stderr)
}

func run(ctx context.Context, root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		errorColor.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
