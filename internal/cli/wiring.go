package cli

import (
	"github.com/meetcute/meetcute-setup/internal/bootstrap"
	"github.com/meetcute/meetcute-setup/internal/dbconn"
	"github.com/meetcute/meetcute-setup/internal/provision"
	"github.com/meetcute/meetcute-setup/internal/runner"
)

// yes is a Confirmer for --yes.
type yes struct{}

func (yes) Confirm(string) (bool, error) { return true, nil }

// orchestrator assembles the bootstrap pipeline for d. env is passed to the
// migration and seed processes on top of the inherited environment.
func (a *app) orchestrator(d dbconn.Descriptor, policy bootstrap.Policy, confirm bootstrap.Confirmer, env []string) *bootstrap.Orchestrator {
	var migrator runner.CommandRunner
	if a.cfg.MigrationsDir != "" {
		migrator = runner.NewGooseRunner(a.open, d.TargetDSN(), a.cfg.MigrationsDir)
	} else {
		migrator = runner.NewExecRunner(a.cfg.MigrateCommand, a.cfg.WorkDir, env...)
	}

	return bootstrap.New(bootstrap.Deps{
		Prober:      provision.NewProber(a.open, a.cfg.AdminDatabase, a.cfg.ConnectTimeout, a.logger),
		Provisioner: provision.NewProvisioner(a.logger),
		Open:        a.open,
		AdminDB:     a.cfg.AdminDatabase,
		Migrator:    migrator,
		Seeder:      runner.NewExecRunner(a.cfg.SeedCommand, a.cfg.WorkDir, env...),
		Confirmer:   confirm,
		Logger:      a.logger,
	}, policy)
}

// report prints the outcome of a bootstrap run and returns its error.
func (a *app) report(rep bootstrap.Report) error {
	if rep.SeedWarning != nil {
		warnColor.Fprintf(a.sess.Out(), "warning: %v\n", rep.SeedWarning)
	}
	if rep.Err != nil {
		return rep.Err
	}
	okColor.Fprintf(a.sess.Out(), "Database ready (%s)\n", rep.State)
	return nil
}
