// Package bootstrap drives the database bootstrap sequence
//
//	start → probe → (ensure-database) → migrate → (seed) → done | failed
//
// strictly one stage at a time. Each stage opens the handles it needs late
// and releases them before the next stage starts, on every path. Re-running
// a finished bootstrap is safe: probing and provisioning are idempotent and
// migration/seed idempotency is up to the external tools.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/meetcute/meetcute-setup/internal/common"
	"github.com/meetcute/meetcute-setup/internal/dbconn"
	"github.com/meetcute/meetcute-setup/internal/dbx"
	"github.com/meetcute/meetcute-setup/internal/logging"
	"github.com/meetcute/meetcute-setup/internal/provision"
	"github.com/meetcute/meetcute-setup/internal/runner"
	"github.com/meetcute/meetcute-setup/internal/secrets"
)

// outputTailLines bounds how much process output goes into an error message.
const outputTailLines = 20

// Prober classifies server and database reachability.
type Prober interface {
	Probe(ctx context.Context, d dbconn.Descriptor) provision.ProbeResult
}

// Provisioner creates the target database when absent.
type Provisioner interface {
	Ensure(ctx context.Context, db dbx.DBTX, name string) (provision.Status, error)
}

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Prober      Prober
	Provisioner Provisioner
	Open        dbx.Opener
	AdminDB     string
	Migrator    runner.CommandRunner
	Seeder      runner.CommandRunner
	// Confirmer is consulted under SeedConfirm; nil means "no".
	Confirmer Confirmer
	Logger    logging.Logger
}

// Orchestrator runs the bootstrap sequence under a Policy.
type Orchestrator struct {
	deps   Deps
	policy Policy
}

func New(deps Deps, policy Policy) *Orchestrator {
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	return &Orchestrator{deps: deps, policy: policy}
}

// StageError is a failure attributed to the stage it happened in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Report is the result of a run.
type Report struct {
	// Stage is StageDone or StageFailed.
	Stage Stage
	// FailedAt is the stage that failed; meaningful only when Stage is
	// StageFailed.
	FailedAt Stage
	State    DatabaseState
	// Created is set only when the ensure-database stage issued the create;
	// a database found present (a concurrent creator won) leaves it false.
	Created bool
	Seeded  bool
	// SeedWarning holds a seed failure that the policy tolerated.
	SeedWarning error
	Err         error
}

// ExitCode maps the report to the process exit status.
func (r Report) ExitCode() int {
	if r.Stage == StageDone {
		return 0
	}
	return 1
}

// Run executes the sequence for d and returns once a terminal stage is
// reached. It never terminates the process.
func (o *Orchestrator) Run(ctx context.Context, d dbconn.Descriptor) Report {
	log := o.deps.Logger.With("run_id", uuid.NewString(), "policy", o.policy.Name)
	log.Info(ctx, "bootstrap starting", "target", d.String())

	rep := Report{Stage: StageStart, State: StateUnknown}
	stage := StageStart

	for stage != StageDone && stage != StageFailed {
		var out outcome
		stageLog := log.With("stage", stage.String())

		switch stage {
		case StageProbe:
			out = o.probe(ctx, d, &rep)
		case StageEnsureDatabase:
			out = o.ensureDatabase(ctx, d, stageLog, &rep)
		case StageMigrate:
			out = o.migrate(ctx, stageLog, &rep)
		case StageSeed:
			out = o.seed(ctx, stageLog, &rep)
		}

		nxt := next(stage, out, o.policy)
		if nxt == StageFailed {
			err := out.err
			if err == nil && stage == StageProbe {
				err = fmt.Errorf("%w: %q (databases configured through DATABASE_URL must already exist)",
					common.ErrDatabaseMissing, d.Database)
			}
			rep.FailedAt = stage
			rep.Err = &StageError{Stage: stage, Err: o.scrub(err, d)}
			stageLog.Error(ctx, "bootstrap failed", "error", rep.Err)
		} else if out.err != nil && stage == StageSeed {
			rep.SeedWarning = &StageError{Stage: stage, Err: o.scrub(out.err, d)}
			stageLog.Warn(ctx, "seeding failed, continuing", "error", rep.SeedWarning)
		}
		stage = nxt
	}

	rep.Stage = stage
	if stage == StageDone {
		log.Info(ctx, "bootstrap finished", "state", rep.State.String())
	}
	return rep
}

func (o *Orchestrator) probe(ctx context.Context, d dbconn.Descriptor, rep *Report) outcome {
	res := o.deps.Prober.Probe(ctx, d)
	if res.Reachable {
		rep.State = advance(rep.State, StateReachable)
	}
	if res.DatabaseExists {
		rep.State = advance(rep.State, StateExists)
	}
	return outcome{
		err:            res.Err,
		databaseExists: res.DatabaseExists,
		urlSource:      d.Source == dbconn.SourceURL,
	}
}

func (o *Orchestrator) ensureDatabase(ctx context.Context, d dbconn.Descriptor, log logging.Logger, rep *Report) outcome {
	log.Info(ctx, "creating database", "database", d.Database)

	var status provision.Status
	err := dbx.WithDB(ctx, o.deps.Open, d.DSN(o.deps.AdminDB), func(ctx context.Context, db *sql.DB) error {
		var err error
		status, err = o.deps.Provisioner.Ensure(ctx, db, d.Database)
		return err
	})
	if err != nil {
		return outcome{err: err}
	}
	rep.Created = status == provision.StatusCreated
	rep.State = advance(rep.State, StateExists)
	return outcome{databaseExists: true}
}

func (o *Orchestrator) migrate(ctx context.Context, log logging.Logger, rep *Report) outcome {
	log.Info(ctx, "running migrations")
	if err := o.runStep(ctx, log, o.deps.Migrator, "migrations"); err != nil {
		return outcome{err: err}
	}
	rep.State = advance(rep.State, StateMigrated)
	return outcome{}
}

func (o *Orchestrator) seed(ctx context.Context, log logging.Logger, rep *Report) outcome {
	if o.policy.Seed == SeedConfirm {
		ok, err := o.confirmSeed()
		if err != nil {
			log.Warn(ctx, "could not read seed confirmation, skipping seed", "error", err)
			return outcome{}
		}
		if !ok {
			log.Info(ctx, "seeding skipped")
			return outcome{}
		}
	}

	log.Info(ctx, "seeding database")
	if err := o.runStep(ctx, log, o.deps.Seeder, "seed"); err != nil {
		return outcome{err: err}
	}
	rep.Seeded = true
	rep.State = advance(rep.State, StateSeeded)
	return outcome{}
}

func (o *Orchestrator) confirmSeed() (bool, error) {
	if o.deps.Confirmer == nil {
		return false, nil
	}
	return o.deps.Confirmer.Confirm("Seed the database with sample data?")
}

func (o *Orchestrator) runStep(ctx context.Context, log logging.Logger, r runner.CommandRunner, what string) error {
	if r == nil {
		return fmt.Errorf("%w: no %s runner configured", common.ErrProcessExecution, what)
	}
	res := r.Run(ctx)
	if out := res.Output(); out != "" {
		log.Debug(ctx, what+" output", "output", out)
	}
	if !res.Success {
		return fmt.Errorf("%w: %s: %s", common.ErrProcessExecution, what, tail(res.Output(), outputTailLines))
	}
	return nil
}

func tail(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

// scrubbedError keeps the error chain for errors.Is but renders a message
// with secret values masked.
type scrubbedError struct {
	msg string
	err error
}

func (e *scrubbedError) Error() string { return e.msg }
func (e *scrubbedError) Unwrap() error { return e.err }

// scrub masks the password of d in err's message. The userinfo of a DSN is
// always masked. A bare occurrence is masked only when the password differs
// from the other connection fields, so that a password equal to the user or
// database name does not blank those out too.
func (o *Orchestrator) scrub(err error, d dbconn.Descriptor) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if d.Password != "" {
		escaped := strings.TrimPrefix(url.UserPassword("", d.Password).String(), ":")
		for _, pw := range []string{escaped, d.Password} {
			msg = strings.ReplaceAll(msg, ":"+pw+"@", ":"+secrets.Mask+"@")
		}
		if !slices.Contains([]string{d.User, d.Host, d.Database, o.deps.AdminDB}, d.Password) {
			msg = secrets.Scrub(msg, d.Password)
		}
	}
	if msg == err.Error() {
		return err
	}
	return &scrubbedError{msg: msg, err: err}
}
