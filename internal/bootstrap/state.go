package bootstrap

// Stage is a step of the bootstrap state machine.
type Stage int

const (
	StageStart Stage = iota
	StageProbe
	StageEnsureDatabase
	StageMigrate
	StageSeed
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageProbe:
		return "probe"
	case StageEnsureDatabase:
		return "ensure-database"
	case StageMigrate:
		return "migrate"
	case StageSeed:
		return "seed"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DatabaseState is how far the database is known to have progressed. It only
// moves forward within a run.
type DatabaseState int

const (
	StateUnknown DatabaseState = iota
	StateReachable
	StateExists
	StateMigrated
	StateSeeded
)

func (s DatabaseState) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateReachable:
		return "reachable"
	case StateExists:
		return "exists"
	case StateMigrated:
		return "migrated"
	case StateSeeded:
		return "seeded"
	default:
		return "invalid"
	}
}

// outcome is what a stage reports back to the transition function.
type outcome struct {
	err            error
	databaseExists bool
	urlSource      bool
}

// next is the transition function. It depends only on the current stage,
// the outcome of that stage and the policy.
func next(cur Stage, o outcome, p Policy) Stage {
	switch cur {
	case StageStart:
		return StageProbe
	case StageProbe:
		if o.err != nil {
			return StageFailed
		}
		if !o.databaseExists {
			if o.urlSource {
				return StageFailed
			}
			return StageEnsureDatabase
		}
		return StageMigrate
	case StageEnsureDatabase:
		if o.err != nil {
			return StageFailed
		}
		return StageMigrate
	case StageMigrate:
		if o.err != nil {
			return StageFailed
		}
		if p.Seed == SeedNever {
			return StageDone
		}
		return StageSeed
	case StageSeed:
		if o.err != nil && p.SeedFatal {
			return StageFailed
		}
		return StageDone
	default:
		return cur
	}
}

func advance(cur, to DatabaseState) DatabaseState {
	if to > cur {
		return to
	}
	return cur
}
