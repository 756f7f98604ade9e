package bootstrap

// SeedMode decides whether and how the seed stage runs.
type SeedMode int

const (
	// SeedNever skips seeding entirely.
	SeedNever SeedMode = iota
	// SeedConfirm asks the operator first; a failed seed fails the run.
	SeedConfirm
	// SeedAuto seeds without asking; a failed seed is only a warning.
	SeedAuto
)

func (m SeedMode) String() string {
	switch m {
	case SeedNever:
		return "never"
	case SeedConfirm:
		return "confirm"
	case SeedAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// Policy configures one entry point's orchestration.
type Policy struct {
	Name string
	Seed SeedMode
	// SeedFatal turns a failed seed into a failed run.
	SeedFatal bool
}

// InitPolicy is used by the one-shot database initialization: the operator
// confirms seeding and a seed failure is fatal.
func InitPolicy() Policy {
	return Policy{Name: "init", Seed: SeedConfirm, SeedFatal: true}
}

// WizardPolicy is used by the setup wizard: seeding is attempted
// automatically and its failure is downgraded to a warning.
//
// The two policies are kept apart on purpose; the wizard's leniency has not
// been confirmed as intended behaviour, so do not merge them.
func WizardPolicy() Policy {
	return Policy{Name: "wizard", Seed: SeedAuto, SeedFatal: false}
}

// WithoutSeed returns a copy of p that never seeds.
func (p Policy) WithoutSeed() Policy {
	p.Seed = SeedNever
	return p
}
