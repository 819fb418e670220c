package lockstep

// SyncMode names the positional reconciliation strategy applied to all
// simulated objects. Exactly one mode is active per session; modes do not
// compose and re-activation after startup is unsupported.
type SyncMode int

const (
	SyncInterpolate SyncMode = iota
	SyncExtrapolate
	SyncFrameSync
)

func (m SyncMode) String() string {
	switch m {
	case SyncInterpolate:
		return "interpolate"
	case SyncExtrapolate:
		return "extrapolate"
	case SyncFrameSync:
		return "frameSync"
	default:
		return "unknown"
	}
}

// StrategySelection is the resolved, immutable sync configuration. Reflect is
// only meaningful with SyncInterpolate: it is interpolation with authoritative
// positions shown directly, not a separate strategy.
type StrategySelection struct {
	Mode    SyncMode
	Reflect bool
}

// ResolveSyncMode maps a declarative sync-mode string to a selection. Unknown
// names are a configuration error rather than a silent no-op.
func ResolveSyncMode(name string) (StrategySelection, error) {
	switch name {
	case "":
		return StrategySelection{}, configErrorf("sync mode is required")
	case "interpolate":
		return StrategySelection{Mode: SyncInterpolate}, nil
	case "reflect":
		return StrategySelection{Mode: SyncInterpolate, Reflect: true}, nil
	case "extrapolate":
		return StrategySelection{Mode: SyncExtrapolate}, nil
	case "frameSync":
		return StrategySelection{Mode: SyncFrameSync}, nil
	default:
		return StrategySelection{}, configErrorf("unknown sync mode %q", name)
	}
}

// StrategyTarget is implemented by the collaborator that owns positional
// reconciliation (normally the simulation).
type StrategyTarget interface {
	ActivateInterpolation(reflect bool)
	ActivateExtrapolation()
	ActivateFrameSync()
}

// Activate applies the selection to the target. Called once at startup.
func (s StrategySelection) Activate(target StrategyTarget) {
	switch s.Mode {
	case SyncExtrapolate:
		target.ActivateExtrapolation()
	case SyncFrameSync:
		target.ActivateFrameSync()
	default:
		target.ActivateInterpolation(s.Reflect)
	}
}
