package explore

// Phase is a step of a single generation run:
//
//	Idle → PromptBuilt → PrimaryCalled → {Accepted | FallbackCalled} → Streaming → Idle
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePromptBuilt
	PhasePrimaryCalled
	PhaseAccepted
	PhaseFallbackCalled
	PhaseStreaming
)

var phaseNames = map[Phase]string{
	PhaseIdle:           "idle",
	PhasePromptBuilt:    "prompt_built",
	PhasePrimaryCalled:  "primary_called",
	PhaseAccepted:       "accepted",
	PhaseFallbackCalled: "fallback_called",
	PhaseStreaming:      "streaming",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// Observer is notified of each phase transition. It is called on the
// goroutine running the generation and must not block for long.
type Observer func(Phase)

func (o Observer) notify(p Phase) {
	if o != nil {
		o(p)
	}
}

// Tier names which service produced a Result.
type Tier string

const (
	TierPrimary  Tier = "primary"
	TierFallback Tier = "fallback"
)
