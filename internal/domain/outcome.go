package domain

// Outcome is the per-candidate result of an availability check.
type Outcome int

const (
	OutcomeTaken Outcome = iota
	OutcomeAvailable
	// OutcomeInvalid means the authority rejected the handle itself.
	// It ranks like Taken: the handle can never be claimed.
	OutcomeInvalid
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAvailable:
		return "available"
	case OutcomeTaken:
		return "taken"
	case OutcomeInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Claimable reports whether the candidate can actually be registered.
func (o Outcome) Claimable() bool {
	return o == OutcomeAvailable
}
