package checkout

// State はcheckout 1回分の状態
type State int

const (
	StateIdle State = iota
	StateValidating
	StateCommitting
	StateDone
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateCommitting:
		return "committing"
	case StateDone:
		return "done"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Terminal はこれ以上遷移しない状態か
func (s State) Terminal() bool {
	return s == StateDone || s == StateRejected
}
