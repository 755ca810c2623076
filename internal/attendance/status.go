package attendance

// Kind identifies a punch direction.
type Kind string

const (
	KindCheckIn  Kind = "check_in"
	KindCheckOut Kind = "check_out"
)

func (k Kind) String() string {
	switch k {
	case KindCheckIn:
		return "Check-In"
	case KindCheckOut:
		return "Check-Out"
	default:
		return string(k)
	}
}

// Status is the user visible outcome of the latest submission.
type Status string

const (
	StatusNone           Status = ""
	StatusCheckedIn      Status = "Checked in successfully."
	StatusCheckInFailed  Status = "Check-in failed."
	StatusCheckedOut     Status = "Checked out successfully."
	StatusCheckOutFailed Status = "Check-out failed."
)

// Outcome maps a submission result to its status. Transport failures and
// rejected responses produce the same message.
func Outcome(kind Kind, err error) Status {
	switch kind {
	case KindCheckIn:
		if err != nil {
			return StatusCheckInFailed
		}
		return StatusCheckedIn
	case KindCheckOut:
		if err != nil {
			return StatusCheckOutFailed
		}
		return StatusCheckedOut
	default:
		return StatusNone
	}
}

// State is the session's position in the Idle/Running machine.
type State int

const (
	StateIdle State = iota
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "idle"
}
