package payment

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
	StatusExpired    Status = "expired"
)

var Statuses = []Status{StatusPending, StatusProcessing, StatusSuccess, StatusFailed, StatusExpired}

var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusSuccess, StatusFailed, StatusExpired},
	StatusProcessing: {StatusSuccess, StatusFailed, StatusExpired},
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// FromGateway maps a gateway transaction_status onto a payment status.
func FromGateway(transactionStatus string) (Status, bool) {
	switch transactionStatus {
	case "capture", "settlement", "success":
		return StatusSuccess, true
	case "deny", "cancel", "failed", "failure":
		return StatusFailed, true
	case "expire", "expired":
		return StatusExpired, true
	case "pending":
		return StatusProcessing, true
	}
	return "", false
}
