package orders

type Status string

const (
	StatusPending   Status = "Pending"
	StatusPaid      Status = "Paid"
	StatusCollected Status = "Collected"
	StatusDelivered Status = "Delivered"
	StatusCancelled Status = "Cancelled"
	StatusRefunded  Status = "Refunded"
)

var AllStatuses = []Status{StatusPending, StatusPaid, StatusCollected, StatusDelivered, StatusCancelled, StatusRefunded}

// validNext lists destinations independent of collection mode. Paid gains
// Delivered or Collected depending on the order, see AllowedNext.
var validNext = map[Status][]Status{
	StatusPending:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusCancelled},
	StatusCollected: {StatusPending, StatusPaid, StatusDelivered, StatusCancelled},
	StatusDelivered: {StatusPending, StatusPaid, StatusCollected, StatusCancelled},
	StatusCancelled: {StatusPending, StatusPaid, StatusCancelled, StatusRefunded},
	StatusRefunded:  {},
}

// backward marks correction moves that undo fulfilment progress.
var backward = map[Status]map[Status]bool{
	StatusCollected: {StatusPending: true, StatusPaid: true},
	StatusDelivered: {StatusPending: true, StatusPaid: true},
}

func ParseStatus(s string) (Status, bool) {
	for _, st := range AllStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

func AllowedNext(from Status, mode CollectionMode) []Status {
	next := append([]Status(nil), validNext[from]...)
	if from == StatusPaid {
		switch mode {
		case Delivery:
			next = append(next, StatusDelivered)
		case SelfCollection:
			next = append(next, StatusCollected)
		}
	}
	return next
}

func CanTransition(from, to Status, mode CollectionMode) bool {
	for _, s := range AllowedNext(from, mode) {
		if s == to {
			return true
		}
	}
	return false
}

func IsBackward(from, to Status) bool {
	return backward[from][to]
}
