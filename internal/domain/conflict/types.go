package conflict

// Type classifies a detection outcome. TypeNone never gets persisted.
type Type string

const (
	TypeNone              Type = "NONE"
	TypeTimeOverlap       Type = "TIME_OVERLAP"
	TypeDoubleBooking     Type = "DOUBLE_BOOKING"
	TypeConcurrentRequest Type = "CONCURRENT_REQUEST"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsConflict() bool {
	switch t {
	case TypeTimeOverlap, TypeDoubleBooking, TypeConcurrentRequest:
		return true
	default:
		return false
	}
}

func AllTypes() []Type {
	return []Type{TypeTimeOverlap, TypeDoubleBooking, TypeConcurrentRequest}
}

type Status string

const (
	StatusDetected    Status = "DETECTED"
	StatusResolved    Status = "RESOLVED"
	StatusWaitingList Status = "WAITING_LIST"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusDetected, StatusResolved, StatusWaitingList:
		return true
	default:
		return false
	}
}

// Open statuses may still be resolved by a later confirmation.
func (s Status) IsOpen() bool {
	return s == StatusDetected || s == StatusWaitingList
}
