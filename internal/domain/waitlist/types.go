package waitlist

type Status string

const (
	StatusWaiting   Status = "WAITING"
	StatusNotified  Status = "NOTIFIED"
	StatusExpired   Status = "EXPIRED"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusWaiting, StatusNotified, StatusExpired, StatusConfirmed, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) IsActive() bool {
	return s == StatusWaiting || s == StatusNotified
}

func (s Status) IsTerminal() bool {
	return s == StatusExpired || s == StatusConfirmed || s == StatusCancelled
}

func AllStatuses() []Status {
	return []Status{StatusWaiting, StatusNotified, StatusExpired, StatusConfirmed, StatusCancelled}
}

type Tier string

const (
	TierStandard Tier = "STANDARD"
	TierVIP      Tier = "VIP"
)

const (
	MinPriority     = 0
	MaxPriority     = 100
	DefaultPriority = 50
	VIPPriority     = 80
)

func (t Tier) Priority() int {
	if t == TierVIP {
		return VIPPriority
	}
	return DefaultPriority
}
