package stay

import (
	"errors"
	"fmt"
	"time"
)

const (
	DateLayout    = "2006-01-02"
	MaxStayNights = 365
)

var (
	ErrInvalidRange = errors.New("check-out must be after check-in")
	ErrStayTooLong  = errors.New("stay exceeds maximum length")
)

// DateRange is a half-open interval of calendar days: [CheckIn, CheckOut).
type DateRange struct {
	checkIn  time.Time
	checkOut time.Time
}

func NewDateRange(checkIn, checkOut time.Time) (DateRange, error) {
	in := Day(checkIn)
	out := Day(checkOut)
	if !out.After(in) {
		return DateRange{}, ErrInvalidRange
	}
	if out.Sub(in) > MaxStayNights*24*time.Hour {
		return DateRange{}, ErrStayTooLong
	}
	return DateRange{checkIn: in, checkOut: out}, nil
}

func ParseDateRange(checkIn, checkOut string) (DateRange, error) {
	in, err := time.Parse(DateLayout, checkIn)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid check-in date: %w", err)
	}
	out, err := time.Parse(DateLayout, checkOut)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid check-out date: %w", err)
	}
	return NewDateRange(in, out)
}

// MustDateRange is for fixtures and tests.
func MustDateRange(checkIn, checkOut string) DateRange {
	r, err := ParseDateRange(checkIn, checkOut)
	if err != nil {
		panic(err)
	}
	return r
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (r DateRange) CheckIn() time.Time  { return r.checkIn }
func (r DateRange) CheckOut() time.Time { return r.checkOut }

func (r DateRange) Nights() int {
	return int(r.checkOut.Sub(r.checkIn) / (24 * time.Hour))
}

func (r DateRange) IsZero() bool {
	return r.checkIn.IsZero() && r.checkOut.IsZero()
}

func (r DateRange) Overlaps(o DateRange) bool {
	return r.checkIn.Before(o.checkOut) && r.checkOut.After(o.checkIn)
}

// Contains reports whether o lies fully inside r.
func (r DateRange) Contains(o DateRange) bool {
	return !o.checkIn.Before(r.checkIn) && !o.checkOut.After(r.checkOut)
}

func (r DateRange) StartsBefore(day time.Time) bool {
	return r.checkIn.Before(Day(day))
}

func (r DateRange) Equal(o DateRange) bool {
	return r.checkIn.Equal(o.checkIn) && r.checkOut.Equal(o.checkOut)
}

func (r DateRange) String() string {
	return fmt.Sprintf("[%s,%s)", r.checkIn.Format(DateLayout), r.checkOut.Format(DateLayout))
}
