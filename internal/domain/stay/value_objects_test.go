//go:build unit

package stay_test

import (
	"testing"
	"time"

	"room-contention/internal/domain/stay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRange(t *testing.T) {
	t.Run("construction", func(t *testing.T) {
		cases := []struct {
			name    string
			in, out string
			errIs   error
			nights  int
		}{
			{name: "single night", in: "2026-11-10", out: "2026-11-11", nights: 1},
			{name: "multi night", in: "2026-11-10", out: "2026-11-13", nights: 3},
			{name: "same day", in: "2026-11-10", out: "2026-11-10", errIs: stay.ErrInvalidRange},
			{name: "reversed", in: "2026-11-12", out: "2026-11-10", errIs: stay.ErrInvalidRange},
			{name: "too long", in: "2026-01-01", out: "2027-01-02", errIs: stay.ErrStayTooLong},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				r, err := stay.ParseDateRange(c.in, c.out)
				if c.errIs != nil {
					require.ErrorIs(t, err, c.errIs)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, c.nights, r.Nights())
			})
		}
	})

	t.Run("malformed date", func(t *testing.T) {
		_, err := stay.ParseDateRange("2026/11/10", "2026-11-12")
		assert.Error(t, err)
	})

	t.Run("time of day is dropped", func(t *testing.T) {
		r, err := stay.NewDateRange(
			time.Date(2026, 11, 10, 15, 30, 0, 0, time.UTC),
			time.Date(2026, 11, 12, 9, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		assert.Equal(t, "[2026-11-10,2026-11-12)", r.String())
	})

	t.Run("half-open overlap", func(t *testing.T) {
		base := stay.MustDateRange("2026-11-10", "2026-11-12")
		cases := []struct {
			name    string
			other   stay.DateRange
			overlap bool
		}{
			{name: "identical", other: stay.MustDateRange("2026-11-10", "2026-11-12"), overlap: true},
			{name: "tail overlap", other: stay.MustDateRange("2026-11-11", "2026-11-13"), overlap: true},
			{name: "head overlap", other: stay.MustDateRange("2026-11-08", "2026-11-11"), overlap: true},
			{name: "enclosing", other: stay.MustDateRange("2026-11-01", "2026-11-30"), overlap: true},
			{name: "back to back after", other: stay.MustDateRange("2026-11-12", "2026-11-14"), overlap: false},
			{name: "back to back before", other: stay.MustDateRange("2026-11-08", "2026-11-10"), overlap: false},
			{name: "disjoint", other: stay.MustDateRange("2026-12-01", "2026-12-02"), overlap: false},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				assert.Equal(t, c.overlap, base.Overlaps(c.other))
				assert.Equal(t, c.overlap, c.other.Overlaps(base))
			})
		}
	})

	t.Run("contains", func(t *testing.T) {
		freed := stay.MustDateRange("2026-11-10", "2026-11-15")
		assert.True(t, freed.Contains(stay.MustDateRange("2026-11-10", "2026-11-15")))
		assert.True(t, freed.Contains(stay.MustDateRange("2026-11-11", "2026-11-13")))
		assert.False(t, freed.Contains(stay.MustDateRange("2026-11-14", "2026-11-16")))
		assert.False(t, freed.Contains(stay.MustDateRange("2026-11-09", "2026-11-11")))
	})
}
