package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func rng(start, end string) DateRange {
	return DateRange{Start: date(start), End: date(end)}
}

func TestNewRentalRange(t *testing.T) {
	r, err := NewRentalRange(date("2024-06-01"), date("2024-06-04"))
	require.NoError(t, err)
	assert.Equal(t, 3, r.Days())

	_, err = NewRentalRange(date("2024-06-04"), date("2024-06-04"))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewRentalRange(date("2024-06-05"), date("2024-06-04"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewRentalRange_TruncatesTime(t *testing.T) {
	start := time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)
	end := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)

	r, err := NewRentalRange(start, end)
	require.NoError(t, err)
	assert.Equal(t, date("2024-06-01"), r.Start)
	assert.Equal(t, 1, r.Days())
}

func TestOverlaps_Inclusive(t *testing.T) {
	tests := []struct {
		name string
		a, b DateRange
		want bool
	}{
		{"shared days", rng("2024-06-01", "2024-06-04"), rng("2024-06-03", "2024-06-06"), true},
		{"same day turnover", rng("2024-06-01", "2024-06-04"), rng("2024-06-04", "2024-06-06"), true},
		{"disjoint", rng("2024-06-01", "2024-06-04"), rng("2024-06-05", "2024-06-06"), false},
		{"contained", rng("2024-06-01", "2024-06-10"), rng("2024-06-03", "2024-06-04"), true},
		{"identical", rng("2024-06-01", "2024-06-04"), rng("2024-06-01", "2024-06-04"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			assert.Equal(t, tt.want, Overlaps(tt.b, tt.a))
		})
	}
}

func TestOverlaps_SameDayTurnover(t *testing.T) {
	p := OverlapPolicy{AllowSameDayTurnover: true}

	assert.False(t, p.Overlaps(rng("2024-06-01", "2024-06-04"), rng("2024-06-04", "2024-06-06")))
	assert.True(t, p.Overlaps(rng("2024-06-01", "2024-06-04"), rng("2024-06-03", "2024-06-06")))
}

func TestOverlaps_Symmetric(t *testing.T) {
	base := date("2024-01-01")
	policies := []OverlapPolicy{InclusivePolicy, {AllowSameDayTurnover: true}}

	for _, p := range policies {
		for as := 0; as < 6; as++ {
			for al := 1; al < 4; al++ {
				for bs := 0; bs < 6; bs++ {
					for bl := 1; bl < 4; bl++ {
						a := DateRange{Start: AddDays(base, as), End: AddDays(base, as+al)}
						b := DateRange{Start: AddDays(base, bs), End: AddDays(base, bs+bl)}
						require.Equal(t, p.Overlaps(a, b), p.Overlaps(b, a), "a=%s b=%s turnover=%v", a, b, p.AllowSameDayTurnover)
					}
				}
			}
		}
	}
}

func TestContains(t *testing.T) {
	r := rng("2024-06-01", "2024-06-04")

	assert.True(t, InclusivePolicy.Contains(r, date("2024-06-01")))
	assert.True(t, InclusivePolicy.Contains(r, date("2024-06-04")))
	assert.False(t, InclusivePolicy.Contains(r, date("2024-06-05")))
	assert.False(t, InclusivePolicy.Contains(r, date("2024-05-31")))

	turnover := OverlapPolicy{AllowSameDayTurnover: true}
	assert.False(t, turnover.Contains(r, date("2024-06-04")))
	assert.True(t, turnover.Contains(r, date("2024-06-03")))
}

func TestExtensionWindow(t *testing.T) {
	w := InclusivePolicy.ExtensionWindow(date("2024-06-04"), date("2024-06-07"))
	assert.Equal(t, rng("2024-06-05", "2024-06-07"), w)

	turnover := OverlapPolicy{AllowSameDayTurnover: true}
	w = turnover.ExtensionWindow(date("2024-06-04"), date("2024-06-07"))
	assert.Equal(t, rng("2024-06-04", "2024-06-07"), w)

	// a one-day rental starting on the old return day still collides under turnover
	assert.True(t, turnover.Overlaps(w, rng("2024-06-04", "2024-06-05")))
}
