package localtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizer_ToLocal(t *testing.T) {
	// UTC-3: 13:00 UTC = 10:00 локального
	n := NewNormalizer(-180)

	utc := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)
	local := n.ToLocal(utc)

	assert.Equal(t, 10, local.Hour())
	assert.Equal(t, 0, local.Minute())
	// Момент времени не меняется, меняется только представление
	assert.True(t, local.Equal(utc))
}

func TestNormalizer_ToLocal_HalfHourOffset(t *testing.T) {
	// UTC+5:30 (Индия)
	n := NewNormalizer(330)

	utc := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	local := n.ToLocal(utc)

	assert.Equal(t, 17, local.Hour())
	assert.Equal(t, 30, local.Minute())
}

func TestNormalizer_RoundTrip(t *testing.T) {
	n := NewNormalizer(-180)

	utc := time.Date(2026, 3, 10, 13, 45, 0, 0, time.UTC)
	back := n.ToUTC(n.ToLocal(utc))

	assert.True(t, back.Equal(utc))
	assert.Equal(t, time.UTC, back.Location())
}

func TestNormalizer_OffsetMinutes(t *testing.T) {
	assert.Equal(t, -180, NewNormalizer(-180).OffsetMinutes())
	assert.Equal(t, 330, NewNormalizer(330).OffsetMinutes())
}

func TestRoundUpToGrid(t *testing.T) {
	loc := time.FixedZone("UTC-03:00", -3*60*60)

	cases := []struct {
		name string
		in   time.Time
		grid int
		want time.Time
	}{
		{
			name: "уже на границе сетки",
			in:   time.Date(2026, 3, 10, 10, 30, 0, 0, loc),
			grid: 10,
			want: time.Date(2026, 3, 10, 10, 30, 0, 0, loc),
		},
		{
			name: "округление вверх внутри часа",
			in:   time.Date(2026, 3, 10, 10, 31, 0, 0, loc),
			grid: 10,
			want: time.Date(2026, 3, 10, 10, 40, 0, 0, loc),
		},
		{
			name: "перенос в следующий час",
			in:   time.Date(2026, 3, 10, 10, 55, 0, 0, loc),
			grid: 10,
			want: time.Date(2026, 3, 10, 11, 0, 0, 0, loc),
		},
		{
			name: "секунды округляют минуту вверх",
			in:   time.Date(2026, 3, 10, 10, 30, 1, 0, loc),
			grid: 10,
			want: time.Date(2026, 3, 10, 10, 40, 0, 0, loc),
		},
		{
			name: "перенос через полночь",
			in:   time.Date(2026, 3, 10, 23, 55, 0, 0, loc),
			grid: 10,
			want: time.Date(2026, 3, 11, 0, 0, 0, 0, loc),
		},
		{
			name: "сетка в 15 минут",
			in:   time.Date(2026, 3, 10, 10, 16, 0, 0, loc),
			grid: 15,
			want: time.Date(2026, 3, 10, 10, 30, 0, 0, loc),
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundUpToGrid(tt.in, tt.grid)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestRoundUpToGrid_ZeroGrid(t *testing.T) {
	in := time.Date(2026, 3, 10, 10, 31, 17, 0, time.UTC)
	assert.True(t, RoundUpToGrid(in, 0).Equal(in))
}

func TestStartOfDay(t *testing.T) {
	n := NewNormalizer(-180)
	moment := time.Date(2026, 3, 10, 18, 45, 12, 0, n.Location())

	midnight := StartOfDay(moment)

	require.Equal(t, 0, midnight.Hour())
	require.Equal(t, 0, midnight.Minute())
	assert.Equal(t, moment.Day(), midnight.Day())
	assert.Equal(t, n.Location(), midnight.Location())
}

func TestAtWallClock(t *testing.T) {
	n := NewNormalizer(-180)
	day := time.Date(2026, 3, 10, 18, 45, 0, 0, n.Location())

	// 09:00 локального времени
	at := AtWallClock(day, 9*60)

	assert.Equal(t, 9, at.Hour())
	assert.Equal(t, 0, at.Minute())
	assert.Equal(t, day.Day(), at.Day())
}
