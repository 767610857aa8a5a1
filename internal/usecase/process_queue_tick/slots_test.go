package process_queue_tick

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BRB-QueueMonitor/internal/domain"
	"github.com/m04kA/BRB-QueueMonitor/pkg/localtime"
	"github.com/m04kA/BRB-QueueMonitor/pkg/ptr"
	"github.com/m04kA/BRB-QueueMonitor/pkg/types"
)

// tz зона точки в тестах: UTC-3
var tz = time.FixedZone("UTC-03:00", -3*60*60)

// weekHours расписание: каждый день с open до close
func weekHours(open, close types.TimeString) *domain.WeekSchedule {
	day := domain.DaySchedule{IsOpen: true, OpenTime: ptr.Ptr(open), CloseTime: ptr.Ptr(close)}
	return &domain.WeekSchedule{
		Monday: day, Tuesday: day, Wednesday: day, Thursday: day,
		Friday: day, Saturday: day, Sunday: day,
	}
}

func localDate(hour, min int) time.Time {
	// 10 марта 2026 - вторник
	return time.Date(2026, 3, 10, hour, min, 0, 0, tz)
}

func TestFindEarliestSlot_FreeDay(t *testing.T) {
	// Сейчас 10:00, время в пути 15 мин, запас 10 мин:
	// нижняя граница 10:25 округляется до 10:30
	now := localDate(10, 0)
	floor := localtime.RoundUpToGrid(now.Add(25*time.Minute), 10)

	slot := findEarliestSlot(7, slotSearch{
		floor:      floor,
		horizonEnd: now.Add(4 * time.Hour),
		duration:   30 * time.Minute,
		bookings:   nil,
		hours:      weekHours("09:00", "22:00"),
		grid:       10,
	})

	require.NotNil(t, slot)
	assert.Equal(t, int64(7), slot.StaffID)
	assert.True(t, slot.StartAt.Equal(localDate(10, 30)))
	assert.True(t, slot.EndAt.Equal(localDate(11, 0)))
}

func TestFindEarliestSlot_SkipsBusyInterval(t *testing.T) {
	// Кандидат 10:10 пересекает бронь 10:00-10:30, слот сдвигается на 10:30
	now := localDate(10, 0)

	slot := findEarliestSlot(7, slotSearch{
		floor:      localtime.RoundUpToGrid(now.Add(10*time.Minute), 10),
		horizonEnd: now.Add(4 * time.Hour),
		duration:   30 * time.Minute,
		bookings: []interval{
			{start: localDate(10, 0), end: localDate(10, 30)},
		},
		hours: weekHours("09:00", "22:00"),
		grid:  10,
	})

	require.NotNil(t, slot)
	assert.True(t, slot.StartAt.Equal(localDate(10, 30)))
}

func TestFindEarliestSlot_FitsBetweenBookings(t *testing.T) {
	// Между бронями 10:00-10:30 и 11:10-12:00 помещается слот 10:30-11:00
	now := localDate(9, 55)

	slot := findEarliestSlot(7, slotSearch{
		floor:      localtime.RoundUpToGrid(now.Add(10*time.Minute), 10),
		horizonEnd: now.Add(4 * time.Hour),
		duration:   30 * time.Minute,
		bookings: []interval{
			{start: localDate(10, 0), end: localDate(10, 30)},
			{start: localDate(11, 10), end: localDate(12, 0)},
		},
		hours: weekHours("09:00", "22:00"),
		grid:  10,
	})

	require.NotNil(t, slot)
	assert.True(t, slot.StartAt.Equal(localDate(10, 30)))
	assert.True(t, slot.EndAt.Equal(localDate(11, 0)))
}

func TestFindEarliestSlot_BackToBackBoundaryIsFree(t *testing.T) {
	// Границы впритык пересечением не считаются: слот может
	// начаться ровно в конце занятого интервала
	now := localDate(10, 0)

	slot := findEarliestSlot(7, slotSearch{
		floor:      localDate(10, 0),
		horizonEnd: now.Add(4 * time.Hour),
		duration:   30 * time.Minute,
		bookings: []interval{
			{start: localDate(10, 0), end: localDate(10, 40)},
			{start: localDate(11, 10), end: localDate(11, 40)},
		},
		hours: weekHours("09:00", "22:00"),
		grid:  10,
	})

	require.NotNil(t, slot)
	assert.True(t, slot.StartAt.Equal(localDate(10, 40)))
}

func TestFindEarliestSlot_NoSlotBeforeHorizon(t *testing.T) {
	// 23:50, точка уже закрыта, горизонт 4 часа заканчивается до
	// открытия следующего дня - слота нет
	now := time.Date(2026, 3, 10, 23, 50, 0, 0, tz)

	slot := findEarliestSlot(7, slotSearch{
		floor:      localtime.RoundUpToGrid(now.Add(10*time.Minute), 10),
		horizonEnd: now.Add(4 * time.Hour),
		duration:   30 * time.Minute,
		bookings:   nil,
		hours:      weekHours("09:00", "22:00"),
		grid:       10,
	})

	assert.Nil(t, slot)
}

func TestFindEarliestSlot_RollsToNextDayWithinHorizon(t *testing.T) {
	// 23:00: сегодня уже закрыто, но следующий день открывается в 01:00,
	// и это попадает в горизонт
	now := time.Date(2026, 3, 10, 23, 0, 0, 0, tz)

	slot := findEarliestSlot(7, slotSearch{
		floor:      localtime.RoundUpToGrid(now.Add(20*time.Minute), 10),
		horizonEnd: now.Add(4 * time.Hour),
		duration:   30 * time.Minute,
		bookings:   nil,
		hours:      weekHours("01:00", "22:00"),
		grid:       10,
	})

	// Следующий день открывается в 01:00, это внутри горизонта (до 03:00)
	require.NotNil(t, slot)
	assert.True(t, slot.StartAt.Equal(time.Date(2026, 3, 11, 1, 0, 0, 0, tz)))
}

func TestFindEarliestSlot_RejectsSlotPastClosing(t *testing.T) {
	// Начало попадает в рабочие часы, но конец выходит за закрытие:
	// слот отклоняется, переносимся на следующий день за горизонт
	now := time.Date(2026, 3, 10, 21, 30, 0, 0, tz)

	slot := findEarliestSlot(7, slotSearch{
		floor:      localtime.RoundUpToGrid(now.Add(10*time.Minute), 10),
		horizonEnd: now.Add(2 * time.Hour),
		duration:   30 * time.Minute,
		bookings:   nil,
		hours:      weekHours("09:00", "22:00"),
		grid:       10,
	})

	assert.Nil(t, slot)
}

func TestFindEarliestSlot_ClampedToOpening(t *testing.T) {
	// До открытия: кандидат подтягивается к времени открытия
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, tz)

	slot := findEarliestSlot(7, slotSearch{
		floor:      localtime.RoundUpToGrid(now.Add(10*time.Minute), 10),
		horizonEnd: now.Add(4 * time.Hour),
		duration:   30 * time.Minute,
		bookings:   nil,
		hours:      weekHours("09:00", "22:00"),
		grid:       10,
	})

	require.NotNil(t, slot)
	assert.True(t, slot.StartAt.Equal(localDate(9, 0)))
}

func TestRequiredDuration(t *testing.T) {
	cases := []struct {
		name    string
		minutes int
		buffer  float64
		want    int
	}{
		{name: "без буфера", minutes: 30, buffer: 0, want: 30},
		{name: "буфер 10 процентов", minutes: 30, buffer: 10, want: 27},
		{name: "округление вниз", minutes: 45, buffer: 10, want: 40},
		{name: "вырожденный буфер не обнуляет слот", minutes: 30, buffer: 100, want: 30},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, requiredDuration(tt.minutes, tt.buffer))
		})
	}
}

func TestStaffIntervals(t *testing.T) {
	norm := localtime.NewNormalizer(-180)

	bookings := []*domain.Booking{
		{
			StaffID: 1,
			StartAt: time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC), // 11:00 локального
			EndAt:   time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC),
			Status:  domain.StatusConfirmed,
		},
		{
			StaffID: 1,
			StartAt: time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC), // 10:00 локального
			EndAt:   time.Date(2026, 3, 10, 13, 30, 0, 0, time.UTC),
			Status:  domain.StatusQueueReserved,
		},
		{
			StaffID: 2,
			StartAt: time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC),
			EndAt:   time.Date(2026, 3, 10, 13, 30, 0, 0, time.UTC),
			Status:  domain.StatusCancelledByUser, // неактивная бронь не занимает время
		},
	}

	busy := staffIntervals(bookings, norm)

	require.Len(t, busy[1], 2)
	assert.Empty(t, busy[2])

	// Интервалы отсортированы по началу и переведены в локальное время
	assert.Equal(t, 10, busy[1][0].start.Hour())
	assert.Equal(t, 11, busy[1][1].start.Hour())
}

func TestInsertInterval_KeepsOrder(t *testing.T) {
	ivs := []interval{
		{start: localDate(10, 0), end: localDate(10, 30)},
		{start: localDate(12, 0), end: localDate(12, 30)},
	}

	ivs = insertInterval(ivs, interval{start: localDate(11, 0), end: localDate(11, 30)})

	require.Len(t, ivs, 3)
	assert.True(t, ivs[0].start.Equal(localDate(10, 0)))
	assert.True(t, ivs[1].start.Equal(localDate(11, 0)))
	assert.True(t, ivs[2].start.Equal(localDate(12, 0)))
}

func TestInsertInterval_Empty(t *testing.T) {
	ivs := insertInterval(nil, interval{start: localDate(10, 0), end: localDate(10, 30)})
	require.Len(t, ivs, 1)
}
