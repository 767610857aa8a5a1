package domain

import (
	"time"

	"github.com/m04kA/BRB-QueueMonitor/pkg/types"
)

// DaySchedule open/close wall-clock times for one weekday
type DaySchedule struct {
	IsOpen    bool
	OpenTime  *types.TimeString
	CloseTime *types.TimeString
}

// WeekSchedule per-weekday business hours of a shop
type WeekSchedule struct {
	ShopID    int64
	Monday    DaySchedule
	Tuesday   DaySchedule
	Wednesday DaySchedule
	Thursday  DaySchedule
	Friday    DaySchedule
	Saturday  DaySchedule
	Sunday    DaySchedule
}

// ForWeekday returns the schedule for the given weekday
func (w *WeekSchedule) ForWeekday(day time.Weekday) DaySchedule {
	switch day {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return DaySchedule{IsOpen: false}
	}
}

// Window returns open/close minutes from midnight for the weekday
// ok=false если точка закрыта или расписание заполнено некорректно
func (w *WeekSchedule) Window(day time.Weekday) (openMin, closeMin int, ok bool) {
	sched := w.ForWeekday(day)
	if !sched.IsOpen || sched.OpenTime == nil || sched.CloseTime == nil {
		return 0, 0, false
	}

	openMin, err := sched.OpenTime.Minutes()
	if err != nil {
		return 0, 0, false
	}

	closeMin, err = parseCloseMinutes(*sched.CloseTime)
	if err != nil || closeMin <= openMin {
		return 0, 0, false
	}

	return openMin, closeMin, true
}

// parseCloseMinutes разбирает время закрытия, допуская "24:00"
func parseCloseMinutes(t types.TimeString) (int, error) {
	if t.String() == "24:00" {
		return 24 * 60, nil
	}
	return t.Minutes()
}
