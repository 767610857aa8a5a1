package process_queue_tick

import (
	"sort"
	"time"

	"github.com/m04kA/BRB-QueueMonitor/internal/domain"
	"github.com/m04kA/BRB-QueueMonitor/pkg/localtime"
)

// interval занятый интервал мастера в локальном времени точки
type interval struct {
	start time.Time
	end   time.Time
}

// slotSearch параметры поиска самого раннего свободного интервала
// для одного мастера
type slotSearch struct {
	floor      time.Time // нижняя граница начала, уже выровнена по сетке
	horizonEnd time.Time // слот должен начинаться строго раньше горизонта
	duration   time.Duration
	bookings   []interval // занятые интервалы мастера, отсортированы по началу
	hours      *domain.WeekSchedule
	grid       int
}

// findEarliestSlot ищет самый ранний интервал нужной длительности,
// который не пересекает занятые интервалы, начинается не раньше floor
// и целиком лежит внутри рабочих часов своего дня
//
// Идём по занятым интервалам слева направо: если кандидат помещается
// до начала занятого интервала - нашли; иначе сдвигаем кандидата
// за конец занятого интервала (с выравниванием по сетке) и продолжаем
func findEarliestSlot(staffID int64, s slotSearch) *domain.AvailableSlot {
	current, ok := alignToBusinessHours(s.floor, s.duration, s.hours, s.grid, s.horizonEnd)
	if !ok {
		return nil
	}

	for _, b := range s.bookings {
		// Занятый интервал целиком позади кандидата
		if !b.end.After(current) {
			continue
		}

		// Кандидат помещается до начала занятого интервала
		// (границы впритык пересечением не считаются)
		if !current.Add(s.duration).After(b.start) {
			return &domain.AvailableSlot{
				StaffID: staffID,
				StartAt: current,
				EndAt:   current.Add(s.duration),
			}
		}

		// Сдвигаемся за конец занятого интервала
		next := localtime.RoundUpToGrid(b.end, s.grid)
		if next.After(current) {
			current = next
		}

		current, ok = alignToBusinessHours(current, s.duration, s.hours, s.grid, s.horizonEnd)
		if !ok {
			return nil
		}
	}

	// Последний кандидат после всех занятых интервалов
	return &domain.AvailableSlot{
		StaffID: staffID,
		StartAt: current,
		EndAt:   current.Add(s.duration),
	}
}

// alignToBusinessHours продвигает кандидата вперёд до ближайшего момента,
// в котором интервал [t, t+duration) целиком лежит внутри рабочих часов
// одного дня. Возвращает ok=false, если такого момента нет до горизонта
//
// Слот, конец которого выходит за время закрытия, отклоняется даже если
// начало попадает в рабочие часы - переносимся на следующий рабочий день
func alignToBusinessHours(t time.Time, duration time.Duration, hours *domain.WeekSchedule, grid int, horizonEnd time.Time) (time.Time, bool) {
	// Горизонт в несколько часов пересекает максимум пару дней,
	// недели хватает с запасом
	for i := 0; i < 8; i++ {
		if !t.Before(horizonEnd) {
			return t, false
		}

		openMin, closeMin, open := hours.Window(t.Weekday())
		if open {
			openAt := localtime.AtWallClock(t, openMin)
			closeAt := localtime.AtWallClock(t, closeMin)

			if t.Before(openAt) {
				t = localtime.RoundUpToGrid(openAt, grid)
			}

			if !t.Add(duration).After(closeAt) {
				if !t.Before(horizonEnd) {
					return t, false
				}
				return t, true
			}
		}

		// Закрыто или до закрытия не успеваем - со следующего дня
		t = localtime.StartOfDay(t).AddDate(0, 0, 1)
	}

	return t, false
}

// requiredDuration длительность слота: номинальная длительность услуги,
// сокращённая на буферный процент точки, с округлением вниз до целых минут
func requiredDuration(serviceMinutes int, bufferPercent float64) int {
	reduced := int(float64(serviceMinutes) * (1 - bufferPercent/100))
	if reduced <= 0 {
		return serviceMinutes
	}
	return reduced
}

// staffIntervals раскладывает активные бронирования по мастерам,
// переводя интервалы в локальное время точки
func staffIntervals(bookings []*domain.Booking, norm localtime.Normalizer) map[int64][]interval {
	result := make(map[int64][]interval)
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		result[b.StaffID] = append(result[b.StaffID], interval{
			start: norm.ToLocal(b.StartAt),
			end:   norm.ToLocal(b.EndAt),
		})
	}

	for staffID := range result {
		ivs := result[staffID]
		sort.Slice(ivs, func(i, j int) bool { return ivs[i].start.Before(ivs[j].start) })
	}

	return result
}

// insertInterval добавляет занятый интервал с сохранением сортировки
// Используется внутри тика, чтобы следующие записи видели только что
// созданную бронь
func insertInterval(ivs []interval, iv interval) []interval {
	pos := sort.Search(len(ivs), func(i int) bool { return ivs[i].start.After(iv.start) })
	ivs = append(ivs, interval{})
	copy(ivs[pos+1:], ivs[pos:])
	ivs[pos] = iv
	return ivs
}
