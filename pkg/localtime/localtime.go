package localtime

import (
	"fmt"
	"time"
)

// Normalizer конвертирует моменты времени между UTC (хранение)
// и локальным временем точки (фиксированное смещение, без учёта DST)
type Normalizer struct {
	offsetMinutes int
	loc           *time.Location
}

// NewNormalizer создает Normalizer для фиксированного смещения в минутах
// Например, для UTC-3 (Сан-Паулу) offsetMinutes = -180
func NewNormalizer(offsetMinutes int) Normalizer {
	name := fmt.Sprintf("UTC%+03d:%02d", offsetMinutes/60, abs(offsetMinutes%60))
	return Normalizer{
		offsetMinutes: offsetMinutes,
		loc:           time.FixedZone(name, offsetMinutes*60),
	}
}

// OffsetMinutes возвращает смещение в минутах относительно UTC
func (n Normalizer) OffsetMinutes() int {
	return n.offsetMinutes
}

// Location возвращает time.Location фиксированной зоны
func (n Normalizer) Location() *time.Location {
	return n.loc
}

// ToLocal переводит момент времени в локальное представление точки
func (n Normalizer) ToLocal(t time.Time) time.Time {
	return t.In(n.loc)
}

// ToUTC переводит локальный момент времени обратно в UTC для хранения
func (n Normalizer) ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// RoundUpToGrid округляет время вверх до ближайшей границы сетки в минутах
// с переносом в следующий час при переходе через 60
// Время, уже стоящее на границе сетки (с нулевыми секундами), не меняется
func RoundUpToGrid(t time.Time, gridMinutes int) time.Time {
	if gridMinutes <= 0 {
		return t
	}

	// Отбрасываем секунды, округляя минуту вверх
	if t.Second() != 0 || t.Nanosecond() != 0 {
		t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location()).
			Add(time.Minute)
	}

	if rem := t.Minute() % gridMinutes; rem != 0 {
		t = t.Add(time.Duration(gridMinutes-rem) * time.Minute)
	}

	return t
}

// StartOfDay возвращает полночь того же дня в той же зоне
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AtWallClock возвращает момент указанного дня с заданным временем дня в минутах
func AtWallClock(day time.Time, minutesFromMidnight int) time.Time {
	return StartOfDay(day).Add(time.Duration(minutesFromMidnight) * time.Minute)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
