package views

import (
	"time"

	"github.com/kinboard/kinboard/pkg/entity"
)

// DayKey identifies a calendar day in the month view.
type DayKey struct {
	Year  int
	Month time.Month
	Day   int
}

// HourKey identifies a day+hour slot in the week and day views.
type HourKey struct {
	DayKey
	Hour int
}

func dayKeyOf(t time.Time) DayKey {
	return DayKey{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// EventsByDay groups events by the calendar day of their start time.
func EventsByDay(events []*entity.Event) map[DayKey][]*entity.Event {
	buckets := make(map[DayKey][]*entity.Event)
	for _, event := range events {
		key := dayKeyOf(event.StartTime)
		buckets[key] = append(buckets[key], event)
	}
	return buckets
}

// EventsByDayHour groups events by start day and hour.
func EventsByDayHour(events []*entity.Event) map[HourKey][]*entity.Event {
	buckets := make(map[HourKey][]*entity.Event)
	for _, event := range events {
		key := HourKey{DayKey: dayKeyOf(event.StartTime), Hour: event.StartTime.Hour()}
		buckets[key] = append(buckets[key], event)
	}
	return buckets
}
