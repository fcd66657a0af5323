package service

import (
	"math"
	"time"

	"github.com/kinboard/kinboard/pkg/entity"
)

// ComputeFamilyStats derives dashboard counters from a family's full task
// list. Nothing here is persisted, the numbers are recomputed per request.
func ComputeFamilyStats(tasks []*entity.Task, now time.Time) entity.FamilyStats {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	nextDay := startOfDay.AddDate(0, 0, 1)
	weekAhead := now.AddDate(0, 0, 7)

	var completed, completedToday, dueThisWeek int
	for _, task := range tasks {
		if task.Status == entity.StatusCompleted {
			completed++
		}
		if task.CompletedAt != nil && !task.CompletedAt.Before(startOfDay) && task.CompletedAt.Before(nextDay) {
			completedToday++
		}
		// Deliberately no lower bound: overdue tasks keep counting as due
		// this week until someone finishes them
		if task.DueDate != nil && task.Status != entity.StatusCompleted && !task.DueDate.After(weekAhead) {
			dueThisWeek++
		}
	}

	rate := 0
	if len(tasks) > 0 {
		rate = int(math.Round(float64(completed) / float64(len(tasks)) * 100))
	}

	return entity.FamilyStats{
		TotalTasks:     len(tasks),
		CompletedTasks: completed,
		CompletedToday: completedToday,
		DueThisWeek:    dueThisWeek,
		CompletionRate: rate,
	}
}
