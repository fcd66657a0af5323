package service_test

import (
	"testing"
	"time"

	"github.com/kinboard/kinboard/internal/service"
	"github.com/kinboard/kinboard/pkg/entity"
	"github.com/stretchr/testify/assert"
)

func TestComputeFamilyStats(t *testing.T) {
	now := time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)
	ts := func(t time.Time) *time.Time { return &t }

	t.Run("empty list", func(t *testing.T) {
		stats := service.ComputeFamilyStats(nil, now)
		assert.Equal(t, entity.FamilyStats{}, stats)
	})

	t.Run("completion rate rounds", func(t *testing.T) {
		tasks := []*entity.Task{
			{Status: entity.StatusCompleted},
			{Status: entity.StatusCompleted},
			{Status: entity.StatusCompleted},
			{Status: entity.StatusNotStarted},
		}
		stats := service.ComputeFamilyStats(tasks, now)
		assert.Equal(t, 4, stats.TotalTasks)
		assert.Equal(t, 3, stats.CompletedTasks)
		assert.Equal(t, 75, stats.CompletionRate)
	})

	t.Run("rate rounds half up", func(t *testing.T) {
		tasks := []*entity.Task{
			{Status: entity.StatusCompleted},
			{Status: entity.StatusNotStarted},
			{Status: entity.StatusNotStarted},
		}
		// 1/3 = 33.33 -> 33
		stats := service.ComputeFamilyStats(tasks, now)
		assert.Equal(t, 33, stats.CompletionRate)
	})

	t.Run("completed today uses calendar day bounds", func(t *testing.T) {
		tasks := []*entity.Task{
			{Status: entity.StatusCompleted, CompletedAt: ts(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))},
			{Status: entity.StatusCompleted, CompletedAt: ts(time.Date(2024, 1, 10, 23, 59, 59, 0, time.UTC))},
			{Status: entity.StatusCompleted, CompletedAt: ts(time.Date(2024, 1, 9, 23, 59, 59, 0, time.UTC))},
			{Status: entity.StatusCompleted, CompletedAt: ts(time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC))},
		}
		stats := service.ComputeFamilyStats(tasks, now)
		assert.Equal(t, 2, stats.CompletedToday)
	})

	t.Run("due this week counts overdue but not completed", func(t *testing.T) {
		tasks := []*entity.Task{
			// overdue since last week, still open
			{Status: entity.StatusNotStarted, DueDate: ts(now.AddDate(0, 0, -3))},
			// due within the window
			{Status: entity.StatusInProgress, DueDate: ts(now.AddDate(0, 0, 5))},
			// beyond the window
			{Status: entity.StatusNotStarted, DueDate: ts(now.AddDate(0, 0, 8))},
			// due soon but already done
			{Status: entity.StatusCompleted, DueDate: ts(now.AddDate(0, 0, 2))},
			// no due date
			{Status: entity.StatusNotStarted},
		}
		stats := service.ComputeFamilyStats(tasks, now)
		assert.Equal(t, 2, stats.DueThisWeek)
	})
}
