package views

import (
	"time"

	"github.com/kinboard/kinboard/pkg/entity"
)

// TodaysTasks filters tasks due within the current calendar day. Tasks
// without a due date count as due today.
func TodaysTasks(tasks []*entity.Task, now time.Time) []*entity.Task {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	nextDay := startOfDay.AddDate(0, 0, 1)
	today := make([]*entity.Task, 0)
	for _, task := range tasks {
		if task.DueDate == nil {
			today = append(today, task)
			continue
		}
		if !task.DueDate.Before(startOfDay) && task.DueDate.Before(nextDay) {
			today = append(today, task)
		}
	}
	return today
}
