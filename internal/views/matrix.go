// Package views holds the pure display-time derivations: stateless
// transformations recomputed from the latest fetched collections, nothing
// here is ever persisted.
package views

import "github.com/kinboard/kinboard/pkg/entity"

// Matrix partitions a family's tasks into the four Eisenhower buckets.
type Matrix struct {
	DoFirst  []*entity.Task `json:"do_first"`  // quadrant 1: urgent + important
	Schedule []*entity.Task `json:"schedule"`  // quadrant 2: important, not urgent
	Delegate []*entity.Task `json:"delegate"`  // quadrant 3: urgent, not important
	Drop     []*entity.Task `json:"drop"`      // quadrant 4: neither
}

// BuildMatrix buckets tasks by quadrant. Tasks with a quadrant outside 1..4
// can't exist per the schema and are skipped if they somehow appear.
func BuildMatrix(tasks []*entity.Task) Matrix {
	m := Matrix{
		DoFirst:  make([]*entity.Task, 0),
		Schedule: make([]*entity.Task, 0),
		Delegate: make([]*entity.Task, 0),
		Drop:     make([]*entity.Task, 0),
	}
	for _, task := range tasks {
		switch task.Quadrant {
		case 1:
			m.DoFirst = append(m.DoFirst, task)
		case 2:
			m.Schedule = append(m.Schedule, task)
		case 3:
			m.Delegate = append(m.Delegate, task)
		case 4:
			m.Drop = append(m.Drop, task)
		}
	}
	return m
}

// BucketSizes reports how many tasks sit in each quadrant, keys 1..4 always
// present.
func BucketSizes(tasks []*entity.Task) map[int]int {
	sizes := map[int]int{1: 0, 2: 0, 3: 0, 4: 0}
	for _, task := range tasks {
		if task.Quadrant >= 1 && task.Quadrant <= 4 {
			sizes[task.Quadrant]++
		}
	}
	return sizes
}
