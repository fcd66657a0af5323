package views

// Levels are 100 points wide: 0..99 is level 1, 100..199 is level 2, and so
// on. Points only ever grow, so levels never go down.

func LevelFor(points int) int {
	if points < 0 {
		points = 0
	}
	return points/100 + 1
}

// ProgressFor reports how far into the current level the user is, in
// percent.
func ProgressFor(points int) int {
	if points < 0 {
		points = 0
	}
	return points % 100
}

// Progress is the level summary shown on a member card.
type Progress struct {
	Points          int `json:"points"`
	Level           int `json:"level"`
	ProgressPercent int `json:"progress_percent"`
}

func ProgressOf(points int) Progress {
	return Progress{
		Points:          points,
		Level:           LevelFor(points),
		ProgressPercent: ProgressFor(points),
	}
}
