package career

// Stage is a growth stage with the progress value it maps to.
type Stage struct {
	Name     string
	Progress int
}

// Stages lists the growth stages in order.
var Stages = []Stage{
	{"Seed", 15},
	{"Sprout", 35},
	{"Sapling", 55},
	{"Young Tree", 75},
	{"Mature Tree", 95},
}

// StageProgress returns the progress of a stage name; unknown stages map to
// the Seed value.
func StageProgress(stage string) int {
	for _, s := range Stages {
		if s.Name == stage {
			return s.Progress
		}
	}
	return Stages[0].Progress
}
