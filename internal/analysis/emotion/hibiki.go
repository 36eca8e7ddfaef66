package emotion

// Stage is one band of the six-step HIBIKI emotional spectrum. Threshold
// is the exclusive upper bound of the density score covered by the band.
type Stage struct {
	Threshold       float64 `json:"threshold"`
	Title           string  `json:"title"`
	EnglishLabel    string  `json:"en"`
	Description     string  `json:"description"`
	Color           string  `json:"color"`
	ParticleDensity int     `json:"particleDensity"`
}

// Stages returns the ordered HIBIKI bands. Thresholds are strictly
// increasing and cover the full [0,1] range.
func Stages() []Stage {
	return []Stage{
		{Threshold: 0.20, Title: "凪", EnglishLabel: "NAGI", Description: "静寂の水面", Color: "#a5f3fc", ParticleDensity: 2},
		{Threshold: 0.40, Title: "波", EnglishLabel: "NAMI", Description: "揺らぐ感情", Color: "#60a5fa", ParticleDensity: 5},
		{Threshold: 0.55, Title: "霧", EnglishLabel: "KIRI", Description: "視界の混濁", Color: "#94a3b8", ParticleDensity: 8},
		{Threshold: 0.70, Title: "雲", EnglishLabel: "KUMO", Description: "予兆と重圧", Color: "#64748b", ParticleDensity: 15},
		{Threshold: 0.85, Title: "雷", EnglishLabel: "IKAZUCHI", Description: "激越な衝動", Color: "#fbbf24", ParticleDensity: 25},
		{Threshold: 1.00, Title: "焔", EnglishLabel: "HOMURA", Description: "全てを焦がす", Color: "#ef4444", ParticleDensity: 40},
	}
}

// Classify maps a mental-density score to its HIBIKI stage: the first
// band whose threshold is >= the score wins, so boundaries are
// upper-inclusive. Scores beyond 1.00 fall back to the last band, which
// cannot happen for clamped fas values.
func Classify(fas float64) Stage {
	stages := Stages()
	for _, s := range stages {
		if fas <= s.Threshold {
			return s
		}
	}
	return stages[len(stages)-1]
}
