package emotion

import (
	"math"

	"github.com/hiwalabs/hiwa/backend/internal/analysis/color"
)

// Hibiki carries the composite mental-density score and its stage.
type Hibiki struct {
	FAS   float64 `json:"fas"`
	Stage Stage   `json:"stage"`
}

// Vector is the derived emotional state for one (mode, color, weather)
// combination. It is a pure value: recomputed on every input change,
// never mutated in place.
type Vector struct {
	Mode             Mode              `json:"mode"`
	Weather          Weather           `json:"weather"`
	ColorHex         string            `json:"colorHex"`
	ColorHSL         color.HSL         `json:"colorHSL"`
	ColorTemperature color.Temperature `json:"colorTemperature"`
	ColorEmotionHint string            `json:"colorEmotionHint"`
	ColorToneName    string            `json:"colorToneName"`
	SilenceCoeff     float64           `json:"silenceCoeff"`
	VitalityCoeff    float64           `json:"vitalityCoeff"`
	DepthCoeff       float64           `json:"depthCoeff"`
	AdviceBan        bool              `json:"adviceBan"`
	Hibiki           Hibiki            `json:"hibiki"`
}

// Tunable content constants. Empirically chosen; preserved exactly for
// behavioral fidelity. The fas weights sum to 1.0.
var tuning = struct {
	darkColorSilence   float64 // lightness < 25
	dimColorSilence    float64 // lightness < 50
	nightExtraSilence  float64
	vitalityBase       float64
	warmVitality       float64
	sunnyVitality      float64
	vividVitality      float64 // saturation > 70
	depthBase          float64
	vividDepth         float64 // saturation > 60
	dullDepthPenalty   float64 // saturation < 20
	coldDepth          float64
	fantasticalDepth   float64
	sunnyDepthPenalty  float64
	tomoshibiSilence   float64
	tomoshibiDepth     float64
	raimeiVitality     float64
	raimeiSilenceCut   float64
	raimeiDepthCut     float64
	tenbinSilence      float64
	tenbinVitalityCut  float64
	tenbinDepthCut     float64
	fasSilenceWeight   float64
	fasVitalityWeight  float64
	fasDepthWeight     float64
	fasFloor, fasCeil  float64
}{
	darkColorSilence:  0.25,
	dimColorSilence:   0.10,
	nightExtraSilence: 0.10,
	vitalityBase:      0.30,
	warmVitality:      0.30,
	sunnyVitality:     0.20,
	vividVitality:     0.15,
	depthBase:         0.30,
	vividDepth:        0.15,
	dullDepthPenalty:  0.10,
	coldDepth:         0.20,
	fantasticalDepth:  0.20,
	sunnyDepthPenalty: 0.10,
	tomoshibiSilence:  0.10,
	tomoshibiDepth:    0.15,
	raimeiVitality:    0.30,
	raimeiSilenceCut:  0.20,
	raimeiDepthCut:    0.10,
	tenbinSilence:     0.10,
	tenbinVitalityCut: 0.15,
	tenbinDepthCut:    0.15,
	fasSilenceWeight:  0.40,
	fasVitalityWeight: 0.35,
	fasDepthWeight:    0.25,
	fasFloor:          0.100,
	fasCeil:           0.999,
}

// Compute derives the emotion vector for a (mode, color, weather)
// combination. Unknown mode or weather ids fall back to the catalog
// defaults; the function never fails. Pure: identical inputs yield
// identical output.
func Compute(modeID, colorHex, weatherID string) Vector {
	mode, ok := FindMode(modeID)
	if !ok {
		mode = DefaultMode()
	}
	weather, ok := FindWeather(weatherID)
	if !ok {
		weather = DefaultWeather()
	}

	hsl := color.HSLFromHex(colorHex)
	temp := color.ClassifyTemperature(hsl)

	// Silence axis: how much is left unsaid. Weather quietness plus
	// darkness of the chosen color.
	silence := weather.SilenceWeight
	if hsl.L < 25 {
		silence += tuning.darkColorSilence
	} else if hsl.L < 50 {
		silence += tuning.dimColorSilence
	}
	if weather.MostSilent() {
		silence += tuning.nightExtraSilence
	}
	silence = math.Min(silence, 1.0)

	// Vitality axis: how forceful the response is. Color warmth,
	// weather brightness and saturation.
	vitality := tuning.vitalityBase
	if temp == color.Warm {
		vitality += tuning.warmVitality
	}
	if weather.Sunniest() {
		vitality += tuning.sunnyVitality
	}
	if hsl.S > 70 {
		vitality += tuning.vividVitality
	}
	vitality = math.Min(vitality, 1.0)

	// Depth axis: figurative versus literal register. Independent of
	// silence — silence is quantity, depth is quality.
	depth := tuning.depthBase
	if hsl.S > 60 {
		depth += tuning.vividDepth
	}
	if hsl.S < 20 {
		depth -= tuning.dullDepthPenalty
	}
	if temp == color.Cold {
		depth += tuning.coldDepth
	}
	if weather.Fantastical() {
		depth += tuning.fantasticalDepth
	}
	if weather.Sunniest() {
		depth -= tuning.sunnyDepthPenalty
	}
	depth = clamp01(depth)

	// Advice ban is decided from the pre-adjustment silence value.
	adviceBan := (silence > 0.5 && mode.ID != ModeRaimei) ||
		(weather.ID == WeatherRainy && temp == color.Cold) ||
		weather.ID == WeatherNight

	// Mode-specific final adjustment.
	switch mode.ID {
	case ModeTomoshibi:
		silence = math.Min(silence+tuning.tomoshibiSilence, 1.0)
		depth = math.Min(depth+tuning.tomoshibiDepth, 1.0)
	case ModeRaimei:
		vitality = math.Min(vitality+tuning.raimeiVitality, 1.0)
		silence = math.Max(silence-tuning.raimeiSilenceCut, 0.0)
		depth = math.Max(depth-tuning.raimeiDepthCut, 0.0)
	case ModeTenbin:
		silence = math.Min(silence+tuning.tenbinSilence, 1.0)
		vitality = math.Max(vitality-tuning.tenbinVitalityCut, 0.0)
		depth = math.Max(depth-tuning.tenbinDepthCut, 0.0)
	}

	sc := round2(silence)
	vc := round2(vitality)
	dc := round2(depth)

	fas := mentalDensity(sc, vc, dc)

	return Vector{
		Mode:             mode,
		Weather:          weather,
		ColorHex:         colorHex,
		ColorHSL:         hsl,
		ColorTemperature: temp,
		ColorEmotionHint: color.DescribeEmotionHint(hsl),
		ColorToneName:    color.DescribeToneName(hsl),
		SilenceCoeff:     sc,
		VitalityCoeff:    vc,
		DepthCoeff:       dc,
		AdviceBan:        adviceBan,
		Hibiki:           Hibiki{FAS: fas, Stage: Classify(fas)},
	}
}

// mentalDensity folds the three axes into a single [0.100, 0.999] score.
// An asymmetric weighted sum, not a distance or probability.
func mentalDensity(silence, vitality, depth float64) float64 {
	fas := silence*tuning.fasSilenceWeight +
		vitality*tuning.fasVitalityWeight +
		depth*tuning.fasDepthWeight
	fas = math.Max(tuning.fasFloor, math.Min(tuning.fasCeil, fas))
	return math.Round(fas*1000) / 1000
}

func clamp01(v float64) float64 {
	return math.Max(0.0, math.Min(v, 1.0))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
