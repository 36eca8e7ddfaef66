package emotion

// Mode is one of the fixed conversational personas. The catalog is
// immutable; a mode is selected once per session.
type Mode struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Sub         string `json:"sub"`
	Description string `json:"description"`
	BasePersona string `json:"basePersona"`
	Color       string `json:"color"`
}

// Mode identifiers.
const (
	ModeTomoshibi = "TOMOSHIBI" // 灯火 — empathic mirroring
	ModeRaimei    = "RAIMEI"    // 雷鳴 — energizing push
	ModeTenbin    = "TENBIN"    // 天秤 — analytic reflection
)

// Modes returns the fixed persona catalog.
func Modes() []Mode {
	return []Mode{
		{
			ID:          ModeTomoshibi,
			Label:       "灯火",
			Sub:         "共感",
			Description: "ただ寄り添い、あなたの感情をそのまま映す",
			BasePersona: "あなたは「灯火」。相手の感情に静かに寄り添い、否定も肯定もせず、ただそこにいる存在。",
			Color:       "#f59e0b",
		},
		{
			ID:          ModeRaimei,
			Label:       "雷鳴",
			Sub:         "鼓舞",
			Description: "力強い言葉であなたの背中を押す",
			BasePersona: "あなたは「雷鳴」。相手の内に眠る力を感じ取り、短く鋭い言葉で背中を押す存在。",
			Color:       "#8b5cf6",
		},
		{
			ID:          ModeTenbin,
			Label:       "天秤",
			Sub:         "分析",
			Description: "感情を映し、静かに整理する",
			BasePersona: "あなたは「天秤」。感情を排し、相手の言葉の核心だけを静かに映す観測者。",
			Color:       "#64748b",
		},
	}
}

// FindMode looks up a mode by identifier.
func FindMode(id string) (Mode, bool) {
	for _, m := range Modes() {
		if m.ID == id {
			return m, true
		}
	}
	return Mode{}, false
}

// DefaultMode is the fallback when an unknown mode id reaches the engine.
func DefaultMode() Mode {
	return Modes()[0]
}

// Weather is one of the fixed simulated environments biasing the
// silence and depth coefficients.
type Weather struct {
	ID            string  `json:"id"`
	Label         string  `json:"label"`
	SilenceWeight float64 `json:"silenceWeight"`
	WarmthBias    float64 `json:"warmthBias"`
}

// Weather identifiers.
const (
	WeatherSunny  = "sunny"
	WeatherCloudy = "cloudy"
	WeatherRainy  = "rainy"
	WeatherSnowy  = "snowy"
	WeatherNight  = "night"
)

// Weathers returns the fixed weather catalog.
func Weathers() []Weather {
	return []Weather{
		{ID: WeatherSunny, Label: "晴れ", SilenceWeight: 0.0, WarmthBias: 0.2},
		{ID: WeatherCloudy, Label: "曇り", SilenceWeight: 0.2, WarmthBias: 0.0},
		{ID: WeatherRainy, Label: "雨", SilenceWeight: 0.5, WarmthBias: -0.1},
		{ID: WeatherSnowy, Label: "雪", SilenceWeight: 0.4, WarmthBias: -0.2},
		{ID: WeatherNight, Label: "深夜", SilenceWeight: 0.7, WarmthBias: -0.3},
	}
}

// FindWeather looks up a weather by identifier.
func FindWeather(id string) (Weather, bool) {
	for _, w := range Weathers() {
		if w.ID == id {
			return w, true
		}
	}
	return Weather{}, false
}

// DefaultWeather is the fallback when an unknown weather id reaches the
// engine.
func DefaultWeather() Weather {
	return Weathers()[0]
}

// MostSilent reports whether this is the quietest catalog entry (night).
func (w Weather) MostSilent() bool { return w.ID == WeatherNight }

// Sunniest reports whether this is the brightest catalog entry.
func (w Weather) Sunniest() bool { return w.ID == WeatherSunny }

// Fantastical reports whether the environment pushes toward figurative,
// inward responses (snow and night).
func (w Weather) Fantastical() bool {
	return w.ID == WeatherSnowy || w.ID == WeatherNight
}
