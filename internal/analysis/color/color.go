package color

import (
	"math"
	"regexp"
	"strconv"
)

// HSL holds a color in hue/saturation/lightness form.
// H is in [0,360), S and L are percentages in [0,100].
type HSL struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// Temperature classifies a color as warm, cold or neutral.
type Temperature string

const (
	Warm    Temperature = "warm"
	Cold    Temperature = "cold"
	Neutral Temperature = "neutral"
)

var hexPattern = regexp.MustCompile(`^#?([a-fA-F0-9]{2})([a-fA-F0-9]{2})([a-fA-F0-9]{2})$`)

// ParseHex decodes a 24-bit hex color such as "#DC143C".
// The leading "#" is optional.
func ParseHex(hex string) (r, g, b int, ok bool) {
	m := hexPattern.FindStringSubmatch(hex)
	if m == nil {
		return 0, 0, 0, false
	}
	rv, _ := strconv.ParseInt(m[1], 16, 32)
	gv, _ := strconv.ParseInt(m[2], 16, 32)
	bv, _ := strconv.ParseInt(m[3], 16, 32)
	return int(rv), int(gv), int(bv), true
}

// RGBToHSL converts 8-bit RGB channels to HSL. Achromatic inputs
// yield h=0, s=0.
func RGBToHSL(r, g, b int) HSL {
	rf := float64(r) / 255
	gf := float64(g) / 255
	bf := float64(b) / 255

	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))
	l := (max + min) / 2

	var h, s float64
	if max != min {
		d := max - min
		if l > 0.5 {
			s = d / (2 - max - min)
		} else {
			s = d / (max + min)
		}
		switch max {
		case rf:
			h = (gf - bf) / d
			if gf < bf {
				h += 6
			}
		case gf:
			h = (bf-rf)/d + 2
		case bf:
			h = (rf-gf)/d + 4
		}
		h /= 6
	}

	return HSL{
		H: int(math.Round(h * 360)),
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}

// HSLFromHex is a convenience combining ParseHex and RGBToHSL.
// Malformed input falls back to mid-gray (h=0, s=0, l=50).
func HSLFromHex(hex string) HSL {
	r, g, b, ok := ParseHex(hex)
	if !ok {
		return HSL{H: 0, S: 0, L: 50}
	}
	return RGBToHSL(r, g, b)
}

// ClassifyTemperature maps HSL to a temperature band. The rule order
// matters: the saturation check runs before the lightness checks, so a
// low-saturation dark color is neutral while a saturated dark color is
// cold.
func ClassifyTemperature(hsl HSL) Temperature {
	if hsl.S < 15 {
		return Neutral
	}
	if hsl.L < 15 {
		return Cold
	}
	if hsl.L > 90 {
		return Neutral
	}
	if hsl.H <= 60 || hsl.H >= 330 {
		return Warm
	}
	if hsl.H >= 180 && hsl.H <= 300 {
		return Cold
	}
	return Neutral
}

// DescribeEmotionHint returns the qualitative keyword string for a color.
// Exhaustive over the HSL domain.
func DescribeEmotionHint(hsl HSL) string {
	if hsl.S < 10 {
		switch {
		case hsl.L < 20:
			return "深い沈黙、闇、恐怖"
		case hsl.L > 85:
			return "純粋、空白、リセット"
		default:
			return "曖昧、中立、迷い"
		}
	}

	switch {
	case hsl.H <= 30 || hsl.H >= 340:
		return "情熱、怒り、エネルギー"
	case hsl.H <= 60:
		return "幸福、輝き、温もり"
	case hsl.H <= 150:
		return "癒し、成長、安らぎ"
	case hsl.H <= 210:
		return "自由、開放感、冷静"
	case hsl.H <= 270:
		return "静寂、深い悲しみ、孤独"
	case hsl.H < 340:
		return "神秘、不安、創造性"
	}
	return "複雑な感情"
}

// DescribeToneName returns the tone label used verbatim inside generated
// prompts. Never exposes the raw hex value.
func DescribeToneName(hsl HSL) string {
	if hsl.S < 15 {
		return "無彩色（静かな中立）"
	}
	if hsl.L < 25 {
		return "深い暗色（沈んだトーン）"
	}
	if hsl.L > 80 {
		return "淡い明色（軽やかなトーン）"
	}
	switch {
	case hsl.H <= 30 || hsl.H >= 340:
		return "赤系（熱を帯びた口調）"
	case hsl.H <= 60:
		return "黄系（明るく芯のある口調）"
	case hsl.H <= 150:
		return "緑系（穏やかで自然な口調）"
	case hsl.H <= 210:
		return "青系（冷静で落ち着いた口調）"
	case hsl.H <= 270:
		return "藍系（静謐で深い口調）"
	}
	return "紫系（神秘的で内省的な口調）"
}
