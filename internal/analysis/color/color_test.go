package color

import "testing"

func TestParseHex(t *testing.T) {
	r, g, b, ok := ParseHex("#DC143C")
	if !ok || r != 220 || g != 20 || b != 60 {
		t.Fatalf("unexpected parse result: %d,%d,%d ok=%v", r, g, b, ok)
	}

	if _, _, _, ok := ParseHex("dc143c"); !ok {
		t.Fatal("expected bare hex without # to parse")
	}

	if _, _, _, ok := ParseHex("#12345"); ok {
		t.Fatal("expected short hex to fail")
	}
}

func TestRGBToHSLKnownColors(t *testing.T) {
	cases := []struct {
		name    string
		r, g, b int
		want    HSL
	}{
		{"crimson", 220, 20, 60, HSL{H: 348, S: 83, L: 47}},
		{"midnight blue", 25, 25, 112, HSL{H: 240, S: 64, L: 27}},
		{"white", 255, 255, 255, HSL{H: 0, S: 0, L: 100}},
		{"black", 0, 0, 0, HSL{H: 0, S: 0, L: 0}},
		{"gray", 128, 128, 128, HSL{H: 0, S: 0, L: 50}},
	}

	for _, tc := range cases {
		got := RGBToHSL(tc.r, tc.g, tc.b)
		if got != tc.want {
			t.Errorf("%s: got %+v want %+v", tc.name, got, tc.want)
		}
	}
}

func TestHSLFromHexMalformedFallsBack(t *testing.T) {
	got := HSLFromHex("not-a-color")
	if got != (HSL{H: 0, S: 0, L: 50}) {
		t.Fatalf("expected mid-gray fallback, got %+v", got)
	}
}

func TestClassifyTemperatureRuleOrder(t *testing.T) {
	cases := []struct {
		name string
		hsl  HSL
		want Temperature
	}{
		// saturation rule fires before lightness: dark but desaturated is neutral
		{"desaturated dark", HSL{H: 240, S: 10, L: 5}, Neutral},
		{"saturated dark", HSL{H: 30, S: 50, L: 10}, Cold},
		{"near white", HSL{H: 30, S: 50, L: 95}, Neutral},
		{"warm red", HSL{H: 0, S: 80, L: 50}, Warm},
		{"warm wraparound", HSL{H: 340, S: 80, L: 50}, Warm},
		{"cold blue", HSL{H: 240, S: 80, L: 50}, Cold},
		{"green midband", HSL{H: 120, S: 80, L: 50}, Neutral},
	}

	for _, tc := range cases {
		if got := ClassifyTemperature(tc.hsl); got != tc.want {
			t.Errorf("%s: got %s want %s", tc.name, got, tc.want)
		}
	}
}

func TestClassifyTemperatureBoundaries(t *testing.T) {
	// s == 15 is not below the neutral threshold
	if got := ClassifyTemperature(HSL{H: 0, S: 15, L: 50}); got != Warm {
		t.Fatalf("s=15 should pass the saturation gate, got %s", got)
	}
	// l == 15 is not below the cold threshold
	if got := ClassifyTemperature(HSL{H: 120, S: 50, L: 15}); got != Neutral {
		t.Fatalf("l=15 should not classify cold, got %s", got)
	}
	// l == 90 is not above the neutral threshold
	if got := ClassifyTemperature(HSL{H: 0, S: 50, L: 90}); got != Warm {
		t.Fatalf("l=90 should not classify neutral, got %s", got)
	}
}

func TestDescribeEmotionHintExhaustive(t *testing.T) {
	for h := 0; h < 360; h += 5 {
		for _, s := range []int{0, 9, 10, 50, 100} {
			for _, l := range []int{0, 19, 20, 50, 85, 86, 100} {
				if hint := DescribeEmotionHint(HSL{H: h, S: s, L: l}); hint == "" {
					t.Fatalf("empty hint for h=%d s=%d l=%d", h, s, l)
				}
			}
		}
	}
}

func TestDescribeToneName(t *testing.T) {
	if got := DescribeToneName(HSL{H: 240, S: 5, L: 50}); got != "無彩色（静かな中立）" {
		t.Fatalf("unexpected achromatic tone: %s", got)
	}
	if got := DescribeToneName(HSL{H: 240, S: 64, L: 27}); got != "藍系（静謐で深い口調）" {
		t.Fatalf("unexpected indigo tone: %s", got)
	}
	if got := DescribeToneName(HSL{H: 348, S: 83, L: 47}); got != "赤系（熱を帯びた口調）" {
		t.Fatalf("unexpected red tone: %s", got)
	}
}
