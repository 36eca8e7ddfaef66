package color

import "testing"

func TestNearestExactMatch(t *testing.T) {
	anchors := Anchors()
	got := Nearest(25, 25, 112, anchors)
	if got.Label != "深い青" {
		t.Fatalf("expected exact anchor match, got %s", got.Label)
	}
}

func TestNearestPicksClosest(t *testing.T) {
	got := Nearest(250, 20, 60, Anchors())
	if got.Label != "赤" {
		t.Fatalf("expected 赤 for near-crimson input, got %s", got.Label)
	}
}

func TestNearestTieBreaksByCatalogOrder(t *testing.T) {
	anchors := []Anchor{
		{R: 0, G: 0, B: 0, Label: "first"},
		{R: 0, G: 0, B: 0, Label: "second"},
	}
	if got := Nearest(0, 0, 0, anchors); got.Label != "first" {
		t.Fatalf("tie should resolve to first catalog entry, got %s", got.Label)
	}
}

func TestAnchorsCatalogSize(t *testing.T) {
	if n := len(Anchors()); n != 20 {
		t.Fatalf("expected 20 anchors, got %d", n)
	}
}
