package history

import "github.com/hiwalabs/hiwa/backend/internal/model/history"

// Project maps history entries onto the constellation plane: x is the
// vitality coefficient, y is the depth coefficient, both already in
// [0,1]. Point size grows with the session's message count, and the
// color is the session's ambient color when one was captured, falling
// back to the originally selected color.
func Project(entries []history.Entry) []history.ConstellationPoint {
	points := make([]history.ConstellationPoint, 0, len(entries))
	for _, e := range entries {
		color := e.AmbientColorHex
		if color == "" {
			color = e.ColorHex
		}
		points = append(points, history.ConstellationPoint{
			X:     e.VitalityCoeff,
			Y:     e.DepthCoeff,
			Size:  pointSize(e.MessageCount),
			Color: color,
			Entry: e,
		})
	}
	return points
}

func pointSize(messageCount int) float64 {
	size := float64(messageCount) * 1.5
	if size < 3 {
		return 3
	}
	if size > 12 {
		return 12
	}
	return size
}
