package color

import "math"

// Anchor is a fixed reference color with its associated emotion keywords,
// used for nearest-neighbor color→keyword lookup.
type Anchor struct {
	R        int    `json:"r"`
	G        int    `json:"g"`
	B        int    `json:"b"`
	Keywords string `json:"keywords"`
	Label    string `json:"label"`
}

// Anchors returns the immutable anchor catalog. Order is significant:
// nearest-neighbor ties resolve to the earliest entry.
func Anchors() []Anchor {
	return []Anchor{
		{R: 220, G: 20, B: 60, Keywords: "情熱, 怒り, エネルギー, 焦り", Label: "赤"},
		{R: 25, G: 25, B: 112, Keywords: "静寂, 深い悲しみ, 孤独, 沈静, 冷たい雨", Label: "深い青"},
		{R: 0, G: 191, B: 255, Keywords: "自由, 開放感, 希望, 冷静, 空", Label: "水色"},
		{R: 34, G: 139, B: 34, Keywords: "癒し, 成長, 安らぎ, 調和, 自然", Label: "森の緑"},
		{R: 255, G: 215, B: 0, Keywords: "幸福, 輝き, 成功, 楽観, 光", Label: "金"},
		{R: 138, G: 43, B: 226, Keywords: "神秘, 不安, 高貴, 創造性, 魔法", Label: "紫"},
		{R: 255, G: 105, B: 180, Keywords: "愛情, 優しさ, 甘え, 依存, 恋", Label: "ピンク"},
		{R: 255, G: 140, B: 0, Keywords: "陽気, 社交的, 活発, 興奮, 太陽", Label: "オレンジ"},
		{R: 128, G: 128, B: 128, Keywords: "迷い, 曖昧, 中立, 不安, 曇り", Label: "グレー"},
		{R: 0, G: 0, B: 0, Keywords: "恐怖, 絶望, 拒絶, 終焉, 闇", Label: "黒"},
		{R: 255, G: 255, B: 255, Keywords: "純粋, 空白, リセット, 真実, 光", Label: "白"},
		{R: 139, G: 69, B: 19, Keywords: "安定, 堅実, 保守, 大地, 根", Label: "茶"},
		{R: 0, G: 255, B: 127, Keywords: "新しい始まり, 新鮮, 生命力, 若さ", Label: "春の緑"},
		{R: 70, G: 130, B: 180, Keywords: "信頼, 誠実, 知性, 落ち着き, 鋼", Label: "スチール青"},
		{R: 220, G: 20, B: 147, Keywords: "激しい感情, 衝動, 大胆, 挑発", Label: "濃いピンク"},
		{R: 176, G: 196, B: 222, Keywords: "儚さ, 記憶, 遠い過去, 淡い夢", Label: "淡い青"},
		{R: 255, G: 250, B: 205, Keywords: "安堵, 微かな希望, ぬくもり, 日差し", Label: "レモン"},
		{R: 47, G: 79, B: 79, Keywords: "重圧, 抑圧, 閉塞感, 深海", Label: "ダークスレート"},
		{R: 255, G: 99, B: 71, Keywords: "警告, 危険, 緊急, 注目", Label: "トマト赤"},
		{R: 147, G: 112, B: 219, Keywords: "直感, インスピレーション, 夢想, 霊性", Label: "ラベンダー"},
	}
}

// Nearest returns the anchor closest to (r,g,b) by Euclidean distance in
// RGB space, iterating the catalog in stable order so the first minimum
// wins.
func Nearest(r, g, b int, anchors []Anchor) Anchor {
	best := anchors[0]
	bestDist := math.Inf(1)

	for _, a := range anchors {
		dr := float64(r - a.R)
		dg := float64(g - a.G)
		db := float64(b - a.B)
		dist := math.Sqrt(dr*dr + dg*dg + db*db)
		if dist < bestDist {
			bestDist = dist
			best = a
		}
	}
	return best
}
