package layout

// 印章按字数选用四种固定排布：
//   1 字：单字居中
//   2 字：上下两行
//   3 字：右边一个整列，左边上下两格（右起竖排的习惯）
//   4 字及以上：2x2 网格，只取前四个字，按书写顺序排
// 字号与网页版一致：单字 28、双字 18、其余 16。

// SealCell 是印章内的一个字格，坐标相对印章框左上角。
type SealCell struct {
	Char     string
	X        float64
	Y        float64
	Width    float64
	Height   float64
	FontSize float64
}

// sealCellGap 是网格格子之间的间隙。
const sealCellGap = 2

// SealCells 计算落款文本在 size×size 印章框内的字格。空文本返回 nil。
func SealCells(text string, size float64) []SealCell {
	runes := []rune(text)
	switch n := len(runes); {
	case n == 0:
		return nil
	case n == 1:
		return []SealCell{{Char: string(runes[0]), X: 0, Y: 0, Width: size, Height: size, FontSize: 28}}
	case n == 2:
		half := size / 2
		return []SealCell{
			{Char: string(runes[0]), X: 0, Y: 0, Width: size, Height: half, FontSize: 18},
			{Char: string(runes[1]), X: 0, Y: half, Width: size, Height: half, FontSize: 18},
		}
	case n == 3:
		half := size / 2
		return []SealCell{
			// 首字占满右列
			{Char: string(runes[0]), X: half, Y: 0, Width: half, Height: size, FontSize: 16},
			{Char: string(runes[1]), X: 0, Y: 0, Width: half, Height: half, FontSize: 16},
			{Char: string(runes[2]), X: 0, Y: half, Width: half, Height: half, FontSize: 16},
		}
	default:
		half := (size - sealCellGap) / 2
		step := half + sealCellGap
		cells := make([]SealCell, 0, 4)
		for i := 0; i < 4; i++ {
			col := float64(i % 2)
			row := float64(i / 2)
			cells = append(cells, SealCell{
				Char:     string(runes[i]),
				X:        col * step,
				Y:        row * step,
				Width:    half,
				Height:   half,
				FontSize: 16,
			})
		}
		return cells
	}
}
