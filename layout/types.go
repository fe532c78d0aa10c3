package layout

// 该文件定义布局结果类型，供布局计算与渲染共用。坐标原点在卡片左上角，
// 单位统一为 px。

// Result 保存一张卡片布局后的全部可绘制元素。
type Result struct {
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Texts  []TextBox `json:"texts"`
	Rects  []Rect    `json:"rects,omitempty"`
}

// TextBox 表示一个已经排好坐标的文本块。
type TextBox struct {
	Content    string     `json:"content"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	FontFamily string     `json:"fontFamily"` // CSS font-family 列表
	FontSize   float64    `json:"fontSize"`
	LineHeight float64    `json:"lineHeight"`
	Color      string     `json:"color"`
	Align      string     `json:"align,omitempty"` // left/center/right/justify（默认 left）
	Lines      []TextLine `json:"lines"`
}

// TextLine 表示排版后的一行文本及其宽高。
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
}

// Rect 表示一个矩形（印章边框等装饰）。
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	StrokeColor string  `json:"strokeColor,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	FillColor   string  `json:"fillColor,omitempty"`
	Radius      float64 `json:"radius,omitempty"`
}

// TotalHeight 返回文本块的总高度（各行高度与行间距之和）。
func (tb *TextBox) TotalHeight() float64 {
	var h float64
	for _, line := range tb.Lines {
		h += line.GapBefore + line.Height
	}
	return h
}
