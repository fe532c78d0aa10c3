package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/ByLCY/bookcard/card"
	"github.com/ByLCY/bookcard/cssvalue"
)

// 竖排改写在克隆文档上把横排正文重排为右起竖列，复现传统的竖排
// 排版顺序：前 N 个字落在最右侧一列，列内自上而下，整体从右往左。

// 竖排相关的尺寸常量。
const (
	// verticalChrome 是为页眉/页脚（日期、书名、作者、印章）预留的高度。
	verticalChrome = 150
	// verticalMinHeight 是列高计算的下限。
	verticalMinHeight = 300
	// verticalColumnMargin 是每列左右各留的间距。
	verticalColumnMargin = 4
	// verticalFallbackChars 在列高不可用时充当每列字数。
	verticalFallbackChars = 10
)

// 竖排改写生成的节点 class，渲染与二次布局按它们识别结构。
const (
	ClassVerticalText   = "vertical-text"
	ClassVerticalColumn = "vertical-column"
)

// ApplyVerticalLayout 在 doc 上原地执行竖排改写。doc 应当是克隆文档：
// 原横排正文节点只被隐藏不被移除，新的列容器插在它前面。
// 本函数不防重复调用，同一份克隆上调用两次会叠加出重复的列，
// 调用方必须保证每份克隆至多改写一次。
func ApplyVerticalLayout(doc *card.Document) {
	cardEl := doc.GetElementByID(card.CardID)
	if cardEl == nil {
		return
	}
	body := cardEl.QueryClass(card.ClassCardBody)
	text := cardEl.QueryClass(card.ClassTextContent)
	if body == nil || text == nil {
		return
	}

	fontSize := styleLength(text.Style, "font-size", 20)
	fontFamily := text.Style.Get("font-family")
	color := text.Style.Get("color")
	if color == "" {
		color = "#333"
	}
	lineHeight := resolveLineHeight(text.Style, fontSize)

	// 所有空白（含换行）折叠为单个空格后按码点拆字
	collapsed := strings.Join(strings.Fields(text.Text), " ")
	chars := []rune(collapsed)

	cardHeight := styleLength(cardEl.Style, "height", 0)
	maxHeight := math.Max(verticalMinHeight, cardHeight-verticalChrome)
	charsPerColumn := CharsPerColumn(maxHeight, lineHeight)

	container := doc.CreateElement("div")
	container.Class = ClassVerticalText
	container.Style.Set("display", "flex")
	container.Style.Set("flex-direction", "row-reverse")
	container.Style.Set("justify-content", "center")
	container.Style.Set("align-items", "flex-start")

	for i := 0; i < len(chars); i += charsPerColumn {
		column := doc.CreateElement("div")
		column.Class = ClassVerticalColumn
		column.Style.Set("margin", fmt.Sprintf("0 %dpx", verticalColumnMargin))

		end := i + charsPerColumn
		if end > len(chars) {
			end = len(chars)
		}
		for _, ch := range chars[i:end] {
			span := doc.CreateElement("span")
			span.Text = string(ch)
			span.Style.Set("font-size", fmt.Sprintf("%gpx", fontSize))
			span.Style.Set("font-family", fontFamily)
			span.Style.Set("line-height", fmt.Sprintf("%gpx", lineHeight))
			span.Style.Set("color", color)
			column.Append(span)
		}
		container.Append(column)
	}

	text.Style.Set("display", "none")
	body.InsertBefore(container, text)
	body.Style.Set("align-items", "center")

	// 正文改为列排后引号脱离正常文档流，固定到对角
	if start := cardEl.QueryClass(card.ClassQuoteStart); start != nil {
		start.Style.Set("position", "absolute")
		start.Style.Set("top", "10px")
		start.Style.Set("right", "20px")
	}
	if end := cardEl.QueryClass(card.ClassQuoteEnd); end != nil {
		end.Style.Set("position", "absolute")
		end.Style.Set("bottom", "10px")
		end.Style.Set("left", "20px")
	}
}

// CharsPerColumn 返回每列可容纳的字数：floor(maxHeight/lineHeight)，
// 结果为 0 或不可计算时取固定值 10。
func CharsPerColumn(maxHeight, lineHeight float64) int {
	if lineHeight <= 0 || math.IsNaN(maxHeight) || math.IsInf(maxHeight, 0) {
		return verticalFallbackChars
	}
	n := int(math.Floor(maxHeight / lineHeight))
	if n <= 0 {
		return verticalFallbackChars
	}
	return n
}

// styleLength 读取样式里的长度值（px），缺失或不可解析时返回 def。
func styleLength(s card.Style, prop string, def float64) float64 {
	raw := s.Get(prop)
	if raw == "" {
		return def
	}
	v, _, err := cssvalue.ParseLength(raw)
	if err != nil {
		return def
	}
	return v
}

// resolveLineHeight 解析 line-height：px 值直接使用，纯数字按字号倍数，
// 缺失时取 1.8 倍字号。
func resolveLineHeight(s card.Style, fontSize float64) float64 {
	raw := s.Get("line-height")
	if raw == "" {
		return fontSize * 1.8
	}
	v, unit, err := cssvalue.ParseLength(raw)
	if err != nil || v <= 0 {
		return fontSize * 1.8
	}
	if unit == "px" {
		return v
	}
	return fontSize * v
}
