package layout

import (
	"fmt"
	"math"

	"github.com/ByLCY/bookcard/card"
)

// 卡片各区域的固定尺寸（px），与预览样式保持一致。
const (
	paddingX      = 30
	paddingTop    = 30
	paddingBottom = 30

	dateFontSize = 12
	dateGap      = 18

	quoteMarkSize = 32
	quoteMarkGap  = 8

	bookFontSize   = 14
	authorFontSize = 13
	footerGap      = 24
	footerLineGap  = 6

	// SealSize 是印章框的边长。
	SealSize        = 56
	sealStrokeWidth = 2
	sealRadius      = 6

	minCardHeight = 200
)

// 卡片装饰色。
const (
	dateColor      = "#999"
	quoteMarkColor = "#ddd"
	bookColor      = "#666"
	authorColor    = "#999"
	sealColor      = "#c62828"
)

// Build 把卡片元素树排成可绘制的布局结果。display:none 的节点被跳过，
// 竖排改写产生的列容器（class vertical-text）优先于原始正文节点。
func Build(doc *card.Document, opts BuildOptions) (*Result, error) {
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("缺少排版后端")
	}
	cardEl := doc.GetElementByID(card.CardID)
	if cardEl == nil {
		return nil, fmt.Errorf("找不到卡片元素 #%s", card.CardID)
	}

	width := styleLength(cardEl.Style, "width", 400)
	contentWidth := width - 2*paddingX
	result := &Result{Width: width}

	text := cardEl.QueryClass(card.ClassTextContent)
	chromeFamily := "'Noto Serif SC', serif"
	if text != nil && text.Style.Get("font-family") != "" {
		chromeFamily = text.Style.Get("font-family")
	}

	y := float64(paddingTop)

	// 页眉日期
	if date := cardEl.QueryClass(card.ClassCardDate); date != nil && !date.Hidden() {
		lh := dateFontSize * 1.4
		result.Texts = append(result.Texts, TextBox{
			Content:    date.Text,
			X:          paddingX,
			Y:          y,
			Width:      contentWidth,
			FontFamily: chromeFamily,
			FontSize:   dateFontSize,
			LineHeight: lh,
			Color:      dateColor,
			Lines:      []TextLine{{Content: date.Text, Height: lh}},
		})
		y += lh + dateGap
	}

	vertical := cardEl.QueryClass(ClassVerticalText)
	if vertical != nil {
		h, err := buildVerticalBody(result, vertical, contentWidth, y)
		if err != nil {
			return nil, err
		}
		y += h
	} else {
		h, err := buildHorizontalBody(result, cardEl, text, contentWidth, y, opts.Typesetter)
		if err != nil {
			return nil, err
		}
		y += h
	}

	y += footerGap
	y += buildFooter(result, cardEl, chromeFamily, width, contentWidth, y)

	result.Height = math.Max(minCardHeight, y+paddingBottom)

	// 竖排时引号绝对定位到对角，高度确定后补画
	if vertical != nil {
		placeCornerMarks(result, cardEl, chromeFamily, width)
	}
	return result, nil
}

// buildHorizontalBody 排引号与横排正文，返回占用高度。
func buildHorizontalBody(result *Result, cardEl *card.Element, text *card.Element, contentWidth, top float64, ts Typesetter) (float64, error) {
	y := top
	if start := cardEl.QueryClass(card.ClassQuoteStart); start != nil && start.Style.Get("position") != "absolute" {
		result.Texts = append(result.Texts, markBox(start.Text, paddingX, y, contentWidth, chromeFamilyOf(text), "left"))
		y += quoteMarkSize + quoteMarkGap
	}

	if text != nil && !text.Hidden() && text.Text != "" {
		fontSize := styleLength(text.Style, "font-size", 20)
		lineHeight := resolveLineHeight(text.Style, fontSize)
		family := text.Style.Get("font-family")
		lines, err := ts.LayoutLines(text.Text, contentWidth, family, fontSize, lineHeight)
		if err != nil {
			return 0, fmt.Errorf("正文排版失败: %w", err)
		}
		tb := TextBox{
			Content:    text.Text,
			X:          paddingX,
			Y:          y,
			Width:      contentWidth,
			FontFamily: family,
			FontSize:   fontSize,
			LineHeight: lineHeight,
			Color:      text.Style.Get("color"),
			Align:      text.Style.Get("text-align"),
			Lines:      lines,
		}
		result.Texts = append(result.Texts, tb)
		y += tb.TotalHeight() + quoteMarkGap
	}

	if end := cardEl.QueryClass(card.ClassQuoteEnd); end != nil && end.Style.Get("position") != "absolute" {
		result.Texts = append(result.Texts, markBox(end.Text, paddingX, y, contentWidth, chromeFamilyOf(text), "right"))
		y += quoteMarkSize
	}
	return y - top, nil
}

// buildVerticalBody 排竖排列容器，返回占用高度。列序右起，列内自上而下。
func buildVerticalBody(result *Result, container *card.Element, contentWidth, top float64) (float64, error) {
	columns := container.Children
	if len(columns) == 0 {
		return 0, nil
	}

	var colHeight, fontSize, lineHeight float64
	family, color := "", "#333"
	for _, col := range columns {
		if len(col.Children) == 0 {
			continue
		}
		span := col.Children[0]
		fontSize = styleLength(span.Style, "font-size", 20)
		lineHeight = styleLength(span.Style, "line-height", fontSize*1.8)
		if span.Style.Get("font-family") != "" {
			family = span.Style.Get("font-family")
		}
		if span.Style.Get("color") != "" {
			color = span.Style.Get("color")
		}
		if h := float64(len(col.Children)) * lineHeight; h > colHeight {
			colHeight = h
		}
	}

	colWidth := fontSize + 2*verticalColumnMargin
	totalWidth := colWidth * float64(len(columns))
	startX := paddingX + math.Max(0, (contentWidth-totalWidth)/2)

	for j, col := range columns {
		// 第 j 列（文档序）落在从右往左数第 j 个位置
		x := startX + totalWidth - float64(j+1)*colWidth
		for i, span := range col.Children {
			result.Texts = append(result.Texts, TextBox{
				Content:    span.Text,
				X:          x + verticalColumnMargin,
				Y:          top + float64(i)*lineHeight,
				Width:      fontSize,
				FontFamily: family,
				FontSize:   fontSize,
				LineHeight: lineHeight,
				Color:      color,
				Align:      "center",
				Lines:      []TextLine{{Content: span.Text, Height: lineHeight}},
			})
		}
	}
	return colHeight, nil
}

// buildFooter 排书名、作者与印章，返回占用高度。
func buildFooter(result *Result, cardEl *card.Element, chromeFamily string, width, contentWidth, top float64) float64 {
	y := top
	textRight := contentWidth - SealSize - paddingX // 给印章留出右侧空间

	sealBox := cardEl.QueryClass(card.ClassSealBox)
	sealVisible := sealBox != nil && !sealBox.Hidden()

	if book := cardEl.QueryClass(card.ClassBookTitle); book != nil && !book.Hidden() && book.Text != "" {
		lh := bookFontSize * 1.5
		result.Texts = append(result.Texts, TextBox{
			Content:    book.Text,
			X:          paddingX,
			Y:          y,
			Width:      textRight,
			FontFamily: chromeFamily,
			FontSize:   bookFontSize,
			LineHeight: lh,
			Color:      bookColor,
			Lines:      []TextLine{{Content: book.Text, Height: lh}},
		})
		y += lh + footerLineGap
	}
	if author := cardEl.QueryClass(card.ClassCardAuthor); author != nil && !author.Hidden() && author.Text != "" {
		lh := authorFontSize * 1.5
		result.Texts = append(result.Texts, TextBox{
			Content:    author.Text,
			X:          paddingX,
			Y:          y,
			Width:      textRight,
			FontFamily: chromeFamily,
			FontSize:   authorFontSize,
			LineHeight: lh,
			Color:      authorColor,
			Lines:      []TextLine{{Content: author.Text, Height: lh}},
		})
		y += lh
	}

	footerHeight := y - top
	if sealVisible {
		seal := cardEl.QueryClass("seal")
		sealText := ""
		sealFamily := chromeFamily
		if seal != nil {
			sealText = seal.Text
			if seal.Style.Get("font-family") != "" {
				sealFamily = seal.Style.Get("font-family")
			}
		}
		sealX := width - paddingX - SealSize
		result.Rects = append(result.Rects, Rect{
			X:           sealX,
			Y:           top,
			Width:       SealSize,
			Height:      SealSize,
			StrokeColor: sealColor,
			StrokeWidth: sealStrokeWidth,
			Radius:      sealRadius,
		})
		for _, cell := range SealCells(sealText, SealSize) {
			result.Texts = append(result.Texts, TextBox{
				Content:    cell.Char,
				X:          sealX + cell.X,
				Y:          top + cell.Y + (cell.Height-cell.FontSize)/2,
				Width:      cell.Width,
				FontFamily: sealFamily,
				FontSize:   cell.FontSize,
				LineHeight: cell.FontSize,
				Color:      sealColor,
				Align:      "center",
				Lines:      []TextLine{{Content: cell.Char, Height: cell.FontSize}},
			})
		}
		footerHeight = math.Max(footerHeight, SealSize)
	}
	return footerHeight
}

// placeCornerMarks 把竖排模式下的引号画在对角（右上起引、左下收引）。
func placeCornerMarks(result *Result, cardEl *card.Element, chromeFamily string, width float64) {
	if start := cardEl.QueryClass(card.ClassQuoteStart); start != nil && start.Style.Get("position") == "absolute" {
		result.Texts = append(result.Texts, markBox(start.Text, width-20-quoteMarkSize, 10, quoteMarkSize, chromeFamily, "right"))
	}
	if end := cardEl.QueryClass(card.ClassQuoteEnd); end != nil && end.Style.Get("position") == "absolute" {
		result.Texts = append(result.Texts, markBox(end.Text, 20, result.Height-10-quoteMarkSize, quoteMarkSize, chromeFamily, "left"))
	}
}

func markBox(text string, x, y, width float64, family, align string) TextBox {
	return TextBox{
		Content:    text,
		X:          x,
		Y:          y,
		Width:      width,
		FontFamily: family,
		FontSize:   quoteMarkSize,
		LineHeight: quoteMarkSize,
		Color:      quoteMarkColor,
		Align:      align,
		Lines:      []TextLine{{Content: text, Height: quoteMarkSize}},
	}
}

func chromeFamilyOf(text *card.Element) string {
	if text != nil && text.Style.Get("font-family") != "" {
		return text.Style.Get("font-family")
	}
	return "'Noto Serif SC', serif"
}
