package card

import (
	"fmt"
	"time"
)

// 元素 ID 与 class 约定，layout 与 render 都按这些名字查找节点。
const (
	CardID = "card-preview"
	SealID = "preview-seal"

	ClassCardBody    = "card-body"
	ClassTextContent = "text-content"
	ClassQuoteStart  = "start"
	ClassQuoteEnd    = "end"
	ClassCardDate    = "card-date"
	ClassBookTitle   = "book-title"
	ClassCardAuthor  = "card-author"
	ClassSealBox     = "seal-box"
)

// NewDocument 按内容与状态构建卡片元素树。树结构模仿预览区的 DOM：
// 页眉日期、左右引号夹着的正文、页脚的书名/作者与印章。
func NewDocument(content Content, state *State) *Document {
	root := NewElement("div")
	root.ID = CardID
	root.Class = fmt.Sprintf("card %s", state.Theme)
	if state.Layout == LayoutVertical {
		root.Class += " vertical-mode"
	}
	root.Style.Set("width", fmt.Sprintf("%gpx", state.CardWidth))

	header := NewElement("div")
	header.Class = "card-header"
	date := NewElement("span")
	date.Class = ClassCardDate
	date.Text = FormatDate(time.Now())
	header.Append(date)

	body := NewElement("div")
	body.Class = ClassCardBody

	start := NewElement("span")
	start.Class = "quote-mark " + ClassQuoteStart
	start.Text = "「"

	text := NewElement("div")
	text.Class = ClassTextContent
	text.Text = content.Quote
	text.Style.Set("font-family", state.Font)
	text.Style.Set("font-size", fmt.Sprintf("%gpx", state.FontSize))
	text.Style.Set("line-height", "1.8")
	text.Style.Set("color", state.FontColor)
	text.Style.Set("text-align", state.TextAlign)

	end := NewElement("span")
	end.Class = "quote-mark " + ClassQuoteEnd
	end.Text = "」"

	body.Append(start, text, end)

	footer := NewElement("div")
	footer.Class = "card-footer"
	if content.Book != "" {
		book := NewElement("span")
		book.Class = ClassBookTitle
		book.Text = fmt.Sprintf("《%s》", content.Book)
		footer.Append(book)
	}
	if content.Author != "" {
		author := NewElement("span")
		author.Class = ClassCardAuthor
		author.Text = content.Author
		footer.Append(author)
	}

	sealBox := NewElement("div")
	sealBox.Class = ClassSealBox
	seal := NewElement("div")
	seal.ID = SealID
	seal.Class = "seal"
	seal.Text = content.Seal
	seal.Style.Set("font-family", state.SealFont)
	sealBox.Append(seal)
	if content.Seal == "" {
		// 落款为空时整体隐藏印章
		sealBox.Style.Set("display", "none")
		seal.Style.Set("display", "none")
	}
	footer.Append(sealBox)

	root.Append(header, body, footer)
	return &Document{Root: root}
}
