package render

import (
	"fmt"

	"github.com/ByLCY/bookcard/card"
)

// SanitizeClone 清理克隆文档上的卡片元素，使其适合离屏栅格化：
// 去掉会干扰捕获的视觉属性、以最高优先级重写解析好的背景、
// 把选定文字色下放到正文节点、固定宽度并放开高度。
// 每次捕获只在克隆上执行一次，原文档不受影响。
func SanitizeClone(doc *card.Document, bg CardBackground, state *card.State) {
	cardEl := doc.GetElementByID(card.CardID)
	if cardEl == nil {
		return
	}

	cardEl.Style.Set("transform", "none")
	cardEl.Style.Set("box-shadow", "none")
	cardEl.Style.Set("border-radius", "0")
	cardEl.Style.Set("margin", "0")
	cardEl.Style.Set("position", "relative")
	cardEl.Style.Set("overflow", "visible")
	cardEl.Style.Set("opacity", "1")
	cardEl.Style.Set("visibility", "visible")
	cardEl.Style.Set("display", "block")

	if bg.IsGradient() {
		cardEl.Style.Set("background-image", bg.Background)
		cardEl.Style.Remove("background-color")
	} else {
		cardEl.Style.Set("background-color", bg.Background)
		cardEl.Style.Remove("background-image")
	}

	if text := cardEl.QueryClass(card.ClassTextContent); text != nil {
		text.Style.Set("color", bg.TextColor)
	}

	cardEl.Style.Set("width", fmt.Sprintf("%gpx", state.CardWidth))
	cardEl.Style.Remove("height")
}
