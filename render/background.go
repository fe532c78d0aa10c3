package render

import (
	"image/color"
	"strings"

	"github.com/ByLCY/bookcard/card"
	"github.com/ByLCY/bookcard/config"
	"github.com/ByLCY/bookcard/cssvalue"
)

// CardBackground 是一次捕获用的背景快照，每次导出重新推导，不做缓存。
type CardBackground struct {
	// ThemeID 是推导时命中的主题，仅用于日志。
	ThemeID string
	// Background 是原始 CSS 值（纯色或 linear-gradient）。
	Background string
	// Gradient 在背景为渐变时非 nil。
	Gradient *cssvalue.Gradient
	// Color 是纯色背景的解析结果，渐变时为零值。
	Color color.RGBA
	// TextColor 是卡片文字颜色。
	TextColor string
	// Border 是主题边框色，可为空。
	Border string
}

// IsGradient 报告背景是否为渐变。
func (b CardBackground) IsGradient() bool { return b.Gradient != nil }

// CaptureColor 返回栅格化时的底色：渐变背景返回 nil（由绘制渐变填充），
// 纯色背景返回解析出的颜色。
func (b CardBackground) CaptureColor() color.Color {
	if b.IsGradient() || b.Background == "" {
		return nil
	}
	return b.Color
}

// ResolveBackground 推导卡片当前的背景。主题注册表优先：命中的主题
// 带 background（渐变）时直接胜出，其次用主题的 color；只有主题未命中
// 或两者皆空时才回落到元素的内联样式，最后兜底白色。文字颜色始终取
// 元素样式。纯函数，永不失败。
func ResolveBackground(cardEl *card.Element, cfg *config.Config, state *card.State) CardBackground {
	bg := CardBackground{ThemeID: state.Theme, TextColor: state.FontColor, Background: "#ffffff", Color: color.RGBA{255, 255, 255, 255}}

	theme := cfg.FindTheme(state.Theme)
	if theme != nil {
		bg.Border = theme.Border
	}
	switch {
	case theme != nil && theme.Background != "":
		bg.Background = theme.Background
	case theme != nil && theme.Color != "":
		bg.Background = theme.Color
	case cardEl != nil:
		if v := cardEl.Style.Get("background-image"); v != "" {
			bg.Background = v
		} else if v := cardEl.Style.Get("background-color"); v != "" {
			bg.Background = v
		}
	}
	if cardEl != nil {
		if v := cardEl.Style.Get("color"); v != "" {
			bg.TextColor = v
		}
	}

	if cssvalue.IsGradient(bg.Background) {
		if g, err := cssvalue.ParseGradient(bg.Background); err == nil {
			bg.Gradient = g
			return bg
		}
		// 渐变解析失败时退回白底
		bg.Background = "#ffffff"
	}
	if c, err := cssvalue.ParseColor(strings.TrimSpace(bg.Background)); err == nil {
		bg.Color = c
	} else {
		bg.Background = "#ffffff"
		bg.Color = color.RGBA{255, 255, 255, 255}
	}
	return bg
}
