package render

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/ByLCY/bookcard/card"
	"github.com/ByLCY/bookcard/config"
	"github.com/ByLCY/bookcard/fonts"
)

func TestResolveBackgroundThemePrecedence(t *testing.T) {
	cfg := &config.Config{Themes: []config.Theme{
		{ID: "theme-solid", Color: "#fdfbf7", Border: "#e8e0d0"},
		{ID: "theme-grad", Background: "linear-gradient(135deg, #667eea 0%, #764ba2 100%)"},
	}}

	state := card.NewState()
	state.Theme = "theme-solid"
	doc := card.NewDocument(card.Content{Quote: "x"}, state)
	bg := ResolveBackground(doc.GetElementByID(card.CardID), cfg, state)
	if bg.IsGradient() {
		t.Fatalf("纯色主题不应解析出渐变")
	}
	if bg.Background != "#fdfbf7" || bg.Border != "#e8e0d0" {
		t.Errorf("主题背景/边框不符: %+v", bg)
	}
	if bg.CaptureColor() == nil {
		t.Errorf("纯色背景的捕获底色不应为 nil")
	}

	state.Theme = "theme-grad"
	bg = ResolveBackground(doc.GetElementByID(card.CardID), cfg, state)
	if !bg.IsGradient() {
		t.Fatalf("渐变主题应解析出渐变: %+v", bg)
	}
	if bg.CaptureColor() != nil {
		t.Errorf("渐变背景的捕获底色应为 nil")
	}
	if len(bg.Gradient.Stops) != 2 {
		t.Errorf("色标数量 %d，期望 2", len(bg.Gradient.Stops))
	}
}

func TestResolveBackgroundThemeOverridesInline(t *testing.T) {
	cfg := &config.Config{Themes: []config.Theme{
		{ID: "theme-grad", Background: "linear-gradient(135deg, #667eea 0%, #764ba2 100%)"},
	}}
	state := card.NewState()
	state.Theme = "theme-grad"
	doc := card.NewDocument(card.Content{}, state)
	el := doc.GetElementByID(card.CardID)
	el.Style.Set("background-color", "#112233")

	bg := ResolveBackground(el, cfg, state)
	if !bg.IsGradient() {
		t.Fatalf("命中主题时内联样式不应抢走背景: %q", bg.Background)
	}
	if bg.CaptureColor() != nil {
		t.Errorf("渐变背景的捕获底色应为 nil")
	}
}

func TestResolveBackgroundInlineFallback(t *testing.T) {
	cfg := &config.Config{Themes: []config.Theme{{ID: "theme-a", Color: "#fdfbf7"}}}
	state := card.NewState()
	state.Theme = "theme-missing"
	doc := card.NewDocument(card.Content{}, state)
	el := doc.GetElementByID(card.CardID)
	el.Style.Set("background-color", "#112233")

	// 主题未命中才轮到元素内联样式
	bg := ResolveBackground(el, cfg, state)
	if bg.Background != "#112233" {
		t.Errorf("主题未命中时应回落到内联背景: %q", bg.Background)
	}
	if bg.Color.R != 0x11 || bg.Color.G != 0x22 || bg.Color.B != 0x33 {
		t.Errorf("背景色解析不符: %+v", bg.Color)
	}

	// 主题命中但两个字段皆空，同样回落
	state.Theme = "theme-empty"
	cfg.Themes = append(cfg.Themes, config.Theme{ID: "theme-empty", Border: "#e8e0d0"})
	bg = ResolveBackground(el, cfg, state)
	if bg.Background != "#112233" {
		t.Errorf("空主题描述应回落到内联背景: %q", bg.Background)
	}
	if bg.Border != "#e8e0d0" {
		t.Errorf("空主题的边框仍应生效: %q", bg.Border)
	}
}

func TestResolveBackgroundUnknownThemeFallsBackToWhite(t *testing.T) {
	state := card.NewState()
	state.Theme = "theme-missing"
	bg := ResolveBackground(nil, &config.Config{}, state)
	if bg.Background != "#ffffff" || bg.IsGradient() {
		t.Errorf("未知主题应退回白底: %+v", bg)
	}
}

func TestSnapshotRestore(t *testing.T) {
	el := card.NewElement("div")
	el.Style.Set("transform", "scale(0.8)")
	el.Style.Set("box-shadow", "0 4px 12px rgba(0,0,0,0.15)")
	// position 与 z-index 原本不存在

	snap := TakeSnapshot(el)
	applyCaptureState(el)
	if el.Style.Get("transform") != "none" || el.Style.Get("z-index") != "9999" {
		t.Fatalf("捕获姿态未生效: %v", el.Style)
	}

	snap.Restore()
	if el.Style.Get("transform") != "scale(0.8)" {
		t.Errorf("transform 未恢复: %q", el.Style.Get("transform"))
	}
	if el.Style.Get("box-shadow") != "0 4px 12px rgba(0,0,0,0.15)" {
		t.Errorf("box-shadow 未恢复: %q", el.Style.Get("box-shadow"))
	}
	if _, ok := el.Style["position"]; ok {
		t.Errorf("原本不存在的 position 恢复后应被移除")
	}
	if _, ok := el.Style["z-index"]; ok {
		t.Errorf("原本不存在的 z-index 恢复后应被移除")
	}
}

func TestSanitizeClone(t *testing.T) {
	state := card.NewState()
	doc := card.NewDocument(card.Content{Quote: "静夜思"}, state)
	clone := doc.Clone()
	el := clone.GetElementByID(card.CardID)
	el.Style.Set("transform", "scale(0.5)")
	el.Style.Set("height", "320px")

	bg := CardBackground{Background: "#fdfbf7", TextColor: "#5d4037"}
	SanitizeClone(clone, bg, state)

	if el.Style.Get("transform") != "none" || el.Style.Get("overflow") != "visible" {
		t.Errorf("克隆清理未生效: %v", el.Style)
	}
	if el.Style.Get("background-color") != "#fdfbf7" {
		t.Errorf("背景未重写: %q", el.Style.Get("background-color"))
	}
	if el.Style.Get("height") != "" {
		t.Errorf("高度应放开: %q", el.Style.Get("height"))
	}
	if text := el.QueryClass(card.ClassTextContent); text.Style.Get("color") != "#5d4037" {
		t.Errorf("文字颜色未下放: %q", text.Style.Get("color"))
	}
	// 原文档不受影响
	orig := doc.GetElementByID(card.CardID)
	if orig.Style.Get("overflow") == "visible" {
		t.Errorf("清理波及了原文档")
	}
}

func TestGradientLine(t *testing.T) {
	// 180 度 = 自上而下
	start, end := gradientLine(400, 600, 180)
	if math.Abs(start.X-200) > 1e-9 || math.Abs(end.X-200) > 1e-9 {
		t.Errorf("竖直渐变的 X 应居中: %v %v", start, end)
	}
	if !(start.Y < end.Y) {
		t.Errorf("180 度渐变应从上到下: %v %v", start, end)
	}
	// 90 度 = 自左向右
	start, end = gradientLine(400, 600, 90)
	if !(start.X < end.X) {
		t.Errorf("90 度渐变应从左到右: %v %v", start, end)
	}
	if math.Abs(start.Y-300) > 1e-9 {
		t.Errorf("水平渐变的 Y 应居中: %v", start)
	}
}

func TestFileName(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	if got := FileName("png", now); got != "book-excerpt-1700000000000.png" {
		t.Errorf("文件名不符: %q", got)
	}
}

func TestTokenizeMixedText(t *testing.T) {
	tokens := tokenize("读书 reading 之乐")
	want := []string{"读", "书", " ", "reading", " ", "之", "乐"}
	if len(tokens) != len(want) {
		t.Fatalf("令牌 %v，期望 %v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("第 %d 个令牌 %q，期望 %q", i, tokens[i], want[i])
		}
	}
}

func TestTokenizeNewlines(t *testing.T) {
	tokens := tokenize("a\r\nb")
	if strings.Join(tokens, "|") != "a|\n|b" {
		t.Errorf("换行令牌不符: %v", tokens)
	}
}

func TestExportCardRejectsReentry(t *testing.T) {
	e := NewExporter(nil, nil, nil, nil, nil)
	e.inFlight.Store(true)

	state := card.NewState()
	doc := card.NewDocument(card.Content{Quote: "x"}, state)
	_, err := e.ExportCard(context.Background(), doc, state, nil)
	if !errors.Is(err, ErrExportInFlight) {
		t.Fatalf("并发导出应返回 ErrExportInFlight，得到 %v", err)
	}
}

type recordingZoom struct{ zoom float64 }

func (z *recordingZoom) Zoom() float64     { return z.zoom }
func (z *recordingZoom) SetZoom(v float64) { z.zoom = v }

func TestExportCardRestoresBeforeEncoding(t *testing.T) {
	lib := fonts.NewLibrary()
	if err := lib.Ready("serif"); err != nil {
		t.Skipf("系统无可用字体: %v", err)
	}

	zoom := &recordingZoom{zoom: 0.8}
	e := NewExporter(NewRenderer(lib), lib, &config.Config{}, zoom, nil)
	e.OutDir = t.TempDir()
	e.SettleDelay = 0
	e.FileDelay = 0

	state := card.NewState()
	state.Font = "serif"
	state.SealFont = "serif"
	doc := card.NewDocument(card.Content{Quote: "读书之乐"}, state)
	cardEl := doc.GetElementByID(card.CardID)
	cardEl.Style.Set("transform", "scale(0.8)")

	// 落盘阶段取文件名时观察快照与缩放是否已经复原
	var transformAtEncode string
	var zoomAtEncode float64
	e.now = func() time.Time {
		transformAtEncode = cardEl.Style.Get("transform")
		zoomAtEncode = zoom.Zoom()
		return time.Now()
	}

	written, err := e.ExportCard(context.Background(), doc, state, []string{"svg"})
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	if len(written) != 1 {
		t.Fatalf("期望写出 1 个文件，得到 %v", written)
	}
	if transformAtEncode != "scale(0.8)" {
		t.Errorf("落盘阶段 transform 应已恢复，得到 %q", transformAtEncode)
	}
	if zoomAtEncode != 0.8 {
		t.Errorf("落盘阶段缩放应已恢复，得到 %v", zoomAtEncode)
	}
}

func TestExportCardNoFormats(t *testing.T) {
	e := NewExporter(nil, nil, nil, nil, nil)
	state := card.NewState()
	state.ExportFormats = nil
	doc := card.NewDocument(card.Content{Quote: "x"}, state)
	_, err := e.ExportCard(context.Background(), doc, state, nil)
	if !errors.Is(err, card.ErrNoFormats) {
		t.Fatalf("空格式集合应返回 ErrNoFormats，得到 %v", err)
	}
}
