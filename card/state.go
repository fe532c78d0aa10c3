package card

import "time"

// 布局方式。
const (
	LayoutHorizontal = "horizontal"
	LayoutVertical   = "vertical"
)

// 字号与卡片宽度的可调范围（px）。
const (
	FontSizeMin  = 14
	FontSizeMax  = 32
	FontSizeStep = 2

	CardWidthMin  = 300
	CardWidthMax  = 600
	CardWidthStep = 30
)

// 应用级常量。
const (
	Version = "1.0.1"

	// ThumbnailUpdateDelay 是缩略图刷新防抖间隔。
	ThumbnailUpdateDelay = 300 * time.Millisecond
	// DownloadDelay 既是导出前的样式稳定等待，也是多格式输出之间的间隔。
	DownloadDelay = 300 * time.Millisecond
	// DefaultDeviceScale 对应截图的默认像素密度。
	DefaultDeviceScale = 2.0
	// ThumbnailScaleRatio 是缩略图相对卡片的缩放比例。
	ThumbnailScaleRatio = 0.4
)

// State 保存卡片的全部可调样式。整个进程只有一个实例，字段通过
// Update 按需浅合并，不做持久化（内容字段单独走 store 缓存）。
type State struct {
	Theme         string
	Layout        string
	Font          string
	FontSize      float64
	FontColor     string
	CardWidth     float64
	Zoom          float64
	ExportFormats []string
	SealFont      string
	TextAlign     string
}

// NewState 返回带默认值的状态。
func NewState() *State {
	return &State{
		Theme:         "theme-clean",
		Layout:        LayoutHorizontal,
		Font:          "'Noto Serif SC', serif",
		FontSize:      20,
		FontColor:     "#1a1a1a",
		CardWidth:     400,
		Zoom:          1,
		ExportFormats: []string{"png"},
		SealFont:      "'Ma Shan Zheng', cursive",
		TextAlign:     "justify",
	}
}

// Patch 描述一次状态更新，nil 字段表示保持原值。
type Patch struct {
	Theme         *string
	Layout        *string
	Font          *string
	FontSize      *float64
	FontColor     *string
	CardWidth     *float64
	Zoom          *float64
	ExportFormats []string
	SealFont      *string
	TextAlign     *string
}

// Update 将 patch 中已设置的字段浅合并进状态，其余字段不动。
func (s *State) Update(p Patch) {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.Layout != nil {
		s.Layout = *p.Layout
	}
	if p.Font != nil {
		s.Font = *p.Font
	}
	if p.FontSize != nil {
		s.FontSize = *p.FontSize
	}
	if p.FontColor != nil {
		s.FontColor = *p.FontColor
	}
	if p.CardWidth != nil {
		s.CardWidth = *p.CardWidth
	}
	if p.Zoom != nil {
		s.Zoom = *p.Zoom
	}
	if p.ExportFormats != nil {
		s.ExportFormats = append([]string(nil), p.ExportFormats...)
	}
	if p.SealFont != nil {
		s.SealFont = *p.SealFont
	}
	if p.TextAlign != nil {
		s.TextAlign = *p.TextAlign
	}
}
