package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"unicode"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/bookcard/cssvalue"
	"github.com/ByLCY/bookcard/fonts"
	"github.com/ByLCY/bookcard/layout"
)

// Renderer 用 github.com/tdewolff/canvas 把布局结果画成卡片。
// 坐标系与布局一致：左上角为原点，单位 px。
type Renderer struct {
	fonts *fonts.Library
}

var _ layout.Typesetter = (*Renderer)(nil)

// NewRenderer 创建渲染器，字体从 lib 解析。
func NewRenderer(lib *fonts.Library) *Renderer {
	return &Renderer{fonts: lib}
}

// LayoutLines 实现 layout.Typesetter：按真实字体度量做贪心换行。
// 中日韩文字允许任意位置折行，拉丁词保持完整，超宽的词在词内拆分。
func (r *Renderer) LayoutLines(content string, width float64, fontFamily string, fontSize, lineHeight float64) ([]layout.TextLine, error) {
	face, err := r.face(fontFamily, fontSize, color.RGBA{0, 0, 0, 255})
	if err != nil {
		return nil, err
	}
	lines := greedyWrap(content, width, face)
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: "", Width: 0}}
	}
	for i := range lines {
		lines[i].Height = lineHeight
	}
	return lines, nil
}

// Draw 把布局结果绘制到一张画布上：先背景，再矩形，再文本。
func (r *Renderer) Draw(result *layout.Result, bg CardBackground) (*canvas.Canvas, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	c := canvas.New(result.Width, result.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	r.drawBackground(ctx, result.Width, result.Height, bg)

	for _, rc := range result.Rects {
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeColor(parseColor(rc.StrokeColor, color.RGBA{0, 0, 0, 255}))
		ctx.SetStrokeWidth(rc.StrokeWidth)
		var p *canvas.Path
		if rc.Radius > 0 {
			p = canvas.RoundedRectangle(rc.Width, rc.Height, rc.Radius)
		} else {
			p = canvas.Rectangle(rc.Width, rc.Height)
		}
		ctx.DrawPath(rc.X, rc.Y, p)
	}
	ctx.SetStrokeWidth(0)

	for _, tb := range result.Texts {
		if err := r.drawTextBox(ctx, tb); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Rasterize 绘制并按 scale 栅格化（scale=2 时一个布局 px 对应 2 个像素）。
func (r *Renderer) Rasterize(result *layout.Result, bg CardBackground, scale float64) (image.Image, error) {
	c, err := r.Draw(result, bg)
	if err != nil {
		return nil, err
	}
	if scale < 1 {
		scale = 1
	}
	return rasterizer.Draw(c, canvas.DPMM(scale), canvas.DefaultColorSpace), nil
}

func (r *Renderer) drawBackground(ctx *canvas.Context, width, height float64, bg CardBackground) {
	rect := canvas.Rectangle(width, height)
	if g := bg.Gradient; g != nil {
		start, end := gradientLine(width, height, g.Angle)
		lg := canvas.NewLinearGradient(start, end)
		for _, stop := range g.Stops {
			lg.Add(stop.Offset, stop.Color)
		}
		ctx.SetFillGradient(lg)
		ctx.DrawPath(0, 0, rect)
		ctx.SetFillColor(canvas.Black)
		return
	}
	if c := bg.CaptureColor(); c != nil {
		ctx.SetFillColor(c)
		ctx.DrawPath(0, 0, rect)
	}
}

// gradientLine 把 CSS 渐变角度换算为画布上的渐变轴。CSS 角度顺时针、
// 0 度向上；轴线过中心，长度取角度在宽高上的投影和。
func gradientLine(width, height, angleDeg float64) (canvas.Point, canvas.Point) {
	rad := angleDeg * math.Pi / 180
	// 屏幕坐标 y 向下，向上 = -y
	dx, dy := math.Sin(rad), -math.Cos(rad)
	half := (math.Abs(width*dx) + math.Abs(height*dy)) / 2
	cx, cy := width/2, height/2
	return canvas.Point{X: cx - dx*half, Y: cy - dy*half},
		canvas.Point{X: cx + dx*half, Y: cy + dy*half}
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox) error {
	col := parseColor(tb.Color, color.RGBA{26, 26, 26, 255})
	face, err := r.face(tb.FontFamily, tb.FontSize, col)
	if err != nil {
		return err
	}

	var textAlign canvas.TextAlign
	var anchorX float64
	switch strings.ToLower(tb.Align) {
	case "center":
		textAlign = canvas.Center
		anchorX = tb.X + tb.Width/2
	case "right", "end":
		textAlign = canvas.Right
		anchorX = tb.X + tb.Width
	default:
		textAlign = canvas.Left
		anchorX = tb.X
	}

	metrics := face.Metrics()
	cursorY := tb.Y
	for _, line := range tb.Lines {
		cursorY += line.GapBefore
		lineHeight := line.Height
		if lineHeight <= 0 {
			lineHeight = tb.LineHeight
		}
		if line.Content != "" {
			textLine := canvas.NewTextLine(face, line.Content, textAlign)
			// 基线 = 行顶 + 行内空隙的一半 + 上升部，近似 CSS 的行内居中
			baseline := cursorY + math.Max(lineHeight-metrics.LineHeight, 0)/2 + metrics.Ascent
			ctx.DrawText(anchorX, baseline, textLine)
		}
		cursorY += lineHeight
	}
	return nil
}

func (r *Renderer) face(cssFamily string, size float64, col color.RGBA) (*canvas.FontFace, error) {
	fam, err := r.fonts.Family(cssFamily)
	if err != nil {
		return nil, fmt.Errorf("解析字体 %q 失败: %w", cssFamily, err)
	}
	return fam.Face(size, col, canvas.FontRegular, canvas.FontNormal), nil
}

func parseColor(value string, def color.RGBA) color.RGBA {
	if value == "" {
		return def
	}
	c, err := cssvalue.ParseColor(value)
	if err != nil {
		return def
	}
	return c
}

// greedyWrap 贪心换行：令牌依次填充当前行，放不下时折行。
// 令牌划分尊重 CJK 逐字折行的习惯。
func greedyWrap(content string, width float64, face *canvas.FontFace) []layout.TextLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	var lines []layout.TextLine
	var builder strings.Builder
	currentWidth := 0.0

	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, layout.TextLine{Content: "", Width: 0})
			}
			return
		}
		lines = append(lines, layout.TextLine{Content: strings.TrimRight(builder.String(), " "), Width: currentWidth})
		builder.Reset()
		currentWidth = 0
	}

	appendToken := func(token string, w float64) {
		builder.WriteString(token)
		currentWidth += w
	}

	for _, token := range tokenize(content) {
		if token == "\n" {
			emit(true)
			continue
		}
		w := face.TextWidth(token)
		if currentWidth > 0 && currentWidth+w > limit {
			emit(false)
		}
		if w <= limit {
			appendToken(token, w)
			continue
		}
		// 单个令牌超宽：逐字拆
		for _, r := range token {
			cw := face.TextWidth(string(r))
			if currentWidth > 0 && currentWidth+cw > limit {
				emit(false)
			}
			appendToken(string(r), cw)
		}
	}
	emit(false)
	return lines
}

// tokenize 把文本切成换行、空白串、CJK 单字与拉丁词四类令牌。
func tokenize(s string) []string {
	var tokens []string
	var builder strings.Builder
	flush := func() {
		if builder.Len() > 0 {
			tokens = append(tokens, builder.String())
			builder.Reset()
		}
	}
	prevSpace := false
	for _, r := range s {
		switch {
		case r == '\r':
			continue
		case r == '\n':
			flush()
			tokens = append(tokens, "\n")
			prevSpace = false
		case isCJK(r):
			flush()
			tokens = append(tokens, string(r))
			prevSpace = false
		case unicode.IsSpace(r):
			if !prevSpace {
				flush()
			}
			builder.WriteRune(r)
			prevSpace = true
		default:
			if prevSpace {
				flush()
			}
			builder.WriteRune(r)
			prevSpace = false
		}
	}
	flush()
	return tokens
}

// isCJK 判断码点是否属于中日韩统一表意文字或常用标点区。
func isCJK(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF, // 基本区
		r >= 0x3400 && r <= 0x4DBF, // 扩展 A
		r >= 0x3000 && r <= 0x303F, // CJK 标点
		r >= 0xFF00 && r <= 0xFFEF: // 全角符号
		return true
	}
	return false
}
