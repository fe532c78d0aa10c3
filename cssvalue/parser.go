package cssvalue

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// 本包解析主题与配置里携带的 CSS 值子集：十六进制颜色、rgb()/rgba()、
// 字体族列表（'Noto Serif SC', serif）以及 linear-gradient(...) 渐变表达式。
// 不追求完整的 CSS 语法，只覆盖卡片配置实际出现的形态。

var (
	cssLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\.\d+|\d+)(?:deg|px|em|rem|%)?`},
		{Name: "String", Pattern: `'(?:\\.|[^'])*'|"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[(),/]`},
	})

	gradientParser = participle.MustBuild[gradientExpr](
		participle.Lexer(cssLexer),
		participle.Elide("Whitespace"),
	)

	familyParser = participle.MustBuild[fontFamilyList](
		participle.Lexer(cssLexer),
		participle.Elide("Whitespace"),
	)
)

// Gradient 表示一个已解析的线性渐变。Angle 为 CSS 角度（顺时针，0 = 向上）。
type Gradient struct {
	Angle float64
	Stops []Stop
}

// Stop 是渐变中的一个色标，Offset 取值 0..1。
type Stop struct {
	Color  color.RGBA
	Offset float64
}

// gradientExpr is the participle AST for linear-gradient(...).
type gradientExpr struct {
	Func  string      `parser:"@Ident '('"`
	Angle *angleTerm  `parser:"( @@ ',' )?"`
	Stops []*stopTerm `parser:"@@ ( ',' @@ )* ')'"`
}

type angleTerm struct {
	Deg *string  `parser:"  @Number"`
	To  []string `parser:"| 'to' @Ident+"`
}

type stopTerm struct {
	Color  *colorTerm `parser:"@@"`
	Offset *string    `parser:"@Number?"`
}

type colorTerm struct {
	Hex  *string   `parser:"  @Color"`
	Func *funcCall `parser:"| @@"`
	Name *string   `parser:"| @Ident"`
}

type funcCall struct {
	Name string   `parser:"@Ident '('"`
	Args []string `parser:"@Number ( ',' @Number )* ')'"`
}

// IsGradient reports whether the value looks like a gradient expression.
func IsGradient(value string) bool {
	return strings.HasPrefix(strings.TrimSpace(value), "linear-gradient(")
}

// ParseGradient 解析 linear-gradient 表达式。缺省角度为 180deg（to bottom）。
func ParseGradient(value string) (*Gradient, error) {
	expr, err := gradientParser.ParseString("", strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("解析渐变表达式失败: %w", err)
	}
	if expr.Func != "linear-gradient" {
		return nil, fmt.Errorf("不支持的渐变函数 %q", expr.Func)
	}
	if len(expr.Stops) < 2 {
		return nil, fmt.Errorf("渐变至少需要两个色标，实际 %d 个", len(expr.Stops))
	}

	g := &Gradient{Angle: 180}
	if expr.Angle != nil {
		angle, err := expr.Angle.resolve()
		if err != nil {
			return nil, err
		}
		g.Angle = angle
	}

	for _, st := range expr.Stops {
		col, err := st.Color.resolve()
		if err != nil {
			return nil, err
		}
		stop := Stop{Color: col, Offset: -1}
		if st.Offset != nil {
			v, unit := splitNumber(*st.Offset)
			if unit != "%" && unit != "" {
				return nil, fmt.Errorf("色标位置只支持百分比，实际 %q", *st.Offset)
			}
			stop.Offset = v / 100
		}
		g.Stops = append(g.Stops, stop)
	}
	fillOffsets(g.Stops)
	return g, nil
}

// fillOffsets 为未显式给出位置的色标按 CSS 规则补齐：首尾缺省为 0/1，
// 中间的色标在相邻已知位置之间均匀分布。
func fillOffsets(stops []Stop) {
	if stops[0].Offset < 0 {
		stops[0].Offset = 0
	}
	if stops[len(stops)-1].Offset < 0 {
		stops[len(stops)-1].Offset = 1
	}
	prev := 0
	for i := 1; i < len(stops); i++ {
		if stops[i].Offset < 0 {
			continue
		}
		gap := i - prev
		if gap > 1 {
			step := (stops[i].Offset - stops[prev].Offset) / float64(gap)
			for j := prev + 1; j < i; j++ {
				stops[j].Offset = stops[prev].Offset + step*float64(j-prev)
			}
		}
		prev = i
	}
}

func (a *angleTerm) resolve() (float64, error) {
	if a.Deg != nil {
		v, unit := splitNumber(*a.Deg)
		if unit != "deg" && unit != "" {
			return 0, fmt.Errorf("不支持的角度单位 %q", *a.Deg)
		}
		return v, nil
	}
	// "to <side-or-corner>" 形式
	key := strings.ToLower(strings.Join(a.To, " "))
	angles := map[string]float64{
		"top": 0, "right": 90, "bottom": 180, "left": 270,
		"top right": 45, "right top": 45,
		"bottom right": 135, "right bottom": 135,
		"bottom left": 225, "left bottom": 225,
		"top left": 315, "left top": 315,
	}
	if v, ok := angles[key]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("无法识别的渐变方向 to %s", key)
}

func (c *colorTerm) resolve() (color.RGBA, error) {
	switch {
	case c.Hex != nil:
		return ParseColor(*c.Hex)
	case c.Func != nil:
		return c.Func.resolveColor()
	case c.Name != nil:
		return ParseColor(*c.Name)
	}
	return color.RGBA{}, fmt.Errorf("缺少颜色值")
}

func (f *funcCall) resolveColor() (color.RGBA, error) {
	name := strings.ToLower(f.Name)
	if name != "rgb" && name != "rgba" {
		return color.RGBA{}, fmt.Errorf("不支持的颜色函数 %q", f.Name)
	}
	if len(f.Args) < 3 {
		return color.RGBA{}, fmt.Errorf("%s 需要至少 3 个分量", f.Name)
	}
	comp := make([]float64, len(f.Args))
	for i, arg := range f.Args {
		v, _ := splitNumber(arg)
		comp[i] = v
	}
	out := color.RGBA{
		R: clampByte(comp[0]),
		G: clampByte(comp[1]),
		B: clampByte(comp[2]),
		A: 255,
	}
	if len(comp) >= 4 {
		out.A = clampByte(comp[3] * 255)
	}
	return out, nil
}

// fontFamilyList is the participle AST for a CSS font-family value.
type fontFamilyList struct {
	Families []*familyTerm `parser:"@@ ( ',' @@ )*"`
}

type familyTerm struct {
	Quoted *cssString `parser:"  @String"`
	Idents []string   `parser:"| @Ident+"`
}

// cssString unquotes single- or double-quoted CSS strings on capture.
type cssString string

// Capture implements participle.Capture.
func (s *cssString) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string capture requires value")
	}
	unquoted, err := unquoteCSS(values[0])
	if err != nil {
		return err
	}
	*s = cssString(unquoted)
	return nil
}

// ParseFontFamilies 解析字体族列表，返回按优先级排列的族名。
func ParseFontFamilies(value string) ([]string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("字体族列表为空")
	}
	list, err := familyParser.ParseString("", value)
	if err != nil {
		return nil, fmt.Errorf("解析字体族 %q 失败: %w", value, err)
	}
	var out []string
	for _, fam := range list.Families {
		if fam.Quoted != nil {
			out = append(out, string(*fam.Quoted))
			continue
		}
		out = append(out, strings.Join(fam.Idents, " "))
	}
	return out, nil
}

// ParseLength 解析 "20px" 一类的长度值，返回数值与单位（可能为空）。
func ParseLength(value string) (float64, string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, "", fmt.Errorf("长度值为空")
	}
	num, unit := splitNumber(v)
	if _, err := strconv.ParseFloat(strings.TrimSuffix(v, unit), 64); err != nil {
		return 0, "", fmt.Errorf("无法解析长度 %q", value)
	}
	return num, unit, nil
}

// splitNumber separates the numeric part from a trailing unit suffix.
func splitNumber(s string) (float64, string) {
	i := len(s)
	for i > 0 {
		c := s[i-1]
		if (c >= '0' && c <= '9') || c == '.' {
			break
		}
		i--
	}
	v, _ := strconv.ParseFloat(s[:i], 64)
	return v, s[i:]
}

func unquoteCSS(s string) (string, error) {
	if len(s) < 2 {
		return "", fmt.Errorf("非法字符串 %q", s)
	}
	quote := s[0]
	if (quote != '\'' && quote != '"') || s[len(s)-1] != quote {
		return "", fmt.Errorf("非法字符串 %q", s)
	}
	body := s[1 : len(s)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
		}
		b.WriteByte(body[i])
	}
	return b.String(), nil
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
