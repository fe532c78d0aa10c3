package cssvalue

import (
	"fmt"
	"image/color"
	"strings"
)

// namedColors 覆盖配置与回退路径实际用到的颜色关键字。
var namedColors = map[string]color.RGBA{
	"white":       {255, 255, 255, 255},
	"black":       {0, 0, 0, 255},
	"red":         {255, 0, 0, 255},
	"transparent": {0, 0, 0, 0},
}

// ParseColor 解析 #hex、rgb()/rgba() 或颜色关键字。
func ParseColor(value string) (color.RGBA, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return color.RGBA{}, fmt.Errorf("颜色值为空")
	}
	if strings.HasPrefix(v, "#") {
		return parseHex(v)
	}
	lower := strings.ToLower(v)
	if strings.HasPrefix(lower, "rgb(") || strings.HasPrefix(lower, "rgba(") {
		return parseRGBFunc(lower)
	}
	if c, ok := namedColors[lower]; ok {
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("无法识别的颜色 %q", value)
}

func parseHex(v string) (color.RGBA, error) {
	hex := v[1:]
	switch len(hex) {
	case 3:
		r, okR := hexByte(hex[0], hex[0])
		g, okG := hexByte(hex[1], hex[1])
		b, okB := hexByte(hex[2], hex[2])
		if !okR || !okG || !okB {
			return color.RGBA{}, fmt.Errorf("非法的十六进制颜色 %q", v)
		}
		return color.RGBA{r, g, b, 255}, nil
	case 6, 8:
		var comp [4]uint8
		comp[3] = 255
		for i := 0; i*2 < len(hex); i++ {
			b, ok := hexByte(hex[i*2], hex[i*2+1])
			if !ok {
				return color.RGBA{}, fmt.Errorf("非法的十六进制颜色 %q", v)
			}
			comp[i] = b
		}
		return color.RGBA{comp[0], comp[1], comp[2], comp[3]}, nil
	default:
		return color.RGBA{}, fmt.Errorf("非法的十六进制颜色 %q", v)
	}
}

func parseRGBFunc(v string) (color.RGBA, error) {
	open := strings.IndexByte(v, '(')
	close := strings.LastIndexByte(v, ')')
	if open < 0 || close <= open {
		return color.RGBA{}, fmt.Errorf("非法的颜色函数 %q", v)
	}
	parts := strings.Split(v[open+1:close], ",")
	if len(parts) < 3 {
		return color.RGBA{}, fmt.Errorf("颜色函数需要至少 3 个分量: %q", v)
	}
	var comp [4]float64
	comp[3] = 1
	for i := 0; i < len(parts) && i < 4; i++ {
		n, _ := splitNumber(strings.TrimSpace(parts[i]))
		comp[i] = n
	}
	return color.RGBA{
		R: clampByte(comp[0]),
		G: clampByte(comp[1]),
		B: clampByte(comp[2]),
		A: clampByte(comp[3] * 255),
	}, nil
}

func hexByte(hi, lo byte) (uint8, bool) {
	h, okH := hexNibble(hi)
	l, okL := hexNibble(lo)
	return h<<4 | l, okH && okL
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
