package card

import (
	"errors"
	"fmt"
	"strings"
)

// 支持的导出格式。
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatJPG  = "jpg"
	FormatSVG  = "svg"
	FormatWebP = "webp"
)

// DefaultExportFormat 是未做任何选择时的兜底格式。
const DefaultExportFormat = FormatPNG

// ErrNoFormats 表示解析后仍然没有任何导出格式。
var ErrNoFormats = errors.New("请至少选择一个导出格式")

// FormatSpec 描述一种导出格式的编码参数。
type FormatSpec struct {
	Name      string // 规范化后的格式名
	Extension string // 文件扩展名（jpeg 归一为 jpg）
	MIME      string
	Quality   float64 // 有损格式的编码质量
}

// NormalizeFormat 将格式名规范化为编码参数；未知格式回落到 png。
func NormalizeFormat(format string) FormatSpec {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJPEG, FormatJPG:
		return FormatSpec{Name: FormatJPEG, Extension: "jpg", MIME: "image/jpeg", Quality: 0.92}
	case FormatWebP:
		return FormatSpec{Name: FormatWebP, Extension: "webp", MIME: "image/webp", Quality: 0.9}
	case FormatSVG:
		return FormatSpec{Name: FormatSVG, Extension: "svg", MIME: "image/svg+xml"}
	default:
		return FormatSpec{Name: FormatPNG, Extension: "png", MIME: "image/png", Quality: 1.0}
	}
}

// ParseFormats 解析逗号分隔的格式列表，忽略空白项。
func ParseFormats(list string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(list, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		switch part {
		case FormatPNG, FormatJPEG, FormatJPG, FormatSVG, FormatWebP:
			out = append(out, part)
		default:
			return nil, fmt.Errorf("不支持的导出格式 %q", part)
		}
	}
	return out, nil
}

// ResolveFormats 返回本次导出实际使用的格式集合：入参为空时回退到状态里
// 保存的默认集合，仍为空则报 ErrNoFormats。保证成功路径上集合非空。
func ResolveFormats(selected []string, s *State) ([]string, error) {
	if len(selected) > 0 {
		return selected, nil
	}
	if s != nil && len(s.ExportFormats) > 0 {
		return append([]string(nil), s.ExportFormats...), nil
	}
	return nil, ErrNoFormats
}
