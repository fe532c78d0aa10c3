// Package binding 支持在卡片内容中引用外部 JSON 数据：
// 文本里的 ${path.to[0].value} 占位符按路径替换，未命中的保持原样。
package binding

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ByLCY/bookcard/card"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ParseData 解析 -data 传入的 JSON 文档。
func ParseData(raw []byte) (any, error) {
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("解析数据文档失败: %w", err)
	}
	return data, nil
}

// InterpolateContent 对内容的四个文本字段逐一做占位符替换。
func InterpolateContent(content card.Content, data any) card.Content {
	content.Quote = Interpolate(content.Quote, data)
	content.Book = Interpolate(content.Book, data)
	content.Author = Interpolate(content.Author, data)
	content.Seal = Interpolate(content.Seal, data)
	return content
}

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// data 为 nil 或路径不存在时占位符原样保留。
func Interpolate(text string, data any) string {
	if data == nil || !strings.Contains(text, "${") {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if path == "" {
			return match
		}
		val, ok := lookup(data, path)
		if !ok {
			return match
		}
		return formatValue(val)
	})
}

// lookup 沿 a.b[1].c 形式的路径在解码后的 JSON 值中下行。
func lookup(data any, path string) (any, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes, ok := splitSegment(segment)
		if !ok {
			return nil, false
		}
		if name != "" {
			obj, isMap := current.(map[string]any)
			if !isMap {
				return nil, false
			}
			val, exists := obj[name]
			if !exists {
				return nil, false
			}
			current = val
		}
		for _, idx := range indexes {
			arr, isArr := current.([]any)
			if !isArr || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			current = arr[idx]
		}
	}
	return current, true
}

// splitSegment 把 name[1][2] 拆成字段名与下标序列。
func splitSegment(segment string) (string, []int, bool) {
	name := segment
	var indexes []int
	if i := strings.IndexByte(segment, '['); i >= 0 {
		name = segment[:i]
		rest := segment[i:]
		for strings.HasPrefix(rest, "[") {
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return "", nil, false
			}
			idx, err := strconv.Atoi(rest[1:end])
			if err != nil {
				return "", nil, false
			}
			indexes = append(indexes, idx)
			rest = rest[end+1:]
		}
		if rest != "" {
			return "", nil, false
		}
	}
	return name, indexes, true
}

// formatValue 按 JSON 习惯输出：整数值不带小数点。
func formatValue(val any) string {
	if f, ok := val.(float64); ok && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return fmt.Sprint(val)
}
