package card

import (
	"fmt"
	"time"
)

// Content 是卡片上的四段文本，对应侧边栏的四个输入框。
type Content struct {
	Quote  string
	Book   string
	Author string
	Seal   string
}

// FormatDate 按卡片页眉的 YYYY.MM.DD 格式输出日期。
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%04d.%02d.%02d", t.Year(), int(t.Month()), t.Day())
}
