package binding

import (
	"testing"

	"github.com/ByLCY/bookcard/card"
)

func mustData(t *testing.T, raw string) any {
	t.Helper()
	data, err := ParseData([]byte(raw))
	if err != nil {
		t.Fatalf("解析数据失败: %v", err)
	}
	return data
}

func TestInterpolate(t *testing.T) {
	data := mustData(t, `{
		"book": {"title": "活着", "author": "余华"},
		"quotes": [{"text": "人是为活着本身而活着的。"}],
		"year": 1993
	}`)

	tests := []struct {
		in, want string
	}{
		{"${book.title}", "活着"},
		{"${quotes[0].text}", "人是为活着本身而活着的。"},
		{"出版于 ${year} 年", "出版于 1993 年"},
		{"${book.missing}", "${book.missing}"},
		{"${quotes[5].text}", "${quotes[5].text}"},
		{"没有占位符", "没有占位符"},
		{"${}", "${}"},
	}
	for _, tt := range tests {
		if got := Interpolate(tt.in, data); got != tt.want {
			t.Errorf("Interpolate(%q) = %q, 期望 %q", tt.in, got, tt.want)
		}
	}
}

func TestInterpolateNilData(t *testing.T) {
	if got := Interpolate("${a.b}", nil); got != "${a.b}" {
		t.Errorf("无数据时应原样返回: %q", got)
	}
}

func TestInterpolateContent(t *testing.T) {
	data := mustData(t, `{"book": {"title": "边城", "author": "沈从文"}, "seal": "雅"}`)
	content := card.Content{
		Quote:  "${book.title}里的渡船",
		Book:   "${book.title}",
		Author: "${book.author}",
		Seal:   "${seal}",
	}
	out := InterpolateContent(content, data)
	if out.Book != "边城" || out.Author != "沈从文" || out.Seal != "雅" {
		t.Errorf("内容插值不符: %+v", out)
	}
	if out.Quote != "边城里的渡船" {
		t.Errorf("引文插值不符: %q", out.Quote)
	}
}

func TestParseDataInvalid(t *testing.T) {
	if _, err := ParseData([]byte("{broken")); err == nil {
		t.Fatalf("非法 JSON 应报错")
	}
}
