package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ByLCY/bookcard/card"
)

// Archive 是导出的配置存档（JSON 文件），可以在另一台机器上导入还原。
// style 字段全部用指针表示"未提供"，导入时缺省字段保持原状态不变。
type Archive struct {
	Version    string         `json:"version"`
	ExportedAt string         `json:"exportedAt,omitempty"`
	Content    ArchiveContent `json:"content"`
	Style      ArchiveStyle   `json:"style"`
}

// ArchiveContent 是存档中的文本内容部分。
type ArchiveContent struct {
	Quote    *string `json:"quote,omitempty"`
	Book     *string `json:"book,omitempty"`
	Author   *string `json:"author,omitempty"`
	Seal     *string `json:"seal,omitempty"`
	SealFont *string `json:"sealFont,omitempty"`
}

// ArchiveStyle 是存档中的样式部分。
type ArchiveStyle struct {
	Theme         *string  `json:"theme,omitempty"`
	Layout        *string  `json:"layout,omitempty"`
	Font          *string  `json:"font,omitempty"`
	FontSize      *float64 `json:"fontSize,omitempty"`
	FontColor     *string  `json:"fontColor,omitempty"`
	CardWidth     *float64 `json:"cardWidth,omitempty"`
	TextAlign     *string  `json:"textAlign,omitempty"`
	ExportFormats []string `json:"exportFormats,omitempty"`
}

// ExportArchive 把当前内容与状态打包成存档。
func ExportArchive(content card.Content, state *card.State) *Archive {
	return &Archive{
		Version:    card.Version,
		ExportedAt: time.Now().Format(time.RFC3339),
		Content: ArchiveContent{
			Quote:    &content.Quote,
			Book:     &content.Book,
			Author:   &content.Author,
			Seal:     &content.Seal,
			SealFont: &state.SealFont,
		},
		Style: ArchiveStyle{
			Theme:         &state.Theme,
			Layout:        &state.Layout,
			Font:          &state.Font,
			FontSize:      &state.FontSize,
			FontColor:     &state.FontColor,
			CardWidth:     &state.CardWidth,
			TextAlign:     &state.TextAlign,
			ExportFormats: state.ExportFormats,
		},
	}
}

// ParseArchive 解析并校验存档结构。结构非法返回硬错误；
// 主版本号不一致通过 VersionMismatch 返回软警告，由调用方决定是否继续。
func ParseArchive(data []byte) (*Archive, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("无效的配置文件格式: %w", err)
	}
	if _, ok := raw["content"]; !ok {
		return nil, fmt.Errorf("无效的配置文件格式: 缺少 content")
	}
	if _, ok := raw["style"]; !ok {
		return nil, fmt.Errorf("无效的配置文件格式: 缺少 style")
	}

	var a Archive
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("无效的配置文件格式: %w", err)
	}
	return &a, nil
}

// VersionMismatch 判断存档版本与当前版本是否可能不兼容（主版本号不同，
// 或存档根本没有版本号）。不兼容不是硬错误，需要用户确认后继续。
func (a *Archive) VersionMismatch() bool {
	if a.Version == "" {
		return true
	}
	return majorOf(a.Version) != majorOf(card.Version)
}

func majorOf(version string) string {
	if i := strings.IndexByte(version, '.'); i >= 0 {
		return version[:i]
	}
	return version
}

// Apply 将存档写回内容与状态：只覆盖存档提供的字段，其余保持不变。
func (a *Archive) Apply(content *card.Content, state *card.State) {
	if a.Content.Quote != nil {
		content.Quote = *a.Content.Quote
	}
	if a.Content.Book != nil {
		content.Book = *a.Content.Book
	}
	if a.Content.Author != nil {
		content.Author = *a.Content.Author
	}
	if a.Content.Seal != nil {
		content.Seal = *a.Content.Seal
	}

	state.Update(card.Patch{
		Theme:         a.Style.Theme,
		Layout:        a.Style.Layout,
		Font:          a.Style.Font,
		FontSize:      a.Style.FontSize,
		FontColor:     a.Style.FontColor,
		CardWidth:     a.Style.CardWidth,
		TextAlign:     a.Style.TextAlign,
		ExportFormats: a.Style.ExportFormats,
		SealFont:      a.Content.SealFont,
	})
}
