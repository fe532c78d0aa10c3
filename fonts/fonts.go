package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/bookcard/cssvalue"
)

// Library 把 CSS font-family 列表解析为可绘制的字体族。查找顺序：
// 资源目录中按规范化文件名匹配 -> 系统字体 -> 列表中的下一个候选 ->
// 共享的回退字体族。同一个列表只解析一次，结果带锁缓存。
type Library struct {
	assetDirs []string

	mu       sync.Mutex
	families map[string]*canvas.FontFamily
	fallback *canvas.FontFamily
}

// 通用族名到系统字体的映射。
var genericFamilies = map[string]string{
	"serif":      "serif",
	"sans-serif": "sans-serif",
	"cursive":    "serif", // 手写体缺失时宁可退到衬线
	"monospace":  "monospace",
}

// NewLibrary 创建字体库。assetDirs 是用户提供的字体目录，可以为空。
func NewLibrary(assetDirs ...string) *Library {
	dirs := make([]string, 0, len(assetDirs))
	for _, d := range assetDirs {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return &Library{
		assetDirs: dirs,
		families:  map[string]*canvas.FontFamily{},
	}
}

// Ready 预加载给定的字体列表，对应浏览器里等待 document.fonts.ready。
// 只有回退字体也无法加载时才返回错误。
func (l *Library) Ready(cssLists ...string) error {
	for _, list := range cssLists {
		if list == "" {
			continue
		}
		if _, err := l.Family(list); err != nil {
			return err
		}
	}
	return nil
}

// Family 解析 CSS font-family 列表并返回第一个可加载的字体族。
func (l *Library) Family(cssList string) (*canvas.FontFamily, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if fam, ok := l.families[cssList]; ok {
		return fam, nil
	}

	names, err := cssvalue.ParseFontFamilies(cssList)
	if err != nil {
		// 列表本身不可解析时整体按单个族名处理
		names = []string{strings.TrimSpace(cssList)}
	}

	for _, name := range names {
		if fam := l.loadFamily(name); fam != nil {
			l.families[cssList] = fam
			return fam, nil
		}
	}

	fam, err := l.ensureFallback()
	if err != nil {
		return nil, fmt.Errorf("字体列表 %q 无可用字体: %w", cssList, err)
	}
	l.families[cssList] = fam
	return fam, nil
}

// loadFamily 尝试加载单个族名，失败时返回 nil。
func (l *Library) loadFamily(name string) *canvas.FontFamily {
	if name == "" {
		return nil
	}
	family := canvas.NewFontFamily(name)

	if path := l.findAssetFont(name); path != "" {
		if err := family.LoadFontFile(path, canvas.FontRegular); err == nil {
			return family
		}
	}

	sysName := name
	if generic, ok := genericFamilies[strings.ToLower(name)]; ok {
		sysName = generic
	}
	if err := family.LoadSystemFont(sysName, canvas.FontRegular); err == nil {
		return family
	}
	return nil
}

// findAssetFont 在资源目录里查找与族名匹配的字体文件。
// 匹配按规范化名称进行："Noto Serif SC" 可命中 NotoSerifSC-Regular.ttf。
func (l *Library) findAssetFont(name string) string {
	want := normalizeFontName(name)
	for _, dir := range l.assetDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(entry.Name()))
			if ext != ".ttf" && ext != ".otf" {
				continue
			}
			base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
			// 去掉 -Regular/-Bold 之类的字重后缀再比较
			if i := strings.IndexByte(base, '-'); i > 0 {
				base = base[:i]
			}
			if normalizeFontName(base) == want {
				return filepath.Join(dir, entry.Name())
			}
		}
	}
	return ""
}

func (l *Library) ensureFallback() (*canvas.FontFamily, error) {
	if l.fallback != nil {
		return l.fallback, nil
	}
	family := canvas.NewFontFamily("bookcard-fallback")
	var lastErr error
	for _, name := range []string{"serif", "sans-serif"} {
		if err := family.LoadSystemFont(name, canvas.FontRegular); err == nil {
			l.fallback = family
			return family, nil
		} else {
			lastErr = err
		}
	}
	return nil, fmt.Errorf("加载回退字体失败: %w", lastErr)
}

// normalizeFontName 统一大小写并去掉空格、连字符与下划线。
func normalizeFontName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch r {
		case ' ', '-', '_', '\'', '"':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
