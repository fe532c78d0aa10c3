package config

// Theme 描述一个可选背景主题。Color 与 Background 二选一生效，
// Background（CSS 渐变表达式）优先。
type Theme struct {
	ID         string `json:"id" yaml:"id"`
	Color      string `json:"color,omitempty" yaml:"color,omitempty"`
	Border     string `json:"border,omitempty" yaml:"border,omitempty"`
	Background string `json:"background,omitempty" yaml:"background,omitempty"`
}

// Font 描述一个可选字体。Value 是 CSS font-family 值。
type Font struct {
	ID       string `json:"id" yaml:"id"`
	Value    string `json:"value" yaml:"value"`
	Name     string `json:"name" yaml:"name"`
	Subtitle string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
}

// FontColor 描述一个可选文字颜色。
type FontColor struct {
	ID    string `json:"id" yaml:"id"`
	Value string `json:"value" yaml:"value"`
	Name  string `json:"name" yaml:"name"`
}

// Config 聚合三类可配置数据，与远端 /api/config 的负载一致。
type Config struct {
	Themes     []Theme     `json:"themes,omitempty" yaml:"themes,omitempty"`
	Fonts      []Font      `json:"fonts,omitempty" yaml:"fonts,omitempty"`
	FontColors []FontColor `json:"fontColors,omitempty" yaml:"fontColors,omitempty"`
}

// FindTheme 按 ID 查找主题，找不到时返回 nil。
func (c *Config) FindTheme(id string) *Theme {
	if c == nil {
		return nil
	}
	for i := range c.Themes {
		if c.Themes[i].ID == id {
			return &c.Themes[i]
		}
	}
	return nil
}

// Valid 逐类校验配置数据。空类目合法（表示不覆盖）。
func (c *Config) Valid() bool {
	if c == nil {
		return false
	}
	for _, t := range c.Themes {
		if t.ID == "" || (t.Color == "" && t.Background == "") {
			return false
		}
	}
	for _, f := range c.Fonts {
		if f.ID == "" || f.Value == "" || f.Name == "" {
			return false
		}
	}
	for _, fc := range c.FontColors {
		if fc.ID == "" || fc.Value == "" || fc.Name == "" {
			return false
		}
	}
	return true
}

// Merge 将服务端配置合并到默认配置之上：某一类目在服务端存在且合法时
// 整体替换默认类目，而不是逐项合并。服务端配置整体非法时原样返回默认值。
func Merge(server, defaults *Config) *Config {
	if server == nil || !server.Valid() {
		return defaults
	}
	out := &Config{
		Themes:     defaults.Themes,
		Fonts:      defaults.Fonts,
		FontColors: defaults.FontColors,
	}
	if len(server.Themes) > 0 {
		out.Themes = server.Themes
	}
	if len(server.Fonts) > 0 {
		out.Fonts = server.Fonts
	}
	if len(server.FontColors) > 0 {
		out.FontColors = server.FontColors
	}
	return out
}
