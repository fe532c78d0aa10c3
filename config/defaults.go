package config

// Defaults 返回内置的主题、字体与文字颜色，与线上静态配置保持一致。
func Defaults() *Config {
	return &Config{
		Themes: []Theme{
			{ID: "theme-clean", Color: "#fff", Border: "#ddd"},
			{ID: "theme-paper", Color: "#fdfbf7", Border: "#f0e6d2"},
			{ID: "theme-dark", Color: "#1a1a1a", Border: "#333"},
			{ID: "theme-mist", Color: "#e8ecef", Border: "#d1d9e0"},
			{ID: "theme-pink", Color: "#fff0f5", Border: "#f8bbd0"},
			{ID: "theme-green", Color: "#f1f8e9", Border: "#c5e1a5"},
			{ID: "theme-parchment", Color: "#f4e4bc", Border: "#d4c5a3"},
			{ID: "theme-gradient-blue", Background: "linear-gradient(135deg, #e0c3fc 0%, #8ec5fc 100%)"},
			{ID: "theme-gradient-sunset", Background: "linear-gradient(120deg, #f6d365 0%, #fda085 100%)"},
			{ID: "theme-gradient-mint", Background: "linear-gradient(135deg, #d4fc79 0%, #96e6a1 100%)"},
		},
		Fonts: []Font{
			{ID: "noto-serif", Value: "'Noto Serif SC', serif", Name: "宋体", Subtitle: "标准"},
			{ID: "ma-shan-zheng", Value: "'Ma Shan Zheng', cursive", Name: "马善政", Subtitle: "毛笔"},
			{ID: "zhi-mang-xing", Value: "'Zhi Mang Xing', cursive", Name: "志莽行书", Subtitle: "行书"},
			{ID: "long-cang", Value: "'Long Cang', cursive", Name: "龙苍行书", Subtitle: "行书"},
		},
		FontColors: []FontColor{
			{ID: "color-black", Value: "#1a1a1a", Name: "黑色"},
			{ID: "color-gray", Value: "#666666", Name: "灰色"},
			{ID: "color-dark-gray", Value: "#333333", Name: "深灰"},
			{ID: "color-brown", Value: "#5d4037", Name: "棕色"},
			{ID: "color-dark-blue", Value: "#1e3a5f", Name: "深蓝"},
			{ID: "color-dark-green", Value: "#2e7d32", Name: "深绿"},
			{ID: "color-red", Value: "#c62828", Name: "红色"},
			{ID: "color-purple", Value: "#6a1b9a", Name: "紫色"},
		},
	}
}
