package layout

// BuildOptions 配置布局阶段所需的依赖，例如排版后端。
type BuildOptions struct {
	Typesetter Typesetter
}

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。
// fontFamily 是 CSS font-family 列表，由排版后端自行解析。
type Typesetter interface {
	LayoutLines(content string, width float64, fontFamily string, fontSize, lineHeight float64) ([]TextLine, error)
}
