package card

// 该文件实现捕获管线操作的元素模型：卡片是一棵带内联样式的元素树，
// 克隆、清理与竖排改写都在这棵树（或它的克隆）上进行，渲染器最终
// 按树上的样式绘制。只实现管线需要的最小能力。

// Style 保存元素的内联样式声明。
type Style map[string]string

// Get 返回属性值，未设置时为空字符串。
func (s Style) Get(prop string) string { return s[prop] }

// Set 写入一个属性值。
func (s Style) Set(prop, value string) { s[prop] = value }

// Remove 删除一个属性。
func (s Style) Remove(prop string) { delete(s, prop) }

// Element 是元素树中的一个节点。
type Element struct {
	Tag      string
	ID       string
	Class    string
	Text     string
	Style    Style
	Children []*Element
}

// NewElement 创建一个带空样式表的元素。
func NewElement(tag string) *Element {
	return &Element{Tag: tag, Style: Style{}}
}

// Append 追加子元素并返回自身，方便链式构建。
func (e *Element) Append(children ...*Element) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// InsertBefore 在 ref 之前插入 child；ref 不在子节点中时追加到末尾。
func (e *Element) InsertBefore(child, ref *Element) {
	for i, c := range e.Children {
		if c == ref {
			e.Children = append(e.Children[:i], append([]*Element{child}, e.Children[i:]...)...)
			return
		}
	}
	e.Children = append(e.Children, child)
}

// QueryClass 深度优先查找第一个带指定 class 的后代（含自身）。
func (e *Element) QueryClass(class string) *Element {
	if e.hasClass(class) {
		return e
	}
	for _, c := range e.Children {
		if found := c.QueryClass(class); found != nil {
			return found
		}
	}
	return nil
}

func (e *Element) hasClass(class string) bool {
	rest := e.Class
	for len(rest) > 0 {
		name := rest
		if i := indexSpace(rest); i >= 0 {
			name, rest = rest[:i], rest[i+1:]
		} else {
			rest = ""
		}
		if name == class {
			return true
		}
	}
	return false
}

func indexSpace(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			return i
		}
	}
	return -1
}

// Hidden 判断元素是否被 display:none 隐藏。
func (e *Element) Hidden() bool { return e.Style.Get("display") == "none" }

// clone 深拷贝元素子树。
func (e *Element) clone() *Element {
	out := &Element{Tag: e.Tag, ID: e.ID, Class: e.Class, Text: e.Text, Style: Style{}}
	for k, v := range e.Style {
		out.Style[k] = v
	}
	for _, c := range e.Children {
		out.Children = append(out.Children, c.clone())
	}
	return out
}

// Document 持有一棵元素树并提供按 ID 查找。捕获管线接收的"克隆文档"
// 就是这个类型：GetElementByID 与 CreateElement 是竖排改写依赖的全部接口。
type Document struct {
	Root *Element
}

// GetElementByID 深度优先查找指定 ID 的元素，找不到时返回 nil。
func (d *Document) GetElementByID(id string) *Element {
	if d == nil || d.Root == nil {
		return nil
	}
	return findByID(d.Root, id)
}

// CreateElement 创建一个归属本文档的新元素。
func (d *Document) CreateElement(tag string) *Element { return NewElement(tag) }

// Clone 深拷贝整个文档。清理与竖排改写只应作用于克隆，原文档保持原样。
func (d *Document) Clone() *Document {
	if d == nil || d.Root == nil {
		return &Document{}
	}
	return &Document{Root: d.Root.clone()}
}

func findByID(e *Element, id string) *Element {
	if e.ID == id {
		return e
	}
	for _, c := range e.Children {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}
