package render

import "github.com/ByLCY/bookcard/card"

// snapshotProps 是捕获前后需要保存/恢复的四个内联属性。
var snapshotProps = [...]string{"transform", "box-shadow", "position", "z-index"}

// StyleSnapshot 保存卡片元素捕获前的内联样式，无论导出成败都要恢复。
type StyleSnapshot struct {
	el     *card.Element
	values map[string]string
	// present 区分"属性原本就不存在"与"属性值为空串"
	present map[string]bool
}

// TakeSnapshot 记录卡片元素当前的快照属性。
func TakeSnapshot(el *card.Element) *StyleSnapshot {
	s := &StyleSnapshot{el: el, values: map[string]string{}, present: map[string]bool{}}
	if el == nil {
		return s
	}
	for _, prop := range snapshotProps {
		if v, ok := el.Style[prop]; ok {
			s.values[prop] = v
			s.present[prop] = true
		}
	}
	return s
}

// Restore 把快照属性写回元素：原本不存在的属性被移除。
func (s *StyleSnapshot) Restore() {
	if s == nil || s.el == nil {
		return
	}
	for _, prop := range snapshotProps {
		if s.present[prop] {
			s.el.Style.Set(prop, s.values[prop])
		} else {
			s.el.Style.Remove(prop)
		}
	}
}

// applyCaptureState 把卡片置于标准捕获姿态：去掉变换与阴影、
// 相对定位并抬高层级。调用方负责事后 Restore。
func applyCaptureState(el *card.Element) {
	if el == nil {
		return
	}
	el.Style.Set("transform", "none")
	el.Style.Set("box-shadow", "none")
	el.Style.Set("position", "relative")
	el.Style.Set("z-index", "9999")
}
