package render

import (
	"fmt"
	"io"

	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/bookcard/layout"
)

// RenderSVG 走矢量路径：布局结果直接写成 SVG，完全绕开栅格化。
func (r *Renderer) RenderSVG(w io.Writer, result *layout.Result, bg CardBackground) error {
	c, err := r.Draw(result, bg)
	if err != nil {
		return err
	}
	writer := svg.New(w, result.Width, result.Height, nil)
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return fmt.Errorf("写入 SVG 失败: %w", err)
	}
	return nil
}
