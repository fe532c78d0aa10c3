package render

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"github.com/ByLCY/bookcard/card"
)

// FileName 生成导出文件名：book-excerpt-<毫秒时间戳>.<扩展名>。
func FileName(ext string, now time.Time) string {
	return fmt.Sprintf("book-excerpt-%d.%s", now.UnixMilli(), ext)
}

// EncodeImage 按格式参数把栅格图写入 w。svg 不走这里，由矢量路径直接输出。
func EncodeImage(w io.Writer, img image.Image, spec card.FormatSpec) error {
	switch spec.Name {
	case card.FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: int(spec.Quality * 100)})
	case card.FormatWebP:
		// nativewebp 只做无损编码，质量参数不参与
		return nativewebp.Encode(w, img, nil)
	case card.FormatSVG:
		return fmt.Errorf("svg 不支持栅格编码")
	default:
		return png.Encode(w, img)
	}
}
