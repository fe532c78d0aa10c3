package preview

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/ByLCY/bookcard/card"
)

// Thumbnail 把卡片栅格按固定比例缩小，作为侧栏缩略图。
func Thumbnail(src image.Image) image.Image {
	return Scale(src, card.ThumbnailScaleRatio)
}

// Scale 按比例缩放图像，比例非法时原样返回。
func Scale(src image.Image, ratio float64) image.Image {
	if src == nil || ratio <= 0 || ratio == 1 {
		return src
	}
	b := src.Bounds()
	w := int(float64(b.Dx()) * ratio)
	h := int(float64(b.Dy()) * ratio)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
