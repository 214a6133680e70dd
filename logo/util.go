package logo

import (
	"fmt"
	"image"
	"math"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

const (
	// DefaultThreshold 近白判定的默认阈值
	DefaultThreshold = 240
	// MaxThreshold 8 位通道的上限
	MaxThreshold = 255
)

// validateThreshold 阈值越界直接报错，不做截断
func validateThreshold(threshold int) error {
	if threshold < 0 || threshold > MaxThreshold {
		return fmt.Errorf("%w: got %d", ErrInvalidThreshold, threshold)
	}
	return nil
}

// isNearWhite R、G、B 三个通道都 >= threshold 才算近白
func isNearWhite(pix []uint8, threshold uint8) bool {
	return pix[0] >= threshold && pix[1] >= threshold && pix[2] >= threshold
}

// cloneNRGBA 复制一份 NRGBA（非预乘），调用方的图片不会被修改
// 透明像素的 RGB 在非预乘格式下得以保留
func cloneNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(b)
	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+b.Dx()*4], src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return dst
	}
	draw.Draw(dst, b, img, b.Min, draw.Src)
	return dst
}

// resizeWithinMax 缩放（最长边 <= maxSize），maxSize 为 0 时不缩放
func resizeWithinMax(img *image.NRGBA, maxSize int) *image.NRGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	longest := max(w, h)

	if maxSize <= 0 || longest <= maxSize {
		return img
	}

	scale := float64(maxSize) / float64(longest)
	newW := max(1, int(float64(w)*scale))
	newH := max(1, int(float64(h)*scale))

	resized := resize.Resize(uint(newW), uint(newH), img, resize.Lanczos3)
	return cloneNRGBA(resized)
}

// alphaBBox 从 alpha 通道计算主体 bounding box
// 把 alpha > threshold * 255 的像素当作“主体”
func alphaBBox(img *image.NRGBA, threshold float64) (image.Rectangle, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	th := uint8(threshold * 255)

	minX, minY := w, h
	maxX, maxY := 0, 0
	found := false

	for y := 0; y < h; y++ {
		row := y * img.Stride
		for x := 0; x < w; x++ {
			if img.Pix[row+x*4+3] <= th {
				continue
			}
			found = true
			minX, minY = min(minX, x), min(minY, y)
			maxX, maxY = max(maxX, x), max(maxY, y)
		}
	}

	if !found {
		return image.Rectangle{}, ErrNoForeground
	}

	return image.Rect(minX, minY, maxX+1, maxY+1).Add(img.Bounds().Min), nil
}

// cropSquare 以主体中心为圆心、最长边为边长做正方形裁剪
// 超出图片的部分会被截掉，所以贴边的主体可能得到非正方形
func cropSquare(img *image.NRGBA, bbox image.Rectangle) *image.NRGBA {
	cx := (bbox.Min.X + bbox.Max.X) / 2
	cy := (bbox.Min.Y + bbox.Max.Y) / 2
	size := int(math.Max(float64(bbox.Dx()), float64(bbox.Dy())))

	half := size / 2
	rect := image.Rect(
		cx-half, cy-half,
		cx-half+size, cy-half+size,
	).Intersect(img.Bounds())

	dst := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)
	return dst
}
