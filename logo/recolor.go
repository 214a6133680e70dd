package logo

import (
	"image"
)

// Recolor 按亮度把可见像素映射到祖母绿渐变，透明像素不动，alpha 保持不变
//
//	亮度 = (r+g+b)/3
//	< 50        深祖母绿
//	[50, 128)   祖母绿
//	>= 128      白绿
func Recolor(img image.Image) (*image.NRGBA, error) {
	if img == nil {
		return nil, ErrNilImage
	}

	out := cloneNRGBA(img)
	w, h := out.Bounds().Dx(), out.Bounds().Dy()

	for y := 0; y < h; y++ {
		row := y * out.Stride
		for x := 0; x < w; x++ {
			i := row + x*4
			if out.Pix[i+3] == 0 {
				continue
			}
			out.Pix[i], out.Pix[i+1], out.Pix[i+2] = emerald(out.Pix[i], out.Pix[i+1], out.Pix[i+2])
		}
	}
	return out, nil
}

// emerald 单个像素的映射，小数部分直接截断
func emerald(r, g, b uint8) (uint8, uint8, uint8) {
	brightness := (float64(r) + float64(g) + float64(b)) / 3

	var nr, ng, nb int
	switch {
	case brightness < 50:
		nr = int(brightness * 0.2)
		ng = int(brightness * 1.8)
		nb = int(brightness * 0.6)
	case brightness < 128:
		f := brightness / 128
		nr = int(16 + f*50)  // 16-66
		ng = int(185 + f*40) // 185-225
		nb = int(129 + f*50) // 129-179
	default:
		f := (brightness - 128) / 127
		nr = int(200 + f*55) // 200-255
		ng = int(240 + f*15) // 240-255
		nb = int(220 + f*35) // 220-255
	}

	return clamp8(nr), clamp8(ng), clamp8(nb)
}

func clamp8(v int) uint8 {
	return uint8(max(0, min(255, v)))
}
