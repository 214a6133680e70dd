package logo

import (
	"image"
	"image/color"
)

var (
	white       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	green       = color.NRGBA{R: 16, G: 185, B: 129, A: 255}
	transparent = color.NRGBA{R: 255, G: 255, B: 255, A: 0}

	// 有一个通道低于阈值，不算近白
	offWhite = color.NRGBA{R: 255, G: 255, B: 200, A: 255}
)

// newImage 按字符画构造图片：W 白、G 绿、O 偏白、T 透明
func newImage(rows ...string) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, len(rows[0]), len(rows)))
	for y, row := range rows {
		for x, c := range row {
			switch c {
			case 'W':
				img.SetNRGBA(x, y, white)
			case 'G':
				img.SetNRGBA(x, y, green)
			case 'O':
				img.SetNRGBA(x, y, offWhite)
			case 'T':
				img.SetNRGBA(x, y, transparent)
			}
		}
	}
	return img
}

// alphaMap 把 alpha 通道画成字符画：0 为 '.'，其余为 '#'
func alphaMap(img *image.NRGBA) []string {
	b := img.Bounds()
	rows := make([]string, 0, b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := make([]byte, 0, b.Dx())
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.NRGBAAt(x, y).A == 0 {
				row = append(row, '.')
			} else {
				row = append(row, '#')
			}
		}
		rows = append(rows, string(row))
	}
	return rows
}
