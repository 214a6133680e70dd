package logo

import (
	"context"
	"image"
)

// point 队列中的坐标，允许越界，出队时再检查
type point struct {
	x, y int
}

// RemoveBackground 把与图片边缘连通的近白背景变成透明，内部被包围的白色区域保持不变
//
//	从四条边上的所有像素出发做 BFS（4 连通）
//	近白像素：标记为背景，并把上下左右四个邻居入队
//	已透明像素（alpha == 0）：标记为背景，但不向邻居扩散
//	其余像素：不标记，不扩散
//
// 返回新的 NRGBA，入参不会被修改。宽或高为 0 时原样返回一张空图。
func RemoveBackground(img image.Image, threshold int) (*image.NRGBA, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}

	out := cloneNRGBA(img)
	w, h := out.Bounds().Dx(), out.Bounds().Dy()
	if w == 0 || h == 0 {
		return out, nil
	}

	mask := backgroundMask(out, uint8(threshold))
	for i, bg := range mask {
		if bg {
			y, x := i/w, i%w
			out.Pix[y*out.Stride+x*4+3] = 0
		}
	}
	return out, nil
}

// backgroundMask 返回 w*h 的背景标记，下标为 y*w+x
func backgroundMask(img *image.NRGBA, threshold uint8) []bool {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	visited := make([]bool, w*h)
	mask := make([]bool, w*h)

	// 四个角会入队两次，出队时被 visited 过滤掉
	queue := make([]point, 0, 2*(w+h))
	for x := 0; x < w; x++ {
		queue = append(queue, point{x, 0}, point{x, h - 1})
	}
	for y := 0; y < h; y++ {
		queue = append(queue, point{0, y}, point{w - 1, y})
	}

	for head := 0; head < len(queue); head++ {
		p := queue[head]
		if p.x < 0 || p.x >= w || p.y < 0 || p.y >= h {
			continue
		}
		i := p.y*w + p.x
		if visited[i] {
			continue
		}
		visited[i] = true

		pix := img.Pix[p.y*img.Stride+p.x*4 : p.y*img.Stride+p.x*4+4]
		switch {
		case pix[3] == 0:
			mask[i] = true
		case isNearWhite(pix, threshold):
			mask[i] = true
			queue = append(queue,
				point{p.x + 1, p.y},
				point{p.x - 1, p.y},
				point{p.x, p.y + 1},
				point{p.x, p.y - 1},
			)
		}
	}

	return mask
}

// EdgeRemover 边缘连通的洪水填充去背景
type EdgeRemover struct {
	Threshold int
}

func NewEdgeRemover(threshold int) *EdgeRemover {
	return &EdgeRemover{Threshold: threshold}
}

func (e *EdgeRemover) Name() string {
	return ModeEdge
}

func (e *EdgeRemover) Remove(_ context.Context, img image.Image) (image.Image, error) {
	out, err := RemoveBackground(img, e.Threshold)
	if err != nil {
		return nil, err
	}
	return out, nil
}
