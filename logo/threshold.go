package logo

import (
	"context"
	"image"
)

// StripWhite 把所有近白像素设为透明，不管是否与边缘连通
// 会误伤主体内部的白色细节，需要保留内部白色时用 RemoveBackground
func StripWhite(img image.Image, threshold int) (*image.NRGBA, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}

	out := cloneNRGBA(img)
	w, h := out.Bounds().Dx(), out.Bounds().Dy()
	th := uint8(threshold)

	for y := 0; y < h; y++ {
		row := y * out.Stride
		for x := 0; x < w; x++ {
			i := row + x*4
			if isNearWhite(out.Pix[i:i+4], th) {
				out.Pix[i+3] = 0
			}
		}
	}
	return out, nil
}

// GlobalRemover 全局阈值去白
type GlobalRemover struct {
	Threshold int
}

func NewGlobalRemover(threshold int) *GlobalRemover {
	return &GlobalRemover{Threshold: threshold}
}

func (g *GlobalRemover) Name() string {
	return ModeGlobal
}

func (g *GlobalRemover) Remove(_ context.Context, img image.Image) (image.Image, error) {
	out, err := StripWhite(img, g.Threshold)
	if err != nil {
		return nil, err
	}
	return out, nil
}
