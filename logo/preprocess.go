package logo

import (
	"context"
	"fmt"
	"image"
)

// 主体判定的 alpha 比例，用于裁剪
const trimAlpha = 0.8

// Options 一次处理的参数
type Options struct {
	Mode      string // edge | global | none
	Threshold int
	Recolor   bool
	MaxSize   int // 最长边上限，0 表示不缩放
	Trim      bool
}

func DefaultOptions() Options {
	return Options{
		Mode:      ModeEdge,
		Threshold: DefaultThreshold,
	}
}

func (o Options) Validate() error {
	if err := validateThreshold(o.Threshold); err != nil {
		return err
	}
	if o.MaxSize < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxSize, o.MaxSize)
	}
	switch o.Mode {
	case ModeEdge, ModeGlobal, ModeNone:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, o.Mode)
	}
}

type Processor struct {
	RemBG   BackgroundRemover
	Recolor bool
	MaxSize int
	Trim    bool
}

func NewProcessor(opts Options) (*Processor, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	rembg, err := NewRemover(opts.Mode, opts.Threshold)
	if err != nil {
		return nil, err
	}
	return &Processor{
		RemBG:   rembg,
		Recolor: opts.Recolor,
		MaxSize: opts.MaxSize,
		Trim:    opts.Trim,
	}, nil
}

// Process 处理一张 logo
//
//	缩放（最长边 <= MaxSize）
//	去背景
//	祖母绿重新上色
//	按可见主体做正方形中心裁剪
//
// 每一步都在新的缓冲区上进行，失败时入参不受影响
func (p *Processor) Process(ctx context.Context, input image.Image) (*image.NRGBA, error) {
	if input == nil {
		return nil, ErrNilImage
	}

	// 1. 缩放
	output := resizeWithinMax(cloneNRGBA(input), p.MaxSize)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 2. 背景去除
	if p.RemBG != nil {
		removed, err := p.RemBG.Remove(ctx, output)
		if err != nil {
			return nil, fmt.Errorf("remove background (%s): %w", p.RemBG.Name(), err)
		}
		output = asNRGBA(removed)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 3. 重新上色
	if p.Recolor {
		recolored, err := Recolor(output)
		if err != nil {
			return nil, fmt.Errorf("recolor: %w", err)
		}
		output = recolored
	}

	// 4. 正方形中心裁剪
	if p.Trim && !output.Bounds().Empty() {
		bbox, err := alphaBBox(output, trimAlpha)
		if err != nil {
			return nil, err
		}
		output = cropSquare(output, bbox)
	}

	return output, nil
}

func asNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok {
		return nrgba
	}
	return cloneNRGBA(img)
}
