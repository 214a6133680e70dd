package logo

import (
	"context"
	"fmt"
	"image"
)

const (
	ModeEdge   = "edge"
	ModeGlobal = "global"
	ModeNone   = "none"
)

// BackgroundRemover 去背景，返回新图，不修改入参
type BackgroundRemover interface {
	Name() string
	Remove(ctx context.Context, img image.Image) (image.Image, error)
}

// NewRemover 按模式创建去背景实现
func NewRemover(mode string, threshold int) (BackgroundRemover, error) {
	switch mode {
	case ModeEdge, ModeGlobal:
		if err := validateThreshold(threshold); err != nil {
			return nil, err
		}
	}

	switch mode {
	case ModeEdge:
		return NewEdgeRemover(threshold), nil
	case ModeGlobal:
		return NewGlobalRemover(threshold), nil
	case ModeNone:
		return NewNopRemover(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// NopRemover 保留背景，只做格式转换
type NopRemover struct{}

func NewNopRemover() *NopRemover {
	return &NopRemover{}
}

func (n *NopRemover) Name() string {
	return ModeNone
}

func (n *NopRemover) Remove(_ context.Context, img image.Image) (image.Image, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	return cloneNRGBA(img), nil
}
