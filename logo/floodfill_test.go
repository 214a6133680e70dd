package logo

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveBackground(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     []string
		threshold int
		want      []string
	}{
		{
			name: "白边包围非白中心",
			input: []string{
				"WWW",
				"WGW",
				"WWW",
			},
			threshold: DefaultThreshold,
			want: []string{
				"...",
				".#.",
				"...",
			},
		},
		{
			name: "两圈白色包围偏白中心",
			input: []string{
				"WWWWW",
				"WWWWW",
				"WWOWW",
				"WWWWW",
				"WWWWW",
			},
			threshold: DefaultThreshold,
			want: []string{
				".....",
				".....",
				"..#..",
				".....",
				".....",
			},
		},
		{
			name: "绿色圆环内的白色被保留",
			input: []string{
				"WWWWWWW",
				"WGGGGGW",
				"WGWWWGW",
				"WGWWWGW",
				"WGWWWGW",
				"WGGGGGW",
				"WWWWWWW",
			},
			threshold: DefaultThreshold,
			want: []string{
				".......",
				".#####.",
				".#####.",
				".#####.",
				".#####.",
				".#####.",
				".......",
			},
		},
		{
			name:      "全白变全透明",
			input:     []string{"WWWW", "WWWW"},
			threshold: DefaultThreshold,
			want:      []string{"....", "...."},
		},
		{
			name: "边缘透明像素不向内扩散",
			input: []string{
				"GGGGG",
				"GGGGG",
				"TWGGG",
				"GGGGG",
				"GGGGG",
			},
			threshold: DefaultThreshold,
			want: []string{
				"#####",
				"#####",
				".####",
				"#####",
				"#####",
			},
		},
		{
			name: "与边缘透明像素相邻的白色通路仍被清除",
			input: []string{
				"GWGGG",
				"GWGGG",
				"TWGGG",
				"GGGGG",
				"GGGGG",
			},
			threshold: DefaultThreshold,
			want: []string{
				"#.###",
				"#.###",
				"..###",
				"#####",
				"#####",
			},
		},
		{
			name:      "阈值 0 时所有像素都算近白",
			input:     []string{"GGG", "GGG", "GGG"},
			threshold: 0,
			want:      []string{"...", "...", "..."},
		},
		{
			name:      "阈值 255 时偏白不算近白",
			input:     []string{"OOO", "OWO", "OOO"},
			threshold: MaxThreshold,
			want:      []string{"###", "###", "###"},
		},
		{
			name:      "单像素",
			input:     []string{"W"},
			threshold: DefaultThreshold,
			want:      []string{"."},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RemoveBackground(newImage(tt.input...), tt.threshold)
			require.NoError(t, err)
			assert.Equal(t, tt.want, alphaMap(got))
		})
	}
}

func TestRemoveBackground_PreservesUntouchedPixels(t *testing.T) {
	t.Parallel()

	input := newImage(
		"WWWWWWW",
		"WGGGGGW",
		"WGWOWGW",
		"WGGGGGW",
		"WWWWWWW",
	)
	got, err := RemoveBackground(input, DefaultThreshold)
	require.NoError(t, err)

	b := input.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			in, out := input.NRGBAAt(x, y), got.NRGBAAt(x, y)
			onBorder := x == 0 || y == 0 || x == b.Max.X-1 || y == b.Max.Y-1
			if onBorder {
				// 透明像素的 RGB 不变
				assert.Equal(t, color.NRGBA{R: in.R, G: in.G, B: in.B, A: 0}, out, "(%d,%d)", x, y)
				continue
			}
			assert.Equal(t, in, out, "(%d,%d)", x, y)
		}
	}
}

func TestRemoveBackground_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	input := newImage("WWW", "WGW", "WWW")
	before := append([]uint8(nil), input.Pix...)

	_, err := RemoveBackground(input, DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, before, input.Pix)
}

func TestRemoveBackground_Idempotent(t *testing.T) {
	t.Parallel()

	input := image.NewNRGBA(image.Rect(0, 0, 23, 17))
	for y := 0; y < 17; y++ {
		for x := 0; x < 23; x++ {
			v := uint8((x*37 + y*91) % 256)
			a := uint8(255)
			if (x+y)%11 == 0 {
				a = 0
			}
			input.SetNRGBA(x, y, color.NRGBA{R: v | 0xe0, G: v, B: v | 0xf0, A: a})
		}
	}

	once, err := RemoveBackground(input, 200)
	require.NoError(t, err)
	twice, err := RemoveBackground(once, 200)
	require.NoError(t, err)
	assert.Equal(t, once.Pix, twice.Pix)
}

func TestRemoveBackground_SubImageBounds(t *testing.T) {
	t.Parallel()

	full := newImage(
		"GGGGG",
		"GWWWG",
		"GWGWG",
		"GWWWG",
		"GGGGG",
	)
	sub := full.SubImage(image.Rect(1, 1, 4, 4))

	got, err := RemoveBackground(sub, DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(1, 1, 4, 4), got.Bounds())
	assert.Equal(t, []string{"...", ".#.", "..."}, alphaMap(got))
}

func TestRemoveBackground_RGBAInput(t *testing.T) {
	t.Parallel()

	input := image.NewRGBA(image.Rect(0, 0, 3, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			input.Set(x, y, color.White)
		}
	}
	input.Set(1, 1, color.Black)

	got, err := RemoveBackground(input, DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, []string{"...", ".#.", "..."}, alphaMap(got))
}

func TestRemoveBackground_Errors(t *testing.T) {
	t.Parallel()

	_, err := RemoveBackground(nil, DefaultThreshold)
	assert.ErrorIs(t, err, ErrNilImage)

	for _, th := range []int{-1, 256, 1000} {
		_, err := RemoveBackground(newImage("W"), th)
		assert.ErrorIs(t, err, ErrInvalidThreshold, "threshold %d", th)
	}
}

func TestRemoveBackground_EmptyImage(t *testing.T) {
	t.Parallel()

	for _, r := range []image.Rectangle{
		image.Rect(0, 0, 0, 0),
		image.Rect(0, 0, 5, 0),
		image.Rect(0, 0, 0, 5),
	} {
		got, err := RemoveBackground(image.NewNRGBA(r), DefaultThreshold)
		require.NoError(t, err)
		assert.True(t, got.Bounds().Empty())
	}
}

func TestEdgeRemover_Remove(t *testing.T) {
	t.Parallel()

	r := NewEdgeRemover(DefaultThreshold)
	assert.Equal(t, ModeEdge, r.Name())

	got, err := r.Remove(context.Background(), newImage("WWW", "WGW", "WWW"))
	require.NoError(t, err)
	assert.Equal(t, []string{"...", ".#.", "..."}, alphaMap(got.(*image.NRGBA)))

	_, err = NewEdgeRemover(300).Remove(context.Background(), newImage("W"))
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}
