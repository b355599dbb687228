package state

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pen(x, y float64, drawing bool) DrawSample {
	return DrawSample{Tool: ToolPen, Color: "#ff0000", Size: 4, X: x, Y: y, Drawing: drawing}
}

func TestClampPoint(t *testing.T) {
	values := []float64{
		math.Inf(-1), -1e9, -0.0001, 0, 1, 540, 1080, 1079.999, 1920, 1920.5, 1e12, math.Inf(1), math.NaN(),
	}
	for _, x := range values {
		for _, y := range values {
			p := ClampPoint(x, y)
			assert.True(t, p.X >= 0 && p.X <= SurfaceW, "x=%v -> %v", x, p.X)
			assert.True(t, p.Y >= 0 && p.Y <= SurfaceH, "y=%v -> %v", y, p.Y)
		}
	}
	assert.Equal(t, Point{X: 100, Y: 200}, ClampPoint(100, 200))
	assert.Equal(t, Point{X: SurfaceW, Y: 0}, ClampPoint(5000, -5))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   DrawSample
		want DrawSample
	}{
		{
			name: "missing fields take defaults",
			in:   DrawSample{X: 10, Y: 10, Drawing: true},
			want: DrawSample{Tool: ToolPen, Color: DefaultColor, Size: DefaultSize, X: 10, Y: 10, Drawing: true},
		},
		{
			name: "unknown tool becomes pen",
			in:   DrawSample{Tool: "laser", Color: "#00ff00", Size: 3},
			want: DrawSample{Tool: ToolPen, Color: "#00ff00", Size: 3},
		},
		{
			name: "eraser size floored",
			in:   DrawSample{Tool: ToolEraser, Size: 2},
			want: DrawSample{Tool: ToolEraser, Color: DefaultColor, Size: EraserMinSize},
		},
		{
			name: "eraser keeps larger size",
			in:   DrawSample{Tool: ToolEraser, Size: 30},
			want: DrawSample{Tool: ToolEraser, Color: DefaultColor, Size: 30},
		},
		{
			name: "negative pen size floored",
			in:   DrawSample{Tool: ToolPen, Size: -3},
			want: DrawSample{Tool: ToolPen, Color: DefaultColor, Size: MinPenSize},
		},
		{
			name: "infinite size is treated as missing",
			in:   DrawSample{Tool: ToolPen, Size: math.Inf(1)},
			want: DrawSample{Tool: ToolPen, Color: DefaultColor, Size: DefaultSize},
		},
		{
			name: "negative infinite eraser size is treated as missing",
			in:   DrawSample{Tool: ToolEraser, Size: math.Inf(-1)},
			want: DrawSample{Tool: ToolEraser, Color: DefaultColor, Size: EraserMinSize},
		},
		{
			name: "huge size capped at the surface width",
			in:   DrawSample{Tool: ToolPen, Size: 1e308},
			want: DrawSample{Tool: ToolPen, Color: DefaultColor, Size: MaxSize},
		},
		{
			name: "board and coordinates clamped",
			in:   DrawSample{Board: 42, X: -10, Y: 9999},
			want: DrawSample{Board: NumBoards - 1, Tool: ToolPen, Color: DefaultColor, Size: DefaultSize, X: 0, Y: SurfaceH},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestBoardApply_CommitOnRelease(t *testing.T) {
	var b Board
	assert.Nil(t, b.Apply(pen(100, 100, true)))
	assert.Nil(t, b.Apply(pen(150, 100, true)))
	committed := b.Apply(pen(150, 100, false))

	require.NotNil(t, committed)
	assert.Equal(t, &Stroke{
		Tool:   ToolPen,
		Color:  "#ff0000",
		Size:   4,
		Points: []Point{{100, 100}, {150, 100}},
	}, committed)
	assert.Len(t, b.Strokes(), 1)
	assert.Nil(t, b.Current())
}

func TestBoardApply_LoneReleaseIsNoop(t *testing.T) {
	var b Board
	assert.Nil(t, b.Apply(pen(10, 10, false)))
	assert.Empty(t, b.Strokes())
	assert.Nil(t, b.Current())
}

func TestBoardApply_SplitOnStyleChange(t *testing.T) {
	var b Board
	samples := []DrawSample{
		pen(1, 1, true),
		pen(2, 2, true),
		pen(3, 3, true),
		{Tool: ToolPen, Color: "#0000ff", Size: 4, X: 4, Y: 4, Drawing: true},
		{Tool: ToolPen, Color: "#0000ff", Size: 4, X: 5, Y: 5, Drawing: true},
	}
	var committed []*Stroke
	for _, s := range samples {
		if c := b.Apply(s); c != nil {
			committed = append(committed, c)
		}
	}

	require.Len(t, committed, 1)
	assert.Equal(t, []Point{{1, 1}, {2, 2}, {3, 3}}, committed[0].Points)
	assert.Equal(t, "#ff0000", committed[0].Color)
	require.NotNil(t, b.Current())
	assert.Equal(t, []Point{{4, 4}, {5, 5}}, b.Current().Points)
	assert.Equal(t, "#0000ff", b.Current().Color)
}

func TestBoardApply_SizeAndToolChangesSplit(t *testing.T) {
	var b Board
	b.Apply(pen(1, 1, true))
	b.Apply(DrawSample{Tool: ToolPen, Color: "#ff0000", Size: 8, X: 2, Y: 2, Drawing: true})
	b.Apply(DrawSample{Tool: ToolEraser, Size: 8, X: 3, Y: 3, Drawing: true})
	b.Apply(DrawSample{Drawing: false})

	require.Len(t, b.Strokes(), 3)
	assert.Equal(t, 4.0, b.Strokes()[0].Size)
	assert.Equal(t, 8.0, b.Strokes()[1].Size)
	assert.Equal(t, ToolEraser, b.Strokes()[2].Tool)
	assert.Equal(t, EraserMinSize, b.Strokes()[2].Size)
}

func TestBoardApply_EraserMinimumSize(t *testing.T) {
	var b Board
	b.Apply(DrawSample{Tool: ToolEraser, Size: 2, X: 5, Y: 5, Drawing: true})
	c := b.Apply(DrawSample{Tool: ToolEraser, Size: 2, X: 5, Y: 5, Drawing: false})

	require.NotNil(t, c)
	assert.Equal(t, EraserMinSize, c.Size)
}

func TestBoardApply_SinglePointStrokeIsCommitted(t *testing.T) {
	var b Board
	b.Apply(pen(7, 7, true))
	c := b.Apply(pen(7, 7, false))

	require.NotNil(t, c)
	assert.Len(t, c.Points, 1)
}

func TestBoardApply_ClampsRemoteCoordinates(t *testing.T) {
	var b Board
	b.Apply(pen(-50, 5000, true))
	require.NotNil(t, b.Current())
	assert.Equal(t, Point{X: 0, Y: SurfaceH}, b.Current().Points[0])
}

func TestStyleKey(t *testing.T) {
	assert.Equal(t, StyleKey(ToolPen, "#000000", 4), StyleKey(ToolPen, "#000000", 4))
	assert.NotEqual(t, StyleKey(ToolPen, "#000000", 4), StyleKey(ToolEraser, "#000000", 4))
	assert.NotEqual(t, StyleKey(ToolPen, "#000000", 4), StyleKey(ToolPen, "#000001", 4))
	assert.NotEqual(t, StyleKey(ToolPen, "#000000", 4), StyleKey(ToolPen, "#000000", 5))
}
