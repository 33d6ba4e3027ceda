package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/unitoftime/tiled/engine/tilemap"
)

// ebiten indexes vertices with uint16, so batches are split on a quad boundary below that.
const maxBatchVertices = 6 * 10922

// Screen draws layer batches onto an ebiten image through a camera transform.
// It satisfies tilemap.Target.
type Screen struct {
	Dst  *ebiten.Image
	GeoM ebiten.GeoM

	vertices []ebiten.Vertex
	indices  []uint16
}

func NewScreen() *Screen {
	return &Screen{
		vertices: make([]ebiten.Vertex, 0, 1024),
		indices:  make([]uint16, 0, 1024),
	}
}

// Begin targets dst for the next draws
func (s *Screen) Begin(dst *ebiten.Image, geom ebiten.GeoM) {
	s.Dst = dst
	s.GeoM = geom
}

func (s *Screen) DrawTriangles(vertices []tilemap.Vertex, tex tilemap.Texture) {
	if s.Dst == nil {
		return
	}
	img, ok := tex.(*ebiten.Image)
	if !ok || img == nil {
		return
	}

	// SubImages keep their parent's coordinates
	origin := img.Bounds().Min
	ox, oy := float32(origin.X), float32(origin.Y)

	for start := 0; start < len(vertices); start += maxBatchVertices {
		end := start + maxBatchVertices
		if end > len(vertices) {
			end = len(vertices)
		}

		s.vertices = s.vertices[:0]
		s.indices = s.indices[:0]
		for i, v := range vertices[start:end] {
			x, y := s.GeoM.Apply(float64(v.X), float64(v.Y))
			s.vertices = append(s.vertices, ebiten.Vertex{
				DstX:   float32(x),
				DstY:   float32(y),
				SrcX:   v.U + ox,
				SrcY:   v.V + oy,
				ColorR: float32(v.Color.R) / 255,
				ColorG: float32(v.Color.G) / 255,
				ColorB: float32(v.Color.B) / 255,
				ColorA: float32(v.Color.A) / 255,
			})
			s.indices = append(s.indices, uint16(i))
		}

		s.Dst.DrawTriangles(s.vertices, s.indices, img, &ebiten.DrawTrianglesOptions{})
	}
}
