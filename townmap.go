package towngen

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/colornames"

	"github.com/IronJade/town-generator/internal/geom"
)

// Scheme defines how town features should be coloured.
type Scheme struct {
	Background color.Color
	Road       color.Color
	Wall       color.Color
	Tower      color.Color
	Gate       color.Color
	Building   color.Color
	Wards      map[WardType]color.Color
}

// DefaultScheme returns a reasonable default Scheme, parchment-ish ground
// with ink walls.
func DefaultScheme() *Scheme {
	return &Scheme{
		Background: colornames.Wheat,
		Road:       colornames.Burlywood,
		Wall:       colornames.Black,
		Tower:      colornames.Black,
		Gate:       colornames.Crimson,
		Building:   colornames.Sienna,
		Wards: map[WardType]color.Color{
			WardCastle:         colornames.Lightgray,
			WardCathedral:      colornames.Gold,
			WardMarket:         colornames.Navajowhite,
			WardCraftsmen:      colornames.Tan,
			WardMerchant:       colornames.Peru,
			WardGate:           colornames.Tan,
			WardSlum:           colornames.Rosybrown,
			WardAdministration: colornames.Khaki,
			WardMilitary:       colornames.Darkgray,
			WardPatriciate:     colornames.Palegoldenrod,
			WardPark:           colornames.Darkseagreen,
			WardFarm:           colornames.Palegreen,
			WardGeneric:        colornames.Wheat,
		},
	}
}

// TownMap renders a finished Model. It only reads the model, so one model
// can back many maps.
type TownMap struct {
	model *Model
	scale float64
}

// NewTownMap returns a renderer at the given scale (pixels per world unit).
// Scale values at or below zero fall back to 4.
func NewTownMap(m *Model, scale float64) *TownMap {
	if scale <= 0 {
		scale = 4
	}
	return &TownMap{model: m, scale: scale}
}

// Image draws the whole town. A nil scheme means DefaultScheme.
func (t *TownMap) Image(scheme *Scheme) image.Image {
	if scheme == nil {
		scheme = DefaultScheme()
	}

	pad := 10.0
	reach := t.model.CityRadius + pad
	size := int(2 * reach * t.scale)
	if size < 64 {
		size = 64
	}
	dc := gg.NewContext(size, size)

	// world origin sits at the image center
	toScreen := func(p geom.Point) (float64, float64) {
		return (p.X + reach) * t.scale, (p.Y + reach) * t.scale
	}

	dc.SetColor(scheme.Background)
	dc.Clear()

	// ward ground
	for _, p := range t.model.Patches {
		if p.Ward == nil {
			continue
		}
		col, ok := scheme.Wards[p.Ward.Type]
		if !ok {
			col = scheme.Background
		}
		t.tracePolygon(dc, p.Shape, toScreen)
		dc.SetColor(col)
		dc.Fill()
	}

	// streets and roads
	dc.SetColor(scheme.Road)
	dc.SetLineWidth(MainStreet * t.scale)
	dc.SetLineCapRound()
	for _, a := range t.model.Arteries {
		t.tracePolyline(dc, a, toScreen)
		dc.Stroke()
	}

	// buildings
	dc.SetColor(scheme.Building)
	for _, p := range t.model.Patches {
		if p.Ward == nil {
			continue
		}
		for _, b := range p.Ward.Geometry {
			t.tracePolygon(dc, b, toScreen)
			dc.Fill()
		}
	}

	// walls over everything else
	if t.model.Wall != nil {
		t.drawWall(dc, t.model.Wall, scheme, toScreen)
	}
	for _, p := range t.model.Patches {
		if p.Ward != nil && p.Ward.Wall != nil {
			t.drawWall(dc, p.Ward.Wall, scheme, toScreen)
		}
	}

	return dc.Image()
}

func (t *TownMap) drawWall(dc *gg.Context, w *CurtainWall, scheme *Scheme, toScreen func(geom.Point) (float64, float64)) {
	dc.SetColor(scheme.Wall)
	dc.SetLineWidth(1.2 * t.scale)
	dc.SetLineCapSquare()
	t.tracePolygon(dc, w.Shape, toScreen)
	dc.ClosePath()
	dc.Stroke()

	dc.SetColor(scheme.Tower)
	for _, tw := range w.Towers {
		x, y := toScreen(tw.Point)
		dc.DrawCircle(x, y, 1.5*t.scale)
		dc.Fill()
	}

	dc.SetColor(scheme.Gate)
	for _, g := range w.Gates {
		x, y := toScreen(g.Point)
		dc.DrawRectangle(x-t.scale, y-t.scale, 2*t.scale, 2*t.scale)
		dc.Fill()
	}
}

func (t *TownMap) tracePolygon(dc *gg.Context, p *geom.Polygon, toScreen func(geom.Point) (float64, float64)) {
	for i, v := range p.V {
		x, y := toScreen(v.Point)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
}

func (t *TownMap) tracePolyline(dc *gg.Context, l *geom.Polyline, toScreen func(geom.Point) (float64, float64)) {
	for i, v := range l.V {
		x, y := toScreen(v.Point)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
}

// SavePNG renders and writes the map in one go.
func (t *TownMap) SavePNG(fpath string, scheme *Scheme) error {
	return savePNG(fpath, t.Image(scheme))
}
