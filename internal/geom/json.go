package geom

import "encoding/json"

// Vertices serialize as [x, y] pairs. Handle identity does not survive a
// round trip: decoding allocates fresh vertices, so a reloaded shape is a
// plain drawing snapshot, not a live shared-topology one.

func (v *Vertex) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{v.X, v.Y})
}

func (v *Vertex) UnmarshalJSON(b []byte) error {
	var a [2]float64
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	v.X, v.Y = a[0], a[1]
	return nil
}

func (p *Polygon) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.V)
}

func (p *Polygon) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &p.V)
}

func (l *Polyline) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.V)
}

func (l *Polyline) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &l.V)
}
