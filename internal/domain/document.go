package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Fixed renders a float in fixed-point notation with six decimals,
// e.g. 47 -> 47.000000.
type Fixed float64

// MarshalJSON implements json.Marshaler.
func (f Fixed) MarshalJSON() ([]byte, error) {
	return strconv.AppendFloat(nil, float64(f), 'f', 6, 64), nil
}

// NullFixed is a Fixed that renders as null when unset.
type NullFixed struct {
	Value Fixed
	Valid bool
}

// MarshalJSON implements json.Marshaler.
func (n NullFixed) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return n.Value.MarshalJSON()
}

func nullFixed(e Extremum) NullFixed {
	v, ok := e.Value()
	return NullFixed{Value: Fixed(v), Valid: ok}
}

// EventDocument holds the sub-collections of one construction event. Empty
// collections are omitted.
type EventDocument struct {
	Cons    []ConstructionEvent `json:"gw_cons,omitempty"`
	Holes   []HoleInterval      `json:"gw_hole,omitempty"`
	Casings []CasingInterval    `json:"gw_csng,omitempty"`
	Opens   []OpenInterval      `json:"gw_open,omitempty"`
}

// ConstructionEntry pairs an event document with its cons_seq_nu.
type ConstructionEntry struct {
	ConsSeqNu int
	Event     EventDocument
}

// ConstructionMap is the well_construction object. Keys are emitted in
// ascending cons_seq_nu order, which encoding/json would not do for maps.
type ConstructionMap []ConstructionEntry

// MarshalJSON implements json.Marshaler.
func (m ConstructionMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strconv.Itoa(e.ConsSeqNu))
		buf.WriteString(`":`)
		b, err := json.Marshal(e.Event)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Document is the payload consumed by the well construction plot.
type Document struct {
	Sitefile         map[string]string       `json:"sitefile"`
	Geology          []GeohydrologicInterval `json:"gw_geoh,omitempty"`
	WellConstruction ConstructionMap         `json:"well_construction"`
	YMax             NullFixed               `json:"y_max"`
	YMin             NullFixed               `json:"y_min"`
	DiaMax           NullFixed               `json:"dia_max"`
	LandSurface      Fixed                   `json:"land_surface"`
}

// ErrorDocument is the payload emitted instead of a Document on a fatal
// error.
type ErrorDocument struct {
	Message string `json:"message"`
}

// Assemble shapes a joined record into its output document. Axis scaling is
// left to the consumer; only the raw extremes are included.
func Assemble(rec *WellRecord) Document {
	doc := Document{
		Sitefile:         map[string]string(rec.Site.Fields),
		Geology:          rec.Geology,
		WellConstruction: make(ConstructionMap, 0, len(rec.Construction)),
		YMax:             nullFixed(rec.Extrema.DepthMax),
		YMin:             NullFixed{Value: DepthMin, Valid: true},
		DiaMax:           nullFixed(rec.Extrema.DiaMax),
		LandSurface:      Fixed(rec.Site.LandSurface),
	}
	if doc.Sitefile == nil {
		doc.Sitefile = map[string]string{}
	}

	for _, c := range rec.Construction {
		ev := EventDocument{
			Holes:   c.Holes,
			Casings: c.Casings,
			Opens:   c.Openings,
		}
		if c.Cons != nil {
			ev.Cons = []ConstructionEvent{*c.Cons}
		}
		doc.WellConstruction = append(doc.WellConstruction, ConstructionEntry{ConsSeqNu: c.ConsSeqNu, Event: ev})
	}
	return doc
}

// Publication is a built document handed to downstream consumers.
type Publication struct {
	SiteNo      string
	Document    Document
	GeneratedAt time.Time
}
