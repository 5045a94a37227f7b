package main

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/couchcryptid/apartment-price-map/internal/domain"
	"github.com/couchcryptid/apartment-price-map/internal/geo"
	"github.com/couchcryptid/apartment-price-map/internal/interaction"
)

// inputLine is one JSON-lines input event. Fields not used by Type are ignored.
type inputLine struct {
	Type string `json:"type"`

	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
	Factor float64 `json:"factor"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaY float64 `json:"deltaY"`
	Mode   int     `json:"mode"`
	Ctrl   bool    `json:"ctrl"`
	Shift  bool    `json:"shift"`

	City    string   `json:"city"`
	PriceLo float64  `json:"priceLo"`
	PriceHi *float64 `json:"priceHi"`
	Bucket  string   `json:"bucket"`

	Show bool `json:"show"`
}

// parseEvent decodes one input line. A filter without priceHi is unbounded above; one
// without bucket uses the latest month.
func parseEvent(line []byte) (interaction.Event, error) {
	var in inputLine
	if err := json.Unmarshal(line, &in); err != nil {
		return interaction.Event{}, fmt.Errorf("decode event: %w", err)
	}
	pointer := geo.Point{X: in.X, Y: in.Y}

	switch in.Type {
	case "pan":
		return gesture(geo.Pan(in.DX, in.DY)), nil
	case "zoom":
		return gesture(geo.Zoom(in.Factor, pointer)), nil
	case "wheel":
		return gesture(geo.Wheel(in.DeltaY, geo.WheelMode(in.Mode), in.Ctrl, pointer)), nil
	case "dblclick":
		return gesture(geo.DoubleClick(pointer, in.Shift)), nil
	case "pointer":
		return interaction.Event{Kind: interaction.EventPointerMove, Pointer: pointer}, nil
	case "leave":
		return interaction.Event{Kind: interaction.EventPointerLeave}, nil
	case "filter":
		p := domain.DefaultFilterParams()
		if in.City != "" {
			p.City = in.City
		}
		p.PriceLo = in.PriceLo
		p.PriceHi = math.Inf(1)
		if in.PriceHi != nil {
			p.PriceHi = *in.PriceHi
		}
		if in.Bucket != "" {
			p.Bucket = domain.BucketIndex(in.Bucket)
		}
		return interaction.Event{Kind: interaction.EventFilter, Params: p}, nil
	case "show":
		return interaction.Event{Kind: interaction.EventShowData, Show: in.Show}, nil
	case "toggle":
		return interaction.Event{Kind: interaction.EventToggleData}, nil
	case "reset":
		return interaction.Event{Kind: interaction.EventResetView}, nil
	case "redraw":
		return interaction.Event{Kind: interaction.EventRedraw}, nil
	default:
		return interaction.Event{}, fmt.Errorf("unknown event type %q", in.Type)
	}
}

func gesture(g geo.Gesture) interaction.Event {
	return interaction.Event{Kind: interaction.EventGesture, Gesture: g}
}

// frameLine is the JSON-lines output written for every frame.
type frameLine struct {
	Transform geo.Transform        `json:"transform"`
	Params    domain.FilterParams  `json:"params"`
	ShowData  bool                 `json:"showData"`
	Visible   int                  `json:"visible"`
	Markers   int                  `json:"markers"`
	Skipped   bool                 `json:"skipped,omitempty"`
	Tooltip   *interaction.Tooltip `json:"tooltip,omitempty"`
}

func newFrameLine(f interaction.Frame) frameLine {
	out := frameLine{
		Transform: f.State.Transform,
		Params:    f.State.Params,
		ShowData:  f.State.ShowData,
		Visible:   f.Visible,
		Markers:   f.Stats.Markers,
		Skipped:   f.Stats.Skipped,
	}
	// JSON has no infinity.
	if math.IsInf(out.Params.PriceHi, 1) {
		out.Params.PriceHi = math.MaxFloat64
	}
	if f.Hovered != nil {
		tt := interaction.NewTooltip(*f.Hovered, f.State.Pointer)
		out.Tooltip = &tt
	}
	return out
}
