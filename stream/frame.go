// Package stream broadcasts the race to browser overlays over websocket.
package stream

import (
	"github.com/grovetools/carbon/race"
)

// Entry is one ranked bar of a frame.
type Entry struct {
	Rank    int     `json:"rank"`
	Country string  `json:"country"`
	Carbon  float64 `json:"carbon"`
	Color   string  `json:"color"`
}

// Frame is the race state for one year.
type Frame struct {
	Year      int     `json:"year"`
	MinYear   int     `json:"minYear"`
	MaxYear   int     `json:"maxYear"`
	MaxCarbon float64 `json:"maxCarbon"`
	Entries   []Entry `json:"entries"`
}

// Message is the envelope written to clients.
type Message struct {
	Event string `json:"event"`
	Data  Frame  `json:"data"`
}

// FrameOf captures the engine's current snapshot. MaxCarbon is the scale
// target; overlays animate towards it themselves.
func FrameOf(e *race.Engine) Frame {
	visible := e.Visible()
	f := Frame{
		Year:      e.CurrentYear(),
		MinYear:   e.MinYear(),
		MaxYear:   e.MaxYear(),
		MaxCarbon: race.MaxTarget(visible),
		Entries:   make([]Entry, len(visible)),
	}
	for i, v := range visible {
		f.Entries[i] = Entry{Rank: i, Country: v.Country, Carbon: v.Carbon, Color: e.Color(i)}
	}
	return f
}
