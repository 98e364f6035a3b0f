package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// Event is a proposed outing. Organizer membership in Participants and
// consistency between Location and Votes are caller conventions only.
type Event struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Location     string   `json:"location"`
	Time         string   `json:"time"`
	Organizer    string   `json:"organizer"`
	Participants []string `json:"participants"`
	Votes        Votes    `json:"votes"`
}

// EventDraft is an Event before the store assigns its identifier.
type EventDraft struct {
	Title        string   `json:"title"`
	Location     string   `json:"location"`
	Time         string   `json:"time"`
	Organizer    string   `json:"organizer"`
	Participants []string `json:"participants"`
	Votes        Votes    `json:"votes"`
}

// WithID deep-copies the draft into an Event.
func (d EventDraft) WithID(id string) Event {
	return Event{
		ID:           id,
		Title:        d.Title,
		Location:     d.Location,
		Time:         d.Time,
		Organizer:    d.Organizer,
		Participants: slices.Clone(d.Participants),
		Votes:        d.Votes.Clone(),
	}
}

func (e Event) Clone() Event {
	e.Participants = slices.Clone(e.Participants)
	e.Votes = e.Votes.Clone()
	return e
}

type VoteTally struct {
	Location string
	Count    int
}

// Votes maps candidate locations to vote counts, keeping insertion order.
type Votes []VoteTally

func (v Votes) Count(location string) (int, bool) {
	for _, t := range v {
		if t.Location == location {
			return t.Count, true
		}
	}
	return 0, false
}

// Set returns a copy of v with location's count replaced, or appended when
// location is new.
func (v Votes) Set(location string, count int) Votes {
	out := v.Clone()
	for i := range out {
		if out[i].Location == location {
			out[i].Count = count
			return out
		}
	}
	return append(out, VoteTally{Location: location, Count: count})
}

func (v Votes) Locations() []string {
	out := make([]string, 0, len(v))
	for _, t := range v {
		out = append(out, t.Location)
	}
	return out
}

func (v Votes) Max() int {
	m := 0
	for _, t := range v {
		if t.Count > m {
			m = t.Count
		}
	}
	return m
}

// Leaders lists every location holding the maximum count, in insertion
// order. Ties are not broken. Nil when nobody voted.
func (v Votes) Leaders() []string {
	m := v.Max()
	if m == 0 {
		return nil
	}
	var out []string
	for _, t := range v {
		if t.Count == m {
			out = append(out, t.Location)
		}
	}
	return out
}

// Share is the location's count relative to the maximum, in [0,1].
func (v Votes) Share(location string) float64 {
	m := v.Max()
	if m == 0 {
		return 0
	}
	n, _ := v.Count(location)
	return float64(n) / float64(m)
}

func (v Votes) Clone() Votes {
	if v == nil {
		return nil
	}
	return slices.Clone(v)
}

func (v Votes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(t.Location)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", t.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (v *Votes) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("votes: expected object")
	}
	out := Votes{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return errors.New("votes: expected string key")
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("votes %q: %w", key, err)
		}
		out = out.Set(key, n)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*v = out
	return nil
}
