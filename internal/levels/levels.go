// Package levels holds the CEFR level catalog.
package levels

import "fmt"

// Level is one CEFR proficiency level.
type Level struct {
	ID          string
	Title       string
	Description string
}

var catalog = []Level{
	{ID: "A1", Title: "Anfänger", Description: "Beginner level, basic phrases and personal introductions."},
	{ID: "A2", Title: "Grundlagen", Description: "Elementary, simple sentences on familiar topics."},
	{ID: "B1", Title: "Mittelstufe", Description: "Intermediate, understand main points on familiar matters."},
	{ID: "B2", Title: "Gute Mittelstufe", Description: "Upper Intermediate, understand complex texts."},
	{ID: "C1", Title: "Fortgeschritten", Description: "Advanced, express ideas fluently and spontaneously."},
	{ID: "C2", Title: "Experte", Description: "Proficient, understand with ease virtually everything."},
}

var byID = func() map[string]Level {
	m := make(map[string]Level, len(catalog))
	for _, l := range catalog {
		m[l.ID] = l
	}
	return m
}()

// All returns the levels in ascending order.
func All() []Level {
	out := make([]Level, len(catalog))
	copy(out, catalog)
	return out
}

// Get returns the level with the given ID.
func Get(id string) (Level, error) {
	l, ok := byID[id]
	if !ok {
		return Level{}, fmt.Errorf("level %q not found", id)
	}
	return l, nil
}

// IDs returns the level identifiers in ascending order.
func IDs() []string {
	ids := make([]string, len(catalog))
	for i, l := range catalog {
		ids[i] = l.ID
	}
	return ids
}
