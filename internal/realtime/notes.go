package realtime

import (
	"time"

	"github.com/wayfarerhq/wayfarer/internal/models"
)

// mergeNoteFields applies an update set to a note, last-write-wins at field
// granularity: concurrent updates with disjoint field sets both survive.
// Unknown keys land in the note's variant data map.
func mergeNoteFields(note *models.Note, updates map[string]interface{}, at time.Time) {
	for key, value := range updates {
		switch key {
		case "content":
			if s, ok := value.(string); ok {
				note.Content = s
			}
		case "color":
			if s, ok := value.(string); ok {
				note.Color = s
			}
		case "position":
			if m, ok := value.(map[string]interface{}); ok {
				if x, ok := asFloat(m["x"]); ok {
					note.Position.X = x
				}
				if y, ok := asFloat(m["y"]); ok {
					note.Position.Y = y
				}
			}
		case "size":
			if m, ok := value.(map[string]interface{}); ok {
				if w, ok := asFloat(m["width"]); ok {
					note.Size.Width = w
				}
				if h, ok := asFloat(m["height"]); ok {
					note.Size.Height = h
				}
			}
		case "data":
			if m, ok := value.(map[string]interface{}); ok {
				if note.Data == nil {
					note.Data = make(map[string]interface{}, len(m))
				}
				for k, v := range m {
					note.Data[k] = v
				}
			}
		default:
			if note.Data == nil {
				note.Data = make(map[string]interface{})
			}
			note.Data[key] = value
		}
	}

	note.UpdatedAt = at
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
