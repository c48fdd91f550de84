// Package plot provides the plot domain model returned by the plots API.
package plot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// DefaultImageURL is shown for plots that carry no image of their own.
const DefaultImageURL = "https://images.unsplash.com/photo-1495107334309-fcf20504a5ab?q=80&w=1200&auto=format&fit=crop"

// ID is an opaque plot identifier. The API may send it as a string or a
// number; it is re-encoded exactly as received.
type ID struct {
	raw json.RawMessage
}

// IntID returns a numeric ID.
func IntID(n int64) ID {
	return ID{raw: json.RawMessage(strconv.FormatInt(n, 10))}
}

// StringID returns a string ID.
func StringID(s string) ID {
	data, _ := json.Marshal(s)
	return ID{raw: data}
}

// IsZero reports whether the ID was never set.
func (id ID) IsZero() bool {
	return len(id.raw) == 0
}

// String returns the ID as it appears in URLs: unquoted for string IDs,
// the literal number otherwise.
func (id ID) String() string {
	if id.IsZero() {
		return ""
	}
	if id.raw[0] == '"' {
		var s string
		if err := json.Unmarshal(id.raw, &s); err == nil {
			return s
		}
	}
	return string(id.raw)
}

// MarshalJSON implements json.Marshaler.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	return id.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler. Only strings and numbers are
// accepted; null leaves the ID zero.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		id.raw = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("plot id: %w", err)
		}
	} else {
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("plot id must be a string or number: %s", data)
		}
	}
	id.raw = append(json.RawMessage(nil), data...)
	return nil
}

// Plot is a piece of land offered for visits.
type Plot struct {
	ID           ID       `json:"id"`
	Title        string   `json:"title,omitempty"`
	Location     string   `json:"location,omitempty"`
	Description  string   `json:"description,omitempty"`
	SizeSqft     *float64 `json:"size_sqft,omitempty"`
	PricePerSqft *float64 `json:"price_per_sqft,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
}

// DisplayImage returns the plot image, or DefaultImageURL if none is set.
func (p Plot) DisplayImage() string {
	if p.ImageURL == "" {
		return DefaultImageURL
	}
	return p.ImageURL
}

// Find returns the plot whose ID renders as key.
func Find(plots []Plot, key string) (Plot, bool) {
	for _, p := range plots {
		if !p.ID.IsZero() && p.ID.String() == key {
			return p, true
		}
	}
	return Plot{}, false
}
