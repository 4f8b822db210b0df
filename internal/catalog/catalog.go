// Package catalog holds the business directory: the record type, the
// JSON loader and zone detection. Records keep their source-file JSON
// keys, which are in Spanish.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/hilacarreon/vecinito/internal/schedule"
	"github.com/hilacarreon/vecinito/internal/textnorm"
)

// Entry is one business in the directory.
type Entry struct {
	Name       string   `json:"nombre"`
	Category   string   `json:"categoria"`
	Trade      string   `json:"rubro,omitempty"`
	Zone       string   `json:"zona"`
	Address    string   `json:"direccion,omitempty"`
	Hours      string   `json:"horario,omitempty"`
	Contact    string   `json:"contacto,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	MapsURL    string   `json:"maps_url,omitempty"`
	Experience string   `json:"experiencia,omitempty"`
	Lat        float64  `json:"lat,omitempty"`
	Lon        float64  `json:"lon,omitempty"`
}

// IsService reports whether the entry is a tradesperson or service
// provider rather than a storefront. Services have no fixed location,
// so distance sorting and open-now annotation do not apply to them.
func (e Entry) IsService() bool {
	return e.Trade != "" || (e.Lat == 0 && e.Lon == 0)
}

// HasLocation reports whether the entry carries usable coordinates.
func (e Entry) HasLocation() bool {
	return e.Lat != 0 || e.Lon != 0
}

// Annotated is an entry enriched with per-request state.
type Annotated struct {
	Entry
	OpenNow  schedule.State
	Distance float64 // km, negative when unknown
	Score    int
}

// Load reads a JSON array of entries from path.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return entries, nil
}

// Zones covered by the directory, in display form.
var Zones = []string{"City Bell", "Gonnet", "Villa Elisa"}

// zoneAliases maps normalized spellings to the display form. Order
// matters: DetectZone returns the first alias found, so a text naming
// two zones always resolves the same way.
var zoneAliases = []struct {
	alias string
	zone  string
}{
	{"city bell", "City Bell"},
	{"citybell", "City Bell"},
	{"gonnet", "Gonnet"},
	{"villa elisa", "Villa Elisa"},
	{"villaelisa", "Villa Elisa"},
}

// DetectZone finds the first covered zone mentioned in text and returns
// its display form, or "" when no zone is mentioned.
func DetectZone(text string) string {
	normalized := textnorm.Normalize(text)
	for _, za := range zoneAliases {
		if strings.Contains(normalized, za.alias) {
			return za.zone
		}
	}
	return ""
}
