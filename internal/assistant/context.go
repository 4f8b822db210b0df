package assistant

import (
	"encoding/json"
	"fmt"

	"github.com/hilacarreon/vecinito/internal/catalog"
	"github.com/hilacarreon/vecinito/internal/schedule"
)

// contextEntry is the compact shape sent to the model. Keys are short
// and Spanish to keep the prompt small and unambiguous for a
// castellano-speaking model.
type contextEntry struct {
	Nombre       string `json:"nombre"`
	Rubro        string `json:"rubro,omitempty"`
	Zona         string `json:"zona,omitempty"`
	Direccion    string `json:"direccion,omitempty"`
	Horario      string `json:"horario,omitempty"`
	Contacto     string `json:"contacto,omitempty"`
	AbiertoAhora string `json:"abierto_ahora"`
	DistanciaKM  string `json:"distancia_km,omitempty"`
	Experiencia  string `json:"experiencia,omitempty"`
}

// buildContext serializes retrieval results for the prompt.
func buildContext(results []catalog.Annotated) (string, error) {
	entries := make([]contextEntry, 0, len(results))
	for _, r := range results {
		rubro := r.Category
		if rubro == "" {
			rubro = r.Trade
		}

		e := contextEntry{
			Nombre:       r.Name,
			Rubro:        rubro,
			Zona:         r.Zone,
			Direccion:    r.Address,
			Horario:      r.Hours,
			Contacto:     r.Contact,
			AbiertoAhora: openNowLabel(r.OpenNow),
			Experiencia:  r.Experience,
		}
		if r.Distance >= 0 {
			e.DistanciaKM = fmt.Sprintf("%.1f", r.Distance)
		}
		entries = append(entries, e)
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encoding prompt context: %w", err)
	}
	return string(raw), nil
}

func openNowLabel(s schedule.State) string {
	switch s {
	case schedule.Open:
		return "si"
	case schedule.Closed:
		return "no"
	default:
		return "?"
	}
}
