package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hilacarreon/vecinito/internal/catalog"
)

func testEntries() []catalog.Entry {
	return []catalog.Entry{
		{
			Name:     "Pizzería Don Carlos",
			Category: "Pizzería",
			Zone:     "City Bell",
			Tags:     []string{"pizza", "empanadas"},
			Lat:      -34.8704,
			Lon:      -58.0456,
			Hours:    "Mar-Dom 18-24",
		},
		{
			Name:     "La Esquina",
			Category: "Restaurante",
			Zone:     "Gonnet",
			Tags:     []string{"pizza", "pastas", "milanesas"},
			Lat:      -34.8851,
			Lon:      -58.0162,
			Hours:    "Lun-Dom 12-15 | 20-24",
		},
		{
			Name:     "Farmacia Central",
			Category: "Farmacia",
			Zone:     "City Bell",
			Tags:     []string{"medicamentos", "perfumeria"},
			Lat:      -34.8690,
			Lon:      -58.0440,
			Hours:    "24hs",
		},
		{
			Name:  "Jorge Plomería",
			Trade: "Plomería",
			Zone:  "Villa Elisa",
			Tags:  []string{"destapaciones", "termotanques"},
		},
	}
}

func TestFilterNameOutranksTags(t *testing.T) {
	f := NewFilter(testEntries(), DefaultTopK)

	results := f.Search("pizzeria", "")
	require.NotEmpty(t, results)
	// "pizzeria" hits name and category of Don Carlos (4+3); the "pizza"
	// tag on La Esquina is not a match for the longer token.
	assert.Equal(t, "Pizzería Don Carlos", results[0].Name)
}

func TestFilterSynonymExpansion(t *testing.T) {
	f := NewFilter(testEntries(), DefaultTopK)

	// "pizza" is a tag on two entries and expands to "pizzeria".
	results := f.Search("quiero pizza", "")
	require.NotEmpty(t, results)
	assert.Equal(t, "Pizzería Don Carlos", results[0].Name)

	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
	}
	assert.Contains(t, names, "La Esquina")
}

func TestFilterZoneBonus(t *testing.T) {
	f := NewFilter(testEntries(), DefaultTopK)

	// The token hits outscore the bare zone bonus, but entries in the
	// requested zone ride along even without a token match.
	results := f.Search("remedios", "Gonnet")
	require.Len(t, results, 2)
	assert.Equal(t, "Farmacia Central", results[0].Name)
	assert.Equal(t, "La Esquina", results[1].Name)
	assert.Equal(t, zoneBonus, results[1].Score)
}

func TestFilterZoneOnlyQuery(t *testing.T) {
	f := NewFilter(testEntries(), DefaultTopK)

	// A zone-keyboard tap carries no useful tokens; the zone filter alone
	// must still list that zone's entries.
	results := f.Search("City Bell", "City Bell")
	require.Len(t, results, 2)
	names := []string{results[0].Name, results[1].Name}
	assert.Contains(t, names, "Pizzería Don Carlos")
	assert.Contains(t, names, "Farmacia Central")

	assert.Empty(t, f.Search("hay algo?", ""), "no tokens and no zone stays empty")
}

func TestFilterZoneBonusReordersMatches(t *testing.T) {
	entries := []catalog.Entry{
		{Name: "Pizzería Norte", Category: "Pizzería", Zone: "Gonnet", Tags: []string{"pizza"}},
		{Name: "Pizzería Sur", Category: "Pizzería", Zone: "City Bell", Tags: []string{"pizza"}},
	}
	f := NewFilter(entries, DefaultTopK)

	results := f.Search("pizza", "City Bell")
	require.Len(t, results, 2)
	assert.Equal(t, "Pizzería Sur", results[0].Name)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestFilterStopwordsAndShortTokensIgnored(t *testing.T) {
	f := NewFilter(testEntries(), DefaultTopK)

	assert.Empty(t, f.Search("hay algo por la zona?", ""))
	assert.Empty(t, f.Search("a e io", ""))
	assert.Empty(t, f.Search("", ""))
}

func TestFilterZeroScoreDiscarded(t *testing.T) {
	f := NewFilter(testEntries(), DefaultTopK)
	assert.Empty(t, f.Search("heladeria artesanal", ""))
}

func TestFilterSynonymReachesTrade(t *testing.T) {
	f := NewFilter(testEntries(), DefaultTopK)

	// "plomero" expands to "plomeria", which is a substring of both the
	// name and the trade.
	results := f.Search("necesito un plomero", "")
	require.NotEmpty(t, results)
	assert.Equal(t, "Jorge Plomería", results[0].Name)
}

func TestFilterTruncatedTokenMatches(t *testing.T) {
	f := NewFilter(testEntries(), DefaultTopK)

	// A partial word still lands as a substring of the full field value.
	results := f.Search("plome", "")
	require.NotEmpty(t, results)
	assert.Equal(t, "Jorge Plomería", results[0].Name)
}

func TestFilterRepeatedTokenScoresOnce(t *testing.T) {
	f := NewFilter(testEntries(), DefaultTopK)

	once := f.Search("pizza", "")
	twice := f.Search("pizza pizza rica pizza", "")
	require.NotEmpty(t, once)
	require.NotEmpty(t, twice)
	assert.Equal(t, once[0].Score, twice[0].Score)
}

func TestFilterTopKLimit(t *testing.T) {
	var entries []catalog.Entry
	for i := 0; i < 10; i++ {
		entries = append(entries, catalog.Entry{
			Name:     "Pizzería",
			Category: "Pizzería",
			Tags:     []string{"pizza"},
		})
	}
	f := NewFilter(entries, 3)

	assert.Len(t, f.Search("pizza", ""), 3)
}

func TestFilterTieKeepsCatalogOrder(t *testing.T) {
	entries := []catalog.Entry{
		{Name: "Primera Pizzería", Category: "Pizzería"},
		{Name: "Segunda Pizzería", Category: "Pizzería"},
	}
	f := NewFilter(entries, DefaultTopK)

	results := f.Search("pizzeria", "")
	require.Len(t, results, 2)
	assert.Equal(t, "Primera Pizzería", results[0].Name)
}
