package auditlog

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hilacarreon/vecinito/pkg/logger"
)

func testLogger() logger.Logger {
	return logger.NewLogger(logger.Config{Level: logger.ErrorLevel, Format: "json"})
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriterWritesHeaderAndRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.csv")

	w, err := New(path, testLogger())
	require.NoError(t, err)

	when := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	w.Append(Record{
		Time:   when,
		UserID: 42,
		Query:  "pizza en city bell",
		Reply:  "Probá Don Carlos",
		Source: "model",
		Zone:   "City Bell",
	})
	w.Close()

	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, header, rows[0])
	assert.Equal(t, "2024-06-01T12:00:00Z", rows[1][0])
	assert.Equal(t, "42", rows[1][1])
	assert.Equal(t, "pizza en city bell", rows[1][2])
	assert.Equal(t, "model", rows[1][4])
}

func TestWriterAppendsWithoutDuplicateHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.csv")

	w, err := New(path, testLogger())
	require.NoError(t, err)
	w.Append(Record{Time: time.Now(), UserID: 1, Query: "a", Reply: "b", Source: "cache"})
	w.Close()

	w, err = New(path, testLogger())
	require.NoError(t, err)
	w.Append(Record{Time: time.Now(), UserID: 2, Query: "c", Reply: "d", Source: "model"})
	w.Close()

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, header, rows[0])
	assert.Equal(t, "1", rows[1][1])
	assert.Equal(t, "2", rows[2][1])
}

func TestWriterEscapesCommasAndQuotes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.csv")

	w, err := New(path, testLogger())
	require.NoError(t, err)
	w.Append(Record{
		Time:   time.Now(),
		UserID: 1,
		Query:  `pizza, "la mejor"`,
		Reply:  "linea\ncon salto",
		Source: "model",
	})
	w.Close()

	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, `pizza, "la mejor"`, rows[1][2])
	assert.Equal(t, "linea\ncon salto", rows[1][3])
}
