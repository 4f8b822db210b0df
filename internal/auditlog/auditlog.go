// Package auditlog appends every answered query to a CSV file for
// later review of answer quality. Writes happen on a dedicated
// goroutine so the reply path never blocks on disk.
package auditlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hilacarreon/vecinito/pkg/logger"
)

// Record is one answered interaction.
type Record struct {
	Time   time.Time
	UserID int64
	Query  string
	Reply  string
	Source string // "cache", "model" or "canned"
	Zone   string
}

var header = []string{"timestamp", "user_id", "query", "reply", "source", "zone"}

// Writer appends records asynchronously. When the buffer is full,
// records are dropped rather than blocking the caller; an audit gap is
// preferable to a stalled conversation.
type Writer struct {
	records chan Record
	done    chan struct{}
	log     logger.Logger
}

// New opens (or creates) the CSV at path and starts the writer
// goroutine. The header row is written only when the file is new.
func New(path string, log logger.Logger) (*Writer, error) {
	info, statErr := os.Stat(path)
	isNew := statErr != nil || info.Size() == 0

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening audit log: %w", err)
	}

	w := &Writer{
		records: make(chan Record, 256),
		done:    make(chan struct{}),
		log:     log,
	}
	go w.run(file, isNew)
	return w, nil
}

// Append queues a record for writing. It never blocks.
func (w *Writer) Append(r Record) {
	select {
	case w.records <- r:
	default:
		w.log.Warn("audit log buffer full, dropping record",
			logger.Int64Field("user_id", r.UserID))
	}
}

// Close drains pending records and closes the file.
func (w *Writer) Close() {
	close(w.records)
	<-w.done
}

func (w *Writer) run(file *os.File, writeHeader bool) {
	defer close(w.done)
	defer file.Close()

	cw := csv.NewWriter(file)
	defer cw.Flush()

	if writeHeader {
		if err := cw.Write(header); err != nil {
			w.log.Error("writing audit log header", logger.ErrorField(err))
		}
	}

	for r := range w.records {
		row := []string{
			r.Time.UTC().Format(time.RFC3339),
			strconv.FormatInt(r.UserID, 10),
			r.Query,
			r.Reply,
			r.Source,
			r.Zone,
		}
		if err := cw.Write(row); err != nil {
			w.log.Error("writing audit log record", logger.ErrorField(err))
			continue
		}
		cw.Flush()
	}
}
