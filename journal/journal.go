package journal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

var cborEncMode cbor.EncMode

func init() {
	opts := cbor.CanonicalEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	em, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("journal: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Journal appends records to a writer. It is safe for concurrent use.
type Journal struct {
	mu     sync.Mutex
	enc    *cbor.Encoder
	closer io.Closer
	count  int
}

// New returns a journal writing to w. Closing the journal does not close w.
func New(w io.Writer) *Journal {
	return &Journal{enc: cborEncMode.NewEncoder(w)}
}

// Open opens the journal file at path for appending, creating it and its
// parent directory if needed.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("journal: create %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("journal: open: %w", err)
	}
	j := New(f)
	j.closer = f
	return j, nil
}

// Append writes rec, assigning an ID and timestamp if it has none.
func (j *Journal) Append(rec Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Time.IsZero() {
		rec.Time = time.Now().UTC()
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.enc == nil {
		return errors.New("journal: append to closed journal")
	}
	if err := j.enc.Encode(&rec); err != nil {
		return fmt.Errorf("journal: append: %w", err)
	}
	j.count++
	return nil
}

// Count returns the number of records appended through this journal.
func (j *Journal) Count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.count
}

// Close stops further appends and closes the file opened by Open.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.enc = nil
	if j.closer == nil {
		return nil
	}
	err := j.closer.Close()
	j.closer = nil
	return err
}

// ReadAll decodes every record in r.
func ReadAll(r io.Reader) ([]Record, error) {
	dec := cbor.NewDecoder(r)
	var out []Record
	for {
		var rec Record
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("journal: decode record %d: %w", len(out), err)
		}
		out = append(out, rec)
	}
}

// ReadFile decodes every record in the journal file at path.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}
	defer f.Close()
	return ReadAll(f)
}
