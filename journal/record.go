// Package journal records bridge failures as an append-only stream of
// CBOR-encoded records, so a symbolic-execution run can be inspected after
// the fact for the native calls that degraded to Unknown.
package journal

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Category classifies why a bridged call failed.
type Category uint8

const (
	ClassNotFound   Category = 1
	NoSuchMethod    Category = 2
	AccessDenied    Category = 3
	Instantiation   Category = 4
	IllegalArgument Category = 5
	NullReceiver    Category = 6
	TargetException Category = 7
	// Internal is a failure inside the bridge itself.
	Internal Category = 8
)

var categoryNames = map[Category]string{
	ClassNotFound:   "class-not-found",
	NoSuchMethod:    "no-such-method",
	AccessDenied:    "access-denied",
	Instantiation:   "instantiation",
	IllegalArgument: "illegal-argument",
	NullReceiver:    "null-receiver",
	TargetException: "target-exception",
	Internal:        "internal",
}

func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// Expected reports whether c is a failure the bridge anticipates, as
// opposed to a bug in the bridge.
func (c Category) Expected() bool {
	return c >= ClassNotFound && c <= TargetException
}

// Record is one failed bridged call.
type Record struct {
	ID        uuid.UUID `cbor:"1,keyasint"`
	Time      time.Time `cbor:"2,keyasint"`
	Signature string    `cbor:"3,keyasint"`
	Category  Category  `cbor:"4,keyasint"`
	Message   string    `cbor:"5,keyasint"`
	Trace     string    `cbor:"6,keyasint,omitempty"` // set for target exceptions that panicked
}

func (r Record) String() string {
	return fmt.Sprintf("%s %s [%s] %s: %s", r.Time.Format(time.RFC3339), r.ID, r.Category, r.Signature, r.Message)
}

// Summarize counts records per category.
func Summarize(records []Record) map[Category]int {
	counts := make(map[Category]int)
	for _, r := range records {
		counts[r.Category]++
	}
	return counts
}
