// Package address translates absolute character offsets into token and chunk
// locations, and models the bounded, cancellable seek that brings a location
// on screen once its chunk has been laid out.
package address

import (
	"sort"
	"time"

	"github.com/colonyops/lector/internal/core/chunk"
)

// DeepLink is the entry point other features use to jump to an exact
// character of a document.
type DeepLink struct {
	DocumentID      string
	TargetCharIndex int
}

// Location is a resolved character offset.
type Location struct {
	ChunkIndex int
	LocalToken int // token position inside the chunk
	TokenIndex int // global token index
	TokenStart int // character index where the token begins
}

// Resolve finds the token containing charIndex. It reports false when the
// snapshot is empty or the offset lies outside the document.
func Resolve(snap *chunk.Snapshot, charIndex int) (Location, bool) {
	if snap.Empty() || charIndex < 0 || charIndex >= snap.RuneLen() {
		return Location{}, false
	}

	chunks := snap.Chunks
	ci := sort.Search(len(chunks), func(i int) bool {
		return chunks[i].End() > charIndex
	})
	if ci == len(chunks) || !chunks[ci].Contains(charIndex) {
		return Location{}, false
	}

	c := chunks[ci]
	local := charIndex - c.GlobalStartIndex
	total := 0
	for i := range c.Tokens {
		global := c.GlobalWordIndex + i
		start := total
		total += snap.TokenLen(global)
		if total > local {
			return Location{
				ChunkIndex: ci,
				LocalToken: i,
				TokenIndex: global,
				TokenStart: c.GlobalStartIndex + start,
			}, true
		}
	}
	return Location{}, false
}

// RetryPolicy bounds how long a seek waits for its target to be laid out.
type RetryPolicy struct {
	Attempts     int
	Delay        time.Duration
	HighlightTTL time.Duration
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:     10,
		Delay:        50 * time.Millisecond,
		HighlightTTL: 2 * time.Second,
	}
}

// Outcome is the result of one seek attempt.
type Outcome int

const (
	SeekRetry Outcome = iota
	SeekFound
	SeekAbandoned
	SeekExhausted
)

func (o Outcome) String() string {
	switch o {
	case SeekRetry:
		return "retry"
	case SeekFound:
		return "found"
	case SeekAbandoned:
		return "abandoned"
	case SeekExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Seek is the micro-scroll phase of a deep link. The host macro-scrolls to
// Target.ChunkIndex, then calls Next once per timer tick until the outcome is
// terminal. Seek holds no timers itself.
type Seek struct {
	ID     int
	Key    string // identity of the document the seek was started for
	Target Location
	Policy RetryPolicy

	attempt int
}

// NewSeek starts a seek for target within the document identified by key.
func NewSeek(id int, key string, target Location, policy RetryPolicy) *Seek {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	return &Seek{ID: id, Key: key, Target: target, Policy: policy}
}

// Attempts returns how many checks have run.
func (s *Seek) Attempts() int {
	return s.attempt
}

// Next runs one attempt. currentKey is the identity of the document on screen
// now; mounted reports whether a global token is currently laid out.
func (s *Seek) Next(currentKey string, mounted func(token int) bool) Outcome {
	if currentKey != s.Key {
		return SeekAbandoned
	}

	s.attempt++
	if mounted(s.Target.TokenIndex) {
		return SeekFound
	}
	if s.attempt >= s.Policy.Attempts {
		return SeekExhausted
	}
	return SeekRetry
}
