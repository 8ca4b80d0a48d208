package kv

import (
	"iter"

	"github.com/indigo-web/utils/strcomp"
)

type Pair struct {
	Key, Value string
}

// Storage is an associative structure for (string, string) pairs preserving
// insertion order. It acts as a map but uses linear search instead, which
// proves to be more efficient on the handful of entries a request head
// carries.
type Storage struct {
	pairs []Pair
}

func New() *Storage {
	return new(Storage)
}

// NewPrealloc returns an instance of Storage with pre-allocated underlying
// storage.
func NewPrealloc(n int) *Storage {
	return &Storage{
		pairs: make([]Pair, 0, n),
	}
}

// Add appends the pair without looking for duplicates.
func (s *Storage) Add(key, value string) *Storage {
	s.pairs = append(s.pairs, Pair{
		Key:   key,
		Value: value,
	})
	return s
}

// Set inserts the pair, overwriting the first entry matching the key and
// dropping later duplicates. Parsed heads are built through Set, so a header
// repeated on the wire keeps the value seen last.
func (s *Storage) Set(key, value string) *Storage {
	kept := s.pairs[:0]
	replaced := false

	for _, pair := range s.pairs {
		if strcomp.EqualFold(pair.Key, key) {
			if !replaced {
				kept = append(kept, Pair{Key: key, Value: value})
				replaced = true
			}

			continue
		}

		kept = append(kept, pair)
	}

	s.pairs = kept
	if !replaced {
		s.pairs = append(s.pairs, Pair{Key: key, Value: value})
	}

	return s
}

// Delete removes every entry matching the key.
func (s *Storage) Delete(key string) *Storage {
	kept := s.pairs[:0]

	for _, pair := range s.pairs {
		if !strcomp.EqualFold(pair.Key, key) {
			kept = append(kept, pair)
		}
	}

	s.pairs = kept
	return s
}

// Lookup returns a value and a bool indicating whether the key was found at
// all. Missing keys yield an empty string.
func (s *Storage) Lookup(key string) (value string, found bool) {
	for _, pair := range s.pairs {
		if strcomp.EqualFold(pair.Key, key) {
			return pair.Value, true
		}
	}

	return "", false
}

// Value returns the value corresponding to the key, or an empty string.
func (s *Storage) Value(key string) string {
	return s.ValueOr(key, "")
}

// ValueOr returns either the value corresponding to the key or the fallback.
func (s *Storage) ValueOr(key, or string) string {
	value, found := s.Lookup(key)
	if !found {
		return or
	}

	return value
}

// Pairs returns an iterator over the pairs in insertion order.
func (s *Storage) Pairs() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, pair := range s.pairs {
			if !yield(pair.Key, pair.Value) {
				break
			}
		}
	}
}

// Expose exposes the underlying pairs slice for zero-overhead traversal.
func (s *Storage) Expose() []Pair {
	return s.pairs
}

// Len returns the number of stored pairs.
func (s *Storage) Len() int {
	return len(s.pairs)
}

func (s *Storage) Empty() bool {
	return s.Len() == 0
}
