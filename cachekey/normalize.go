package cachekey

import "strings"

// DefaultStopwords are filler tokens common in natural-language data
// requests ("please show me the users who ..."). Dropping them maps
// near-duplicate phrasings onto the same cache key. The list is a tuned
// table, not a linguistic model; swap it per deployment language via
// NewNormalizer.
var DefaultStopwords = []string{
	"please", "kindly", "help", "me", "i", "want", "would", "like",
	"could", "can", "you", "show", "tell", "give", "us", "a", "the",
}

// Normalizer canonicalizes query text before key derivation: lowercase,
// whitespace collapsed to single spaces, trimmed, stopword tokens removed.
// Normalize is idempotent, so callers may normalize defensively at every
// layer without changing the key.
type Normalizer struct {
	stopwords map[string]struct{}
}

// NewNormalizer builds a Normalizer with the given stopword table.
// An empty table disables stopword removal (casing and whitespace rules
// still apply).
func NewNormalizer(stopwords []string) *Normalizer {
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &Normalizer{stopwords: set}
}

func (n *Normalizer) Normalize(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	kept := fields[:0]
	for _, w := range fields {
		if _, drop := n.stopwords[w]; drop {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// NormalizeAll normalizes a batch of queries.
func (n *Normalizer) NormalizeAll(queries []string) []string {
	out := make([]string, len(queries))
	for i, q := range queries {
		out[i] = n.Normalize(q)
	}
	return out
}

var defaultNormalizer = NewNormalizer(DefaultStopwords)

// NormalizeText normalizes s with the default stopword table.
func NormalizeText(s string) string {
	return defaultNormalizer.Normalize(s)
}
