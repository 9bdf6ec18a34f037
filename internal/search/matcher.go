// Package search provides a simple, deterministic, concurrency-safe
// question matcher built from a domain's helpdesk Q/A pairs. It is
// intentionally small and dependency-free:
//
//   - No logging in the library (callers decide how/what to log)
//   - Unicode-aware tokenization with optional stop-word removal
//   - Immutable, read-only matcher after construction (safe for concurrent use)
//   - Deterministic scoring and tie-breaking (stable result for equal input)
//   - Returns at most one answer, per the lookup contract
//
// Scoring uses Jaccard similarity between the query token set and each
// entry's question token set: score = |Q ∩ E| / |Q ∪ E|.
package search

import (
	"regexp"
	"strings"
)

// Entry is one candidate Q/A pair fed into a matcher.
type Entry struct {
	ID       string
	Question string
	Answer   string
}

// Match is the selected entry with its similarity score in [0,1].
type Match struct {
	ID       string
	Question string
	Answer   string
	Score    float64
}

// Matcher is the minimal interface implemented by all matchers. Best
// returns the single highest-scoring entry for the query and whether any
// entry overlapped at all; callers apply their own confidence threshold.
type Matcher interface {
	Best(query string) (Match, bool)
}

// ----------------------------------------------------------------------------
// Options

type Option func(*config)

type config struct {
	stopwords map[string]struct{}
}

func defaultConfig() config {
	return config{stopwords: defaultStopwords}
}

// WithStopwords replaces the default stop-word list.
func WithStopwords(words []string) Option {
	return func(c *config) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				m[w] = struct{}{}
			}
		}
		c.stopwords = m
	}
}

// defaultStopwords drops high-frequency function words that would otherwise
// let unrelated questions overlap.
var defaultStopwords = func() map[string]struct{} {
	words := []string{
		"a", "an", "the", "i", "you", "we", "it", "is", "are", "am", "do",
		"does", "did", "can", "could", "will", "would", "my", "your", "our",
		"of", "to", "in", "on", "for", "and", "or", "what", "how", "when",
		"where", "there", "this", "that", "me", "us", "be", "have", "has",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// ----------------------------------------------------------------------------
// Implementation

type doc struct {
	entry  Entry
	tokens map[string]struct{}
	tLen   int
}

type matcher struct {
	cfg  config
	docs []doc
}

// NewMatcher builds a Matcher from a domain's helpdesk entries. Entries
// whose question tokenizes to nothing are skipped.
func NewMatcher(entries []Entry, opts ...Option) Matcher {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	docs := make([]doc, 0, len(entries))
	for _, e := range entries {
		toks := tokenize(e.Question, cfg.stopwords)
		if len(toks) == 0 {
			// Retry without stop-word removal so e.g. "How are you?" is
			// still matchable rather than silently dropped.
			toks = tokenize(e.Question, nil)
		}
		if len(toks) == 0 {
			continue
		}
		docs = append(docs, doc{entry: e, tokens: toks, tLen: len(toks)})
	}
	return &matcher{cfg: cfg, docs: docs}
}

// Best returns the highest-scoring entry by Jaccard similarity. Ties break
// on fewer question tokens (more specific entry), then lexicographically on
// entry ID, so equal inputs always produce the same result.
func (m *matcher) Best(query string) (Match, bool) {
	if len(m.docs) == 0 || strings.TrimSpace(query) == "" {
		return Match{}, false
	}
	qTokens := tokenize(query, m.cfg.stopwords)
	if len(qTokens) == 0 {
		qTokens = tokenize(query, nil)
	}
	if len(qTokens) == 0 {
		return Match{}, false
	}
	qLen := len(qTokens)

	var (
		best   doc
		bestSc float64
		found  bool
	)
	for _, d := range m.docs {
		over := overlap(qTokens, d.tokens)
		if over == 0 {
			continue
		}
		score := float64(over) / float64(qLen+d.tLen-over)
		switch {
		case !found || score > bestSc:
			best, bestSc, found = d, score, true
		case score == bestSc && d.tLen < best.tLen:
			best = d
		case score == bestSc && d.tLen == best.tLen && d.entry.ID < best.entry.ID:
			best = d
		}
	}
	if !found {
		return Match{}, false
	}
	return Match{
		ID:       best.entry.ID,
		Question: best.entry.Question,
		Answer:   best.entry.Answer,
		Score:    bestSc,
	}, true
}

// ----------------------------------------------------------------------------
// Helpers

var wordRE = regexp.MustCompile(`\p{L}+\p{N}*`)

func tokenize(s string, stop map[string]struct{}) map[string]struct{} {
	s = strings.ToLower(s)
	words := wordRE.FindAllString(s, -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if stop != nil {
			if _, skip := stop[w]; skip {
				continue
			}
		}
		out[w] = struct{}{}
	}
	return out
}

func overlap(a, b map[string]struct{}) int {
	// Iterate over the smaller set.
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
