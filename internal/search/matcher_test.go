package search

import "testing"

func TestBest_PicksHighestOverlap(t *testing.T) {
	m := NewMatcher([]Entry{
		{ID: "a", Question: "What are your opening hours?", Answer: "9 to 5"},
		{ID: "b", Question: "Do you ship internationally?", Answer: "Yes"},
		{ID: "c", Question: "How do I reset my password?", Answer: "Use the reset link"},
	})

	got, ok := m.Best("when do your opening hours start")
	if !ok {
		t.Fatalf("expected a match")
	}
	if got.ID != "a" {
		t.Fatalf("expected entry a, got %s", got.ID)
	}
	if got.Score <= 0 || got.Score > 1 {
		t.Fatalf("score out of range: %f", got.Score)
	}
}

func TestBest_NoOverlapMeansNoMatch(t *testing.T) {
	m := NewMatcher([]Entry{
		{ID: "a", Question: "What are your opening hours?", Answer: "9 to 5"},
	})

	if _, ok := m.Best("cryptocurrency refunds"); ok {
		t.Fatalf("disjoint query must not match")
	}
	if _, ok := m.Best("   "); ok {
		t.Fatalf("blank query must not match")
	}
}

func TestBest_EmptyMatcher(t *testing.T) {
	m := NewMatcher(nil)
	if _, ok := m.Best("anything"); ok {
		t.Fatalf("empty matcher must never match")
	}
}

func TestBest_Deterministic(t *testing.T) {
	entries := []Entry{
		{ID: "b", Question: "shipping rates", Answer: "see pricing"},
		{ID: "a", Question: "shipping rates", Answer: "see pricing too"},
	}
	m := NewMatcher(entries)

	first, ok := m.Best("shipping rates")
	if !ok {
		t.Fatalf("expected a match")
	}
	// Equal score and length tie-breaks on the smaller ID.
	if first.ID != "a" {
		t.Fatalf("tie must break on entry ID, got %s", first.ID)
	}
	for i := 0; i < 10; i++ {
		got, ok := m.Best("shipping rates")
		if !ok || got.ID != first.ID {
			t.Fatalf("result changed across calls: %+v", got)
		}
	}
}

func TestBest_TieBreaksOnSpecificity(t *testing.T) {
	m := NewMatcher([]Entry{
		{ID: "broad", Question: "refund policy details shipping", Answer: "broad"},
		{ID: "narrow", Question: "refund policy", Answer: "narrow"},
	})

	got, ok := m.Best("refund policy")
	if !ok {
		t.Fatalf("expected a match")
	}
	if got.ID != "narrow" {
		t.Fatalf("exact phrasing must beat the broader entry, got %s", got.ID)
	}
	if got.Score != 1 {
		t.Fatalf("identical token sets must score 1, got %f", got.Score)
	}
}

func TestStopwordsIgnored(t *testing.T) {
	m := NewMatcher([]Entry{
		{ID: "a", Question: "What is the refund policy?", Answer: "30 days"},
	})

	got, ok := m.Best("refund policy")
	if !ok || got.ID != "a" {
		t.Fatalf("function words must not be required to match: %+v", got)
	}
	if got.Score != 1 {
		t.Fatalf("after stop-word removal the sets are equal, score %f", got.Score)
	}
}

func TestStopwordOnlyQuestionStillMatchable(t *testing.T) {
	m := NewMatcher([]Entry{
		{ID: "a", Question: "How are you?", Answer: "Fine, thanks"},
	})

	if _, ok := m.Best("how are you"); !ok {
		t.Fatalf("stop-word-only questions must fall back to raw tokens")
	}
}

func TestWithStopwords(t *testing.T) {
	m := NewMatcher(
		[]Entry{{ID: "a", Question: "foo bar", Answer: "x"}},
		WithStopwords([]string{"bar"}),
	)

	got, ok := m.Best("foo baz")
	if !ok || got.ID != "a" {
		t.Fatalf("custom stop-word list not applied: %+v", got)
	}
	if got.Score != 0.5 {
		t.Fatalf("expected score 0.5 with bar dropped from 'foo bar' only, got %f", got.Score)
	}
}
