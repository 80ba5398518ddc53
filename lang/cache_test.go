package lang

import (
	"errors"
	"testing"
)

func TestParseSource_ReusesTree(t *testing.T) {
	const src = "let x = 1 in x + 2"

	first, err := ParseSource(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	second, err := ParseSource(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if first != second {
		t.Error("expected the cached tree on the second parse")
	}
}

func TestParseSource_DistinctSources(t *testing.T) {
	a, err := ParseSource("1 + 2")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	b, err := ParseSource("1 + 3")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if a == b {
		t.Error("distinct sources must not share a tree")
	}
}

func TestParseSource_CachesFailures(t *testing.T) {
	const src = "let = in"

	_, first := ParseSource(src)
	if first == nil {
		t.Fatal("expected parse error")
	}

	_, second := ParseSource(src)
	if !errors.Is(second, first) && second != first {
		t.Errorf("expected the cached error, got %v", second)
	}

	var e *Error
	if !errors.As(first, &e) || e.Kind != ErrParse {
		t.Errorf("expected ErrParse, got %v", first)
	}
}

func TestParseSource_ConcurrentSameSource(t *testing.T) {
	const src = "map (\\x x * x) [1, 2, 3]"

	results := make(chan Expr, 8)

	for range 8 {
		go func() {
			expr, err := ParseSource(src)
			if err != nil {
				t.Errorf("parse error: %v", err)
			}

			results <- expr
		}()
	}

	first := <-results
	for range 7 {
		if got := <-results; got != first {
			t.Error("concurrent parses must share one tree")
		}
	}
}
