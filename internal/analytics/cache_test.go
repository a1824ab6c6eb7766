package analytics

import (
	"errors"
	"reflect"
	"testing"
)

func TestPipelineRun(t *testing.T) {
	p := NewPipeline()
	filtered, buckets, err := p.Run(sampleEntries(), janRange(), ByProject)
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 4 {
		t.Fatalf("filtered = %d, want 4", len(filtered))
	}
	if len(buckets) != 2 {
		t.Fatalf("buckets = %d, want 2", len(buckets))
	}
}

func TestPipelineMemoizes(t *testing.T) {
	p := NewPipeline()
	entries := sampleEntries()

	f1, b1, err := p.Run(entries, janRange(), ByProject)
	if err != nil {
		t.Fatal(err)
	}
	f2, b2, err := p.Run(entries, janRange(), ByProject)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(f1, f2) || !reflect.DeepEqual(b1, b2) {
		t.Fatal("memoized result differs from first computation")
	}
	if len(p.cache) != 1 {
		t.Fatalf("expected a single cache slot, got %d", len(p.cache))
	}
}

func TestPipelineDistinguishesInputs(t *testing.T) {
	p := NewPipeline()
	entries := sampleEntries()

	_, byProject, _ := p.Run(entries, janRange(), ByProject)
	_, byUser, _ := p.Run(entries, janRange(), ByUser)
	if reflect.DeepEqual(byProject, byUser) {
		t.Fatal("different dimensions returned the same buckets")
	}
	if len(p.cache) != 2 {
		t.Fatalf("expected 2 cache slots, got %d", len(p.cache))
	}

	minH := 3.5
	crit := janRange()
	crit.MinHours = &minH
	_, filteredBuckets, _ := p.Run(entries, crit, ByProject)
	if reflect.DeepEqual(byProject, filteredBuckets) {
		t.Fatal("different criteria returned the same buckets")
	}
}

func TestPipelineRejectsInvalidCriteria(t *testing.T) {
	p := NewPipeline()
	c := Criteria{DateStart: date("2024-02-01"), DateEnd: date("2024-01-01")}
	_, _, err := p.Run(nil, c, ByDate)
	if !errors.Is(err, ErrInvalidCriteria) {
		t.Fatalf("expected ErrInvalidCriteria, got %v", err)
	}
	if len(p.cache) != 0 {
		t.Fatal("invalid criteria must not populate the cache")
	}
}

func TestPipelineInvalidate(t *testing.T) {
	p := NewPipeline()
	p.Run(sampleEntries(), janRange(), ByDate)
	p.Invalidate()
	if len(p.cache) != 0 {
		t.Fatal("Invalidate did not clear the cache")
	}
}
