package analytics

import (
	"errors"
	"reflect"
	"testing"
)

func sampleEntries() []TimeEntry {
	return []TimeEntry{
		entry(1, "2024-01-01", 4, "P1", "alice"),
		entry(2, "2024-01-01", 3, "P2", "bob"),
		entry(3, "2024-01-02", 8, "P1", "alice"),
		entry(4, "2024-01-03", 2, "P2", "carol"),
	}
}

func janRange() Criteria {
	return Criteria{DateStart: date("2024-01-01"), DateEnd: date("2024-01-31")}
}

func TestFilterIdentity(t *testing.T) {
	entries := sampleEntries()
	got, err := Filter(entries, janRange())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(entries) {
		t.Fatalf("identity filter dropped entries: got %d, want %d", len(got), len(entries))
	}
	for i := range got {
		if got[i].ID != entries[i].ID {
			t.Fatalf("order not preserved at %d: got %d, want %d", i, got[i].ID, entries[i].ID)
		}
	}
}

func TestFilterDateBoundsInclusive(t *testing.T) {
	c := janRange()
	c.DateStart = date("2024-01-01")
	c.DateEnd = date("2024-01-02")
	got, err := Filter(sampleEntries(), c)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries within inclusive bounds, got %d", len(got))
	}
}

func TestFilterByProjectAndUser(t *testing.T) {
	pid := toyID("P1")
	uid := toyID("alice")
	c := janRange()
	c.ProjectID = &pid
	c.UserID = &uid
	got, err := Filter(sampleEntries(), c)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	for _, e := range got {
		if e.ProjectName != "P1" || e.UserName != "alice" {
			t.Fatalf("wrong entry passed filter: %+v", e)
		}
	}
}

func TestFilterByWorkTypeAndClient(t *testing.T) {
	entries := sampleEntries()
	entries[3].WorkType = WorkTypeMeeting

	wt := WorkTypeMeeting
	c := janRange()
	c.WorkType = &wt
	got, _ := Filter(entries, c)
	if len(got) != 1 || got[0].ID != 4 {
		t.Fatalf("work type filter: got %v", got)
	}

	client := "acme" // case-insensitive match
	c = janRange()
	c.ClientName = &client
	got, _ = Filter(entries, c)
	if len(got) != 4 {
		t.Fatalf("client filter should match all, got %d", len(got))
	}
}

func TestFilterMinHoursExcludesAll(t *testing.T) {
	entries := []TimeEntry{
		entry(1, "2024-01-01", 4, "P1", "alice"),
		entry(2, "2024-01-01", 3, "P2", "bob"),
	}
	minH := 5.0
	c := janRange()
	c.MinHours = &minH
	got, err := Filter(entries, c)
	if err != nil {
		t.Fatalf("empty result is not an error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d entries", len(got))
	}
}

func TestFilterHoursRange(t *testing.T) {
	minH, maxH := 3.0, 4.0
	c := janRange()
	c.MinHours = &minH
	c.MaxHours = &maxH
	got, _ := Filter(sampleEntries(), c)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries in [3,4], got %d", len(got))
	}
}

func TestFilterInvalidCriteria(t *testing.T) {
	c := Criteria{DateStart: date("2024-02-01"), DateEnd: date("2024-01-01")}
	if _, err := Filter(nil, c); !errors.Is(err, ErrInvalidCriteria) {
		t.Fatalf("expected ErrInvalidCriteria, got %v", err)
	}

	minH, maxH := 8.0, 2.0
	c = janRange()
	c.MinHours = &minH
	c.MaxHours = &maxH
	if _, err := Filter(nil, c); !errors.Is(err, ErrInvalidCriteria) {
		t.Fatalf("expected ErrInvalidCriteria for min>max, got %v", err)
	}

	neg := -1.0
	c = janRange()
	c.MinHours = &neg
	if _, err := Filter(nil, c); !errors.Is(err, ErrInvalidCriteria) {
		t.Fatalf("expected ErrInvalidCriteria for negative min, got %v", err)
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	entries := sampleEntries()
	snapshot := make([]TimeEntry, len(entries))
	copy(snapshot, entries)

	minH := 3.5
	c := janRange()
	c.MinHours = &minH
	if _, err := Filter(entries, c); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(entries, snapshot) {
		t.Fatal("Filter mutated its input")
	}
}

func TestFilterIdempotent(t *testing.T) {
	c := janRange()
	a, _ := Filter(sampleEntries(), c)
	b, _ := Filter(sampleEntries(), c)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical inputs produced different outputs")
	}
}

func TestCriteriaWithRange(t *testing.T) {
	pid := int64(7)
	c := janRange()
	c.ProjectID = &pid

	r := DateRange{Start: date("2024-02-01"), End: date("2024-02-29")}
	c2 := c.WithRange(r)
	if !c2.DateStart.Equal(r.Start) || !c2.DateEnd.Equal(r.End) {
		t.Fatal("range not applied")
	}
	if c2.ProjectID == nil || *c2.ProjectID != 7 {
		t.Fatal("shared predicate lost")
	}
	if !c.DateStart.Equal(date("2024-01-01")) {
		t.Fatal("WithRange mutated the receiver")
	}
}
