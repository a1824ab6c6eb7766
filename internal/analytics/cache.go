package analytics

import (
	"fmt"

	"github.com/mitchellh/hashstructure/v2"
)

// Pipeline memoizes the filter+aggregate chain for the presentation
// layer's recompute-on-change loop. Results are keyed by a content hash
// of (entries, criteria, dimension), so a repeated recomputation with
// unchanged inputs is a map lookup. The engine itself stays pure; the
// cache holds only immutable results and is not safe for concurrent
// use — the caller drives it from a single event loop.
type Pipeline struct {
	cache map[uint64]pipelineResult
}

type pipelineResult struct {
	filtered []TimeEntry
	buckets  []Bucket
}

func NewPipeline() *Pipeline {
	return &Pipeline{cache: make(map[uint64]pipelineResult)}
}

type pipelineKey struct {
	EntryIDs []int64
	Hours    []float64
	Criteria string
	Dim      int
}

func (c Criteria) cacheKey() string {
	s := c.DateStart.Format("2006-01-02") + ".." + c.DateEnd.Format("2006-01-02")
	if c.ProjectID != nil {
		s += fmt.Sprintf("|p=%d", *c.ProjectID)
	}
	if c.UserID != nil {
		s += fmt.Sprintf("|u=%d", *c.UserID)
	}
	if c.WorkType != nil {
		s += "|t=" + string(*c.WorkType)
	}
	if c.ClientName != nil {
		s += "|c=" + *c.ClientName
	}
	if c.MinHours != nil {
		s += fmt.Sprintf("|min=%v", *c.MinHours)
	}
	if c.MaxHours != nil {
		s += fmt.Sprintf("|max=%v", *c.MaxHours)
	}
	return s
}

func hashInputs(entries []TimeEntry, crit Criteria, dim Dimension) (uint64, error) {
	key := pipelineKey{
		EntryIDs: make([]int64, len(entries)),
		Hours:    make([]float64, len(entries)),
		Criteria: crit.cacheKey(),
		Dim:      int(dim),
	}
	for i, e := range entries {
		key.EntryIDs[i] = e.ID
		key.Hours[i] = e.Hours
	}
	return hashstructure.Hash(key, hashstructure.FormatV2, nil)
}

// Run filters entries by crit and aggregates the subset on dim,
// returning the cached result when the inputs hash to a known key.
// Invalid criteria fail before anything is cached.
func (p *Pipeline) Run(entries []TimeEntry, crit Criteria, dim Dimension) ([]TimeEntry, []Bucket, error) {
	if err := crit.Validate(); err != nil {
		return nil, nil, err
	}

	h, err := hashInputs(entries, crit, dim)
	if err == nil {
		if res, ok := p.cache[h]; ok {
			return res.filtered, res.buckets, nil
		}
	}

	filtered, ferr := Filter(entries, crit)
	if ferr != nil {
		return nil, nil, ferr
	}
	buckets := Aggregate(filtered, dim)

	if err == nil {
		p.cache[h] = pipelineResult{filtered: filtered, buckets: buckets}
	}
	return filtered, buckets, nil
}

// Invalidate drops every memoized result, for callers that know the
// underlying record set changed.
func (p *Pipeline) Invalidate() {
	p.cache = make(map[uint64]pipelineResult)
}
