package attrsel

import (
	"container/heap"

	lru "github.com/hashicorp/golang-lru"

	"github.com/YuminosukeSato/scigo-attrsel/dataset"
	scigoErrors "github.com/YuminosukeSato/scigo-attrsel/pkg/errors"
	"github.com/YuminosukeSato/scigo-attrsel/pkg/log"
)

// Direction is the way a subset search moves through the lattice.
type Direction int

const (
	// Forward starts from the empty set and adds attributes.
	Forward Direction = iota
	// Backward starts from the full set and removes attributes.
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// improvementEpsilon is the smallest merit gain that counts as an improvement.
const improvementEpsilon = 1e-5

// BestFirst searches the space of attribute subsets by greedy hill climbing
// with backtracking. The search gives up after searchTermination
// consecutive expansions that do not improve on the best subset.
//
// Subsets already scored are kept in an LRU lookup cache so that the same
// subset reached along different paths is neither re-scored nor re-queued.
type BestFirst struct {
	direction         Direction
	searchTermination int
	lookupCacheSize   int
	logger            log.Logger
}

// BestFirstOption configures a BestFirst search.
type BestFirstOption func(*BestFirst)

// WithDirection sets the search direction.
func WithDirection(d Direction) BestFirstOption {
	return func(b *BestFirst) { b.direction = d }
}

// WithSearchTermination sets how many non-improving expansions are allowed.
func WithSearchTermination(n int) BestFirstOption {
	return func(b *BestFirst) { b.searchTermination = n }
}

// WithLookupCacheSize bounds the number of remembered subsets.
func WithLookupCacheSize(n int) BestFirstOption {
	return func(b *BestFirst) { b.lookupCacheSize = n }
}

// WithBestFirstLogger sets the logger used for per-expansion debug output.
func WithBestFirstLogger(l log.Logger) BestFirstOption {
	return func(b *BestFirst) { b.logger = l }
}

// NewBestFirst creates a forward BestFirst search with a termination of 5
// and a lookup cache of 1000 subsets.
func NewBestFirst(opts ...BestFirstOption) *BestFirst {
	b := &BestFirst{
		direction:         Forward,
		searchTermination: 5,
		lookupCacheSize:   1000,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name implements SearchMethod.
func (b *BestFirst) Name() string { return "BestFirst" }

// Search implements SubsetSearch.
func (b *BestFirst) Search(eval SubsetEvaluator, ds *dataset.Dataset) (SubsetResult, error) {
	if b.searchTermination < 1 {
		return SubsetResult{}, scigoErrors.NewValidationError("searchTermination", "must be at least 1", b.searchTermination)
	}
	cache, err := lru.New(b.lookupCacheSize)
	if err != nil {
		return SubsetResult{}, scigoErrors.NewValidationError("lookupCacheSize", err.Error(), b.lookupCacheSize)
	}
	logger := b.logger
	if logger == nil {
		logger = log.GetLoggerWithName("attrsel.bestfirst")
	}

	features := ds.FeatureIndices()
	start := newSubsetMask(ds.NumAttributes())
	if b.direction == Backward {
		for _, j := range features {
			start.set(j, true)
		}
	}

	result := SubsetResult{}
	startMerit, err := eval.EvaluateSubset(start.indices())
	if err != nil {
		return SubsetResult{}, err
	}
	result.Evaluated++
	cache.Add(start.key(), startMerit)

	best := start
	bestMerit := startMerit
	open := &openList{}
	heap.Push(open, &openEntry{mask: start, merit: startMerit})

	stale := 0
	for stale < b.searchTermination && open.Len() > 0 {
		current := heap.Pop(open).(*openEntry)
		improved := false

		for _, j := range features {
			if current.mask.has(j) == (b.direction == Forward) {
				continue
			}
			child := current.mask.clone()
			child.set(j, b.direction == Forward)
			key := child.key()
			if cache.Contains(key) {
				result.CacheHits++
				continue
			}
			merit, err := eval.EvaluateSubset(child.indices())
			if err != nil {
				return SubsetResult{}, err
			}
			result.Evaluated++
			cache.Add(key, merit)
			heap.Push(open, &openEntry{mask: child, merit: merit})

			if b.better(merit, bestMerit, child, best) {
				best = child
				bestMerit = merit
				improved = true
			}
		}

		if improved {
			stale = 0
		} else {
			stale++
		}
		logger.Debug("Expanded subset",
			"subset", current.mask.indices(),
			log.MeritKey, current.merit,
			"stale", stale,
		)
	}

	result.Subset = best.indices()
	result.Merit = bestMerit
	return result, nil
}

// better reports whether child should replace best. Going backward, a
// smaller subset with the same merit wins.
func (b *BestFirst) better(merit, bestMerit float64, child, best subsetMask) bool {
	if merit-bestMerit > improvementEpsilon {
		return true
	}
	return b.direction == Backward &&
		merit-bestMerit > -improvementEpsilon &&
		len(child.indices()) < len(best.indices())
}

// subsetMask is a membership flag per attribute index.
type subsetMask []bool

func newSubsetMask(n int) subsetMask { return make(subsetMask, n) }

func (m subsetMask) has(j int) bool    { return m[j] }
func (m subsetMask) set(j int, v bool) { m[j] = v }
func (m subsetMask) clone() subsetMask { return append(subsetMask(nil), m...) }
func (m subsetMask) key() string {
	b := make([]byte, len(m))
	for i, v := range m {
		if v {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}

func (m subsetMask) indices() []int {
	out := []int{}
	for i, v := range m {
		if v {
			out = append(out, i)
		}
	}
	return out
}

type openEntry struct {
	mask  subsetMask
	merit float64
	seq   int
}

// openList is a max-heap on merit; ties go to the earliest inserted entry.
type openList struct {
	entries []*openEntry
	next    int
}

func (o *openList) Len() int { return len(o.entries) }
func (o *openList) Less(i, j int) bool {
	a, b := o.entries[i], o.entries[j]
	if a.merit != b.merit {
		return a.merit > b.merit
	}
	return a.seq < b.seq
}
func (o *openList) Swap(i, j int) { o.entries[i], o.entries[j] = o.entries[j], o.entries[i] }
func (o *openList) Push(x interface{}) {
	e := x.(*openEntry)
	e.seq = o.next
	o.next++
	o.entries = append(o.entries, e)
}
func (o *openList) Pop() interface{} {
	old := o.entries
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	o.entries = old[:n-1]
	return e
}
