// Package store holds the locally-cached ordered collection of captured
// items and derives the filtered, paginated views the dashboard renders.
package store

import (
	"sort"

	"github.com/google/uuid"

	"github.com/fakeyudi/synctank/internal/item"
)

// Tab selects which slice of the collection the dashboard shows.
type Tab string

const (
	TabAll      Tab = "All"
	TabPlans    Tab = "Plans"
	TabInsights Tab = "Insights"
)

// Tabs lists the dashboard tabs in display order.
var Tabs = []Tab{TabAll, TabPlans, TabInsights}

// PageSize is the grid capacity of one dashboard page (3 columns x 2 rows).
const PageSize = 6

// Store is the authoritative local cache. All mutation happens on the UI
// goroutine; the store itself does no locking.
type Store struct {
	items []item.Item
	tab   Tab
	page  int
}

func New() *Store {
	return &Store{tab: TabAll}
}

// Items returns the full cached collection in display order.
func (s *Store) Items() []item.Item { return s.items }

// Tab returns the selected tab.
func (s *Store) Tab() Tab { return s.tab }

// Page returns the current zero-based page index.
func (s *Store) Page() int { return s.page }

// Filtered is a pure projection of the collection for the selected tab.
func (s *Store) Filtered() []item.Item {
	switch s.tab {
	case TabPlans:
		return s.filterKind(item.KindPlan)
	case TabInsights:
		return s.filterKind(item.KindInsight)
	default:
		return s.items
	}
}

func (s *Store) filterKind(k item.Kind) []item.Item {
	var out []item.Item
	for _, it := range s.items {
		if it.Kind == k {
			out = append(out, it)
		}
	}
	return out
}

// PageCount is ceil(filtered/PageSize) with a floor of one page even when
// the collection is empty.
func (s *Store) PageCount() int {
	c := len(s.Filtered())
	n := (c + PageSize - 1) / PageSize
	if n < 1 {
		n = 1
	}
	return n
}

// PageItems slices the filtered view for the current page.
func (s *Store) PageItems() []item.Item {
	filtered := s.Filtered()
	start := s.page * PageSize
	end := start + PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	if start >= end {
		return nil
	}
	return filtered[start:end]
}

func (s *Store) GoPrev() {
	if s.page > 0 {
		s.page--
	}
}

func (s *Store) GoNext() {
	if s.page < s.PageCount()-1 {
		s.page++
	}
}

// SelectTab switches the visible tab and resets pagination.
func (s *Store) SelectTab(t Tab) {
	s.tab = t
	s.page = 0
}

// ReconcileFromFetch replaces the collection wholesale with the fetch
// result, newest first by creation timestamp. Rows without a timestamp
// sort after anything captured locally; ties break by title descending.
// The most recently completed fetch always wins, so overlapping fetches
// converge on the later result.
func (s *Store) ReconcileFromFetch(items []item.Item) {
	sorted := make([]item.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].Title > sorted[j].Title
	})
	s.items = sorted
	s.clampPage()
}

// InsertOptimistic prepends a locally-captured item so it is visible
// before (or without) server confirmation. Superseded by the next
// ReconcileFromFetch.
func (s *Store) InsertOptimistic(it item.Item) {
	s.items = append([]item.Item{it}, s.items...)
}

// Remove deletes an item by identity and clamps the page index to the new
// page count.
func (s *Store) Remove(id uuid.UUID) {
	kept := s.items[:0]
	for _, it := range s.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	s.items = kept
	s.clampPage()
}

func (s *Store) clampPage() {
	if max := s.PageCount() - 1; s.page > max {
		s.page = max
	}
}
