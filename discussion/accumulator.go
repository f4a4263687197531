package discussion

// Keyed is anything with a stable identity the accumulator can dedupe on.
type Keyed interface {
	Key() string
}

// Accumulator merges successive pages of a listing into one ordered list.
// Once an item is placed its position never changes; later pages only append
// ids not seen before.
type Accumulator[T Keyed] struct {
	page        int
	items       []T
	hasNext     bool
	loadingMore bool
	loaded      bool
	total       int
	err         error
}

// NewAccumulator returns an empty accumulator waiting for its first page.
func NewAccumulator[T Keyed]() *Accumulator[T] {
	return &Accumulator[T]{}
}

// Merge folds a page into the list. Page 1 replaces everything, which lets a
// sort or filter change reuse the same accumulator.
func (a *Accumulator[T]) Merge(page int, items []T, hasNext bool, total int) {
	if page <= 1 {
		page = 1
		a.items = make([]T, 0, len(items))
	}
	seen := make(map[string]struct{}, len(a.items)+len(items))
	for _, it := range a.items {
		seen[it.Key()] = struct{}{}
	}
	for _, it := range items {
		k := it.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		a.items = append(a.items, it)
	}
	a.page = page
	a.hasNext = hasNext
	a.total = total
	a.loaded = true
	a.loadingMore = false
	a.err = nil
}

// BeginLoadMore claims the next page. It refuses while a page is in flight,
// before the first page landed, or when the server reported no further pages.
func (a *Accumulator[T]) BeginLoadMore() (int, bool) {
	if !a.CanLoadMore() {
		return 0, false
	}
	a.loadingMore = true
	return a.page + 1, true
}

// CanLoadMore reports whether BeginLoadMore would succeed.
func (a *Accumulator[T]) CanLoadMore() bool {
	return a.loaded && a.hasNext && !a.loadingMore
}

// Fail records a transport error. Items are untouched and the loading flag is
// cleared so the caller can retry.
func (a *Accumulator[T]) Fail(err error) {
	a.loadingMore = false
	a.err = err
}

// Reset empties the accumulator back to its pre-first-page state.
func (a *Accumulator[T]) Reset() {
	*a = Accumulator[T]{}
}

// Replace swaps the item list while keeping paging state. Only the mutation
// path uses it.
func (a *Accumulator[T]) Replace(items []T) {
	a.items = items
}

// Items returns the merged list. Callers must not modify it.
func (a *Accumulator[T]) Items() []T {
	return a.items
}

// Page returns the last merged page number (0 before the first page).
func (a *Accumulator[T]) Page() int {
	return a.page
}

// HasNext reports whether the server announced another page.
func (a *Accumulator[T]) HasNext() bool {
	return a.hasNext
}

// LoadingMore reports whether a page beyond the first is in flight.
func (a *Accumulator[T]) LoadingMore() bool {
	return a.loadingMore
}

// Loaded reports whether the first page has been merged.
func (a *Accumulator[T]) Loaded() bool {
	return a.loaded
}

// Total returns the server-reported total, or the item count when none was given.
func (a *Accumulator[T]) Total() int {
	if a.total < len(a.items) {
		return len(a.items)
	}
	return a.total
}

// Err returns the last transport error, cleared by the next successful merge.
func (a *Accumulator[T]) Err() error {
	return a.err
}
