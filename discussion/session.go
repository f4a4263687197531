package discussion

import (
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/CrestNiraj12/threadline/domain"
)

// DefaultPageSize is the page size requested for listings and searches.
const DefaultPageSize = 20

// RequestKind names the read operation a Request asks the caller to run.
type RequestKind int

const (
	RequestNone RequestKind = iota
	RequestList
	RequestSearch
	RequestThread
)

// Request describes a fetch the caller must perform and report back through
// the matching Apply method. Snapshot ties the response to the view state it
// was issued under.
type Request struct {
	Kind         RequestKind
	Snapshot     Snapshot
	Page         int
	PageSize     int
	TargetRef    string
	Sort         domain.Sort
	Query        string
	SearchType   domain.SearchType
	FocalID      string
	ParentLevels int
	ReplyDepth   int
}

// Pagination summarises a listing for the presentation layer.
type Pagination struct {
	Total        int
	HasMore      bool
	CurrentCount int
}

// MutationKind enumerates local optimistic changes.
type MutationKind int

const (
	MutationCreate MutationKind = iota + 1
	MutationUpdate
	MutationDelete
	MutationReply
	// MutationReconcile replaces a node with the server's copy.
	MutationReconcile
	// MutationRollback removes an optimistic node the server rejected.
	// ParentID names the parent of a rejected reply so flat listings can
	// take back the reply count.
	MutationRollback
)

// Mutation is one local change. Comment carries the new node for create,
// reply and reconcile; Patch carries the edit for update.
type Mutation struct {
	Kind     MutationKind
	ID       string
	ParentID string
	Comment  *domain.Comment
	Patch    Patch
}

// MutationResult reports what ApplyMutation did. In Thread mode nothing is
// patched locally and NeedsRefetch tells the caller to reload the thread
// once its network call completes.
type MutationResult struct {
	Applied      bool
	NeedsRefetch bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger routes debug output (stale drops, consistency misses) to log.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithPageSize overrides DefaultPageSize.
func WithPageSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithTarget sets the poll/post whose comments the All mode lists.
func WithTarget(ref string) Option {
	return func(s *Session) {
		s.target = strings.TrimSpace(ref)
	}
}

// WithThreadDepth overrides the ancestor and reply bounds of Thread mode.
func WithThreadDepth(parentLevels, replyDepth int) Option {
	return func(s *Session) {
		s.parentLevels, s.replyDepth = threadBounds(parentLevels, replyDepth)
	}
}

// WithPreferences seeds the initial sort and search type.
func WithPreferences(sort domain.Sort, searchType domain.SearchType) Option {
	return func(s *Session) {
		s.ctrl = NewController(sort, searchType)
	}
}

type threadState struct {
	view    domain.ThreadView
	loaded  bool
	loading bool
	err     error
}

// Session is the comment-thread view-model for one screen. It is safe for
// concurrent use, though the intended caller is a single event loop.
type Session struct {
	mu sync.Mutex

	ctrl    *Controller
	all     *Accumulator[*domain.Comment]
	search  *Accumulator[*domain.SearchResult]
	thread  threadState
	trigger ScrollTrigger
	ann     *Annotations

	// First-page loads; load-more state lives in the accumulators.
	allLoading    bool
	searchLoading bool

	log          *zap.Logger
	target       string
	pageSize     int
	parentLevels int
	replyDepth   int
}

// NewSession builds a Session around an annotation store. Passing the same
// store to a new Session carries collapse state over; nil creates a fresh one.
func NewSession(ann *Annotations, opts ...Option) *Session {
	if ann == nil {
		ann = NewAnnotations()
	}
	s := &Session{
		ctrl:         NewController(domain.SortNewest, domain.SearchContent),
		all:          NewAccumulator[*domain.Comment](),
		search:       NewAccumulator[*domain.SearchResult](),
		ann:          ann,
		log:          zap.NewNop(),
		pageSize:     DefaultPageSize,
		parentLevels: DefaultParentLevels,
		replyDepth:   DefaultReplyDepth,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Annotations returns the session's annotation store.
func (s *Session) Annotations() *Annotations {
	return s.ann
}

// State returns the current view state.
func (s *Session) State() domain.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.State()
}

// HistoryDepth returns how many states Back can return to.
func (s *Session) HistoryDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Depth()
}

// Start returns the first request for the current mode.
func (s *Session) Start() Request {
	return s.Refresh()
}

// Refresh abandons in-flight requests, empties the active mode and returns
// the request that reloads it from page 1.
func (s *Session) Refresh() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.Invalidate()
	s.resetActive()
	return s.initialRequest()
}

// Navigate applies a view transition. When the state changed, every listing
// is emptied and the request for the new mode is returned.
func (s *Session) Navigate(a Action) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, changed := s.ctrl.Apply(a)
	if !changed {
		return Request{}, false
	}
	next := s.ctrl.State()
	s.log.Debug("view transition",
		zap.Stringer("from", prev.Mode),
		zap.Stringer("to", next.Mode),
		zap.String("key", next.Key()),
	)
	s.all.Reset()
	s.search.Reset()
	s.thread = threadState{}
	s.allLoading = false
	s.searchLoading = false
	s.trigger.Rearm()
	s.resetActive()
	return s.initialRequest(), true
}

// LoadMore claims the next page of the active listing.
func (s *Session) LoadMore() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		page int
		ok   bool
	)
	switch s.ctrl.State().Mode {
	case domain.ModeAll:
		page, ok = s.all.BeginLoadMore()
	case domain.ModeSearch:
		page, ok = s.search.BeginLoadMore()
	}
	if !ok {
		return Request{}, false
	}
	return s.pageRequest(page), true
}

// SentinelVisible feeds the infinite-scroll sentinel's visibility and returns
// a page request when it fires.
func (s *Session) SentinelVisible(visible bool) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mode := s.ctrl.State().Mode
	var p Pager
	switch mode {
	case domain.ModeAll:
		p = s.all
	case domain.ModeSearch:
		p = s.search
	}
	page, ok := s.trigger.Observe(visible, mode, p)
	if !ok {
		return Request{}, false
	}
	return s.pageRequest(page), true
}

// ApplyPage merges a comment page answering req.
func (s *Session) ApplyPage(req Request, items []*domain.Comment, hasNext bool, total int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkCurrent(req, RequestList); err != nil {
		return err
	}
	s.all.Merge(req.Page, items, hasNext, total)
	s.allLoading = false
	s.trigger.Rearm()
	s.ann.Seed(items...)
	return nil
}

// ApplySearchPage merges a search page answering req.
func (s *Session) ApplySearchPage(req Request, items []*domain.SearchResult, hasNext bool, total int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkCurrent(req, RequestSearch); err != nil {
		return err
	}
	s.search.Merge(req.Page, items, hasNext, total)
	s.searchLoading = false
	s.trigger.Rearm()
	return nil
}

// ApplyThread installs a reconstructed thread answering req.
func (s *Session) ApplyThread(req Request, view domain.ThreadView) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkCurrent(req, RequestThread); err != nil {
		return err
	}
	built, ok := BuildThread(view, req.ParentLevels, req.ReplyDepth)
	if !ok {
		s.thread = threadState{loaded: true}
		return nil
	}
	s.thread = threadState{view: built, loaded: true}
	s.ann.Seed(built.Focal)
	s.ann.Seed(built.ParentContext...)
	return nil
}

// ApplyFailure records a transport error for req. The listing keeps its
// items and its loading flag is cleared so a retry can be issued.
func (s *Session) ApplyFailure(req Request, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cerr := s.checkCurrent(req, req.Kind); cerr != nil {
		return cerr
	}
	switch req.Kind {
	case RequestList:
		s.all.Fail(err)
		s.allLoading = false
	case RequestSearch:
		s.search.Fail(err)
		s.searchLoading = false
	case RequestThread:
		s.thread.loading = false
		s.thread.err = err
	}
	s.trigger.Rearm()
	return nil
}

// CurrentItems returns what the given mode would render, in order. Modes
// other than the active one are always empty.
func (s *Session) CurrentItems(mode domain.Mode) []domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ctrl.Enabled(mode) {
		return []domain.Item{}
	}
	switch mode {
	case domain.ModeAll:
		items := s.all.Items()
		out := make([]domain.Item, 0, len(items))
		for _, c := range items {
			out = append(out, domain.CommentItem(c))
		}
		return out
	case domain.ModeSearch:
		items := s.search.Items()
		out := make([]domain.Item, 0, len(items))
		for _, r := range items {
			out = append(out, domain.SearchItem(r))
		}
		return out
	case domain.ModeThread:
		if s.thread.view.Focal == nil {
			return []domain.Item{}
		}
		out := make([]domain.Item, 0, len(s.thread.view.ParentContext)+1)
		for _, c := range s.thread.view.ParentContext {
			out = append(out, domain.CommentItem(c))
		}
		return append(out, domain.CommentItem(s.thread.view.Focal))
	}
	return []domain.Item{}
}

// Tree returns the All-mode forest.
func (s *Session) Tree() []*domain.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.all.Items()
}

// SearchResults returns the Search-mode hits.
func (s *Session) SearchResults() []*domain.SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.search.Items()
}

// Thread returns the reconstructed thread, if one is loaded.
func (s *Session) Thread() (domain.ThreadView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.thread.view, s.thread.loaded && s.thread.view.Focal != nil
}

// Pagination summarises the listing of mode.
func (s *Session) Pagination(mode domain.Mode) Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ctrl.Enabled(mode) {
		return Pagination{}
	}
	switch mode {
	case domain.ModeAll:
		return Pagination{Total: s.all.Total(), HasMore: s.all.HasNext(), CurrentCount: len(s.all.Items())}
	case domain.ModeSearch:
		return Pagination{Total: s.search.Total(), HasMore: s.search.HasNext(), CurrentCount: len(s.search.Items())}
	case domain.ModeThread:
		n := CountNodes(s.thread.view)
		return Pagination{Total: n, CurrentCount: n}
	}
	return Pagination{}
}

// Loading reports whether mode is waiting for its first page or thread.
func (s *Session) Loading(mode domain.Mode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ctrl.Enabled(mode) {
		return false
	}
	switch mode {
	case domain.ModeAll:
		return s.allLoading
	case domain.ModeSearch:
		return s.searchLoading
	case domain.ModeThread:
		return s.thread.loading
	}
	return false
}

// LoadingMore reports whether a further page of mode is in flight.
func (s *Session) LoadingMore(mode domain.Mode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch mode {
	case domain.ModeAll:
		return s.all.LoadingMore()
	case domain.ModeSearch:
		return s.search.LoadingMore()
	}
	return false
}

// Err returns the last transport error recorded for mode.
func (s *Session) Err(mode domain.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch mode {
	case domain.ModeAll:
		return s.all.Err()
	case domain.ModeSearch:
		return s.search.Err()
	case domain.ModeThread:
		return s.thread.err
	}
	return nil
}

// EmptyState reports whether mode finished loading and has nothing to show.
func (s *Session) EmptyState(mode domain.Mode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ctrl.Enabled(mode) {
		return false
	}
	switch mode {
	case domain.ModeAll:
		return s.all.Loaded() && s.all.Err() == nil && len(s.all.Items()) == 0
	case domain.ModeSearch:
		return s.search.Loaded() && s.search.Err() == nil && len(s.search.Items()) == 0
	case domain.ModeThread:
		return s.thread.loaded && s.thread.view.Focal == nil
	}
	return false
}

// ApplyMutation applies a local optimistic change. Validation errors are
// returned before anything changes; a target id that is no longer present is
// not an error and leaves everything as it was.
func (s *Session) ApplyMutation(m Mutation) (MutationResult, error) {
	if err := validateMutation(m); err != nil {
		return MutationResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		res MutationResult
		ok  bool
	)
	switch s.ctrl.State().Mode {
	case domain.ModeThread:
		// Bounded depth makes local patching ambiguous; reload the whole thread.
		s.ctrl.Invalidate()
		s.thread.loading = true
		return MutationResult{NeedsRefetch: true}, nil
	case domain.ModeAll:
		ok = s.mutateTree(m)
	case domain.ModeSearch:
		ok = s.mutateResults(m)
	}
	res.Applied = ok
	if !ok {
		s.log.Debug("mutation target missing",
			zap.Int("kind", int(m.Kind)),
			zap.String("id", m.ID),
			zap.String("parent_id", m.ParentID),
		)
	}
	return res, nil
}

// ThreadRequest returns the reload request for the current thread.
func (s *Session) ThreadRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctrl.State().Mode != domain.ModeThread {
		return Request{}, false
	}
	return s.initialRequest(), true
}

func (s *Session) mutateTree(m Mutation) bool {
	roots := s.all.Items()
	var (
		out []*domain.Comment
		ok  bool
	)
	switch m.Kind {
	case MutationCreate:
		out, ok = InsertRoot(roots, m.Comment), true
		s.ann.Seed(m.Comment)
	case MutationUpdate:
		out, ok = UpdateNode(roots, m.ID, m.Patch)
	case MutationDelete:
		out, ok = SoftDeleteNode(roots, m.ID)
	case MutationReply:
		out, ok = AppendReply(roots, m.ParentID, m.Comment)
		if ok {
			s.ann.Seed(m.Comment)
		}
	case MutationReconcile:
		out, ok = ReplaceNode(roots, m.ID, m.Comment)
	case MutationRollback:
		out, ok = RemoveNode(roots, m.ID)
	}
	if ok {
		s.all.Replace(out)
	}
	return ok
}

func (s *Session) mutateResults(m Mutation) bool {
	items := s.search.Items()
	idx := -1
	target := m.ID
	if m.Kind == MutationReply || m.Kind == MutationRollback {
		target = m.ParentID
	}
	for i, r := range items {
		if r.ID == target {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	cp := *items[idx]
	switch m.Kind {
	case MutationUpdate:
		if m.Patch.Content != nil {
			cp.Content = *m.Patch.Content
		}
		if m.Patch.Reactions != nil {
			cp.Reactions = *m.Patch.Reactions
		}
	case MutationDelete:
		cp.IsDeleted = true
		if cp.ReplyCount > 0 {
			cp.Content = ""
		}
	case MutationReply:
		cp.ReplyCount++
	case MutationRollback:
		if cp.ReplyCount > 0 {
			cp.ReplyCount--
		}
	case MutationReconcile:
		if m.Comment == nil {
			return false
		}
		cp.Content = m.Comment.Content
		cp.Reactions = m.Comment.Reactions
		cp.IsDeleted = m.Comment.IsDeleted
	default:
		return false
	}
	out := make([]*domain.SearchResult, len(items))
	copy(out, items)
	out[idx] = &cp
	s.search.Replace(out)
	return true
}

func validateMutation(m Mutation) error {
	switch m.Kind {
	case MutationCreate, MutationReply:
		if m.Comment == nil {
			return domain.ErrEmptyContent
		}
		return validateContent(m.Comment.Content, m.Comment.Media != nil || m.Comment.Link != nil)
	case MutationUpdate:
		if m.Patch.Content != nil {
			return validateContent(*m.Patch.Content, m.Patch.Media != nil || m.Patch.Link != nil)
		}
	}
	return nil
}

func validateContent(content string, hasAttachment bool) error {
	if strings.TrimSpace(content) == "" && !hasAttachment {
		return domain.ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > domain.MaxContentLength {
		return domain.ErrContentTooLong
	}
	return nil
}

func (s *Session) checkCurrent(req Request, kind RequestKind) error {
	if req.Kind != kind || !s.ctrl.Current(req.Snapshot) {
		s.log.Debug("dropping stale response",
			zap.String("key", req.Snapshot.Key),
			zap.Uint64("seq", req.Snapshot.Seq),
			zap.Int("page", req.Page),
		)
		return domain.ErrStaleResponse
	}
	return nil
}

func (s *Session) resetActive() {
	switch s.ctrl.State().Mode {
	case domain.ModeAll:
		s.all.Reset()
		s.allLoading = true
	case domain.ModeSearch:
		s.search.Reset()
		s.searchLoading = true
	case domain.ModeThread:
		s.thread = threadState{loading: true}
	}
}

func (s *Session) initialRequest() Request {
	st := s.ctrl.State()
	if st.Mode == domain.ModeThread {
		return Request{
			Kind:         RequestThread,
			Snapshot:     s.ctrl.Snapshot(),
			FocalID:      st.FocusedCommentID,
			ParentLevels: s.parentLevels,
			ReplyDepth:   s.replyDepth,
		}
	}
	return s.pageRequest(1)
}

func (s *Session) pageRequest(page int) Request {
	st := s.ctrl.State()
	req := Request{
		Snapshot:  s.ctrl.Snapshot(),
		Page:      page,
		PageSize:  s.pageSize,
		TargetRef: s.target,
		Sort:      st.Sort,
	}
	switch st.Mode {
	case domain.ModeSearch:
		req.Kind = RequestSearch
		req.Query = st.SearchQuery
		req.SearchType = st.SearchType
	default:
		req.Kind = RequestList
	}
	return req
}
