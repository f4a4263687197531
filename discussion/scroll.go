package discussion

import "github.com/CrestNiraj12/threadline/domain"

// Pager is the part of an accumulator the scroll trigger drives.
type Pager interface {
	BeginLoadMore() (int, bool)
}

// ScrollTrigger turns sentinel visibility into page advances. It fires on a
// hidden-to-visible edge only; the pager's loading flag is what keeps a
// flickering sentinel from claiming the same page twice.
type ScrollTrigger struct {
	visible bool
}

// Observe records the sentinel's visibility and returns the page to request
// when it should fire.
func (t *ScrollTrigger) Observe(visible bool, mode domain.Mode, p Pager) (int, bool) {
	was := t.visible
	t.visible = visible
	if !visible || was {
		return 0, false
	}
	if mode == domain.ModeThread || p == nil {
		return 0, false
	}
	return p.BeginLoadMore()
}

// Rearm forgets the last visibility so a sentinel that is still on screen
// after a merge fires again on the next observation.
func (t *ScrollTrigger) Rearm() {
	t.visible = false
}
