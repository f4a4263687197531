package feed

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/threadline/app"
	"github.com/CrestNiraj12/threadline/discussion"
	"github.com/CrestNiraj12/threadline/domain"
)

func (m Model) handleOptimisticMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SubmitMsg:
		switch msg.Op {
		case OpCreate, OpReply:
			return m.applyCreate(msg)
		case OpEdit:
			return m.applyEdit(msg.ID, msg.Content)
		case OpDelete:
			return m.applyDelete(msg.ID)
		}
		return m, nil

	case MutationDoneMsg:
		return m.handleMutationDone(msg)
	}
	return m, nil
}

func (m Model) applyCreate(msg SubmitMsg) (Model, tea.Cmd) {
	local := &domain.Comment{
		ID:        m.newID(),
		TargetRef: m.target,
		Content:   msg.Content,
		IsOwn:     true,
		CreatedAt: time.Now(),
	}
	mut := discussion.Mutation{Kind: discussion.MutationCreate, Comment: local}
	in := app.CreateInput{TargetRef: m.target, Content: msg.Content}
	if msg.Op == OpReply {
		local.ParentID = msg.ID
		mut.Kind = discussion.MutationReply
		mut.ParentID = msg.ID
		in.ParentID = msg.ID
	}

	res, err := m.session.ApplyMutation(mut)
	if err != nil {
		m.notice = "Error: " + err.Error()
		return m, nil
	}
	if res.Applied {
		m.pending[local.ID] = pendingOp{op: msg.Op, parentID: mut.ParentID}
		if msg.Op == OpCreate {
			m.cursor, m.offset = 0, 0
		}
	}
	m.notice = "Posting..."
	return m, m.createComment(local.ID, in, msg.Op)
}

func (m Model) applyEdit(id, content string) (Model, tea.Cmd) {
	original := m.lookup(id)
	res, err := m.session.ApplyMutation(discussion.Mutation{
		Kind:  discussion.MutationUpdate,
		ID:    id,
		Patch: discussion.ContentPatch(content),
	})
	if err != nil {
		m.notice = "Error: " + err.Error()
		return m, nil
	}
	if res.Applied {
		m.pending[id] = pendingOp{op: OpEdit, original: original}
	}
	m.notice = "Saving..."
	return m, m.updateComment(id, app.UpdateInput{Content: content})
}

func (m Model) applyDelete(id string) (Model, tea.Cmd) {
	original := m.lookup(id)
	res, err := m.session.ApplyMutation(discussion.Mutation{Kind: discussion.MutationDelete, ID: id})
	if err != nil {
		m.notice = "Error: " + err.Error()
		return m, nil
	}
	if res.Applied {
		m.pending[id] = pendingOp{op: OpDelete, original: original}
		m.clampCursor()
	}
	m.notice = "Deleting..."
	return m, m.deleteComment(id)
}

// handleMutationDone settles an optimistic write. A thread is always
// reloaded; listings keep the server copy on success and undo the local
// change on failure.
func (m Model) handleMutationDone(msg MutationDoneMsg) (Model, tea.Cmd) {
	p, had := m.pending[msg.ID]
	delete(m.pending, msg.ID)

	if msg.Err != nil {
		m.log.Warn("write failed",
			zap.Stringer("op", msg.Op),
			zap.String("id", msg.ID),
			zap.Error(msg.Err),
		)
		m.notice = failureNotice(msg.Op, msg.Err)
	} else {
		m.notice = successNotice(msg.Op)
	}

	if req, ok := m.session.ThreadRequest(); ok {
		return m, m.fetch(req)
	}
	if !had {
		// The listing was reloaded while the write was in flight.
		return m, nil
	}

	var mut discussion.Mutation
	switch {
	case msg.Err == nil && msg.Comment != nil:
		mut = discussion.Mutation{Kind: discussion.MutationReconcile, ID: msg.ID, Comment: msg.Comment}
	case msg.Err == nil:
		return m, nil
	case msg.Op == OpCreate || msg.Op == OpReply:
		mut = discussion.Mutation{Kind: discussion.MutationRollback, ID: msg.ID, ParentID: p.parentID}
	case p.original != nil:
		mut = discussion.Mutation{Kind: discussion.MutationReconcile, ID: msg.ID, Comment: p.original}
	default:
		return m, nil
	}

	anchorID := m.selectedID()
	if _, err := m.session.ApplyMutation(mut); err != nil {
		m.log.Error("settling write", zap.Error(err))
		return m, nil
	}
	if anchorID == msg.ID && msg.Comment != nil {
		anchorID = msg.Comment.ID
	}
	if !m.setCursorByID(anchorID) {
		m.clampCursor()
	}
	return m, nil
}

func successNotice(op Op) string {
	switch op {
	case OpReply:
		return "Reply posted."
	case OpEdit:
		return "Comment updated."
	case OpDelete:
		return "Comment deleted."
	}
	return "Comment posted."
}

func failureNotice(op Op, err error) string {
	return "Error: " + op.String() + " failed: " + describeError(err)
}
