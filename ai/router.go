package ai

import (
	"context"

	"go.uber.org/zap"

	"superai/models"
	"superai/session"
)

// Router selects the backend strategy for a turn. Precedence: tabular frame,
// then document text, then plain chat. The session store guarantees a frame
// and a document never coexist, so the classification is total and
// non-overlapping.
type Router struct {
	chat     *ChatAgent
	tabular  *TabularAgent
	document *DocumentAgent
	log      *zap.SugaredLogger
}

func NewRouter(backend Backend, log *zap.SugaredLogger) *Router {
	return &Router{
		chat:     NewChatAgent(backend, log),
		tabular:  NewTabularAgent(backend, log),
		document: NewDocumentAgent(backend, log),
		log:      log,
	}
}

// Route dispatches the query and returns the agent result together with the
// mode that handled it.
func (r *Router) Route(ctx context.Context, sess *session.Session, query string) (models.AgentResult, models.Mode) {
	switch {
	case sess.Frame != nil:
		r.log.Debugw("routing to tabular agent", "user", sess.UserID)
		return r.tabular.Run(ctx, sess, query), models.ModeDataAnalysis
	case sess.DocumentText != "":
		r.log.Debugw("routing to document agent", "user", sess.UserID)
		return r.document.Run(ctx, sess, query), models.ModeDocumentQA
	default:
		r.log.Debugw("routing to chat agent", "user", sess.UserID)
		return r.chat.Run(ctx, sess, query), models.ModeChat
	}
}
