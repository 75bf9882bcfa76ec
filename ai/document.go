package ai

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"superai/index"
	"superai/models"
	"superai/session"
)

const (
	// retrievalK is how many chunks back each answer.
	retrievalK = 3
	// contextTokenBudget caps retrieved context; tokens approximated at 4
	// characters apiece.
	contextTokenBudget = 3000
)

// DocumentAgent answers questions about an uploaded text document through a
// similarity index built lazily on first use.
type DocumentAgent struct {
	backend Backend
	log     *zap.SugaredLogger
}

func NewDocumentAgent(backend Backend, log *zap.SugaredLogger) *DocumentAgent {
	return &DocumentAgent{backend: backend, log: log}
}

// Run builds the session's index when the document is new, retrieves top-k
// chunks conditioned on the query and recent memory, and asks the backend.
// Any failure past index construction degrades to a generic fallback answer.
func (a *DocumentAgent) Run(ctx context.Context, sess *session.Session, query string) models.AgentResult {
	if sess.IsNewFile || sess.Index == nil {
		idx, err := a.buildIndex(ctx, sess)
		if err != nil {
			a.log.Errorw("document index build failed", "user", sess.UserID, "error", err)
			return models.AgentResult{Error: err.Error(), Answer: IndexFallbackAnswer}
		}
		sess.Index = idx
		sess.IsNewFile = false
	}

	qvec, err := a.backend.Embed(ctx, []string{retrievalQuery(sess.Memory, query)})
	if err != nil || len(qvec) == 0 {
		a.log.Errorw("query embedding failed", "user", sess.UserID, "error", err)
		return models.AgentResult{Answer: DocumentFallbackAnswer}
	}

	results := sess.Index.Search(qvec[0], retrievalK)
	blocks, sources := collectContext(results)

	prompt := BuildDocumentPrompt(sess.Config.SystemPrompt, blocks, query)
	messages := make([]Message, 0, len(sess.Memory)+1)
	messages = append(messages, memoryMessages(sess.Memory)...)
	messages = append(messages, Message{Role: "user", Content: prompt})

	answer, err := a.backend.Chat(ctx, messages, optionsFrom(sess.Config))
	if err != nil {
		a.log.Errorw("document agent backend call failed", "user", sess.UserID, "error", err)
		return models.AgentResult{Answer: DocumentFallbackAnswer}
	}

	if len(sources) > 0 {
		answer += "\n\n**来源**: " + strings.Join(sources, ", ")
	}
	return models.AgentResult{Answer: answer}
}

func (a *DocumentAgent) buildIndex(ctx context.Context, sess *session.Session) (*index.Index, error) {
	source := sess.FileName
	if source == "" {
		source = "未知来源"
	}

	builder := index.NewBuilder(a.backend, source)
	for ev := range builder.Run(ctx, sess.DocumentText) {
		if ev.Err != nil {
			a.log.Warnw("embedding batch skipped",
				"user", sess.UserID, "batch", ev.Batch, "total", ev.Total, "error", ev.Err)
			continue
		}
		a.log.Infow("document indexing progress",
			"user", sess.UserID, "batch", ev.Batch, "total", ev.Total, "chunks", ev.Chunks)
	}
	return builder.Result()
}

// retrievalQuery conditions retrieval on the recent conversation: the last
// couple of user turns are prepended so follow-up questions still hit the
// right chunks.
func retrievalQuery(memory []models.ChatMessage, query string) string {
	var recent []string
	for i := len(memory) - 1; i >= 0 && len(recent) < 2; i-- {
		if memory[i].Role == models.RoleHuman {
			recent = append([]string{memory[i].Content}, recent...)
		}
	}
	if len(recent) == 0 {
		return query
	}
	return strings.Join(recent, "\n") + "\n" + query
}

// collectContext gathers chunk texts up to the token budget and the
// deduplicated source identifiers, preserving retrieval order.
func collectContext(results []index.Result) ([]string, []string) {
	budget := contextTokenBudget * 4 // chars
	var blocks []string
	var sources []string
	seen := make(map[string]bool)

	used := 0
	for _, r := range results {
		text := r.Chunk.Text
		runes := []rune(text)
		if used+len(runes) > budget {
			if used == 0 {
				runes = runes[:budget]
				text = string(runes)
			} else {
				break
			}
		}
		used += len(runes)
		blocks = append(blocks, text)
		if !seen[r.Chunk.Source] {
			seen[r.Chunk.Source] = true
			sources = append(sources, r.Chunk.Source)
		}
	}
	return blocks, sources
}
