package ai

import (
	"context"

	"go.uber.org/zap"

	"superai/models"
	"superai/session"
)

// ChatAgent answers general prompts over the running conversation memory.
type ChatAgent struct {
	backend Backend
	log     *zap.SugaredLogger
}

func NewChatAgent(backend Backend, log *zap.SugaredLogger) *ChatAgent {
	return &ChatAgent{backend: backend, log: log}
}

// Run invokes the backend with the memory transcript plus the new query.
// Failures degrade to a generic fallback answer inside the result.
func (a *ChatAgent) Run(ctx context.Context, sess *session.Session, query string) models.AgentResult {
	messages := make([]Message, 0, len(sess.Memory)+2)
	messages = append(messages, Message{Role: "system", Content: sess.Config.SystemPrompt})
	messages = append(messages, memoryMessages(sess.Memory)...)
	messages = append(messages, Message{Role: "user", Content: query})

	reply, err := a.backend.Chat(ctx, messages, optionsFrom(sess.Config))
	if err != nil {
		a.log.Errorw("chat agent backend call failed", "user", sess.UserID, "error", err)
		return models.AgentResult{Error: err.Error(), Answer: ChatFallbackAnswer}
	}
	return models.AgentResult{Answer: reply}
}

func memoryMessages(memory []models.ChatMessage) []Message {
	out := make([]Message, 0, len(memory))
	for _, m := range memory {
		role := "user"
		if m.Role == models.RoleAI {
			role = "assistant"
		}
		out = append(out, Message{Role: role, Content: m.Content})
	}
	return out
}

func optionsFrom(cfg models.ModelConfig) ChatOptions {
	return ChatOptions{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}
}
