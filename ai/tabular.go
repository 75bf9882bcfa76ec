package ai

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"superai/models"
	"superai/session"
)

// MaxTabularIterations caps the agent's internal reasoning steps so a looping
// backend cannot run up cost or latency.
const MaxTabularIterations = 3

// tabularTemperature overrides the session temperature: data answers should
// be stable, not creative.
const tabularTemperature = 0.2

// TabularAgent answers questions about the uploaded frame. The backend may
// request intermediate aggregates through the frame_query tool protocol; the
// loop executes them and feeds observations back, bounded by
// MaxTabularIterations.
type TabularAgent struct {
	backend       Backend
	log           *zap.SugaredLogger
	maxIterations int
}

func NewTabularAgent(backend Backend, log *zap.SugaredLogger) *TabularAgent {
	return &TabularAgent{backend: backend, log: log, maxIterations: MaxTabularIterations}
}

// Run drives the bounded action loop. Fails closed: any backend error yields
// a degraded result instead of propagating.
func (a *TabularAgent) Run(ctx context.Context, sess *session.Session, query string) models.AgentResult {
	frame := sess.Frame
	prompt := BuildTabularPrompt(frame.Head(3), query)

	opts := optionsFrom(sess.Config)
	opts.Temperature = tabularTemperature

	messages := []Message{{Role: "user", Content: prompt}}

	var lastOutput string
	for i := 0; i < a.maxIterations; i++ {
		output, err := a.backend.Chat(ctx, messages, opts)
		if err != nil {
			a.log.Errorw("tabular agent backend call failed", "user", sess.UserID, "error", err)
			return models.AgentResult{Error: err.Error(), Answer: TabularFallbackAnswer}
		}
		lastOutput = output

		action, ok := parseAction(output)
		if !ok {
			return Parse(output)
		}

		observation, err := frame.Query(action.Op, action.Column, action.By)
		if err != nil {
			observation = "查询出错: " + err.Error()
		}
		a.log.Debugw("tabular agent action",
			"op", action.Op, "column", action.Column, "by", action.By, "iteration", i+1)

		messages = append(messages,
			Message{Role: "assistant", Content: output},
			Message{Role: "user", Content: "Observation: " + observation + "\n请根据计算结果按指定格式给出最终回答。"},
		)
	}

	// Iteration cap reached: return the best effort rather than hanging.
	a.log.Warnw("tabular agent hit iteration cap", "user", sess.UserID, "cap", a.maxIterations)
	return Parse(lastOutput)
}

type frameAction struct {
	Op     string
	Column string
	By     string
}

// parseAction recognizes the tool protocol the prompt specifies:
//
//	Action: frame_query
//	Action Input: <op> <column> [by <column>]
func parseAction(output string) (frameAction, bool) {
	var sawAction bool
	var input string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(line, "Action:")), "frame_query") &&
			strings.HasPrefix(line, "Action:") {
			sawAction = true
		}
		if strings.HasPrefix(line, "Action Input:") {
			input = strings.TrimSpace(strings.TrimPrefix(line, "Action Input:"))
		}
	}
	if !sawAction || input == "" {
		return frameAction{}, false
	}

	fields := strings.Fields(input)
	if len(fields) == 0 {
		return frameAction{}, false
	}

	action := frameAction{Op: strings.ToLower(fields[0])}
	rest := fields[1:]
	for i, f := range rest {
		if strings.EqualFold(f, "by") && i+1 < len(rest) {
			action.Column = strings.Join(rest[:i], " ")
			action.By = strings.Join(rest[i+1:], " ")
			return action, true
		}
	}
	action.Column = strings.Join(rest, " ")
	return action, true
}
