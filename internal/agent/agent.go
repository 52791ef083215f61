package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/chris/growthcoach/internal/journal"
	"github.com/chris/growthcoach/internal/llm"
	"github.com/chris/growthcoach/internal/search"
)

const maxToolRounds = 10

type Agent struct {
	journal          *journal.Journal
	client           llm.Client
	search           search.Searcher
	MaxContextTokens int
	// Now is the coach's clock; "yesterday" is computed from it.
	Now func() time.Time
}

// New builds the coach. searcher may be nil, in which case the search
// sub-agent tool is not offered to the model.
func New(j *journal.Journal, client llm.Client, searcher search.Searcher, maxContextTokens int) *Agent {
	return &Agent{
		journal:          j,
		client:           client,
		search:           searcher,
		MaxContextTokens: maxContextTokens,
		Now:              time.Now,
	}
}

// Tools returns the tool definitions offered to the model.
func (a *Agent) Tools() []llm.Tool {
	tools := append([]llm.Tool(nil), llm.CoachTools...)
	if a.search != nil {
		tools = append(tools, llm.SearchAgentTool)
	}
	return tools
}

// Run takes a user message, runs the tool-calling loop, and returns the final text response.
func (a *Agent) Run(ctx context.Context, history []llm.Message, userMessage string) (string, []llm.Message, error) {
	messages := make([]llm.Message, len(history), len(history)+1)
	copy(messages, history)
	messages = append(messages, llm.Message{Role: "user", Content: userMessage})

	tools := a.Tools()
	budget := a.MaxContextTokens - llm.EstimateTokens(llm.CoachPrompt) - llm.EstimateToolsTokens(tools)
	if budget < 1000 {
		budget = 1000
	}

	for i := 0; i < maxToolRounds; i++ {
		trimmed := llm.TrimMessages(messages, budget)
		if len(trimmed) < len(messages) {
			log.Printf("context trimmed: %d → %d messages", len(messages), len(trimmed))
		}
		resp, err := a.client.Chat(ctx, llm.CoachPrompt, trimmed, tools)
		if err != nil {
			return "", nil, fmt.Errorf("llm chat: %w", err)
		}

		if len(resp.ToolCalls) == 0 {
			messages = append(messages, llm.Message{Role: "assistant", Content: resp.Content})
			return resp.Content, messages, nil
		}

		messages = append(messages, llm.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for _, tc := range resp.ToolCalls {
			result := a.executeTool(ctx, tc.Name, tc.Params)
			log.Printf("tool %s → %s", tc.Name, truncate(result, 200))
			messages = append(messages, llm.Message{
				Role:       "user",
				Content:    result,
				ToolCallID: tc.ID,
			})
		}
	}

	return "Sorry, I got tangled up looking things up. Let's pick up where we left off.", messages, nil
}

func (a *Agent) executeTool(ctx context.Context, name string, params map[string]any) string {
	var result any
	var err error

	switch name {
	case llm.ToolGetYesterdaysResults:
		result, err = a.journal.Yesterday(ctx, a.Now())

	case llm.ToolAppendEntry:
		var entry journal.Entry
		entry, err = entryFromParams(params)
		if err == nil {
			result, err = a.journal.AppendEntry(ctx, entry)
		}

	case llm.ToolSearchAgent:
		if a.search == nil {
			err = fmt.Errorf("search is not available")
			break
		}
		request, _ := getString(params, "request")
		result, err = a.search.Search(ctx, request)

	case llm.ToolGetTime:
		now := a.Now()
		result = map[string]any{
			"local": now.Format(time.RFC3339),
			"utc":   now.UTC().Format(time.RFC3339),
			"date":  now.Format(journal.DateLayout),
			"day":   now.Weekday().String(),
		}

	default:
		result = map[string]any{"error": "unknown tool: " + name}
	}

	if err != nil {
		result = map[string]any{"error": err.Error()}
	}

	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(b)
}

// entryFromParams requires all four fields as strings; empty text is fine.
func entryFromParams(params map[string]any) (journal.Entry, error) {
	fields := []string{llm.ParamTodayDate, llm.ParamYesterdayReflection, llm.ParamSlobbyReflection, llm.ParamTodayHardTask}
	values := make([]string, len(fields))
	for i, f := range fields {
		v, ok := getString(params, f)
		if !ok {
			return journal.Entry{}, fmt.Errorf("missing or non-string field %s", f)
		}
		values[i] = v
	}
	return journal.Entry{
		Date:                values[0],
		YesterdayReflection: values[1],
		StruggleReflection:  values[2],
		TodayTask:           values[3],
	}, nil
}

func getString(params map[string]any, key string) (string, bool) {
	v, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
