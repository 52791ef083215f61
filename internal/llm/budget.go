package llm

import "encoding/json"

// Token counts here are estimates at ~4 characters per token, good enough
// to keep a long coaching conversation inside the model's window.
const charsPerToken = 4

const (
	messageOverhead  = 4
	toolCallOverhead = 4
	toolDefOverhead  = 10
)

func EstimateTokens(s string) int {
	return (len(s) + charsPerToken - 1) / charsPerToken
}

func EstimateMessageTokens(m Message) int {
	n := messageOverhead + EstimateTokens(m.Content)
	for _, tc := range m.ToolCalls {
		n += toolCallOverhead + EstimateTokens(tc.Name)
		if b, err := json.Marshal(tc.Params); err == nil {
			n += EstimateTokens(string(b))
		}
	}
	if m.ToolCallID != "" {
		n += 2 + EstimateTokens(m.ToolCallID)
	}
	return n
}

func EstimateMessagesTokens(messages []Message) int {
	n := 0
	for _, m := range messages {
		n += EstimateMessageTokens(m)
	}
	return n
}

// EstimateToolsTokens counts tool definitions, which are sent on every call.
func EstimateToolsTokens(tools []Tool) int {
	n := 0
	for _, t := range tools {
		n += toolDefOverhead + EstimateTokens(t.Name) + EstimateTokens(t.Description)
		if b, err := json.Marshal(t.Parameters); err == nil {
			n += EstimateTokens(string(b))
		}
	}
	return n
}

// TrimMessages drops the oldest turns until messages fit maxTokens. An
// assistant tool-call message and its results are dropped together, and
// the newest turn is always kept. The result starts with a plain user
// message whenever the input contains one, since providers reject a
// history that opens with an assistant or tool turn.
func TrimMessages(messages []Message, maxTokens int) []Message {
	starts := turnStarts(messages)
	if len(starts) == 0 {
		return messages
	}
	total := EstimateMessagesTokens(messages)
	cut := 0
	for i := 0; i < len(starts)-1 && total > maxTokens; i++ {
		end := starts[i+1]
		total -= EstimateMessagesTokens(messages[starts[i]:end])
		cut = end
	}
	if cut == 0 {
		return messages
	}
	return messages[userTurnFrom(messages, cut):]
}

// userTurnFrom returns the first plain user message at or after cut, or
// the last one before it when none follows.
func userTurnFrom(messages []Message, cut int) int {
	for i := cut; i < len(messages); i++ {
		if isPlainUser(messages[i]) {
			return i
		}
	}
	for i := cut - 1; i >= 0; i-- {
		if isPlainUser(messages[i]) {
			return i
		}
	}
	return cut
}

func isPlainUser(m Message) bool {
	return m.Role == "user" && m.ToolCallID == ""
}

// turnStarts returns the index where each droppable turn begins. Tool
// results never start a turn; they belong to the call before them.
func turnStarts(messages []Message) []int {
	var starts []int
	for i, m := range messages {
		if m.IsToolResult() && i > 0 {
			continue
		}
		starts = append(starts, i)
	}
	return starts
}
