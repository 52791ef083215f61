package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-pro"

// localCallPrefix marks tool call IDs minted here because Gemini sent none.
// They are stripped again before the history goes back to the API.
const localCallPrefix = "local_"

type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Chat(ctx context.Context, systemPrompt string, messages []Message, tools []Tool) (*Response, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
	}
	if len(tools) > 0 {
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: geminiDeclarations(tools)}}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, geminiContents(messages), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini chat: %w", err)
	}
	result := &Response{}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return result, nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		switch {
		case part.FunctionCall != nil:
			id := part.FunctionCall.ID
			if id == "" {
				id = localCallPrefix + uuid.NewString()
			}
			params := part.FunctionCall.Args
			if params == nil {
				params = map[string]any{}
			}
			result.ToolCalls = append(result.ToolCalls, ToolCall{ID: id, Name: part.FunctionCall.Name, Params: params})
		case part.Text != "" && !part.Thought:
			result.Content += part.Text
		}
	}
	return result, nil
}

func geminiDeclarations(tools []Tool) []*genai.FunctionDeclaration {
	out := make([]*genai.FunctionDeclaration, len(tools))
	for i, t := range tools {
		decl := &genai.FunctionDeclaration{Name: t.Name, Description: t.Description}
		// Gemini rejects object schemas with no properties.
		if props, _ := t.Parameters["properties"].(map[string]any); len(props) > 0 {
			decl.Parameters = geminiSchema(t.Parameters)
		}
		out[i] = decl
	}
	return out
}

// geminiSchema converts the JSON Schema subset used by the tool definitions.
func geminiSchema(s map[string]any) *genai.Schema {
	out := &genai.Schema{}
	if d, ok := s["description"].(string); ok {
		out.Description = d
	}
	switch s["type"] {
	case "object":
		out.Type = genai.TypeObject
	case "string":
		out.Type = genai.TypeString
	case "integer":
		out.Type = genai.TypeInteger
	case "number":
		out.Type = genai.TypeNumber
	case "boolean":
		out.Type = genai.TypeBoolean
	case "array":
		out.Type = genai.TypeArray
	}
	if props, ok := s["properties"].(map[string]any); ok {
		out.Properties = make(map[string]*genai.Schema, len(props))
		for name, p := range props {
			if pm, ok := p.(map[string]any); ok {
				out.Properties[name] = geminiSchema(pm)
			}
		}
	}
	if items, ok := s["items"].(map[string]any); ok {
		out.Items = geminiSchema(items)
	}
	if req, ok := s["required"].([]string); ok {
		out.Required = req
	}
	return out
}

// geminiContents converts history to Gemini turns. Consecutive tool results
// share one user turn, answering the model turn that requested them.
func geminiContents(messages []Message) []*genai.Content {
	names := toolNames(messages)
	var out []*genai.Content
	var pending *genai.Content
	for _, m := range messages {
		if m.IsToolResult() {
			if pending == nil {
				pending = &genai.Content{Role: "user"}
				out = append(out, pending)
			}
			pending.Parts = append(pending.Parts, &genai.Part{FunctionResponse: &genai.FunctionResponse{
				ID:       remoteCallID(m.ToolCallID),
				Name:     names[m.ToolCallID],
				Response: toolOutput(m.Content),
			}})
			continue
		}
		pending = nil
		switch m.Role {
		case "user":
			out = append(out, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: m.Content}}})
		case "assistant":
			c := &genai.Content{Role: "model"}
			if m.Content != "" {
				c.Parts = append(c.Parts, &genai.Part{Text: m.Content})
			}
			for _, tc := range m.ToolCalls {
				c.Parts = append(c.Parts, &genai.Part{FunctionCall: &genai.FunctionCall{
					ID:   remoteCallID(tc.ID),
					Name: tc.Name,
					Args: tc.Params,
				}})
			}
			if len(c.Parts) > 0 {
				out = append(out, c)
			}
		}
	}
	return out
}

func remoteCallID(id string) string {
	if strings.HasPrefix(id, localCallPrefix) {
		return ""
	}
	return id
}

// toolOutput wraps a JSON tool result as a function response object.
// Objects pass through; anything else is placed under "output".
func toolOutput(content string) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(content), &obj); err == nil && obj != nil {
		return obj
	}
	var v any
	if err := json.Unmarshal([]byte(content), &v); err == nil {
		return map[string]any{"output": v}
	}
	return map[string]any{"output": content}
}
