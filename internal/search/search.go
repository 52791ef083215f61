// Package search is the coach's web search sub-agent: a quick model with
// Google Search grounding that answers one request and cites its sources.
package search

import (
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

type Source struct {
	Title string `json:"title,omitempty"`
	URL   string `json:"url"`
}

type Result struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources,omitempty"`
}

// String renders the answer followed by its sources, one per line.
func (r *Result) String() string {
	var b strings.Builder
	b.WriteString(r.Answer)
	if len(r.Sources) > 0 {
		b.WriteString("\n\nSources:")
		for _, s := range r.Sources {
			if s.Title != "" {
				fmt.Fprintf(&b, "\n- %s: %s", s.Title, s.URL)
			} else {
				fmt.Fprintf(&b, "\n- %s", s.URL)
			}
		}
	}
	return b.String()
}

type Searcher interface {
	Search(ctx context.Context, request string) (*Result, error)
}

// Gemini answers requests with a Gemini model grounded on Google Search.
type Gemini struct {
	client      *genai.Client
	model       string
	instruction string
}

func NewGemini(ctx context.Context, apiKey, model, instruction string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating search client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{client: client, model: model, instruction: instruction}, nil
}

func (g *Gemini) Search(ctx context.Context, request string) (*Result, error) {
	if strings.TrimSpace(request) == "" {
		return nil, fmt.Errorf("search: empty request")
	}
	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	if g.instruction != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: g.instruction}}}
	}
	contents := []*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: request}}}}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", request, err)
	}
	res := fromResponse(resp)
	log.Printf("search: %q → %d source(s)", request, len(res.Sources))
	return res, nil
}

// fromResponse collects the first candidate's text and its grounding links,
// skipping duplicate URLs.
func fromResponse(resp *genai.GenerateContentResponse) *Result {
	res := &Result{}
	if resp == nil || len(resp.Candidates) == 0 {
		return res
	}
	cand := resp.Candidates[0]
	if cand.Content != nil {
		var parts []string
		for _, p := range cand.Content.Parts {
			if p.Text != "" && !p.Thought {
				parts = append(parts, p.Text)
			}
		}
		res.Answer = strings.TrimSpace(strings.Join(parts, ""))
	}
	if gm := cand.GroundingMetadata; gm != nil {
		seen := make(map[string]bool)
		for _, chunk := range gm.GroundingChunks {
			if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" || seen[chunk.Web.URI] {
				continue
			}
			seen[chunk.Web.URI] = true
			res.Sources = append(res.Sources, Source{Title: chunk.Web.Title, URL: chunk.Web.URI})
		}
	}
	return res
}
