package agent

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	webSearchTool      = "webSearch"
	defaultSearchModel = "gemini-2.5-flash"
)

const searchPrompt = "Search the web and summarise the most recent, relevant findings with concrete facts, numbers and dates. Query: "

// WebSearch 用一次只带 Google Search 的独立请求完成检索。
// Google Search 不能和函数声明放在同一次请求里，所以以函数工具的形式提供给 Agent。
type WebSearch struct {
	client *genai.Client
	model  string
}

func (WebSearch) Name() string { return webSearchTool }

func (t WebSearch) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        t.Name(),
		Description: "Search the web with Google for current news, statistics and discussions. Returns a short summary and the source URLs.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"query": {Type: genai.TypeString, Description: "What to search for"},
			},
			Required: []string{"query"},
		},
	}
}

func (t WebSearch) Call(ctx context.Context, args map[string]any) (map[string]any, error) {
	query, err := stringArg(args, "query", true)
	if err != nil {
		return nil, err
	}
	if query = strings.TrimSpace(query); query == "" {
		return nil, fmt.Errorf("empty argument %q", "query")
	}

	resp, err := t.client.Models.GenerateContent(ctx, t.model, genai.Text(searchPrompt+query), &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	})
	if err != nil {
		return nil, fmt.Errorf("web search: %w", err)
	}

	sources := []map[string]any{}
	if len(resp.Candidates) > 0 && resp.Candidates[0].GroundingMetadata != nil {
		for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
			if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
				continue
			}
			sources = append(sources, map[string]any{"url": chunk.Web.URI, "title": chunk.Web.Title})
		}
	}
	return map[string]any{
		"query":   query,
		"summary": resp.Text(),
		"sources": sources,
	}, nil
}
