package agent

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"trendforge/internal/research"
)

var errNotConfigured = errors.New("tool is not configured")

const defaultHeadlineLimit = 15

// ArticleSource 按 URL 抓取文章正文
type ArticleSource interface {
	Fetch(ctx context.Context, rawURL string) (*research.Article, error)
}

// HeadlineSource 汇总订阅源中的最新标题
type HeadlineSource interface {
	Headlines(ctx context.Context, keyword string, limit int) ([]research.Headline, error)
}

// FetchArticle 读取用户给出的文章链接，供写帖子时引用
type FetchArticle struct {
	Source ArticleSource
}

func (FetchArticle) Name() string { return "fetchArticle" }

func (t FetchArticle) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        t.Name(),
		Description: "Fetch a web article by URL and return its title and main text. Use it when the user shares a link or when a source needs to be checked.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"url": {Type: genai.TypeString, Description: "Absolute http(s) URL of the article"},
			},
			Required: []string{"url"},
		},
	}
}

func (t FetchArticle) Call(ctx context.Context, args map[string]any) (map[string]any, error) {
	if t.Source == nil {
		return nil, errNotConfigured
	}
	u, err := stringArg(args, "url", true)
	if err != nil {
		return nil, err
	}
	a, err := t.Source.Fetch(ctx, u)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"url":      a.URL,
		"title":    a.Title,
		"byline":   a.Byline,
		"siteName": a.SiteName,
		"excerpt":  a.Excerpt,
		"text":     a.Text,
	}, nil
}

// TrendingHeadlines 返回订阅源中的最新标题，作为趋势研究的补充
type TrendingHeadlines struct {
	Source HeadlineSource
}

func (TrendingHeadlines) Name() string { return "trendingHeadlines" }

func (t TrendingHeadlines) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        t.Name(),
		Description: "List the latest headlines from curated business and tech news feeds, newest first. Optionally filter by a keyword.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"keyword": {Type: genai.TypeString, Description: "Only return headlines mentioning this word"},
				"limit":   {Type: genai.TypeInteger, Description: "Maximum number of headlines (default 15)"},
			},
		},
	}
}

func (t TrendingHeadlines) Call(ctx context.Context, args map[string]any) (map[string]any, error) {
	if t.Source == nil {
		return nil, errNotConfigured
	}
	keyword, err := stringArg(args, "keyword", false)
	if err != nil {
		return nil, err
	}
	limit := defaultHeadlineLimit
	if _, ok := args["limit"]; ok {
		n, err := numberArg(args, "limit")
		if err != nil {
			return nil, err
		}
		if n >= 1 && n <= 50 {
			limit = int(n)
		}
	}

	headlines, err := t.Source.Headlines(ctx, keyword, limit)
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(headlines))
	for _, h := range headlines {
		item := map[string]any{
			"title":  h.Title,
			"link":   h.Link,
			"source": h.Source,
		}
		if h.Summary != "" {
			item["summary"] = h.Summary
		}
		if !h.Published.IsZero() {
			item["published"] = h.Published.Format("2006-01-02")
		}
		items = append(items, item)
	}
	return map[string]any{"headlines": items, "count": len(items)}, nil
}
