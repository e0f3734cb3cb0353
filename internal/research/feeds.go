package research

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"trendforge/internal/utils"
)

const (
	maxSummaryRunes = 280
	feedConcurrency = 4
)

// Headline 订阅源中的一条新闻
type Headline struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Source    string    `json:"source"`
	Summary   string    `json:"summary,omitempty"`
	Published time.Time `json:"published"`
}

// FeedReader 读取一组 RSS/Atom 订阅源，汇总最新的标题
type FeedReader struct {
	feeds  []string
	client *http.Client
	logger *zap.Logger
}

func NewFeedReader(feeds []string, client *http.Client, logger *zap.Logger) *FeedReader {
	if client == nil {
		client = &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 2,
			},
		}
	}
	return &FeedReader{feeds: feeds, client: client, logger: logger}
}

// Feeds 已配置的订阅源
func (r *FeedReader) Feeds() []string {
	return r.feeds
}

// Headlines 并发读取所有订阅源，按发布时间倒序返回至多 limit 条，
// 可选按关键词过滤。单个订阅源失败只记录日志；全部失败时返回错误。
func (r *FeedReader) Headlines(ctx context.Context, keyword string, limit int) ([]Headline, error) {
	if len(r.feeds) == 0 {
		return nil, fmt.Errorf("no feeds configured")
	}

	results := make([][]Headline, len(r.feeds))
	failed := make([]error, len(r.feeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(feedConcurrency)
	for i, feedURL := range r.feeds {
		g.Go(func() error {
			items, err := r.read(gctx, feedURL)
			if err != nil {
				r.logger.Warn("failed to read feed", zap.String("url", feedURL), zap.Error(err))
				failed[i] = err
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	var all []Headline
	for _, items := range results {
		all = append(all, items...)
	}
	if len(all) == 0 {
		for _, err := range failed {
			if err != nil {
				return nil, fmt.Errorf("all feeds failed: %w", err)
			}
		}
	}

	if keyword = strings.ToLower(strings.TrimSpace(keyword)); keyword != "" {
		filtered := all[:0]
		for _, h := range all {
			if strings.Contains(strings.ToLower(h.Title+" "+h.Summary), keyword) {
				filtered = append(filtered, h)
			}
		}
		all = filtered
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Published.After(all[j].Published)
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *FeedReader) read(ctx context.Context, feedURL string) ([]Headline, error) {
	parser := gofeed.NewParser()
	parser.Client = r.client

	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	out := make([]Headline, 0, len(feed.Items))
	for _, item := range feed.Items {
		published := time.Time{}
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}
		out = append(out, Headline{
			Title:     strings.TrimSpace(item.Title),
			Link:      item.Link,
			Source:    feed.Title,
			Summary:   truncate(utils.StripHTML(item.Description), maxSummaryRunes),
			Published: published,
		})
	}
	return out, nil
}
