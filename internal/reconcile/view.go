package reconcile

import (
	"strings"
	"unicode/utf8"

	"trendforge/internal/models"
)

type ViewKind string

const (
	KindEmpty       ViewKind = "empty"
	KindIdeas       ViewKind = "ideas"
	KindPost        ViewKind = "post"
	KindTextPost    ViewKind = "text_post"
	KindPlaceholder ViewKind = "placeholder"
	KindRaw         ViewKind = "raw"
)

const (
	defaultPostingTime     = "9 AM - 12 PM weekdays"
	defaultTrendingSummary = "Trending themes identified from research."
	placeholderMinLength   = 200
	placeholderNotice      = "LinkedIn post generated successfully!\n\nThe AI has completed all steps but the final post format needs adjustment. Please check the raw output below for your post content."
)

// PostView 最佳版本帖子的展示模型
type PostView struct {
	Content         string                 `json:"content"`
	Hashtags        []string               `json:"hashtags"`
	FirstComment    string                 `json:"firstComment"`
	PostingTime     string                 `json:"postingTime,omitempty"`
	AssetSuggestion string                 `json:"assetSuggestion,omitempty"`
	Scores          *models.CritiqueScores `json:"scores,omitempty"`
	OverallScore    *float64               `json:"overallScore,omitempty"`
	VariantIndex    int                    `json:"variantIndex"`
}

// IdeasView 灵感列表展示模型
type IdeasView struct {
	Ideas           []models.GeneratedIdea `json:"ideas"`
	TrendingSummary string                 `json:"trendingSummary"`
	Sources         []string               `json:"sources"`
}

// View 一次整理的结果
type View struct {
	Kind      ViewKind    `json:"kind"`
	Mode      models.Mode `json:"mode"`
	Steps     []Step      `json:"steps"`
	Ideas     *IdeasView  `json:"ideas,omitempty"`
	Post      *PostView   `json:"post,omitempty"`
	Raw       string      `json:"raw"`
	Streaming bool        `json:"streaming"`
	Strategy  string      `json:"strategy,omitempty"`
	Problems  []string    `json:"problems,omitempty"`
}

// Reconcile 将累积文本整理为展示模型。finished 表示流已经结束。
// 相同输入总是得到相同输出。
func Reconcile(mode models.Mode, buf string, finished bool) View {
	v := View{
		Kind:      KindRaw,
		Mode:      mode,
		Steps:     Phases(mode, buf),
		Raw:       buf,
		Streaming: !finished,
	}
	if buf == "" {
		v.Kind = KindEmpty
		return v
	}

	if ideas, strategy, err := ExtractIdeas(buf); err == nil {
		v.Kind = KindIdeas
		v.Strategy = strategy
		v.Ideas = ideasView(ideas)
		v.Problems = problems(ideas.Validate())
		return v
	}
	if mode == models.ModeIdeas {
		return v
	}

	if bundle, strategy, err := ExtractPost(buf); err == nil {
		v.Kind = KindPost
		v.Strategy = strategy
		v.Post = BestPost(bundle)
		v.Problems = problems(bundle.Validate())
		return v
	}

	if post, ok := textPost(buf); ok && (finished || hasCompletionMarker(buf)) {
		v.Kind = KindTextPost
		v.Post = post
		return v
	}

	if AllComplete(v.Steps) && utf8.RuneCountInString(buf) > placeholderMinLength {
		v.Kind = KindPlaceholder
		v.Post = &PostView{Content: placeholderNotice, Hashtags: []string{}}
	}
	return v
}

func ideasView(o *models.IdeasOutput) *IdeasView {
	summary := o.TrendingSummary
	if summary == "" {
		summary = defaultTrendingSummary
	}
	sources := o.Sources
	if sources == nil {
		sources = []string{}
	}
	return &IdeasView{Ideas: o.Ideas, TrendingSummary: summary, Sources: sources}
}

// SelectVariant 返回点评推荐的版本；bestIndex 缺失、非整数或越界时回退到第一个
func SelectVariant(b *models.PostBundle) (models.PostVariant, int) {
	variants := b.Drafts.Variants
	idx := 0
	if b.Critique != nil && b.Critique.BestIndex != nil {
		if i, ok := b.Critique.BestIndex.In(len(variants)); ok {
			idx = i
		}
	}
	return variants[idx], idx
}

// BestPost 把结构化输出映射为展示模型，调用方需保证至少有一个版本
func BestPost(b *models.PostBundle) *PostView {
	variant, idx := SelectVariant(b)

	content := variant.Body
	if content == "" {
		switch {
		case variant.Hook != "" && variant.Content != "":
			content = variant.Hook + "\n\n" + variant.Content
		case variant.Hook != "":
			content = variant.Hook
		default:
			content = variant.Content
		}
	}

	view := &PostView{
		Content:      content,
		Hashtags:     variant.Hashtags,
		FirstComment: b.Drafts.FirstComment,
		PostingTime:  variant.PostingTime,
		VariantIndex: idx,
	}
	if view.Hashtags == nil {
		view.Hashtags = []string{}
	}
	if view.PostingTime == "" {
		view.PostingTime = defaultPostingTime
	}
	if variant.AssetSuggestion != nil {
		view.AssetSuggestion = *variant.AssetSuggestion
	}
	if b.Critique != nil {
		view.Scores = b.Critique.Scores
		view.OverallScore = b.Critique.OverallScore
	}
	return view
}

func problems(err error) []string {
	if err == nil {
		return nil
	}
	return strings.Split(err.Error(), "\n")
}
