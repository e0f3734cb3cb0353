package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"trendforge/internal/models"
)

// ErrUnknownTool 模型调用了未注册的工具
var ErrUnknownTool = errors.New("unknown tool")

// Tool 可被模型调用的本地函数
type Tool interface {
	Name() string
	Declaration() *genai.FunctionDeclaration
	Call(ctx context.Context, args map[string]any) (map[string]any, error)
}

// Toolbox 按名称索引的工具集
type Toolbox map[string]Tool

// NewToolbox 注册全部工具；articles 或 headlines 为 nil 时对应工具调用返回错误
func NewToolbox(articles ArticleSource, headlines HeadlineSource) Toolbox {
	tools := []Tool{
		SuggestHashtags{},
		ValidateIdeasComplete{},
		FetchArticle{Source: articles},
		TrendingHeadlines{Source: headlines},
	}
	tb := make(Toolbox, len(tools))
	for _, t := range tools {
		tb[t.Name()] = t
	}
	return tb
}

// Lookup 按名称查找工具
func (tb Toolbox) Lookup(name string) (Tool, error) {
	t, ok := tb[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t, nil
}

// with 返回加入 t 之后的新工具集，原工具集不变
func (tb Toolbox) with(t Tool) Toolbox {
	out := make(Toolbox, len(tb)+1)
	for name, tool := range tb {
		out[name] = tool
	}
	out[t.Name()] = t
	return out
}

func knownTool(name string) bool {
	_, ok := NewToolbox(nil, nil)[name]
	return ok
}

func stringArg(args map[string]any, key string, required bool) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		if required {
			return "", fmt.Errorf("missing argument %q", key)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q: want string, got %T", key, v)
	}
	return s, nil
}

func numberArg(args map[string]any, key string) (float64, error) {
	switch v := args[key].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case nil:
		return 0, fmt.Errorf("missing argument %q", key)
	default:
		return 0, fmt.Errorf("argument %q: want number, got %T", key, v)
	}
}

func boolArg(args map[string]any, key string) (bool, error) {
	v, ok := args[key].(bool)
	if !ok {
		return false, fmt.Errorf("argument %q: want boolean, got %T", key, args[key])
	}
	return v, nil
}

// SuggestHashtags 根据主题和受众给出 2 个泛标签加 1-3 个垂直标签
type SuggestHashtags struct{}

type nicheGroup struct {
	key  string
	tags []string
}

// 顺序决定多个分类同时命中时的优先级
var nicheGroups = []nicheGroup{
	{"saas", []string{"#SaaSGrowth", "#B2BSaaS", "#SaaSMetrics", "#CloudSoftware"}},
	{"startup", []string{"#StartupLife", "#BuildInPublic", "#FounderJourney", "#StartupGrowth"}},
	{"ai", []string{"#ArtificialIntelligence", "#MachineLearning", "#AITools", "#GenerativeAI"}},
	{"product", []string{"#ProductDevelopment", "#ProductStrategy", "#ProductLed", "#UXDesign"}},
	{"marketing", []string{"#DigitalMarketing", "#ContentMarketing", "#B2BMarketing", "#GrowthMarketing"}},
	{"remote", []string{"#RemoteTeams", "#HybridWork", "#DistributedTeams", "#FutureOfWork"}},
	{"leadership", []string{"#TechLeadership", "#EngineeringManagement", "#TeamCulture", "#PeopleOps"}},
	{"productivity", []string{"#TimeManagement", "#WorkLifeBalance", "#DeepWork", "#EfficiencyHacks"}},
	{"development", []string{"#WebDev", "#FullStack", "#DevTools", "#SoftwareEngineering"}},
	{"career", []string{"#CareerTips", "#ProfessionalDevelopment", "#CareerChange", "#JobSearch"}},
}

func (SuggestHashtags) Name() string { return "suggestHashtags" }

func (SuggestHashtags) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        "suggestHashtags",
		Description: "Suggest 3-5 optimized hashtags (2 broad + 1-3 niche) for LinkedIn posts based on topic and target audience. Returns a mix that balances reach and targeting.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"topic":       {Type: genai.TypeString, Description: "The main topic or theme of the post"},
				"audience":    {Type: genai.TypeString, Description: "The target audience (e.g., 'SaaS founders', 'remote managers')"},
				"contentType": {Type: genai.TypeString, Enum: models.ContentTypes, Nullable: genai.Ptr(true), Description: "Type of content being posted (optional)"},
			},
			Required: []string{"topic", "audience"},
		},
	}
}

func (t SuggestHashtags) Call(_ context.Context, args map[string]any) (map[string]any, error) {
	topic, err := stringArg(args, "topic", true)
	if err != nil {
		return nil, err
	}
	audience, err := stringArg(args, "audience", true)
	if err != nil {
		return nil, err
	}
	contentType, err := stringArg(args, "contentType", false)
	if err != nil {
		return nil, err
	}

	tags := t.Suggest(topic, audience, contentType)
	return map[string]any{
		"hashtags": tags,
		"breakdown": map[string]any{
			"broad": tags[:2],
			"niche": tags[2:],
		},
		"note": "Use 3-5 hashtags total. Consider testing different combinations to see what resonates with your audience.",
	}, nil
}

// Suggest 返回 3-5 个不重复的标签
func (SuggestHashtags) Suggest(topic, audience, contentType string) []string {
	combined := strings.ToLower(topic) + " " + strings.ToLower(audience)
	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(combined, w) {
				return true
			}
		}
		return false
	}

	var tags []string
	switch {
	case has("saas", "software"):
		tags = append(tags, "#SaaS", "#TechStartups")
	case has("ai", "artificial"):
		tags = append(tags, "#AI", "#TechStartups")
	case has("product"):
		tags = append(tags, "#ProductManagement", "#TechStartups")
	case has("remote", "hybrid"):
		tags = append(tags, "#RemoteWork", "#Leadership")
	case has("marketing"):
		tags = append(tags, "#Marketing", "#BusinessStrategy")
	case has("leadership", "management"):
		tags = append(tags, "#Leadership", "#Entrepreneurship")
	default:
		tags = append(tags, "#Entrepreneurship", "#BusinessStrategy")
	}

	var niche []string
	for _, g := range nicheGroups {
		if has(g.key) {
			niche = append(niche, g.tags[:2]...)
		}
	}
	if len(niche) > 0 {
		tags = append(tags, niche[:min(3, len(niche))]...)
	} else {
		switch contentType {
		case "story":
			tags = append(tags, "#FounderJourney", "#LessonsLearned")
		case "how_to":
			tags = append(tags, "#CareerTips", "#ProfessionalDevelopment")
		case "contrarian":
			tags = append(tags, "#ThoughtLeadership", "#IndustryInsights")
		default:
			tags = append(tags, "#BuildInPublic", "#TechCommunity")
		}
	}

	seen := make(map[string]bool, len(tags))
	unique := tags[:0]
	for _, tag := range tags {
		if !seen[tag] {
			seen[tag] = true
			unique = append(unique, tag)
		}
	}
	return unique[:min(5, len(unique))]
}

// ValidateIdeasComplete 让模型在输出前自检灵感是否完整
type ValidateIdeasComplete struct{}

func (ValidateIdeasComplete) Name() string { return "validateIdeasComplete" }

func (ValidateIdeasComplete) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        "validateIdeasComplete",
		Description: "Validate that post ideas are complete and ready for output",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"ideasCount":         {Type: genai.TypeInteger, Minimum: genai.Ptr(3.0), Maximum: genai.Ptr(5.0)},
				"hasHooks":           {Type: genai.TypeBoolean},
				"hasTrendingFactors": {Type: genai.TypeBoolean},
			},
			Required: []string{"ideasCount", "hasHooks", "hasTrendingFactors"},
		},
	}
}

func (ValidateIdeasComplete) Call(_ context.Context, args map[string]any) (map[string]any, error) {
	count, err := numberArg(args, "ideasCount")
	if err != nil {
		return nil, err
	}
	hasHooks, err := boolArg(args, "hasHooks")
	if err != nil {
		return nil, err
	}
	hasFactors, err := boolArg(args, "hasTrendingFactors")
	if err != nil {
		return nil, err
	}

	var missing []string
	if !hasHooks {
		missing = append(missing, "hooks")
	}
	if !hasFactors {
		missing = append(missing, "trending factors")
	}
	if count < 3 {
		missing = append(missing, "minimum 3 ideas")
	}
	if len(missing) == 0 {
		return map[string]any{"isComplete": true, "message": "Ideas are complete and ready for final output"}, nil
	}
	return map[string]any{"isComplete": false, "message": "Missing: " + strings.Join(missing, ", ")}, nil
}
