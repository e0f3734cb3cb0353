package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Mode 生成模式
type Mode string

const (
	ModeIdeas Mode = "ideas"
	ModePost  Mode = "post"
)

// ParseMode 除 "ideas" 以外一律按帖子模式处理
func ParseMode(s string) Mode {
	if Mode(s) == ModeIdeas {
		return ModeIdeas
	}
	return ModePost
}

// ContentTypes 灵感允许的内容类型
var ContentTypes = []string{"story", "how_to", "contrarian", "list", "data_insight"}

// GeneratedIdea 一条由 Agent 产出的帖子灵感
type GeneratedIdea struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Hook            string   `json:"hook"`
	ViralPotential  float64  `json:"viralPotential"`
	TargetAudience  string   `json:"targetAudience"`
	ContentType     string   `json:"contentType"`
	TrendingFactors []string `json:"trendingFactors"`
}

// IdeasOutput 灵感模式的结构化输出
type IdeasOutput struct {
	Ideas           []GeneratedIdea `json:"ideas"`
	TrendingSummary string          `json:"trendingSummary"`
	Sources         []string        `json:"sources"`
}

// Validate 检查数量与取值范围，问题仅用于记录，不影响展示
func (o *IdeasOutput) Validate() error {
	var errs []error
	if n := len(o.Ideas); n < 3 || n > 5 {
		errs = append(errs, fmt.Errorf("ideas: want 3-5, got %d", n))
	}
	if len(o.Sources) > 5 {
		errs = append(errs, fmt.Errorf("sources: want at most 5, got %d", len(o.Sources)))
	}
	for i, idea := range o.Ideas {
		if !inScoreRange(idea.ViralPotential) {
			errs = append(errs, fmt.Errorf("ideas[%d].viralPotential %v out of range", i, idea.ViralPotential))
		}
		if !validContentType(idea.ContentType) {
			errs = append(errs, fmt.Errorf("ideas[%d].contentType %q unknown", i, idea.ContentType))
		}
		if len(idea.TrendingFactors) > 3 {
			errs = append(errs, fmt.Errorf("ideas[%d].trendingFactors: want at most 3, got %d", i, len(idea.TrendingFactors)))
		}
	}
	return errors.Join(errs...)
}

// PostPlan 规划阶段结果
type PostPlan struct {
	Goal     string `json:"goal"`
	Audience string `json:"audience"`
	Angle    string `json:"angle"`
	Format   string `json:"format"`
}

// Hook 候选开头
type Hook struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// PostVariant 一个完整的帖子版本
type PostVariant struct {
	Title           string   `json:"title,omitempty"`
	Hook            string   `json:"hook,omitempty"`
	Body            string   `json:"body,omitempty"`
	Content         string   `json:"content,omitempty"`
	CTA             string   `json:"cta,omitempty"`
	Hashtags        []string `json:"hashtags,omitempty"`
	PostingTime     string   `json:"postingTime,omitempty"`
	AssetSuggestion *string  `json:"assetSuggestion,omitempty"`
}

// PostDrafts 写作阶段结果
type PostDrafts struct {
	Variants     []PostVariant `json:"variants"`
	FirstComment string        `json:"firstComment,omitempty"`
	AltHooks     []string      `json:"altHooks,omitempty"`
	AltCTAs      []string      `json:"altCTAs,omitempty"`
}

// CritiqueScores 六个维度评分，1-10
type CritiqueScores struct {
	HookStrength          float64 `json:"hookStrength"`
	AlgorithmOptimization float64 `json:"algorithmOptimization"`
	StructureReadability  float64 `json:"structureReadability"`
	EngagementPotential   float64 `json:"engagementPotential"`
	ViralFactors          float64 `json:"viralFactors"`
	TechnicalCompliance   float64 `json:"technicalCompliance"`
}

func (s CritiqueScores) values() []float64 {
	return []float64{s.HookStrength, s.AlgorithmOptimization, s.StructureReadability,
		s.EngagementPotential, s.ViralFactors, s.TechnicalCompliance}
}

// VariantIndex 点评推荐的版本下标。模型有时给出 1.0 或 "1"，
// 无法识别的值记为 NaN，不影响整个结果的解析。
type VariantIndex float64

func (v *VariantIndex) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = VariantIndex(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*v = VariantIndex(n)
			return nil
		}
	}
	*v = VariantIndex(math.NaN())
	return nil
}

// In 是 [0, n) 内的整数时返回对应下标
func (v VariantIndex) In(n int) (int, bool) {
	f := float64(v)
	if f != math.Trunc(f) || f < 0 || f >= float64(n) {
		return 0, false
	}
	return int(f), true
}

// Critique 点评阶段结果
type Critique struct {
	BestIndex    *VariantIndex   `json:"bestIndex,omitempty"`
	Scores       *CritiqueScores `json:"scores,omitempty"`
	OverallScore *float64        `json:"overallScore,omitempty"`
	Strengths    []string        `json:"strengths,omitempty"`
	Improvements []string        `json:"improvements,omitempty"`
}

// PostBundle 帖子模式的完整结构化输出
type PostBundle struct {
	Plan     *PostPlan   `json:"plan,omitempty"`
	Bullets  []string    `json:"bullets,omitempty"`
	Sources  []string    `json:"sources,omitempty"`
	Hooks    []Hook      `json:"hooks,omitempty"`
	Drafts   *PostDrafts `json:"drafts,omitempty"`
	Critique *Critique   `json:"critique,omitempty"`
}

// Validate 检查结构约束，越界的 bestIndex 也会被报告
func (b *PostBundle) Validate() error {
	var errs []error
	if len(b.Bullets) > 5 {
		errs = append(errs, fmt.Errorf("bullets: want at most 5, got %d", len(b.Bullets)))
	}
	if len(b.Sources) > 5 {
		errs = append(errs, fmt.Errorf("sources: want at most 5, got %d", len(b.Sources)))
	}
	if n := len(b.Hooks); n > 0 && (n < 3 || n > 6) {
		errs = append(errs, fmt.Errorf("hooks: want 3-6, got %d", n))
	}
	if b.Drafts == nil {
		errs = append(errs, errors.New("drafts missing"))
	} else {
		if n := len(b.Drafts.Variants); n < 1 || n > 3 {
			errs = append(errs, fmt.Errorf("variants: want 1-3, got %d", n))
		}
		for i, v := range b.Drafts.Variants {
			if n := len(v.Hashtags); n < 3 || n > 5 {
				errs = append(errs, fmt.Errorf("variants[%d].hashtags: want 3-5, got %d", i, n))
			}
		}
		if b.Drafts.AltHooks != nil && len(b.Drafts.AltHooks) != 3 {
			errs = append(errs, fmt.Errorf("altHooks: want exactly 3, got %d", len(b.Drafts.AltHooks)))
		}
		if b.Drafts.AltCTAs != nil && len(b.Drafts.AltCTAs) != 3 {
			errs = append(errs, fmt.Errorf("altCTAs: want exactly 3, got %d", len(b.Drafts.AltCTAs)))
		}
	}
	if c := b.Critique; c != nil {
		if c.BestIndex != nil && b.Drafts != nil {
			if _, ok := c.BestIndex.In(len(b.Drafts.Variants)); !ok {
				errs = append(errs, fmt.Errorf("critique.bestIndex %v out of range", float64(*c.BestIndex)))
			}
		}
		if c.OverallScore != nil && !inScoreRange(*c.OverallScore) {
			errs = append(errs, fmt.Errorf("critique.overallScore %v out of range", *c.OverallScore))
		}
		if c.Scores != nil {
			for _, v := range c.Scores.values() {
				if !inScoreRange(v) {
					errs = append(errs, fmt.Errorf("critique.scores value %v out of range", v))
					break
				}
			}
		}
		if len(c.Strengths) > 3 || len(c.Improvements) > 3 {
			errs = append(errs, errors.New("critique: strengths and improvements are limited to 3"))
		}
	}
	return errors.Join(errs...)
}

func inScoreRange(v float64) bool {
	return v >= 1 && v <= 10
}

func validContentType(s string) bool {
	for _, t := range ContentTypes {
		if t == s {
			return true
		}
	}
	return false
}
