package reconcile

import (
	"strings"

	"trendforge/internal/models"
)

type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepCompleted StepStatus = "completed"
)

// Step 进度条上的一个阶段
type Step struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      StepStatus `json:"status"`
}

var ideaSteps = []Step{
	{ID: "research", Name: "Research", Description: "Finding current trends and viral topics"},
	{ID: "ideation", Name: "Idea Generation", Description: "Creating compelling post concepts"},
	{ID: "formatting", Name: "Formatting", Description: "Organizing ideas with viral potential scores"},
}

var postSteps = []Step{
	{ID: "planning", Name: "Planning", Description: "Analyzing your request and creating a content strategy"},
	{ID: "research", Name: "Research", Description: "Finding trending topics and supporting data"},
	{ID: "hooks", Name: "Hook Creation", Description: "Generating viral hooks for maximum engagement"},
	{ID: "writing", Name: "Writing", Description: "Crafting compelling LinkedIn post variants"},
	{ID: "critique", Name: "Optimization", Description: "Reviewing and optimizing for viral potential"},
}

// phaseRule 命中时将 steps[0..upTo] 全部标记为完成
type phaseRule struct {
	upTo  int
	match func(buf string) bool
}

func anyOf(markers ...string) func(string) bool {
	return func(buf string) bool {
		for _, m := range markers {
			if strings.Contains(buf, m) {
				return true
			}
		}
		return false
	}
}

func allOf(markers ...string) func(string) bool {
	return func(buf string) bool {
		for _, m := range markers {
			if !strings.Contains(buf, m) {
				return false
			}
		}
		return true
	}
}

func either(a, b func(string) bool) func(string) bool {
	return func(buf string) bool { return a(buf) || b(buf) }
}

var ideaRules = []phaseRule{
	{upTo: 0, match: anyOf("search", "trending", "research")},
	{upTo: 1, match: anyOf("ideas", "title", "viralPotential")},
	{upTo: 2, match: anyOf(`"ideas"`, "trendingSummary")},
}

var postRules = []phaseRule{
	{upTo: 0, match: anyOf("TopicSuggester", "planning", "PostPlan")},
	{upTo: 1, match: anyOf("Researcher")},
	{upTo: 1, match: anyOf("plan", "bullets", "sources")},
	{upTo: 2, match: either(anyOf("hooks"), allOf("label", "text"))},
	{upTo: 3, match: either(anyOf("variants", "drafts"), allOf("hook", "body"))},
	{upTo: 4, match: anyOf("critique", "bestIndex", "overallScore")},
}

// Phases 根据文本中出现的特征子串推断进度。
// 这是展示用的近似判断，散文中提到字段名也会误判为完成。
func Phases(mode models.Mode, buf string) []Step {
	base, rules := postSteps, postRules
	if mode == models.ModeIdeas {
		base, rules = ideaSteps, ideaRules
	}

	steps := make([]Step, len(base))
	copy(steps, base)
	for i := range steps {
		steps[i].Status = StepPending
	}
	if buf == "" {
		return steps
	}

	for _, rule := range rules {
		if !rule.match(buf) {
			continue
		}
		for i := 0; i <= rule.upTo && i < len(steps); i++ {
			steps[i].Status = StepCompleted
		}
	}
	return steps
}

// AllComplete 是否所有阶段都已完成
func AllComplete(steps []Step) bool {
	for _, s := range steps {
		if s.Status != StepCompleted {
			return false
		}
	}
	return len(steps) > 0
}
