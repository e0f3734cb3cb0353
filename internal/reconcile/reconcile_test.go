package reconcile

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendforge/internal/models"
)

func sampleIdeas() models.IdeasOutput {
	return models.IdeasOutput{
		Ideas: []models.GeneratedIdea{
			{
				Title:           "Why I Stopped Using Productivity Apps (And Got More Done)",
				Description:     "A contrarian take on productivity tools.",
				Hook:            "I had 10 productivity apps installed. I was more distracted than ever.",
				ViralPotential:  9,
				TargetAudience:  "Knowledge workers drowning in tools",
				ContentType:     "contrarian",
				TrendingFactors: []string{"Tool bloat", "Minimalism trend"},
			},
			{
				Title:           "The SaaS Pricing Mistake That Cost Me $50K",
				Description:     "A founder story about underpricing.",
				Hook:            "I lost $50K before learning this one thing about SaaS pricing...",
				ViralPotential:  7.5,
				TargetAudience:  "Early stage SaaS founders",
				ContentType:     "story",
				TrendingFactors: []string{"Pricing pages under scrutiny"},
			},
			{
				Title:           "5 Async Habits of Remote Engineering Managers",
				Description:     "A practical checklist with {braces} in the text.",
				Hook:            "Meetings are not the job.",
				ViralPotential:  6,
				TargetAudience:  "Remote engineering managers",
				ContentType:     "list",
				TrendingFactors: []string{},
			},
		},
		TrendingSummary: "Professionals are rethinking tools, pricing and meetings.",
		Sources:         []string{"https://example.com/a", "https://example.com/b"},
	}
}

func TestIdeasRoundTrip(t *testing.T) {
	want := sampleIdeas()
	raw, err := json.MarshalIndent(want, "", "  ")
	require.NoError(t, err)
	buf := "Researching what is trending right now...\nSearch complete.\n" + string(raw) + "\n\n"

	got, strategy, err := ExtractIdeas(buf)
	require.NoError(t, err)
	assert.Equal(t, "anchored_tail", strategy)
	require.Len(t, got.Ideas, len(want.Ideas))
	if diff := cmp.Diff(&want, got); diff != "" {
		t.Errorf("ExtractIdeas() mismatch (-want +got):\n%s", diff)
	}

	view := Reconcile(models.ModeIdeas, buf, true)
	assert.Equal(t, KindIdeas, view.Kind)
	if diff := cmp.Diff(want.Ideas, view.Ideas.Ideas); diff != "" {
		t.Errorf("view ideas mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, AllComplete(view.Steps))
}

func TestReconcileIsDeterministic(t *testing.T) {
	bufs := []string{
		"",
		"plain prose with no structure",
		`{"drafts":{"variants":[{"body":"x","hashtags":["#a","#b","#c"]}]}}`,
		"HOOK: this is a long enough hook line for display\n\nBody: short",
		`{"ideas": [{"title": "trunc`,
	}
	for _, buf := range bufs {
		for _, finished := range []bool{false, true} {
			first := Reconcile(models.ModePost, buf, finished)
			second := Reconcile(models.ModePost, buf, finished)
			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("Reconcile(%q) not deterministic:\n%s", buf, diff)
			}
		}
	}
}

func TestWellFormedPost(t *testing.T) {
	buf := "Planning done. Drafting now...\n" +
		`{"plan":{"goal":"awareness","audience":"founders","angle":"lesson","format":"story"},` +
		`"drafts":{"variants":[{"body":"Hello world","hashtags":["#A","#B","#C"]}],"firstComment":"see link below"},` +
		`"critique":{"bestIndex":0,"overallScore":8}}`

	view := Reconcile(models.ModePost, buf, true)

	require.Equal(t, KindPost, view.Kind)
	require.NotNil(t, view.Post)
	assert.Equal(t, "Hello world", view.Post.Content)
	assert.Equal(t, []string{"#A", "#B", "#C"}, view.Post.Hashtags)
	assert.Equal(t, "see link below", view.Post.FirstComment)
	require.NotNil(t, view.Post.OverallScore)
	assert.Equal(t, 8.0, *view.Post.OverallScore)
	assert.Equal(t, defaultPostingTime, view.Post.PostingTime)
	assert.Equal(t, "anchored_tail", view.Strategy)
}

func TestBestIndexOutOfRangeFallsBackToFirstVariant(t *testing.T) {
	for _, idx := range []string{"7", "-1", "2"} {
		buf := `{"drafts":{"variants":[` +
			`{"body":"first","hashtags":["#a","#b","#c"]},` +
			`{"body":"second","hashtags":["#a","#b","#c"]}]},` +
			`"critique":{"bestIndex":` + idx + `}}`

		view := Reconcile(models.ModePost, buf, true)

		require.Equal(t, KindPost, view.Kind, "bestIndex %s", idx)
		assert.Equal(t, "first", view.Post.Content)
		assert.Equal(t, 0, view.Post.VariantIndex)
		assert.NotEmpty(t, view.Problems)
	}
}

func TestBestIndexNonIntegerValues(t *testing.T) {
	tests := []struct {
		idx  string
		want string
	}{
		{"1.0", "second"},
		{`"1"`, "second"},
		{"1.5", "first"},
		{`"best"`, "first"},
		{"true", "first"},
		{"null", "first"},
	}
	for _, tt := range tests {
		t.Run(tt.idx, func(t *testing.T) {
			buf := `{"drafts":{"variants":[` +
				`{"body":"first","hashtags":["#a","#b","#c"]},` +
				`{"body":"second","hashtags":["#a","#b","#c"]}]},` +
				`"critique":{"bestIndex":` + tt.idx + `,"overallScore":8}}`

			view := Reconcile(models.ModePost, buf, true)

			require.Equal(t, KindPost, view.Kind)
			assert.Equal(t, tt.want, view.Post.Content)
			assert.Equal(t, "anchored_tail", view.Strategy)
		})
	}
}

func TestBestIndexSelectsVariant(t *testing.T) {
	buf := `{"drafts":{"variants":[` +
		`{"body":"first","hashtags":["#a","#b","#c"]},` +
		`{"hook":"Second hook","content":"second content","hashtags":["#x","#y","#z"],"postingTime":"Tue 8am ET","assetSuggestion":"carousel"}]},` +
		`"critique":{"bestIndex":1,"scores":{"hookStrength":8,"algorithmOptimization":7,"structureReadability":9,"engagementPotential":8,"viralFactors":7,"technicalCompliance":10}}}`

	view := Reconcile(models.ModePost, buf, true)

	require.Equal(t, KindPost, view.Kind)
	assert.Equal(t, 1, view.Post.VariantIndex)
	assert.Equal(t, "Second hook\n\nsecond content", view.Post.Content)
	assert.Equal(t, "Tue 8am ET", view.Post.PostingTime)
	assert.Equal(t, "carousel", view.Post.AssetSuggestion)
	require.NotNil(t, view.Post.Scores)
	assert.Equal(t, 10.0, view.Post.Scores.TechnicalCompliance)
}

const labeledDraft = "HOOK: After 3 years of remote work, I have a confession...\n\n" +
	"Body: Most teams think async means slower. We cut meetings by half and shipped twice as fast.\n\n" +
	"HASHTAGS: #RemoteWork #Leadership #FutureOfWork\n" +
	`{"drafts": {"variants": [{"body": "We cut meetings by`

func TestLabeledSectionFallback(t *testing.T) {
	view := Reconcile(models.ModePost, labeledDraft, true)

	require.Equal(t, KindTextPost, view.Kind)
	assert.Equal(t,
		"After 3 years of remote work, I have a confession...\n\n"+
			"Most teams think async means slower. We cut meetings by half and shipped twice as fast.",
		view.Post.Content)
	assert.Equal(t, []string{"#RemoteWork", "#Leadership", "#FutureOfWork"}, view.Post.Hashtags)
}

func TestLabeledSectionFallbackWaitsForCompletion(t *testing.T) {
	view := Reconcile(models.ModePost, labeledDraft, false)
	assert.Equal(t, KindRaw, view.Kind)
	assert.True(t, view.Streaming)

	view = Reconcile(models.ModePost, "Writer output\n"+labeledDraft, false)
	assert.Equal(t, KindTextPost, view.Kind)
}

func TestShortLabeledSectionsAreIgnored(t *testing.T) {
	view := Reconcile(models.ModePost, "Hook: too short\n\nBody: also short", true)
	assert.Equal(t, KindRaw, view.Kind)
	assert.False(t, view.Streaming)
}

func TestPlaceholderWhenAllPhasesCompleteWithoutResult(t *testing.T) {
	buf := "I finished the plan, gathered sources, wrote hooks, produced drafts and ran the critique. " +
		strings.Repeat("The output was long but not machine readable. ", 5)

	view := Reconcile(models.ModePost, buf, true)

	assert.Equal(t, KindPlaceholder, view.Kind)
	assert.Contains(t, view.Post.Content, "completed all steps")
	assert.Equal(t, buf, view.Raw)
}

func TestIdeasModeNeverParsesPosts(t *testing.T) {
	buf := `{"drafts":{"variants":[{"body":"x","hashtags":["#a","#b","#c"]}]}}`
	view := Reconcile(models.ModeIdeas, buf, true)
	assert.Equal(t, KindRaw, view.Kind)
	assert.Nil(t, view.Post)
}

func TestEmptyBuffer(t *testing.T) {
	view := Reconcile(models.ModePost, "", false)
	assert.Equal(t, KindEmpty, view.Kind)
	for _, s := range view.Steps {
		assert.Equal(t, StepPending, s.Status)
	}
}

func TestBalancedScanHandlesBracesInStrings(t *testing.T) {
	buf := `Final answer: {"drafts":{"variants":[{"body":"use {braces} wisely","hashtags":["#a","#b","#c"]}]}} Let me know if you want changes.`

	bundle, strategy, err := ExtractPost(buf)

	require.NoError(t, err)
	assert.Equal(t, "balanced_scan", strategy)
	assert.Equal(t, "use {braces} wisely", bundle.Drafts.Variants[0].Body)
}

func TestExtractionFailuresAreValues(t *testing.T) {
	_, _, err := ExtractPost(`{"drafts": {"variants": []}}`)
	require.Error(t, err)

	var failure *ExtractionFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "anchored_tail", failure.Strategy)
	assert.Equal(t, "result failed validation", failure.Reason)
}

func TestAnchoredTailSkipsLeadingProseBraces(t *testing.T) {
	buf := `Template: {goal} for {audience}.` + "\n" +
		`{"drafts":{"variants":[{"body":"tail","hashtags":["#a","#b","#c"]}]}}`

	bundle, strategy, err := ExtractPost(buf)

	require.NoError(t, err)
	assert.Equal(t, "anchored_tail", strategy)
	assert.Equal(t, "tail", bundle.Drafts.Variants[0].Body)
}

func TestPairBraces(t *testing.T) {
	assert.Equal(t, []bracePair{{0, 6}}, pairBraces(`{"a":1}`))
	assert.Equal(t, []bracePair{{0, 10}}, pairBraces(`{"a":"}\""}`))
	assert.Empty(t, pairBraces(`{"a":{`))
	assert.Equal(t, []bracePair{{8, 12}, {14, 24}, {19, 23}}, pairBraces(`say "}" {one} {"a":{"b"}}`))
}

func TestExtractionCostIsLinear(t *testing.T) {
	bufs := map[string]string{
		"open braces":   strings.Repeat("{", 200000),
		"closed braces": strings.Repeat("{", 100000) + strings.Repeat("}", 100000),
		"nested keys":   strings.Repeat(`{"drafts":`, 5000) + "1" + strings.Repeat("}", 5000),
		"many objects":  strings.Repeat(`{"ideas":[]} `, 20000),
	}
	for name, buf := range bufs {
		t.Run(name, func(t *testing.T) {
			start := time.Now()
			for _, mode := range []models.Mode{models.ModePost, models.ModeIdeas} {
				view := Reconcile(mode, buf, true)
				assert.NotEqual(t, KindPost, view.Kind)
			}
			assert.Less(t, time.Since(start), 3*time.Second)
		})
	}
}
