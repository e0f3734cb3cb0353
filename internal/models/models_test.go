package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeIdeas, ParseMode("ideas"))
	assert.Equal(t, ModePost, ParseMode("post"))
	assert.Equal(t, ModePost, ParseMode(""))
	assert.Equal(t, ModePost, ParseMode("IDEAS"))
}

func TestPostBundleValidate(t *testing.T) {
	raw := `{
		"drafts": {"variants": [{"body": "b", "hashtags": ["#a", "#b"]}], "altHooks": ["x"]},
		"critique": {"bestIndex": 4, "overallScore": 12, "scores": {"hookStrength": 0}}
	}`
	var b PostBundle
	require.NoError(t, json.Unmarshal([]byte(raw), &b))

	err := b.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "variants[0].hashtags")
	assert.Contains(t, msg, "altHooks")
	assert.Contains(t, msg, "bestIndex 4 out of range")
	assert.Contains(t, msg, "overallScore 12 out of range")
	assert.Contains(t, msg, "critique.scores")
}

func TestVariantIndex(t *testing.T) {
	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{`{"bestIndex": 1}`, 1, true},
		{`{"bestIndex": 1.0}`, 1, true},
		{`{"bestIndex": " 2 "}`, 2, true},
		{`{"bestIndex": 1.5}`, 0, false},
		{`{"bestIndex": 3}`, 0, false},
		{`{"bestIndex": -1}`, 0, false},
		{`{"bestIndex": "second"}`, 0, false},
		{`{"bestIndex": [1]}`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var c Critique
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &c))
			require.NotNil(t, c.BestIndex)

			got, ok := c.BestIndex.In(3)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	var c Critique
	require.NoError(t, json.Unmarshal([]byte(`{"bestIndex": null}`), &c))
	assert.Nil(t, c.BestIndex)
}

func TestIdeasOutputValidate(t *testing.T) {
	out := IdeasOutput{Ideas: []GeneratedIdea{
		{Title: "a", ViralPotential: 7, ContentType: "story"},
		{Title: "b", ViralPotential: 8, ContentType: "list"},
		{Title: "c", ViralPotential: 6, ContentType: "data_insight", TrendingFactors: []string{"x"}},
	}}
	assert.NoError(t, out.Validate())

	out.Ideas[0].ContentType = "rant"
	out.Ideas[1].ViralPotential = 11
	err := out.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"rant" unknown`)
	assert.Contains(t, err.Error(), "ideas[1].viralPotential")
}

func TestPatchColumns(t *testing.T) {
	content := "updated"
	tags := []string{"#Go"}
	cols := PostPatch{Content: &content, Hashtags: &tags}.Columns()
	assert.Equal(t, map[string]any{"content": "updated", "hashtags": StringList{"#Go"}}, cols)

	assert.Empty(t, IdeaPatch{}.Columns())
}

func TestStringListScan(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan([]byte(`["#A","#B"]`)))
	assert.Equal(t, StringList{"#A", "#B"}, l)

	require.NoError(t, l.Scan(nil))
	assert.Empty(t, l)

	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	assert.Error(t, l.Scan(42))
}

func TestUserDisplayName(t *testing.T) {
	assert.Equal(t, "Ada", (&User{Name: "Ada", Email: "ada@example.com"}).DisplayName())
	assert.Equal(t, "ada", (&User{Email: "ada@example.com"}).DisplayName())
}
