package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendforge/internal/models"
)

func TestNeedsTopicSuggestions(t *testing.T) {
	assert.True(t, NeedsTopicSuggestions("Can you suggest a TOPIC for this week?"))
	assert.True(t, NeedsTopicSuggestions("I need a topic"))
	assert.True(t, NeedsTopicSuggestions("topic ideas for fintech"))
	assert.False(t, NeedsTopicSuggestions("Write about my favourite topic: pricing"))
	assert.False(t, NeedsTopicSuggestions("Please help me write about pricing"))
}

func TestBuildUserContent(t *testing.T) {
	ideas := BuildUserContent(models.ModeIdeas, "remote work")
	assert.Contains(t, ideas, `Generate 3-5 viral LinkedIn post ideas based on: "remote work"`)
	assert.Contains(t, ideas, "validateIdeasComplete")

	topics := BuildUserContent(models.ModePost, "help me pick a topic")
	assert.Contains(t, topics, "needs topic suggestions")
	assert.Contains(t, topics, `User request: "help me pick a topic"`)

	post := BuildUserContent(models.ModePost, "SaaS pricing mistakes")
	assert.Contains(t, post, `Create a complete viral LinkedIn post about: "SaaS pricing mistakes"`)
}

func TestLoadDefinitions(t *testing.T) {
	defs, err := LoadDefinitions(nil)
	require.NoError(t, err)

	assert.Equal(t, "PostIdeaGenerator", defs[models.ModeIdeas].Name)
	assert.Equal(t, []string{"validateIdeasComplete", "trendingHeadlines"}, defs[models.ModeIdeas].Tools)
	assert.Equal(t, "LinkedInPostCreator", defs[models.ModePost].Name)
	assert.Equal(t, "post", defs[models.ModePost].Output)

	instruction, err := SystemInstruction(defs[models.ModePost])
	require.NoError(t, err)
	assert.Contains(t, instruction, "OUTPUT SCHEMA")
	assert.Contains(t, instruction, "bestIndex")
	assert.Contains(t, instruction, "technicalCompliance")
}

func TestLoadDefinitionsRejectsUnknownTool(t *testing.T) {
	data := []byte(`
agents:
  - name: A
    mode: ideas
    output: ideas
    tools: [scrapeEverything]
  - name: B
    mode: post
    output: post
`)
	_, err := LoadDefinitions(data)
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestLoadDefinitionsRequiresBothModes(t *testing.T) {
	_, err := LoadDefinitions([]byte("agents:\n  - {name: A, mode: ideas, output: ideas}\n"))
	assert.ErrorContains(t, err, `mode "post"`)
}
