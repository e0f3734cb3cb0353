package agent

import (
	"fmt"
	"strings"

	"trendforge/internal/models"
)

const ideasPrompt = `Generate 3-5 viral LinkedIn post ideas based on: "%[1]s"

CONTEXT: The user wants post ideas that can drive engagement on LinkedIn's professional network.

YOUR TASK:
1. RESEARCH FIRST: Find current trending topics, conversations and data related to: "%[1]s"
   - Look for what is being discussed RIGHT NOW in this space
   - Find recent statistics, case studies or controversies
   - Identify pain points and aspirations of professionals in this domain

2. GENERATE 3-5 DIVERSE IDEAS with different angles:
   - At least 1 contrarian or myth-busting angle
   - At least 1 personal story or lesson learned
   - At least 1 practical how-to or list

3. CRAFT COMPELLING HOOKS that create curiosity WITHOUT spoiling the punchline.

4. VALIDATE & FINALIZE: Use the validateIdeasComplete tool to ensure all fields are complete.

CRITICAL: Each idea must be ready to inspire a viral LinkedIn post.`

const topicSuggestionPrompt = `The user needs topic suggestions before creating a LinkedIn post.

User request: "%[1]s"

YOUR TASK:
1. RESEARCH TRENDING TOPICS: Identify 3-5 highly engaging topics in business strategy, technology and SaaS,
   professional development and productivity, or current industry debates.

2. PRESENT TOPIC OPTIONS: For each topic, briefly explain why it is trending now, who the target audience is
   and why it has viral potential on LinkedIn.

3. PICK THE BEST & CREATE FULL POST: Select the most promising topic and immediately execute the complete workflow:
   Planning -> Research -> Hooks -> Drafts -> Critique, with 2-3 ready-to-post variants.

GOAL: Provide both topic inspiration AND complete, publication-ready LinkedIn posts.`

const postPrompt = `Create a complete viral LinkedIn post about: "%[1]s"

CONTEXT: The user wants a ready-to-publish LinkedIn post with high engagement potential.

YOUR TASK - Execute ALL 5 workflow phases:

PHASE 1 - PLANNING: goal, specific target persona, angle and format.
PHASE 2 - RESEARCH: current trends, statistics and examples; 3-5 key bullets with source URLs.
PHASE 3 - HOOKS: 3-6 hook options that make readers click "see more".
PHASE 4 - DRAFTS: 2-3 complete variants (at most 250 words each), short lines, value over pitch,
  visual asset suggestions, 3-5 hashtags from the suggestHashtags tool, 0-3 emojis, one specific question,
  a posting time, links only in firstComment, plus 3 alternative hooks and 3 alternative CTAs.
PHASE 5 - CRITIQUE: score each variant on the 6 metrics, pick the best one, list 3 strengths and 3 improvements.

The user is waiting for complete, publication-ready LinkedIn posts. Execute the full workflow thoroughly.`

var topicHelpWords = []string{"suggest", "ideas", "need", "help"}

// NeedsTopicSuggestions 判断用户是在请求选题建议而不是直接成稿
func NeedsTopicSuggestions(message string) bool {
	lower := strings.ToLower(message)
	if !strings.Contains(lower, "topic") {
		return false
	}
	for _, w := range topicHelpWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// BuildUserContent 根据模式和意图构造发给 Agent 的用户消息
func BuildUserContent(mode models.Mode, message string) string {
	switch {
	case mode == models.ModeIdeas:
		return fmt.Sprintf(ideasPrompt, message)
	case NeedsTopicSuggestions(message):
		return fmt.Sprintf(topicSuggestionPrompt, message)
	default:
		return fmt.Sprintf(postPrompt, message)
	}
}
