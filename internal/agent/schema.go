package agent

import (
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"trendforge/internal/models"
)

func str(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

func strList(max int64) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, MaxItems: genai.Ptr(max)}
}

func score() *genai.Schema {
	return &genai.Schema{Type: genai.TypeNumber, Minimum: genai.Ptr(1.0), Maximum: genai.Ptr(10.0)}
}

func object(required []string, props map[string]*genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

// IdeasSchema 灵感模式输出结构
func IdeasSchema() *genai.Schema {
	idea := object(
		[]string{"title", "description", "hook", "viralPotential", "targetAudience", "contentType", "trendingFactors"},
		map[string]*genai.Schema{
			"title":           str("Clear, curiosity-triggering title"),
			"description":     str("2-3 sentences on what the post covers"),
			"hook":            str("Sample opening line"),
			"viralPotential":  score(),
			"targetAudience":  str("Specific audience"),
			"contentType":     {Type: genai.TypeString, Enum: models.ContentTypes},
			"trendingFactors": strList(3),
		},
	)
	return object(
		[]string{"ideas", "trendingSummary", "sources"},
		map[string]*genai.Schema{
			"ideas":           {Type: genai.TypeArray, Items: idea, MinItems: genai.Ptr[int64](3), MaxItems: genai.Ptr[int64](5)},
			"trendingSummary": str("2-3 sentences on overarching themes"),
			"sources":         strList(5),
		},
	)
}

// PostSchema 帖子模式输出结构
func PostSchema() *genai.Schema {
	variant := object(
		[]string{"title", "hook", "body", "cta", "hashtags", "postingTime"},
		map[string]*genai.Schema{
			"title":           str("Variant title"),
			"hook":            str("First 2-3 lines"),
			"body":            str("Complete post content"),
			"cta":             str("Conversation-starting question"),
			"hashtags":        {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, MinItems: genai.Ptr[int64](3), MaxItems: genai.Ptr[int64](5)},
			"postingTime":     str("Recommended posting time"),
			"assetSuggestion": {Type: genai.TypeString, Nullable: genai.Ptr(true)},
		},
	)
	exactlyThree := &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, MinItems: genai.Ptr[int64](3), MaxItems: genai.Ptr[int64](3), Nullable: genai.Ptr(true)}

	return object(
		[]string{"plan", "bullets", "sources", "hooks", "drafts", "critique"},
		map[string]*genai.Schema{
			"plan": object([]string{"goal", "audience", "angle", "format"}, map[string]*genai.Schema{
				"goal":     str("awareness | leadgen | community"),
				"audience": str("Target persona"),
				"angle":    str("Angle of the post"),
				"format":   str("story | how_to | contrarian | list"),
			}),
			"bullets": strList(5),
			"sources": strList(5),
			"hooks": {
				Type:     genai.TypeArray,
				Items:    object([]string{"label", "text"}, map[string]*genai.Schema{"label": str(""), "text": str("")}),
				MinItems: genai.Ptr[int64](3),
				MaxItems: genai.Ptr[int64](6),
			},
			"drafts": object([]string{"variants", "firstComment"}, map[string]*genai.Schema{
				"variants":     {Type: genai.TypeArray, Items: variant, MinItems: genai.Ptr[int64](1), MaxItems: genai.Ptr[int64](3)},
				"firstComment": str("Link context for the first comment"),
				"altHooks":     exactlyThree,
				"altCTAs":      exactlyThree,
			}),
			"critique": object([]string{"bestIndex", "overallScore", "strengths", "improvements", "scores"}, map[string]*genai.Schema{
				"bestIndex":    {Type: genai.TypeInteger, Minimum: genai.Ptr(0.0)},
				"overallScore": score(),
				"strengths":    strList(3),
				"improvements": strList(3),
				"scores": object(
					[]string{"hookStrength", "algorithmOptimization", "structureReadability", "engagementPotential", "viralFactors", "technicalCompliance"},
					map[string]*genai.Schema{
						"hookStrength":          score(),
						"algorithmOptimization": score(),
						"structureReadability":  score(),
						"engagementPotential":   score(),
						"viralFactors":          score(),
						"technicalCompliance":   score(),
					},
				),
			}),
		},
	)
}

var outputSchemas = map[string]func() *genai.Schema{
	"ideas": IdeasSchema,
	"post":  PostSchema,
}

// SystemInstruction 拼接提示词与输出结构说明
func SystemInstruction(def Definition) (string, error) {
	build, ok := outputSchemas[def.Output]
	if !ok {
		return "", fmt.Errorf("unknown output %q", def.Output)
	}
	schema, err := json.MarshalIndent(build(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal output schema: %w", err)
	}
	return def.Instructions + "\nOUTPUT SCHEMA (JSON):\n" + string(schema), nil
}
