package agent

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"trendforge/internal/models"
)

//go:embed agents.yaml
var embeddedDefinitions []byte

// Definition 一个 Agent 的配置：提示词、可调用工具和结构化输出
type Definition struct {
	Name         string      `yaml:"name"`
	Mode         models.Mode `yaml:"mode"`
	Model        string      `yaml:"model"`
	WebSearch    bool        `yaml:"web_search"`
	Tools        []string    `yaml:"tools"`
	Output       string      `yaml:"output"`
	Instructions string      `yaml:"instructions"`
}

type definitionFile struct {
	Agents []Definition `yaml:"agents"`
}

// Definitions 按模式索引的 Agent 配置
type Definitions map[models.Mode]Definition

// LoadDefinitions 解析 YAML 配置；data 为空时使用内置配置
func LoadDefinitions(data []byte) (Definitions, error) {
	if len(data) == 0 {
		data = embeddedDefinitions
	}
	var file definitionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse agent definitions: %w", err)
	}

	defs := make(Definitions, len(file.Agents))
	for _, d := range file.Agents {
		if d.Mode != models.ModeIdeas && d.Mode != models.ModePost {
			return nil, fmt.Errorf("agent %s: unknown mode %q", d.Name, d.Mode)
		}
		if _, ok := outputSchemas[d.Output]; !ok {
			return nil, fmt.Errorf("agent %s: unknown output %q", d.Name, d.Output)
		}
		for _, name := range d.Tools {
			if !knownTool(name) {
				return nil, fmt.Errorf("agent %s: %w: %s", d.Name, ErrUnknownTool, name)
			}
		}
		defs[d.Mode] = d
	}
	for _, mode := range []models.Mode{models.ModeIdeas, models.ModePost} {
		if _, ok := defs[mode]; !ok {
			return nil, fmt.Errorf("no agent defined for mode %q", mode)
		}
	}
	return defs, nil
}
