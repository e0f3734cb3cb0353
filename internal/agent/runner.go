package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"trendforge/internal/models"
)

// ErrTooManyTurns 工具调用轮数超过上限
var ErrTooManyTurns = errors.New("agent exceeded tool-call turns")

// Request 一次 Agent 调用
type Request struct {
	Mode    models.Mode
	Message string
}

// Runner 以流式方式运行 Agent，把模型文本原样写入 w
type Runner interface {
	Run(ctx context.Context, req Request, w io.Writer) error
}

// Options GenAIRunner 的可选配置
type Options struct {
	Model      string // 覆盖 agents.yaml 中的模型
	WebSearch  bool   // 是否提供 webSearch 工具
	MaxTurns   int
	Tools      Toolbox // 为空时只有不依赖外部资源的工具可用
	BaseURL    string  // 测试时指向本地服务
	HTTPClient *http.Client
}

// GenAIRunner 基于 Gemini API 的 Runner，负责工具调用循环
type GenAIRunner struct {
	client *genai.Client
	defs   Definitions
	opts   Options
	logger *zap.Logger
}

func NewGenAIRunner(ctx context.Context, apiKey string, defs Definitions, opts Options, logger *zap.Logger) (*GenAIRunner, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if opts.MaxTurns < 1 {
		opts.MaxTurns = 1
	}
	if opts.Tools == nil {
		opts.Tools = NewToolbox(nil, nil)
	}
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	if opts.WebSearch {
		model := opts.Model
		if model == "" {
			model = defaultSearchModel
		}
		opts.Tools = opts.Tools.with(WebSearch{client: client, model: model})
	}
	return &GenAIRunner{client: client, defs: defs, opts: opts, logger: logger}, nil
}

func (r *GenAIRunner) config(def Definition) (*genai.GenerateContentConfig, error) {
	instruction, err := SystemInstruction(def)
	if err != nil {
		return nil, err
	}

	names := slices.Clone(def.Tools)
	if r.opts.WebSearch && def.WebSearch {
		names = append(names, webSearchTool)
	}
	var tools []*genai.Tool
	if len(names) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(names))
		for _, name := range names {
			t, err := r.opts.Tools.Lookup(name)
			if err != nil {
				return nil, err
			}
			decls = append(decls, t.Declaration())
		}
		tools = append(tools, &genai.Tool{FunctionDeclarations: decls})
	}

	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
		Tools:             tools,
	}, nil
}

// Run 执行一次生成。模型请求工具时在本地执行并继续下一轮，直到模型不再调用工具。
func (r *GenAIRunner) Run(ctx context.Context, req Request, w io.Writer) error {
	def, ok := r.defs[req.Mode]
	if !ok {
		return fmt.Errorf("no agent for mode %q", req.Mode)
	}
	cfg, err := r.config(def)
	if err != nil {
		return err
	}
	model := def.Model
	if r.opts.Model != "" {
		model = r.opts.Model
	}

	log := r.logger.With(zap.String("agent", def.Name), zap.String("mode", string(req.Mode)))
	log.Info("starting agent workflow", zap.Int("message_len", len(req.Message)))

	contents := []*genai.Content{
		genai.NewContentFromText(BuildUserContent(req.Mode, req.Message), genai.RoleUser),
	}

	for turn := 1; turn <= r.opts.MaxTurns; turn++ {
		var calls []*genai.FunctionCall
		var modelParts []*genai.Part

		for resp, err := range r.client.Models.GenerateContentStream(ctx, model, contents, cfg) {
			if err != nil {
				return fmt.Errorf("agent stream (turn %d): %w", turn, err)
			}
			if text := resp.Text(); text != "" {
				if _, err := io.WriteString(w, text); err != nil {
					return fmt.Errorf("write chunk: %w", err)
				}
			}
			calls = append(calls, resp.FunctionCalls()...)
			if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
				modelParts = append(modelParts, resp.Candidates[0].Content.Parts...)
			}
		}

		if len(calls) == 0 {
			log.Info("agent workflow completed", zap.Int("turns", turn))
			return nil
		}

		contents = append(contents, genai.NewContentFromParts(modelParts, genai.RoleModel))
		results := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			results = append(results, genai.NewPartFromFunctionResponse(call.Name, r.callTool(ctx, log, call)))
		}
		contents = append(contents, genai.NewContentFromParts(results, genai.RoleUser))
	}
	return fmt.Errorf("%w: %d", ErrTooManyTurns, r.opts.MaxTurns)
}

// callTool 执行工具；失败以 error 字段返回给模型，而不是中断生成
func (r *GenAIRunner) callTool(ctx context.Context, log *zap.Logger, call *genai.FunctionCall) map[string]any {
	tool, err := r.opts.Tools.Lookup(call.Name)
	if err != nil {
		log.Warn("model called unknown tool", zap.String("tool", call.Name))
		return map[string]any{"error": err.Error()}
	}
	out, err := tool.Call(ctx, call.Args)
	if err != nil {
		log.Warn("tool call failed", zap.String("tool", call.Name), zap.Error(err))
		return map[string]any{"error": err.Error()}
	}
	log.Debug("tool call", zap.String("tool", call.Name))
	return out
}
