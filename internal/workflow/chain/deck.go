package chain

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	openaiopts "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"

	llmctx "slidegen-ai-api/internal/domain/service"
	wfmodel "slidegen-ai-api/internal/workflow/model"
	wfnode "slidegen-ai-api/internal/workflow/node"
	workflowport "slidegen-ai-api/internal/workflow/port"
	workflowprompt "slidegen-ai-api/internal/workflow/prompt"
	"slidegen-ai-api/pkg/logger"
)

// DeckChain 串联规划、撰写、审校、格式化四个阶段，产出演示文稿的 JSON 文本。
// 任一阶段失败即整体失败，不做阶段级重试。
type DeckChain struct {
	factory workflowport.ChatModelFactory

	chainOnce sync.Once
	chain     compose.Runnable[*wfmodel.DeckGenerateInput, *wfmodel.DeckGenerateOutput]
	chainErr  error
}

func NewDeckChain(factory workflowport.ChatModelFactory) *DeckChain {
	return &DeckChain{factory: factory}
}

func (c *DeckChain) Invoke(ctx context.Context, in *wfmodel.DeckGenerateInput) (*wfmodel.DeckGenerateOutput, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}

	chain, err := c.getChain()
	if err != nil {
		return nil, err
	}
	return chain.Invoke(ctx, in)
}

type deckChainState struct {
	In       *wfmodel.DeckGenerateInput
	Outline  string
	Draft    string
	Reviewed string
	Raw      string
	Stages   []wfmodel.StageTrace
}

func (c *DeckChain) getChain() (compose.Runnable[*wfmodel.DeckGenerateInput, *wfmodel.DeckGenerateOutput], error) {
	c.chainOnce.Do(func() {
		c.chain, c.chainErr = c.buildChain(context.Background())
	})
	return c.chain, c.chainErr
}

func (c *DeckChain) buildChain(ctx context.Context) (compose.Runnable[*wfmodel.DeckGenerateInput, *wfmodel.DeckGenerateOutput], error) {
	chain := compose.NewChain[*wfmodel.DeckGenerateInput, *wfmodel.DeckGenerateOutput]()

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, in *wfmodel.DeckGenerateInput) (*deckChainState, error) {
			if in == nil {
				return nil, fmt.Errorf("input is nil")
			}
			if strings.TrimSpace(in.Prompt) == "" {
				return nil, fmt.Errorf("prompt is empty")
			}
			return &deckChainState{In: in}, nil
		}),
		compose.WithNodeName("deck.init"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *deckChainState) (*deckChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			out, err := c.runStage(ctx, st.In, "deck_plan", workflowprompt.PromptPlannerV1, map[string]any{
				"num_slides":  strconv.Itoa(st.In.SlideTarget),
				"user_prompt": strings.TrimSpace(st.In.Prompt),
				"source_text": strings.TrimSpace(st.In.SourcePreview),
			}, false)
			if err != nil {
				return nil, fmt.Errorf("plan stage: %w", err)
			}
			st.Outline = out.Output
			st.Stages = append(st.Stages, out)
			return st, nil
		}),
		compose.WithNodeName("deck.plan"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *deckChainState) (*deckChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			out, err := c.runStage(ctx, st.In, "deck_write", workflowprompt.PromptWriterV1, map[string]any{
				"num_slides": strconv.Itoa(st.In.SlideTarget),
				"outline":    st.Outline,
			}, false)
			if err != nil {
				return nil, fmt.Errorf("write stage: %w", err)
			}
			st.Draft = out.Output
			st.Stages = append(st.Stages, out)
			return st, nil
		}),
		compose.WithNodeName("deck.write"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *deckChainState) (*deckChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			out, err := c.runStage(ctx, st.In, "deck_review", workflowprompt.PromptReviewerV1, map[string]any{
				"num_slides": strconv.Itoa(st.In.SlideTarget),
				"draft":      st.Draft,
			}, false)
			if err != nil {
				return nil, fmt.Errorf("review stage: %w", err)
			}
			st.Reviewed = out.Output
			st.Stages = append(st.Stages, out)
			return st, nil
		}),
		compose.WithNodeName("deck.review"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *deckChainState) (*deckChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			language := strings.TrimSpace(st.In.Language)
			if language == "" {
				language = "pt-BR"
			}
			out, err := c.runStage(ctx, st.In, "deck_format", workflowprompt.PromptFormatterV1, map[string]any{
				"language": language,
				"draft":    st.Reviewed,
			}, true)
			if err != nil {
				return nil, fmt.Errorf("format stage: %w", err)
			}
			st.Raw = out.Output
			st.Stages = append(st.Stages, out)
			return st, nil
		}),
		compose.WithNodeName("deck.format"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, st *deckChainState) (*wfmodel.DeckGenerateOutput, error) {
			if st == nil {
				return nil, fmt.Errorf("state is nil")
			}
			if strings.TrimSpace(st.Raw) == "" {
				return nil, fmt.Errorf("empty format stage output")
			}
			return &wfmodel.DeckGenerateOutput{RawPayload: st.Raw, Stages: st.Stages}, nil
		}),
		compose.WithNodeName("deck.finalize"),
	)

	return chain.Compile(ctx)
}

var defaultPromptRegistry = workflowprompt.NewRegistry()

func (c *DeckChain) runStage(ctx context.Context, in *wfmodel.DeckGenerateInput, workflow string, promptID workflowprompt.PromptID, vars map[string]any, jsonOutput bool) (wfmodel.StageTrace, error) {
	if c.factory == nil {
		return wfmodel.StageTrace{}, fmt.Errorf("llm factory not configured")
	}

	ctx = llmctx.WithWorkflowProvider(ctx, workflow, strings.TrimSpace(in.Provider))
	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Provider))
	if err != nil {
		return wfmodel.StageTrace{}, err
	}

	tpl, err := defaultPromptRegistry.ChatTemplate(promptID)
	if err != nil {
		return wfmodel.StageTrace{}, err
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return wfmodel.StageTrace{}, err
	}

	outMsg, err := chatModel.Generate(ctx, msgs, buildDeckModelOptions(in, jsonOutput)...)
	if err != nil && jsonOutput && wfnode.IsResponseFormatUnsupportedError(err) {
		logger.Warn(ctx, "llm json response_format not supported, fallback to prompt-only",
			"workflow", workflow,
			"provider", strings.TrimSpace(in.Provider),
			"model", strings.TrimSpace(in.Model),
			"error", err.Error(),
		)
		outMsg, err = chatModel.Generate(ctx, msgs, buildDeckModelOptions(in, false)...)
	}
	if err != nil {
		return wfmodel.StageTrace{}, err
	}
	if outMsg == nil || strings.TrimSpace(outMsg.Content) == "" {
		return wfmodel.StageTrace{}, fmt.Errorf("empty llm response")
	}

	trace := wfmodel.StageTrace{
		Stage:  workflow,
		Output: outMsg.Content,
		Usage: wfmodel.LLMUsageMeta{
			Provider:    strings.TrimSpace(in.Provider),
			Model:       strings.TrimSpace(in.Model),
			GeneratedAt: time.Now(),
		},
	}
	if in.Temperature != nil {
		trace.Usage.Temperature = float64(*in.Temperature)
	}
	if usage := outMsg.ResponseMeta; usage != nil && usage.Usage != nil {
		trace.Usage.PromptTokens = usage.Usage.PromptTokens
		trace.Usage.CompletionTokens = usage.Usage.CompletionTokens
	}
	return trace, nil
}

func buildDeckModelOptions(in *wfmodel.DeckGenerateInput, jsonOutput bool) []model.Option {
	opts := make([]model.Option, 0, 4)
	if in == nil {
		return opts
	}

	if in.Temperature != nil {
		opts = append(opts, model.WithTemperature(*in.Temperature))
	}
	if in.MaxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*in.MaxTokens))
	}
	if m := strings.TrimSpace(in.Model); m != "" {
		opts = append(opts, model.WithModel(m))
	}

	if jsonOutput {
		opts = append(opts, openaiopts.WithExtraFields(map[string]any{
			"response_format": map[string]any{"type": "json_object"},
		}))
	}

	return opts
}
