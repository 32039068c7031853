package chain

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wfmodel "slidegen-ai-api/internal/workflow/model"
)

// fakeChatModel 按调用顺序返回预置回复
type fakeChatModel struct {
	mu      sync.Mutex
	replies []string
	calls   int
}

func (m *fakeChatModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls >= len(m.replies) {
		return nil, fmt.Errorf("no reply configured for call %d", m.calls+1)
	}
	reply := m.replies[m.calls]
	m.calls++
	return &schema.Message{
		Role:    schema.Assistant,
		Content: reply,
		ResponseMeta: &schema.ResponseMeta{
			Usage: &schema.TokenUsage{PromptTokens: 100, CompletionTokens: 50},
		},
	}, nil
}

func (m *fakeChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("stream not supported")
}

type fakeFactory struct {
	model     *fakeChatModel
	err       error
	providers []string
}

func (f *fakeFactory) Get(_ context.Context, name string) (model.BaseChatModel, error) {
	f.providers = append(f.providers, name)
	if f.err != nil {
		return nil, f.err
	}
	return f.model, nil
}

func TestDeckChain_Invoke(t *testing.T) {
	t.Run("四阶段顺序执行并带出轨迹", func(t *testing.T) {
		chat := &fakeChatModel{replies: []string{
			"outline text",
			"draft text",
			"reviewed text",
			`{"meta":{"title":"Plano"},"slides":[]}`,
		}}
		factory := &fakeFactory{model: chat}

		out, err := NewDeckChain(factory).Invoke(context.Background(), &wfmodel.DeckGenerateInput{
			Prompt:        "Crie uma apresentação sobre vendas",
			SourcePreview: "dados do trimestre",
			SlideTarget:   3,
			Provider:      "groq",
			Model:         "llama-3.3-70b-versatile",
		})
		require.NoError(t, err)
		require.NotNil(t, out)

		// 格式化阶段的原始文本即链的终态
		assert.Equal(t, `{"meta":{"title":"Plano"},"slides":[]}`, out.RawPayload)
		assert.Equal(t, 4, chat.calls)

		require.Len(t, out.Stages, 4)
		assert.Equal(t, "deck_plan", out.Stages[0].Stage)
		assert.Equal(t, "deck_write", out.Stages[1].Stage)
		assert.Equal(t, "deck_review", out.Stages[2].Stage)
		assert.Equal(t, "deck_format", out.Stages[3].Stage)
		assert.Equal(t, "outline text", out.Stages[0].Output)
		assert.Equal(t, "reviewed text", out.Stages[2].Output)

		// token 用量与提供商随轨迹记录
		assert.Equal(t, 100, out.Stages[0].Usage.PromptTokens)
		assert.Equal(t, 50, out.Stages[0].Usage.CompletionTokens)
		assert.Equal(t, "groq", out.Stages[0].Usage.Provider)
		assert.Equal(t, []string{"groq", "groq", "groq", "groq"}, factory.providers)
	})

	t.Run("空提示词拒绝执行", func(t *testing.T) {
		c := NewDeckChain(&fakeFactory{model: &fakeChatModel{}})
		_, err := c.Invoke(context.Background(), &wfmodel.DeckGenerateInput{Prompt: "   "})
		assert.Error(t, err)
	})

	t.Run("nil输入返回错误", func(t *testing.T) {
		c := NewDeckChain(&fakeFactory{model: &fakeChatModel{}})
		_, err := c.Invoke(context.Background(), nil)
		assert.Error(t, err)
	})

	t.Run("未配置factory返回错误", func(t *testing.T) {
		_, err := NewDeckChain(nil).Invoke(context.Background(), &wfmodel.DeckGenerateInput{Prompt: "x"})
		assert.Error(t, err)

		var nilChain *DeckChain
		_, err = nilChain.Invoke(context.Background(), &wfmodel.DeckGenerateInput{Prompt: "x"})
		assert.Error(t, err)
	})

	t.Run("中间阶段失败即整体失败", func(t *testing.T) {
		chat := &fakeChatModel{replies: []string{"outline text"}}
		_, err := NewDeckChain(&fakeFactory{model: chat}).Invoke(context.Background(), &wfmodel.DeckGenerateInput{
			Prompt:      "Crie uma apresentação",
			SlideTarget: 3,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "write stage")
	})
}

func TestBuildDeckModelOptions(t *testing.T) {
	temp := float32(0.4)
	maxTokens := 2048

	assert.Empty(t, buildDeckModelOptions(nil, false))
	assert.Len(t, buildDeckModelOptions(&wfmodel.DeckGenerateInput{}, false), 0)
	assert.Len(t, buildDeckModelOptions(&wfmodel.DeckGenerateInput{
		Model:       "gpt-4o-mini",
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	}, true), 4)
}
