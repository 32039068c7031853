package prompt

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ChatTemplate(t *testing.T) {
	// 每个已注册模板必须能从嵌入文件加载并完成变量渲染
	tests := []struct {
		id   PromptID
		vars map[string]any
	}{
		{PromptPlannerV1, map[string]any{
			"num_slides":  "5",
			"user_prompt": "Crie uma apresentação sobre vendas",
			"source_text": "dados do trimestre",
		}},
		{PromptWriterV1, map[string]any{
			"num_slides": "5",
			"outline":    "1. Abertura",
		}},
		{PromptReviewerV1, map[string]any{
			"num_slides": "5",
			"draft":      "rascunho",
		}},
		{PromptFormatterV1, map[string]any{
			"language": "pt-BR",
			"draft":    "rascunho revisado",
		}},
		{PromptImageV1, map[string]any{
			"title":   "Arquitetura",
			"bullets": "- camadas",
		}},
	}

	r := NewRegistry()
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			tpl, err := r.ChatTemplate(tt.id)
			require.NoError(t, err)

			msgs, err := tpl.Format(context.Background(), tt.vars)
			require.NoError(t, err)
			require.Len(t, msgs, 2)
			assert.Equal(t, schema.System, msgs[0].Role)
			assert.Equal(t, schema.User, msgs[1].Role)
			assert.NotEmpty(t, msgs[0].Content)
			assert.NotEmpty(t, msgs[1].Content)
		})
	}

	t.Run("变量注入到用户消息", func(t *testing.T) {
		tpl, err := r.ChatTemplate(PromptImageV1)
		require.NoError(t, err)
		msgs, err := tpl.Format(context.Background(), map[string]any{
			"title":   "Arquitetura",
			"bullets": "- camadas",
		})
		require.NoError(t, err)
		assert.Contains(t, msgs[1].Content, "Arquitetura")
	})

	t.Run("未知模板返回错误", func(t *testing.T) {
		_, err := r.ChatTemplate(PromptID("bogus_v9"))
		assert.Error(t, err)
	})

	t.Run("nil注册表安全返回错误", func(t *testing.T) {
		var nilReg *Registry
		_, err := nilReg.ChatTemplate(PromptPlannerV1)
		assert.Error(t, err)
	})
}
