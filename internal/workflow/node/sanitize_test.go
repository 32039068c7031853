package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"空输入", "", ""},
		{"项目符号归一化", "• Primeiro item\n• Segundo item", "- Primeiro item\n- Segundo item"},
		{"星号项目符号", "* item um\n* item dois", "- item um\n- item dois"},
		{"折叠水平空白", "muito    espaço\taqui", "muito espaço aqui"},
		{"折叠连续空行", "a\n\n\n\nb", "a\n\nb"},
		{"去除首尾空白", "   texto   ", "texto"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"• Bullet   one\n\n\n• Bullet two",
		"normal text",
		"  \t mixed \n\n whitespace \n",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once))
	}
}
