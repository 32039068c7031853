package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectSlideTarget(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   int
	}{
		{"显式声明页数", "Create a presentation with 8 slides about Go", 8},
		{"大写提示词", "MAKE 12 SLIDES ON MICROSERVICES", 12},
		{"未声明页数", "a deck about distributed systems", 5},
		{"数字与单词间多个空格", "quero 7  slides sobre IA", 7},
		{"零页回退默认值", "0 slides please", 5},
		{"超出上限回退默认值", "99999 slides about everything", 5},
		{"空提示词", "", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSlideTarget(tt.prompt, 5))
		})
	}
}

func TestTruncateWords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWords int
		want     string
	}{
		{"不超限原样返回", "short title", 8, "short title"},
		{"恰好等于上限", "one two three", 3, "one two three"},
		{"超限截断加省略号", "one two three four five", 3, "one two three..."},
		{"空文本", "", 8, ""},
		{"非法上限原样返回", "a b c", 0, "a b c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateWords(tt.text, tt.maxWords))
		})
	}
}

func TestTruncateByRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxRunes int
		want     string
	}{
		{"不超限原样返回", "abcdef", 10, "abcdef"},
		{"按字符截断", "abcdef", 3, "abc"},
		{"多字节字符不截半", "apresentação", 9, "apresenta"},
		{"上限为零返回空", "abc", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateByRunes(tt.input, tt.maxRunes))
		})
	}
}
