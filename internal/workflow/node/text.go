package node

import (
	"regexp"
	"strings"
)

// 提示词中的目标页数声明，例如 "8 slides"
var slideTargetRe = regexp.MustCompile(`(\d+)\s+slides`)

// DetectSlideTarget 从用户提示词中识别目标页数，未声明时返回 fallback
func DetectSlideTarget(prompt string, fallback int) int {
	m := slideTargetRe.FindStringSubmatch(strings.ToLower(prompt))
	if m == nil {
		return fallback
	}
	n := 0
	for _, r := range m[1] {
		n = n*10 + int(r-'0')
		if n > 1000 {
			return fallback
		}
	}
	if n <= 0 {
		return fallback
	}
	return n
}

// TruncateWords 超过 maxWords 时截断并追加省略号
func TruncateWords(text string, maxWords int) string {
	if text == "" || maxWords <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}
	return strings.Join(words[:maxWords], " ") + "..."
}

// TruncateByRunes 按字符数截断，用于限制素材预览长度
func TruncateByRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}
