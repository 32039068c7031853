// Package node 提供工作流内部的纯文本处理工具
package node

import (
	"regexp"
	"strings"
)

var (
	// 常见项目符号统一为 "- " 前缀
	bulletGlyphRe = regexp.MustCompile(`[\x{2022}\x{2023}\x{25E6}\x{2043}\x{2219}*]\s*`)
	// 水平空白折叠为单个空格
	horizontalSpaceRe = regexp.MustCompile(`[ \t\r\f\v]+`)
	// 连续空行折叠为一个空行
	blankLinesRe = regexp.MustCompile(`\n\s*\n+`)
)

// Sanitize 清洗原始素材文本：归一化项目符号、折叠多余空白与空行。
// 纯函数且幂等；空输入返回空串。
func Sanitize(text string) string {
	if text == "" {
		return ""
	}
	text = bulletGlyphRe.ReplaceAllString(text, "- ")
	text = horizontalSpaceRe.ReplaceAllString(text, " ")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
