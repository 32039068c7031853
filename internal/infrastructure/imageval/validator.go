// Package imageval 提供配图校验：文件存在且达到最小体积。
// 语义校验（画面是否贴合提示词）留作后续扩展。
package imageval

import (
	"context"
	"os"
	"strings"

	"slidegen-ai-api/pkg/logger"
)

const defaultMinFileSize = 1024

// Validator 物理校验器
type Validator struct {
	minFileSize int64
}

// NewValidator 创建校验器；minFileSize <= 0 时使用默认阈值
func NewValidator(minFileSize int64) *Validator {
	if minFileSize <= 0 {
		minFileSize = defaultMinFileSize
	}
	return &Validator{minFileSize: minFileSize}
}

// Validate 检查路径非空、文件存在且体积达标
func (v *Validator) Validate(ctx context.Context, path, prompt string) bool {
	if v == nil {
		return false
	}
	if strings.TrimSpace(path) == "" {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		logger.Warn(ctx, "image file not found", "path", path)
		return false
	}
	if info.Size() < v.minFileSize {
		logger.Warn(ctx, "image file below minimum size",
			"path", path,
			"size", info.Size(),
			"min", v.minFileSize,
		)
		return false
	}
	return true
}
