package prompt

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed templates/*.txt
var templatesFS embed.FS

// PromptID 模板标识
type PromptID string

const (
	PromptPlannerV1   PromptID = "planner_v1"
	PromptWriterV1    PromptID = "writer_v1"
	PromptReviewerV1  PromptID = "reviewer_v1"
	PromptFormatterV1 PromptID = "formatter_v1"
	PromptImageV1     PromptID = "image_v1"
)

// Registry 模板注册表，按需加载并缓存编译后的 ChatTemplate
type Registry struct {
	mu    sync.RWMutex
	cache map[PromptID]einoprompt.ChatTemplate
}

// NewRegistry 创建模板注册表
func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[PromptID]einoprompt.ChatTemplate),
	}
}

// ChatTemplate 获取编译后的模板
func (r *Registry) ChatTemplate(id PromptID) (einoprompt.ChatTemplate, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if tpl, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[id]; ok {
		return tpl, nil
	}

	systemPath, userPath, err := resolvePromptFiles(id)
	if err != nil {
		return nil, err
	}
	system, err := readEmbeddedText(systemPath)
	if err != nil {
		return nil, err
	}
	user, err := readEmbeddedText(userPath)
	if err != nil {
		return nil, err
	}

	tpl := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(system),
		schema.UserMessage(user),
	)
	r.cache[id] = tpl
	return tpl, nil
}

func resolvePromptFiles(id PromptID) (systemFile string, userFile string, err error) {
	switch id {
	case PromptPlannerV1:
		return "templates/planner_v1.system.txt", "templates/planner_v1.user.txt", nil
	case PromptWriterV1:
		return "templates/writer_v1.system.txt", "templates/writer_v1.user.txt", nil
	case PromptReviewerV1:
		return "templates/reviewer_v1.system.txt", "templates/reviewer_v1.user.txt", nil
	case PromptFormatterV1:
		return "templates/formatter_v1.system.txt", "templates/formatter_v1.user.txt", nil
	case PromptImageV1:
		return "templates/image_v1.system.txt", "templates/image_v1.user.txt", nil
	default:
		return "", "", fmt.Errorf("unknown prompt id: %s", id)
	}
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
