package imagegen

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidegen-ai-api/internal/config"
)

func TestNewService(t *testing.T) {
	t.Run("准备输出目录", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "assets")
		svc, err := NewService(config.ImageConfig{Backend: BackendPlaceholder, OutputDir: dir})
		require.NoError(t, err)

		info, statErr := os.Stat(dir)
		require.NoError(t, statErr)
		assert.True(t, info.IsDir())
		assert.Equal(t, BackendPlaceholder, svc.Backend())
	})

	t.Run("openai无APIKey时退回占位后端", func(t *testing.T) {
		svc, err := NewService(config.ImageConfig{Backend: BackendOpenAI, OutputDir: t.TempDir()})
		require.NoError(t, err)
		assert.Equal(t, BackendPlaceholder, svc.Backend())
	})

	t.Run("openai带APIKey时启用远端后端", func(t *testing.T) {
		svc, err := NewService(config.ImageConfig{
			Backend:   BackendOpenAI,
			APIKey:    "sk-test",
			OutputDir: t.TempDir(),
			Timeout:   time.Second,
		})
		require.NoError(t, err)
		assert.Equal(t, BackendOpenAI, svc.Backend())
	})
}

func TestService_Generate_Placeholder(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewService(config.ImageConfig{Backend: BackendPlaceholder, OutputDir: dir})
	require.NoError(t, err)

	path, err := svc.Generate(context.Background(), "Arquitetura em camadas", "s2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "s2_"))
	assert.Equal(t, ".png", filepath.Ext(path))

	// 产出必须是可解码的 PNG
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 1280, img.Bounds().Dx())
	assert.Equal(t, 720, img.Bounds().Dy())
}

func TestService_Generate_EmptyPrompt(t *testing.T) {
	svc, err := NewService(config.ImageConfig{Backend: BackendPlaceholder, OutputDir: t.TempDir()})
	require.NoError(t, err)

	path, err := svc.Generate(context.Background(), "   ", "s1")
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestService_Generate_NilService(t *testing.T) {
	var svc *Service
	_, err := svc.Generate(context.Background(), "x", "s1")
	assert.Error(t, err)
}
