package imagegen

import (
	"fmt"

	"github.com/fogleman/gg"
)

const (
	placeholderWidth  = 1280
	placeholderHeight = 720
)

// generatePlaceholder 绘制本地合成占位图，保证流水线在无远端后端时也能出图
func (s *Service) generatePlaceholder(prompt, slideID, filename string) (string, error) {
	dc := gg.NewContext(placeholderWidth, placeholderHeight)

	dc.SetRGB255(50, 50, 80)
	dc.Clear()

	dc.SetRGB255(255, 200, 0)
	dc.DrawString(fmt.Sprintf("ID: %s", slideID), 50, 300)

	dc.SetRGB255(255, 255, 255)
	dc.DrawStringWrapped(prompt, 50, 400, 0, 0, placeholderWidth-100, 1.5, gg.AlignLeft)

	if err := dc.SavePNG(filename); err != nil {
		return "", fmt.Errorf("failed to save placeholder image: %w", err)
	}
	return filename, nil
}
