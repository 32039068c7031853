// Package pptx 实现最小可用的 PresentationML 写出器。
// 生态内没有许可证合适的 .pptx 库，这里直接按 OPC 包结构写 zip：
// 一个空白版式加母版主题，每页一个 slide 部件，配图进 media，备注进 notesSlide。
package pptx

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"slidegen-ai-api/internal/domain/entity"
	"slidegen-ai-api/pkg/logger"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render 把排版结果写为 path 处的 .pptx 文件并返回该路径。
// 单张配图文件读取失败按盒级错误记录日志并跳过，不中断渲染。
func (r *Renderer) Render(ctx context.Context, layout *entity.LayoutDeck, path string) (string, error) {
	if layout == nil {
		return "", fmt.Errorf("layout deck is nil")
	}
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("output path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to prepare output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	if err := r.writePackage(ctx, zw, layout); err != nil {
		zw.Close()
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize pptx package: %w", err)
	}
	return path, nil
}

func (r *Renderer) writePackage(ctx context.Context, zw *zip.Writer, layout *entity.LayoutDeck) error {
	hasNotes := false
	for _, s := range layout.Slides {
		if strings.TrimSpace(s.Notes) != "" {
			hasNotes = true
			break
		}
	}

	if err := writePart(zw, "_rels/.rels", relsRoot); err != nil {
		return err
	}
	if err := writePart(zw, "[Content_Types].xml", buildContentTypes(layout, hasNotes)); err != nil {
		return err
	}
	if err := writePart(zw, "ppt/presentation.xml", buildPresentationXML(layout, hasNotes)); err != nil {
		return err
	}
	if err := writePart(zw, "ppt/_rels/presentation.xml.rels", buildPresentationRels(layout, hasNotes)); err != nil {
		return err
	}

	static := map[string]string{
		"ppt/slideMasters/slideMaster1.xml":            slideMasterXML,
		"ppt/slideMasters/_rels/slideMaster1.xml.rels": slideMasterRels,
		"ppt/slideLayouts/slideLayout1.xml":            slideLayoutXML,
		"ppt/slideLayouts/_rels/slideLayout1.xml.rels": slideLayoutRels,
		"ppt/theme/theme1.xml":                         themeXML,
	}
	if hasNotes {
		static["ppt/theme/theme2.xml"] = themeXML
		static["ppt/notesMasters/notesMaster1.xml"] = notesMasterXML
		static["ppt/notesMasters/_rels/notesMaster1.xml.rels"] = notesMasterRels
	}
	for name, content := range static {
		if err := writePart(zw, name, content); err != nil {
			return err
		}
	}

	mediaSeq := 0
	for i, slide := range layout.Slides {
		n := i + 1
		images := r.embedImages(ctx, zw, slide, &mediaSeq)

		if err := writePart(zw, fmt.Sprintf("ppt/slides/slide%d.xml", n), buildSlideXML(slide, images)); err != nil {
			return err
		}
		withNotes := strings.TrimSpace(slide.Notes) != ""
		if err := writePart(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), buildSlideRels(images, withNotes, n)); err != nil {
			return err
		}
		if withNotes {
			if err := writePart(zw, fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", n), buildNotesSlideXML(slide.Notes)); err != nil {
				return err
			}
			if err := writePart(zw, fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", n), buildNotesSlideRels(n)); err != nil {
				return err
			}
		}
	}
	return nil
}

// embedImages 把本页可用配图复制进包内 media 目录。
// 单个文件读不出来只记日志，该盒被跳过。
func (r *Renderer) embedImages(ctx context.Context, zw *zip.Writer, slide entity.LayoutSlide, mediaSeq *int) []slideImage {
	var images []slideImage
	for _, box := range slide.Boxes {
		if box.Kind != entity.BoxKindImage || box.Image == nil || strings.TrimSpace(box.Image.LocalPath) == "" {
			continue
		}
		raw, err := os.ReadFile(box.Image.LocalPath)
		if err != nil {
			logger.Warn(ctx, "failed to read slide image, box skipped",
				"slide_id", slide.ID,
				"path", box.Image.LocalPath,
				"error", err.Error(),
			)
			continue
		}

		*mediaSeq++
		img := slideImage{
			relID:     fmt.Sprintf("rId%d", len(images)+2),
			mediaName: fmt.Sprintf("image%d%s", *mediaSeq, mediaExt(box.Image.LocalPath)),
			localPath: box.Image.LocalPath,
		}
		if err := writeBinaryPart(zw, "ppt/media/"+img.mediaName, raw); err != nil {
			logger.Warn(ctx, "failed to embed slide image, box skipped",
				"slide_id", slide.ID,
				"path", box.Image.LocalPath,
				"error", err.Error(),
			)
			continue
		}
		images = append(images, img)
	}
	return images
}

func buildContentTypes(layout *entity.LayoutDeck, hasNotes bool) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	sb.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	sb.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	sb.WriteString(`<Default Extension="png" ContentType="image/png"/>`)
	sb.WriteString(`<Default Extension="jpeg" ContentType="image/jpeg"/>`)
	sb.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	sb.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	sb.WriteString(`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`)
	sb.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	if hasNotes {
		sb.WriteString(`<Override PartName="/ppt/theme/theme2.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
		sb.WriteString(`<Override PartName="/ppt/notesMasters/notesMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.notesMaster+xml"/>`)
	}
	for i, s := range layout.Slides {
		fmt.Fprintf(&sb, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i+1)
		if strings.TrimSpace(s.Notes) != "" {
			fmt.Fprintf(&sb, `<Override PartName="/ppt/notesSlides/notesSlide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"/>`, i+1)
		}
	}
	sb.WriteString(`</Types>`)
	return sb.String()
}

func buildPresentationXML(layout *entity.LayoutDeck, hasNotes bool) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	sb.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	if hasNotes {
		fmt.Fprintf(&sb, `<p:notesMasterIdLst><p:notesMasterId r:id="rId%d"/></p:notesMasterIdLst>`, len(layout.Slides)+2)
	}
	sb.WriteString(`<p:sldIdLst>`)
	for i := range layout.Slides {
		fmt.Fprintf(&sb, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+2)
	}
	sb.WriteString(`</p:sldIdLst>`)
	fmt.Fprintf(&sb, `<p:sldSz cx="%d" cy="%d"/><p:notesSz cx="6858000" cy="9144000"/>`,
		emu(entity.CanvasWidth), emu(entity.CanvasHeight))
	sb.WriteString(`</p:presentation>`)
	return sb.String()
}

func buildPresentationRels(layout *entity.LayoutDeck, hasNotes bool) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	sb.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>`)
	for i := range layout.Slides {
		fmt.Fprintf(&sb, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, i+2, i+1)
	}
	if hasNotes {
		fmt.Fprintf(&sb, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesMaster" Target="notesMasters/notesMaster1.xml"/>`, len(layout.Slides)+2)
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

func buildSlideRels(images []slideImage, withNotes bool, slideNum int) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	sb.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>`)
	for _, img := range images {
		fmt.Fprintf(&sb, `<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="../media/%s"/>`, img.relID, img.mediaName)
	}
	if withNotes {
		fmt.Fprintf(&sb, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide" Target="../notesSlides/notesSlide%d.xml"/>`, len(images)+2, slideNum)
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

func buildNotesSlideRels(slideNum int) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesMaster" Target="../notesMasters/notesMaster1.xml"/><Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="../slides/slide%d.xml"/></Relationships>`, slideNum)
}

func mediaExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return ".jpeg"
	default:
		return ".png"
	}
}

func writePart(zw *zip.Writer, name, content string) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create package part %s: %w", name, err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		return fmt.Errorf("failed to write package part %s: %w", name, err)
	}
	return nil
}

func writeBinaryPart(zw *zip.Writer, name string, raw []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}
