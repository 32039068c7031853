package pptx

import (
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"slidegen-ai-api/internal/domain/entity"
)

// EMU（English Metric Units）换算：1 英寸 = 914400 EMU
const emuPerInch = 914400

func emu(inches float64) int64 {
	return int64(math.Round(inches * emuPerInch))
}

// slideImage 写入 zip 的媒体资源与它在 slide 内的关系 id
type slideImage struct {
	relID     string
	mediaName string
	localPath string
}

// buildSlideXML 把一页排版结果转为 slide 部件 XML。
// 文本盒逐段输出，图片盒通过 r:embed 引用媒体关系。
func buildSlideXML(s entity.LayoutSlide, images []slideImage) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree>`)
	sb.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)

	shapeID := 2
	imageIdx := 0
	for _, box := range s.Boxes {
		switch box.Kind {
		case entity.BoxKindText:
			sb.WriteString(textShapeXML(shapeID, box))
			shapeID++
		case entity.BoxKindImage:
			if imageIdx < len(images) {
				sb.WriteString(pictureShapeXML(shapeID, box, images[imageIdx].relID))
				shapeID++
				imageIdx++
			}
		}
	}

	sb.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return sb.String()
}

func textShapeXML(id int, box entity.LayoutBox) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, id, id)
	fmt.Fprintf(&sb, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`,
		emu(box.X), emu(box.Y), emu(box.W), emu(box.H))
	sb.WriteString(`<p:txBody><a:bodyPr wrap="square"/><a:lstStyle/>`)

	lines := strings.Split(box.Text, "\n")
	if box.Text == "" {
		lines = nil
	}
	if len(lines) == 0 {
		sb.WriteString(`<a:p/>`)
	}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			sb.WriteString(`<a:p/>`)
			continue
		}
		fmt.Fprintf(&sb, `<a:p><a:r><a:rPr lang="pt-BR" sz="%d00" dirty="0"/><a:t>%s</a:t></a:r></a:p>`,
			fontSizeOrDefault(box.FontSize), escapeXML(line))
	}

	sb.WriteString(`</p:txBody></p:sp>`)
	return sb.String()
}

func pictureShapeXML(id int, box entity.LayoutBox, relID string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Image %d"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>`, id, id)
	fmt.Fprintf(&sb, `<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`, relID)
	fmt.Fprintf(&sb, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`,
		emu(box.X), emu(box.Y), emu(box.W), emu(box.H))
	return sb.String()
}

func buildNotesSlideXML(notes string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<p:notes xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree>`)
	sb.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)
	sb.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Notes Placeholder"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/><a:lstStyle/>`)
	for _, line := range strings.Split(notes, "\n") {
		fmt.Fprintf(&sb, `<a:p><a:r><a:rPr lang="pt-BR" dirty="0"/><a:t>%s</a:t></a:r></a:p>`, escapeXML(line))
	}
	sb.WriteString(`</p:txBody></p:sp></p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:notes>`)
	return sb.String()
}

func fontSizeOrDefault(size int) int {
	if size <= 0 {
		return 18
	}
	return size
}

func escapeXML(s string) string {
	var sb strings.Builder
	if err := xml.EscapeText(&sb, []byte(s)); err != nil {
		return ""
	}
	return sb.String()
}
