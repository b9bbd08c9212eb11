package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/sheetpress/fonts"
	"github.com/ByLCY/sheetpress/layout"
	"github.com/ByLCY/sheetpress/renderer"
)

// Renderer measures and draws worksheet blocks via github.com/tdewolff/canvas.
// It is both the headless layout.Surface and the PDF renderer.Renderer, so a
// block is always composed by the same code whether it is measured or printed.
type Renderer struct {
	opts Options

	fontMu  sync.Mutex
	family  *canvas.FontFamily
	fontErr error
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Surface    = (*Renderer)(nil)
)

// Options configures the canvas renderer. All lengths are mm.
type Options struct {
	PageWidthMM   float64
	SidePaddingMM float64
	GapMM         float64
	// Fonts maps regular/bold/italic to built-in font names (see package fonts).
	Fonts FontSet
}

// FontSet names the built-in fonts used for each style.
type FontSet struct {
	Regular string
	Bold    string
	Italic  string
}

// DefaultOptions returns A4 portrait with 16mm side padding and a 4mm gap.
func DefaultOptions() Options {
	return Options{
		PageWidthMM:   210,
		SidePaddingMM: 16,
		GapMM:         4,
		Fonts:         FontSet{Regular: fonts.Regular, Bold: fonts.Bold, Italic: fonts.Italic},
	}
}

// NewRenderer creates a renderer; zero fields fall back to DefaultOptions.
func NewRenderer(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.PageWidthMM <= 0 {
		opts.PageWidthMM = def.PageWidthMM
	}
	if opts.SidePaddingMM < 0 || opts.SidePaddingMM*2 >= opts.PageWidthMM {
		opts.SidePaddingMM = def.SidePaddingMM
	}
	if opts.GapMM < 0 {
		opts.GapMM = def.GapMM
	}
	if opts.Fonts.Regular == "" {
		opts.Fonts.Regular = def.Fonts.Regular
	}
	if opts.Fonts.Bold == "" {
		opts.Fonts.Bold = def.Fonts.Bold
	}
	if opts.Fonts.Italic == "" {
		opts.Fonts.Italic = def.Fonts.Italic
	}
	return &Renderer{opts: opts}
}

// Options returns the effective options.
func (r *Renderer) Options() Options { return r.opts }

// Mounted 在字体可用时为 true；字体加载失败时无法测量。
func (r *Renderer) Mounted() bool {
	_, err := r.fontFamily()
	return err == nil
}

func (r *Renderer) contentWidth() float64 {
	return r.opts.PageWidthMM - 2*r.opts.SidePaddingMM
}

// Render renders the result into a PDF byte slice. Every page repeats the
// header block, stacks its questions separated by the gap and ends with a
// "Page i of n" footer drawn inside the reserved bottom area.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	p := result.Params
	if err := p.Validate(); err != nil {
		return nil, err
	}

	header, err := r.composeHeader(result.Header)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, p.PageWidthMM, p.PageHeightMM, nil)
	r.applyMeta(writer, result)
	total := len(result.Pages)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(p.PageWidthMM, p.PageHeightMM)
		}
		c := canvas.New(p.PageWidthMM, p.PageHeightMM)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.drawPage(ctx, page, header, p, result.GapMM, total); err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, result *layout.Result) {
	if writer == nil {
		return
	}
	seen := map[string]bool{}
	for _, page := range result.Pages {
		for _, q := range page.Questions {
			seen[q.Kind.Label()] = true
		}
	}
	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	writer.SetInfo(result.Header.Name, "Worksheet", strings.Join(labels, ", "), "", "sheetpress")
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page, header block, p layout.Params, gapMM float64, total int) error {
	left := r.opts.SidePaddingMM
	top := p.PagePaddingMM / 2

	if err := r.drawBlock(ctx, header, left, top); err != nil {
		return err
	}
	y := top + header.height
	for i, q := range page.Questions {
		if i > 0 {
			y += gapMM
		}
		b, err := r.composeQuestion(q.PreviewQuestion)
		if err != nil {
			return err
		}
		if err := r.drawBlock(ctx, b, left, y); err != nil {
			return err
		}
		y += b.height
	}

	// 页脚位于底部预留区内
	footer := fmt.Sprintf("Page %d of %d", page.Index+1, total)
	face, err := r.face(styleSmall, footerColor)
	if err != nil {
		return err
	}
	footerTop := p.PageHeightMM - top - p.ReservedBottomMM + math.Max(p.ReservedBottomMM-face.Metrics().LineHeight, 0)/2
	ctx.DrawText(p.PageWidthMM/2, footerTop+face.Metrics().Ascent, canvas.NewTextLine(face, footer, canvas.Center))
	return nil
}

func (r *Renderer) drawBlock(ctx *canvas.Context, b block, x0, y0 float64) error {
	for _, o := range b.ops {
		switch o.kind {
		case opText:
			face, err := r.face(o.style, textColor)
			if err != nil {
				return err
			}
			anchorX := x0 + o.x
			switch o.align {
			case canvas.Center:
				anchorX += o.w / 2
			case canvas.Right:
				anchorX += o.w
			}
			// 基线位置：行顶部加上字体上升部
			baseline := y0 + o.y + face.Metrics().Ascent
			ctx.DrawText(anchorX, baseline, canvas.NewTextLine(face, o.text, o.align))
		case opRule:
			ctx.SetStrokeColor(ruleColor)
			ctx.SetStrokeWidth(ruleWidth)
			path := &canvas.Path{}
			path.MoveTo(0, 0)
			path.LineTo(o.w, 0)
			ctx.DrawPath(x0+o.x, y0+o.y, path)
		case opBox:
			ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
			ctx.SetStrokeColor(textColor)
			ctx.SetStrokeWidth(ruleWidth)
			ctx.DrawPath(x0+o.x, y0+o.y, canvas.Rectangle(o.w, o.h))
		}
	}
	return nil
}

var (
	textColor   = color.RGBA{30, 30, 30, 255}
	ruleColor   = color.RGBA{120, 120, 120, 255}
	footerColor = color.RGBA{110, 110, 110, 255}
)

// layoutLines 使用贪心换行算法。width/行高均为 mm，字号为 pt。
func (r *Renderer) layoutLines(content string, width float64, st textStyle) ([]textLine, error) {
	spec := styleSpecs[st]
	face, err := r.face(st, textColor)
	if err != nil {
		return nil, err
	}

	lines := greedyWrapTokens(content, width, face)
	textHeight := face.Metrics().LineHeight
	lineHeight := layout.Length{Value: spec.sizePt, Unit: layout.UnitPT}.ToMM() * spec.lineFactor
	if textHeight <= 0 {
		textHeight = lineHeight
	}
	leading := math.Max(lineHeight-textHeight, 0)
	if len(lines) == 0 {
		lines = []textLine{{Content: "", Width: 0}}
	}
	for i := range lines {
		lines[i].Height = textHeight
		if i == 0 {
			lines[i].GapBefore = 0
		} else {
			lines[i].GapBefore = leading
		}
	}
	return lines, nil
}

func (r *Renderer) face(st textStyle, col color.Color) (*canvas.FontFace, error) {
	family, err := r.fontFamily()
	if err != nil {
		return nil, err
	}
	spec, ok := styleSpecs[st]
	if !ok {
		spec = styleSpecs[styleBody]
	}
	return family.Face(spec.sizePt, col, spec.font, canvas.FontNormal), nil
}

// fontFamily 首次调用时加载常规、粗体与斜体字体，结果（包括错误）会被缓存。
func (r *Renderer) fontFamily() (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if r.family != nil || r.fontErr != nil {
		return r.family, r.fontErr
	}

	family := canvas.NewFontFamily("sheetpress")
	load := []struct {
		name  string
		style canvas.FontStyle
	}{
		{r.opts.Fonts.Regular, canvas.FontRegular},
		{r.opts.Fonts.Bold, canvas.FontBold},
		{r.opts.Fonts.Italic, canvas.FontItalic},
	}
	for _, f := range load {
		data, err := fonts.Load(f.name)
		if err != nil {
			r.fontErr = err
			return nil, err
		}
		if err := family.LoadFont(data, 0, f.style); err != nil {
			r.fontErr = fmt.Errorf("加载字体 %s 失败: %w", f.name, err)
			return nil, r.fontErr
		}
	}
	r.family = family
	return family, nil
}
