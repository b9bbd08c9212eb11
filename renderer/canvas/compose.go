package canvasrenderer

import (
	"fmt"
	"math"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/sheetpress/layout"
	"github.com/ByLCY/sheetpress/worksheet"
)

// 该文件把题目与页眉组装成与纸面一致的块（坐标单位 mm，原点为块左上角）。
// 测量与绘制共用同一份组装结果，保证预览高度与打印一致。

type textStyle int

const (
	styleBody textStyle = iota
	styleBold
	styleItalic
	styleSmall
	styleTitle
)

type styleSpec struct {
	sizePt     float64
	font       canvas.FontStyle
	lineFactor float64
}

var styleSpecs = map[textStyle]styleSpec{
	styleBody:   {sizePt: 11, font: canvas.FontRegular, lineFactor: 1.3},
	styleBold:   {sizePt: 11, font: canvas.FontBold, lineFactor: 1.3},
	styleItalic: {sizePt: 10, font: canvas.FontItalic, lineFactor: 1.3},
	styleSmall:  {sizePt: 9, font: canvas.FontRegular, lineFactor: 1.25},
	styleTitle:  {sizePt: 18, font: canvas.FontBold, lineFactor: 1.2},
}

const (
	numberColumnMM = 9   // 题号列宽
	marksColumnMM  = 24  // 分值标签列宽
	optionIndentMM = 4   // 选项相对题干的缩进
	optionBoxMM    = 2.8 // 选项方框边长
	answerRuleMM   = 8   // 作答横线行距
	blockPadMM     = 1.5 // 题块底部留白
	ruleWidth      = 0.2
)

type opKind int

const (
	opText opKind = iota
	opRule
	opBox
)

// op 是块内的一条绘制指令；文本的 y 为行顶部。
type op struct {
	kind  opKind
	style textStyle
	align canvas.TextAlign
	x, y  float64
	w, h  float64
	text  string
}

// block 是组装好的题块或页眉。
type block struct {
	ops    []op
	height float64
}

type composer struct {
	r     *Renderer
	width float64
	y     float64
	ops   []op
}

func (r *Renderer) newComposer() *composer {
	return &composer{r: r, width: r.contentWidth()}
}

func (c *composer) finish() block {
	return block{ops: c.ops, height: c.y}
}

func (c *composer) space(mm float64) { c.y += mm }

// lines 按宽度换行并返回行列表及总高度，不推进游标。
func (c *composer) lines(content string, width float64, st textStyle) ([]textLine, float64, error) {
	lines, err := c.r.layoutLines(content, width, st)
	if err != nil {
		return nil, 0, err
	}
	total := 0.0
	for _, ln := range lines {
		total += ln.GapBefore + ln.Height
	}
	return lines, total, nil
}

// place 把已换行的文本写入指令列表，顶部为 top，返回占用高度。
func (c *composer) place(lines []textLine, x, top, width float64, st textStyle, align canvas.TextAlign) float64 {
	y := top
	for _, ln := range lines {
		y += ln.GapBefore
		c.ops = append(c.ops, op{kind: opText, style: st, align: align, x: x, y: y, w: width, h: ln.Height, text: ln.Content})
		y += ln.Height
	}
	return y - top
}

// text 在当前游标处写入一段换行文本并推进游标。
func (c *composer) text(content string, x, width float64, st textStyle, align canvas.TextAlign) error {
	lines, _, err := c.lines(content, width, st)
	if err != nil {
		return err
	}
	c.y += c.place(lines, x, c.y, width, st, align)
	return nil
}

// rule 在下一行距处画一条作答横线。
func (c *composer) rule(x, width float64) {
	c.y += answerRuleMM
	c.ops = append(c.ops, op{kind: opRule, x: x, y: c.y, w: width})
}

// composeQuestion 组装单道题：题号、题干、分值，以及按题型附加的选项或作答区。
func (r *Renderer) composeQuestion(q worksheet.PreviewQuestion) (block, error) {
	c := r.newComposer()
	textWidth := c.width - numberColumnMM - marksColumnMM

	stem, stemH, err := c.lines(q.DisplayText, textWidth, styleBody)
	if err != nil {
		return block{}, err
	}
	number, numberH, err := c.lines(fmt.Sprintf("%d.", q.SequenceNumber), numberColumnMM, styleBold)
	if err != nil {
		return block{}, err
	}
	marks, marksH, err := c.lines(marksLabel(q.Marks), marksColumnMM, styleSmall)
	if err != nil {
		return block{}, err
	}
	c.place(number, 0, 0, numberColumnMM, styleBold, canvas.Left)
	c.place(stem, numberColumnMM, 0, textWidth, styleBody, canvas.Left)
	c.place(marks, c.width-marksColumnMM, 0, marksColumnMM, styleSmall, canvas.Right)
	c.y = math.Max(stemH, math.Max(numberH, marksH))

	indent := float64(numberColumnMM + optionIndentMM)
	inner := c.width - indent
	switch q.Kind {
	case worksheet.KindMultipleChoice:
		c.space(1)
		for i := 0; i < q.OptionCount; i++ {
			if err := c.option(indent, inner, fmt.Sprintf("%s.  Option %s", optionLetter(i), optionLetter(i))); err != nil {
				return block{}, err
			}
		}
	case worksheet.KindMatching:
		c.space(1)
		half := inner / 2
		for i := 0; i < q.OptionCount; i++ {
			left, lh, err := c.lines(fmt.Sprintf("%d.  Item %d  ________", i+1, i+1), half, styleBody)
			if err != nil {
				return block{}, err
			}
			right, rh, err := c.lines(fmt.Sprintf("%s.  Match %s", optionLetter(i), optionLetter(i)), half, styleBody)
			if err != nil {
				return block{}, err
			}
			c.place(left, indent, c.y, half, styleBody, canvas.Left)
			c.place(right, indent+half, c.y, half, styleBody, canvas.Left)
			c.y += math.Max(lh, rh)
		}
	case worksheet.KindTrueFalse:
		c.space(1)
		top := c.y
		if err := c.option(indent, 30, "True"); err != nil {
			return block{}, err
		}
		c.y = top
		if err := c.option(indent+32, 30, "False"); err != nil {
			return block{}, err
		}
	case worksheet.KindShortAnswer:
		for i := 0; i < 2; i++ {
			c.rule(numberColumnMM, c.width-numberColumnMM)
		}
	case worksheet.KindEssay:
		for i := 0; i < 8; i++ {
			c.rule(numberColumnMM, c.width-numberColumnMM)
		}
	case worksheet.KindFillBlank:
		c.rule(numberColumnMM, (c.width-numberColumnMM)/2)
	}
	c.space(blockPadMM)
	return c.finish(), nil
}

// option 写入一行带方框的选项。
func (c *composer) option(x, width float64, label string) error {
	lines, h, err := c.lines(label, width-optionBoxMM-2, styleBody)
	if err != nil {
		return err
	}
	first := h
	if len(lines) > 0 {
		first = lines[0].Height
	}
	c.ops = append(c.ops, op{kind: opBox, x: x, y: c.y + (first-optionBoxMM)/2, w: optionBoxMM, h: optionBoxMM})
	c.y += c.place(lines, x+optionBoxMM+2, c.y, width-optionBoxMM-2, styleBody, canvas.Left)
	return nil
}

// composeHeader 组装页眉：标题、用时与总分、阅读材料数、姓名与日期栏、分隔线。
func (r *Renderer) composeHeader(h worksheet.Header) (block, error) {
	c := r.newComposer()
	title := h.Name
	if title == "" {
		title = "Untitled Worksheet"
	}
	if err := c.text(title, 0, c.width, styleTitle, canvas.Center); err != nil {
		return block{}, err
	}
	c.space(1)
	meta := fmt.Sprintf("Time: %d minutes · Total marks: %d", h.EstimatedMinutes, h.TotalMarks)
	if err := c.text(meta, 0, c.width, styleSmall, canvas.Center); err != nil {
		return block{}, err
	}
	if h.PassageCount > 0 {
		if err := c.text(fmt.Sprintf("Reading passages: %d", h.PassageCount), 0, c.width, styleItalic, canvas.Center); err != nil {
			return block{}, err
		}
	}
	c.space(4)

	// 姓名与日期同一行
	top := c.y
	name, nameH, err := c.lines("Name:", 16, styleBody)
	if err != nil {
		return block{}, err
	}
	date, _, err := c.lines("Date:", 14, styleBody)
	if err != nil {
		return block{}, err
	}
	dateX := c.width * 0.65
	c.place(name, 0, top, 16, styleBody, canvas.Left)
	c.place(date, dateX, top, 14, styleBody, canvas.Left)
	c.ops = append(c.ops,
		op{kind: opRule, x: 16, y: top + nameH, w: dateX - 16 - 6},
		op{kind: opRule, x: dateX + 14, y: top + nameH, w: c.width - dateX - 14},
	)
	c.y = top + nameH + 3
	c.ops = append(c.ops, op{kind: opRule, x: 0, y: c.y, w: c.width})
	c.space(3)
	return c.finish(), nil
}

func marksLabel(marks int) string {
	if marks == 1 {
		return "[1 mark]"
	}
	return fmt.Sprintf("[%d marks]", marks)
}

// optionLetter 返回第 i 个选项的字母标记（A..Z）。
func optionLetter(i int) string {
	if i < 0 || i >= 26 {
		return fmt.Sprintf("%d", i+1)
	}
	return string(rune('A' + i))
}

// QuestionHeightMM 返回题块高度（mm）。
func (r *Renderer) QuestionHeightMM(q worksheet.PreviewQuestion) (float64, error) {
	b, err := r.composeQuestion(q)
	if err != nil {
		return 0, err
	}
	return b.height, nil
}

// QuestionHeightPx 实现 layout.Surface。
func (r *Renderer) QuestionHeightPx(q worksheet.PreviewQuestion) (float64, error) {
	mm, err := r.QuestionHeightMM(q)
	if err != nil {
		return 0, err
	}
	return layout.MMToPx(mm), nil
}

// HeaderHeightPx 实现 layout.Surface。
func (r *Renderer) HeaderHeightPx(h worksheet.Header) (float64, error) {
	b, err := r.composeHeader(h)
	if err != nil {
		return 0, err
	}
	return layout.MMToPx(b.height), nil
}

// GapPx 实现 layout.Surface。
func (r *Renderer) GapPx() float64 { return layout.MMToPx(r.opts.GapMM) }
