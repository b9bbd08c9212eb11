package layout

import (
	"fmt"
	"math"

	"github.com/ByLCY/sheetpress/worksheet"
)

// Measure 通过测量面读取每道题、页眉与间距的像素高度，并换算为毫米。
func Measure(s Surface, questions []worksheet.PreviewQuestion, header worksheet.Header) (Measurement, error) {
	if s == nil || !s.Mounted() {
		return Measurement{}, ErrNoSurface
	}
	headerPx, err := s.HeaderHeightPx(header)
	if err != nil {
		return Measurement{}, fmt.Errorf("测量页眉失败: %w", err)
	}
	m := Measurement{
		Questions: make([]MeasuredQuestion, 0, len(questions)),
		HeaderMM:  PxToMM(headerPx),
		GapMM:     PxToMM(s.GapPx()),
	}
	for _, q := range questions {
		px, err := s.QuestionHeightPx(q)
		if err != nil {
			return Measurement{}, fmt.Errorf("测量第 %d 题失败: %w", q.SequenceNumber, err)
		}
		m.Questions = append(m.Questions, MeasuredQuestion{PreviewQuestion: q, HeightMM: PxToMM(px)})
	}
	return m, nil
}

// AvailableMM 计算每页可用于题目的高度：
// max(下限, 页高 - 内边距 - 页眉 - 底部预留 - 取整容差)。
func AvailableMM(p Params, headerMM float64) float64 {
	avail := p.PageHeightMM - p.PagePaddingMM - headerMM - p.ReservedBottomMM - p.RoundingBufferMM
	return math.Max(p.MinAvailableMM, avail)
}

// Paginate 以首次适配、只进不退的贪心策略将题目装入页面，不重排、不回溯。
// 返回值至少包含一页（题目为空时为一张空页）。
func Paginate(items []MeasuredQuestion, headerMM, gapMM float64, p Params) []Page {
	available := AvailableMM(p, headerMM)

	var pages []Page
	var current []MeasuredQuestion
	used := 0.0

	flush := func(oversized bool) {
		if len(current) == 0 {
			return
		}
		pages = append(pages, Page{
			Index:     len(pages),
			Questions: current,
			UsedMM:    used,
			Oversized: oversized,
		})
		current = nil
		used = 0
	}

	for _, item := range items {
		h := item.HeightMM
		if h >= available {
			// 超高题目独占一页，先结束当前页
			flush(false)
			current = []MeasuredQuestion{item}
			used = h
			flush(true)
			continue
		}
		extraGap := 0.0
		if len(current) > 0 {
			extraGap = gapMM
		}
		if used+extraGap+h <= available {
			current = append(current, item)
			used += extraGap + h
			continue
		}
		// 放不下：换页，新页不计前导间距
		flush(false)
		current = []MeasuredQuestion{item}
		used = h
	}
	flush(false)

	if len(pages) == 0 {
		pages = []Page{{Index: 0, Questions: []MeasuredQuestion{}}}
	}
	return pages
}

// ClampIndex 将页码限制在 [0, n-1]；n 为 0 时返回 0。
func ClampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Layout 是纯函数：测量结果 + 参数 + 旧页码 → 分页结果与修正后的页码。
func Layout(m Measurement, header worksheet.Header, p Params, selected int) Result {
	pages := Paginate(m.Questions, m.HeaderMM, m.GapMM, p)
	return Result{
		Pages:       pages,
		Selected:    ClampIndex(selected, len(pages)),
		Header:      header,
		HeaderMM:    m.HeaderMM,
		GapMM:       m.GapMM,
		AvailableMM: AvailableMM(p, m.HeaderMM),
		Params:      p,
	}
}

// Build 测量并分页一次，不保留任何状态。
func Build(s Surface, src Source, p Params, selected int) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	header := src.Header()
	m, err := Measure(s, src.Questions(), header)
	if err != nil {
		return nil, err
	}
	res := Layout(m, header, p, selected)
	return &res, nil
}
