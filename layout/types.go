package layout

import "github.com/ByLCY/sheetpress/worksheet"

// 该文件定义分页结果，供分页计算、渲染与调试 JSON 共用。

// MeasuredQuestion 是带有渲染高度（mm）的预览题目，仅在一次分页过程中存在。
type MeasuredQuestion struct {
	worksheet.PreviewQuestion
	HeightMM float64 `json:"heightMm"`
}

// Page 记录分配到同一张纸上的题目，顺序即打印顺序。
type Page struct {
	Index     int                `json:"index"`
	Questions []MeasuredQuestion `json:"questions"`
	UsedMM    float64            `json:"usedMm"`
	Oversized bool               `json:"oversized,omitempty"` // 单题超出可用高度，独占一页
}

// Measurement 是一次测量的结果（单位均为 mm）。
type Measurement struct {
	Questions []MeasuredQuestion `json:"-"`
	HeaderMM  float64            `json:"headerMm"`
	GapMM     float64            `json:"gapMm"`
}

// Result 保存一次完整分页的输出。
type Result struct {
	Pages       []Page           `json:"pages"`
	Selected    int              `json:"selectedPage"`
	Header      worksheet.Header `json:"header"`
	HeaderMM    float64          `json:"headerMm"`
	GapMM       float64          `json:"gapMm"`
	AvailableMM float64          `json:"availableMm"`
	Params      Params           `json:"params"`
}

// QuestionCount 返回所有页面上的题目总数。
func (r *Result) QuestionCount() int {
	n := 0
	for _, p := range r.Pages {
		n += len(p.Questions)
	}
	return n
}

// Current 返回当前选中的页面。
func (r *Result) Current() Page {
	if len(r.Pages) == 0 {
		return Page{Questions: []MeasuredQuestion{}}
	}
	return r.Pages[ClampIndex(r.Selected, len(r.Pages))]
}
