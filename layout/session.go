package layout

import "github.com/ByLCY/sheetpress/worksheet"

// Session 持有预览的当前分页与选中页，供界面层在配置、页眉字段或视口变化时调用 Recompute。
// 每次重算都从当前输入完整计算并整体替换结果，不做增量修补。Session 不是并发安全的。
type Session struct {
	params  Params
	surface Surface
	result  Result
}

// NewSession 创建一个只含一张空页的会话。
func NewSession(s Surface, p Params) *Session {
	return &Session{
		params:  p,
		surface: s,
		result: Result{
			Pages:       []Page{{Index: 0, Questions: []MeasuredQuestion{}}},
			Params:      p,
			AvailableMM: AvailableMM(p, 0),
		},
	}
}

// Recompute 重新测量并分页。测量面未挂载时跳过（返回 false, nil），保留旧结果；
// 测量出错时同样保留旧结果并返回错误。
func (s *Session) Recompute(src Source) (bool, error) {
	if s.surface == nil || !s.surface.Mounted() {
		return false, nil
	}
	if err := s.params.Validate(); err != nil {
		return false, err
	}
	header := src.Header()
	m, err := Measure(s.surface, src.Questions(), header)
	if err != nil {
		return false, err
	}
	s.result = Layout(m, header, s.params, s.result.Selected)
	return true, nil
}

// Resize 替换测量面（视口尺寸变化后）并立即重算。
func (s *Session) Resize(surface Surface, src Source) (bool, error) {
	s.surface = surface
	return s.Recompute(src)
}

// SetParams 更新页面参数，下一次 Recompute 生效。
func (s *Session) SetParams(p Params) { s.params = p }

// Result 返回最近一次成功分页的结果。
func (s *Session) Result() Result { return s.result }

// Pages 返回当前页面列表，长度至少为 1。
func (s *Session) Pages() []Page { return s.result.Pages }

// Selected 返回当前页码，始终在 [0, len(Pages())-1] 内。
func (s *Session) Selected() int { return s.result.Selected }

// Current 返回当前页。
func (s *Session) Current() Page { return s.result.Current() }

// HasNext 表示“下一页”是否可用。
func (s *Session) HasNext() bool { return s.result.Selected < len(s.result.Pages)-1 }

// HasPrev 表示“上一页”是否可用。
func (s *Session) HasPrev() bool { return s.result.Selected > 0 }

// Next 前进一页；已在最后一页时不做任何事。
func (s *Session) Next() bool {
	if !s.HasNext() {
		return false
	}
	s.result.Selected++
	return true
}

// Prev 后退一页；已在第一页时不做任何事。
func (s *Session) Prev() bool {
	if !s.HasPrev() {
		return false
	}
	s.result.Selected--
	return true
}

// Select 跳转到指定页，越界时修正到有效范围。
func (s *Session) Select(i int) {
	s.result.Selected = ClampIndex(i, len(s.result.Pages))
}

// Questions 返回当前结果中按页排列的全部题目（便于调试）。
func (s *Session) Questions() []worksheet.PreviewQuestion {
	var out []worksheet.PreviewQuestion
	for _, p := range s.result.Pages {
		for _, q := range p.Questions {
			out = append(out, q.PreviewQuestion)
		}
	}
	return out
}
