package layout

import (
	"errors"
	"fmt"

	"github.com/ByLCY/sheetpress/worksheet"
)

// Params 描述物理页面与安全余量（单位 mm）。余量取值依赖下游打印样式，因此全部可配置。
type Params struct {
	PageWidthMM      float64 `json:"pageWidthMm"`
	PageHeightMM     float64 `json:"pageHeightMm"`
	PagePaddingMM    float64 `json:"pagePaddingMm"`    // 上下内边距之和
	ReservedBottomMM float64 `json:"reservedBottomMm"` // 页脚与控件预留
	RoundingBufferMM float64 `json:"roundingBufferMm"` // 亚像素与排版取整容差
	MinAvailableMM   float64 `json:"minAvailableMm"`   // 可用高度下限，保证页眉过高时仍能前进
}

// DefaultParams 返回 A4 纵向的默认参数。
func DefaultParams() Params {
	return Params{
		PageWidthMM:      210,
		PageHeightMM:     297,
		PagePaddingMM:    28,
		ReservedBottomMM: 10,
		RoundingBufferMM: 3,
		MinAvailableMM:   40,
	}
}

// Validate 检查参数是否可用于分页。
func (p Params) Validate() error {
	if p.PageHeightMM <= 0 || p.PageWidthMM <= 0 {
		return fmt.Errorf("layout: 页面尺寸必须为正数 (%gx%g)", p.PageWidthMM, p.PageHeightMM)
	}
	if p.PagePaddingMM < 0 || p.ReservedBottomMM < 0 || p.RoundingBufferMM < 0 {
		return fmt.Errorf("layout: 页边距与余量不能为负数")
	}
	if p.MinAvailableMM <= 0 {
		return fmt.Errorf("layout: 可用高度下限必须为正数")
	}
	return nil
}

// ErrNoSurface 表示测量面尚未挂载。
var ErrNoSurface = errors.New("layout: 测量面不可用")

// Surface 是测量能力：以真实物理比例离屏渲染题目与页眉，并读回设备像素高度。
// 所有读数都必须与最终打印使用同一坐标空间。
type Surface interface {
	// Mounted 为 false 时跳过本次分页，保留上一次结果。
	Mounted() bool
	QuestionHeightPx(q worksheet.PreviewQuestion) (float64, error)
	HeaderHeightPx(h worksheet.Header) (float64, error)
	// GapPx 返回列表配置的题目间距。
	GapPx() float64
}

// Source 提供分页输入，*worksheet.Form 与 worksheet.Definition 都满足该接口。
type Source interface {
	Questions() []worksheet.PreviewQuestion
	Header() worksheet.Header
}
