package layout

import (
	"strconv"
	"strings"
)

// 本文件定义长度单位与换算。CSS 像素与毫米的比例固定为 96/25.4，
// 与打印输出保持一致，而不是按显示器 DPI 测量。

// Unit 表示长度的原始单位。
type Unit int

const (
	UnitNone Unit = iota // 无单位数值
	UnitMM               // 毫米
	UnitCM               // 厘米
	UnitIN               // 英寸
	UnitPT               // 点
	UnitPX               // CSS 像素
)

const (
	PxPerInch = 96.0
	MmPerInch = 25.4

	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// PxToMM 将设备像素换算为毫米：mm = px * 25.4 / 96。
func PxToMM(px float64) float64 { return px * MmPerInch / PxPerInch }

// MMToPx 将毫米换算为设备像素。
func MMToPx(mm float64) float64 { return mm * PxPerInch / MmPerInch }

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	case UnitPX:
		return "px"
	default:
		return ""
	}
}

// Length 保留数值及其原始单位。
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// ToMM 换算为毫米；无单位数值按毫米处理。
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * MmPerInch
	case UnitPT:
		return l.Value * PtToMm
	case UnitPX:
		return PxToMM(l.Value)
	default:
		return l.Value
	}
}

// ToPx 换算为设备像素。
func (l Length) ToPx() float64 {
	if l.Unit == UnitPX {
		return l.Value
	}
	return MMToPx(l.ToMM())
}

// ParseLength 解析带单位的长度字符串，例如 "10mm"、"15px"、"1.5cm"。
// 无法解析时返回 ok=false。
func ParseLength(value string) (Length, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, false
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}, {"px", UnitPX}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, false
	}
	return Length{Value: f, Unit: unit}, true
}
