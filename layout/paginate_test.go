package layout

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/ByLCY/sheetpress/worksheet"
)

// fakeSurface 以固定高度表代替真实渲染，便于在无渲染环境下测试分页。
type fakeSurface struct {
	mounted  bool
	headerMM float64
	gapMM    float64
	heightMM func(q worksheet.PreviewQuestion) float64
	err      error
	calls    int
}

func (f *fakeSurface) Mounted() bool { return f.mounted }

func (f *fakeSurface) QuestionHeightPx(q worksheet.PreviewQuestion) (float64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return MMToPx(f.heightMM(q)), nil
}

func (f *fakeSurface) HeaderHeightPx(worksheet.Header) (float64, error) {
	return MMToPx(f.headerMM), nil
}

func (f *fakeSurface) GapPx() float64 { return MMToPx(f.gapMM) }

func uniform(mm float64) func(worksheet.PreviewQuestion) float64 {
	return func(worksheet.PreviewQuestion) float64 { return mm }
}

func measured(heights ...float64) []MeasuredQuestion {
	out := make([]MeasuredQuestion, len(heights))
	for i, h := range heights {
		out[i] = MeasuredQuestion{
			PreviewQuestion: worksheet.PreviewQuestion{SequenceNumber: i + 1, Kind: worksheet.KindShortAnswer, Marks: 1},
			HeightMM:        h,
		}
	}
	return out
}

func numbers(p Page) []int {
	out := make([]int, len(p.Questions))
	for i, q := range p.Questions {
		out[i] = q.SequenceNumber
	}
	return out
}

func TestAvailableMM(t *testing.T) {
	p := DefaultParams()
	if got := AvailableMM(p, 40); got != 216 {
		t.Fatalf("available = %g, want 216", got)
	}
	if got := AvailableMM(p, 500); got != 40 {
		t.Fatalf("tall header should hit the 40mm floor, got %g", got)
	}
	p.MinAvailableMM = 60
	if got := AvailableMM(p, 500); got != 60 {
		t.Fatalf("floor should be configurable, got %g", got)
	}
}

// 场景 1：10 道 30mm 的选择题，页眉 40mm，间距 4mm，在第 7 题前换页。
func TestPaginateSplitsBeforeSeventhItem(t *testing.T) {
	configs := []worksheet.QuestionTypeConfig{{Kind: worksheet.KindMultipleChoice, Count: 10, MarksPerQuestion: 1, OptionCount: 4}}
	src := worksheet.Definition{Name: "Quiz", EstimatedMinutes: 30, QuestionTypes: configs}
	s := &fakeSurface{mounted: true, headerMM: 40, gapMM: 4, heightMM: uniform(30)}

	res, err := Build(s, src, DefaultParams(), 0)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if math.Abs(res.AvailableMM-216) > 1e-9 {
		t.Fatalf("available = %g, want 216", res.AvailableMM)
	}
	if len(res.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(res.Pages))
	}
	if got := numbers(res.Pages[0]); !reflect.DeepEqual(got, []int{1, 2, 3, 4, 5, 6}) {
		t.Fatalf("first page = %v", got)
	}
	if got := numbers(res.Pages[1]); !reflect.DeepEqual(got, []int{7, 8, 9, 10}) {
		t.Fatalf("second page = %v", got)
	}
	if math.Abs(res.Pages[0].UsedMM-200) > 1e-6 {
		t.Fatalf("first page used = %g, want 200", res.Pages[0].UsedMM)
	}
	if math.Abs(res.Pages[1].UsedMM-132) > 1e-6 {
		t.Fatalf("second page used = %g, want 132 (no leading gap)", res.Pages[1].UsedMM)
	}
}

// 场景 2：没有题目时输出一张空页。
func TestPaginateEmpty(t *testing.T) {
	pages := Paginate(nil, 40, 4, DefaultParams())
	if len(pages) != 1 || len(pages[0].Questions) != 0 || pages[0].Questions == nil {
		t.Fatalf("expected a single empty page, got %#v", pages)
	}
	res := Layout(Measurement{HeaderMM: 40, GapMM: 4}, worksheet.Header{}, DefaultParams(), 3)
	if res.Selected != 0 {
		t.Fatalf("selected = %d, want 0", res.Selected)
	}
}

// 场景 3：超高题目独占一页，前后题目各自成页。
func TestPaginateOversizedItemGetsOwnPage(t *testing.T) {
	pages := Paginate(measured(30, 30, 250, 30), 40, 4, DefaultParams())
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}
	want := [][]int{{1, 2}, {3}, {4}}
	for i, p := range pages {
		if got := numbers(p); !reflect.DeepEqual(got, want[i]) {
			t.Fatalf("page %d = %v, want %v", i, got, want[i])
		}
		if p.Index != i {
			t.Fatalf("page %d has index %d", i, p.Index)
		}
	}
	if !pages[1].Oversized || pages[0].Oversized || pages[2].Oversized {
		t.Fatalf("only the middle page is oversized")
	}
	if pages[2].UsedMM != 30 {
		t.Fatalf("page after oversized item should start fresh, used = %g", pages[2].UsedMM)
	}
}

func TestPaginateItemExactlyAvailableIsOversized(t *testing.T) {
	pages := Paginate(measured(216), 40, 4, DefaultParams())
	if len(pages) != 1 || !pages[0].Oversized {
		t.Fatalf("item equal to available height is oversized: %#v", pages)
	}
}

func TestPaginateExactFit(t *testing.T) {
	// 100 + 4 + 112 = 216，恰好放下
	pages := Paginate(measured(100, 112), 40, 4, DefaultParams())
	if len(pages) != 1 {
		t.Fatalf("expected exact fit on one page, got %d pages", len(pages))
	}
}

func TestPaginateProperties(t *testing.T) {
	p := DefaultParams()
	heights := []float64{12, 55, 80, 17, 33, 3, 90, 41, 260, 8, 70, 70, 70, 15, 199, 1, 44}
	header, gap := 35.0, 5.0
	items := measured(heights...)

	first := Paginate(items, header, gap, p)
	second := Paginate(items, header, gap, p)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("pagination is not deterministic")
	}

	seen := 0
	for _, page := range first {
		sum := 0.0
		for _, q := range page.Questions {
			seen++
			if q.SequenceNumber != seen {
				t.Fatalf("order changed: got %d, want %d", q.SequenceNumber, seen)
			}
			sum += q.HeightMM
		}
		if page.Oversized {
			if len(page.Questions) != 1 {
				t.Fatalf("oversized page must hold exactly one item")
			}
			continue
		}
		total := sum + gap*float64(len(page.Questions)-1) + header + p.ReservedBottomMM + p.RoundingBufferMM
		if total > p.PageHeightMM-p.PagePaddingMM+1e-9 {
			t.Fatalf("page %d overflows: %g", page.Index, total)
		}
	}
	if seen != len(heights) {
		t.Fatalf("lost items: %d of %d", seen, len(heights))
	}
}

func TestClampIndex(t *testing.T) {
	cases := []struct{ i, n, want int }{
		{0, 1, 0}, {4, 2, 1}, {-3, 5, 0}, {2, 5, 2}, {7, 0, 0},
	}
	for _, tc := range cases {
		if got := ClampIndex(tc.i, tc.n); got != tc.want {
			t.Fatalf("ClampIndex(%d, %d) = %d, want %d", tc.i, tc.n, got, tc.want)
		}
	}
}

func TestMeasureRequiresMountedSurface(t *testing.T) {
	if _, err := Measure(nil, nil, worksheet.Header{}); !errors.Is(err, ErrNoSurface) {
		t.Fatalf("expected ErrNoSurface, got %v", err)
	}
	s := &fakeSurface{mounted: false, heightMM: uniform(10)}
	if _, err := Measure(s, nil, worksheet.Header{}); !errors.Is(err, ErrNoSurface) {
		t.Fatalf("expected ErrNoSurface, got %v", err)
	}
}

func TestBuildRejectsInvalidParams(t *testing.T) {
	s := &fakeSurface{mounted: true, heightMM: uniform(10)}
	p := DefaultParams()
	p.PageHeightMM = 0
	if _, err := Build(s, worksheet.Definition{}, p, 0); err == nil {
		t.Fatalf("expected params error")
	}
}
