package worksheet

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestExpandNumbersConfigThenRepetition(t *testing.T) {
	configs := []QuestionTypeConfig{
		{Kind: KindMultipleChoice, Count: 3, MarksPerQuestion: 1, OptionCount: 4},
		{Kind: KindEssay, Count: 2, MarksPerQuestion: 5},
		{Kind: KindTrueFalse, Count: 0, MarksPerQuestion: 1},
		{Kind: KindMatching, Count: 1, MarksPerQuestion: 2, OptionCount: 6},
	}
	qs := Expand(configs)
	if len(qs) != 6 {
		t.Fatalf("expected 6 questions, got %d", len(qs))
	}
	wantKinds := []QuestionKind{KindMultipleChoice, KindMultipleChoice, KindMultipleChoice, KindEssay, KindEssay, KindMatching}
	for i, q := range qs {
		if q.SequenceNumber != i+1 {
			t.Fatalf("question %d has number %d", i, q.SequenceNumber)
		}
		if q.Kind != wantKinds[i] {
			t.Fatalf("question %d kind = %s, want %s", i, q.Kind, wantKinds[i])
		}
		if !strings.Contains(q.DisplayText, q.Kind.Label()) {
			t.Fatalf("display text %q does not mention %s", q.DisplayText, q.Kind.Label())
		}
	}
	if qs[3].Marks != 5 || qs[3].OptionCount != 0 {
		t.Fatalf("essay question carried wrong marks/options: %+v", qs[3])
	}
	if qs[5].OptionCount != 6 {
		t.Fatalf("matching question should keep 6 options, got %d", qs[5].OptionCount)
	}
}

func TestExpandIsDeterministic(t *testing.T) {
	configs := []QuestionTypeConfig{
		{Kind: KindShortAnswer, Count: 4, MarksPerQuestion: 2},
		{Kind: KindFillBlank, Count: 3, MarksPerQuestion: 1},
	}
	a := Expand(configs)
	b := Expand(configs)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expansion is not deterministic")
	}
}

func TestExpandEmpty(t *testing.T) {
	qs := Expand(nil)
	if qs == nil || len(qs) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", qs)
	}
}

func TestExpandItemsIdentity(t *testing.T) {
	items := []Item{
		{Kind: KindEssay, Text: "Describe the water cycle.", Marks: 6},
		{Kind: KindMultipleChoice, Marks: 1},
	}
	qs := ExpandItems(items)
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}
	if qs[0].DisplayText != "Describe the water cycle." || qs[0].SequenceNumber != 1 {
		t.Fatalf("unexpected first question: %+v", qs[0])
	}
	if qs[1].SequenceNumber != 2 || qs[1].OptionCount != 4 || qs[1].DisplayText == "" {
		t.Fatalf("unexpected second question: %+v", qs[1])
	}
}

func TestNormalizeReconcilesOptions(t *testing.T) {
	c := QuestionTypeConfig{Kind: KindTrueFalse, Count: 2, MarksPerQuestion: 1, OptionCount: 7}
	c.Normalize()
	if c.OptionCount != 0 {
		t.Fatalf("true/false should carry no options, got %d", c.OptionCount)
	}
	if c.ID == "" {
		t.Fatalf("normalize should assign an id")
	}
	m := QuestionTypeConfig{Kind: KindMatching, Count: 2, MarksPerQuestion: 1}
	m.Normalize()
	if m.OptionCount != 4 {
		t.Fatalf("matching should default to 4 options, got %d", m.OptionCount)
	}
}

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name   string
		cfg    QuestionTypeConfig
		fields []string
	}{
		{"ok", QuestionTypeConfig{Kind: KindEssay, Count: 1, MarksPerQuestion: 10}, nil},
		{"unknown kind", QuestionTypeConfig{Kind: "poem", Count: 1, MarksPerQuestion: 1}, []string{"type"}},
		{"count too big", QuestionTypeConfig{Kind: KindEssay, Count: 101, MarksPerQuestion: 1}, []string{"count"}},
		{"zero marks", QuestionTypeConfig{Kind: KindEssay, Count: 1, MarksPerQuestion: 0}, []string{"marks"}},
		{"one option", QuestionTypeConfig{Kind: KindMultipleChoice, Count: 1, MarksPerQuestion: 1, OptionCount: 1}, []string{"optionsCount"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateConfig(tc.cfg)
			if len(tc.fields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			for _, f := range tc.fields {
				if _, ok := ve.Fields[f]; !ok {
					t.Fatalf("expected field %q in %v", f, ve.Fields)
				}
			}
		})
	}
}

func TestDefinitionValidate(t *testing.T) {
	d := Definition{
		Name: "  ",
		QuestionTypes: []QuestionTypeConfig{
			{Kind: KindMultipleChoice, Count: 200, MarksPerQuestion: 1},
		},
		IncludePassages: true,
		PassageCount:    9,
	}
	d.Normalize()
	err := d.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, f := range []string{"name", "question_types[0].count", "passages_count"} {
		if _, ok := ve.Fields[f]; !ok {
			t.Fatalf("expected field %q in %v", f, ve.Fields)
		}
	}
	if ve.Fields["name"] != "Worksheet type name is required" {
		t.Fatalf("unexpected name message %q", ve.Fields["name"])
	}

	empty := Definition{Name: "Quiz", EstimatedMinutes: 30}
	if err := empty.Validate(); err == nil {
		t.Fatalf("definition without question types must be rejected")
	}
}

func TestDefinitionSummaryAndDefaultConfig(t *testing.T) {
	d := Definition{
		Name: "Reading Quiz",
		QuestionTypes: []QuestionTypeConfig{
			{Kind: KindMultipleChoice, Count: 10, MarksPerQuestion: 1},
			{Kind: KindEssay, Count: 2, MarksPerQuestion: 5},
		},
	}
	d.Normalize()
	if err := d.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.EstimatedMinutes != DefaultEstimatedMinutes {
		t.Fatalf("expected default minutes, got %d", d.EstimatedMinutes)
	}
	s := d.Summary()
	if s.TotalQuestions != 12 || s.TotalMarks != 20 || s.Minutes != 30 {
		t.Fatalf("unexpected summary %+v", s)
	}
	dc := d.DefaultConfig()
	if dc.TotalMarks != 20 || dc.PassagesCount != 0 || len(dc.QuestionTypes) != 2 {
		t.Fatalf("unexpected default config %+v", dc)
	}
	if dc.QuestionTypes[0].OptionCount != 4 {
		t.Fatalf("multiple choice should default to 4 options")
	}
}

func TestFormMutationsAndRevision(t *testing.T) {
	f := NewForm()
	if len(f.Configs()) != 1 || f.Header().TotalMarks != 10 {
		t.Fatalf("unexpected seed form: %+v", f.Configs())
	}
	first := f.Configs()[0]
	if err := f.Remove(first.ID); !errors.Is(err, ErrLastConfig) {
		t.Fatalf("expected ErrLastConfig, got %v", err)
	}

	rev := f.Revision()
	essay := f.Add(KindEssay)
	if f.Revision() == rev {
		t.Fatalf("add should bump revision")
	}
	if essay.Count != 5 || essay.MarksPerQuestion != 1 {
		t.Fatalf("unexpected defaults for added config: %+v", essay)
	}

	if err := f.Update(essay.ID, func(c *QuestionTypeConfig) {
		c.MarksPerQuestion = 4
		c.ID = "ignored"
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got := f.Header().TotalMarks; got != 10+5*4 {
		t.Fatalf("total marks = %d", got)
	}

	if err := f.Move(1, 0); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	qs := f.Questions()
	if qs[0].Kind != KindEssay || qs[5].Kind != KindMultipleChoice || qs[5].SequenceNumber != 6 {
		t.Fatalf("reorder did not change numbering order")
	}
	if err := f.Move(0, 2); !errors.Is(err, ErrIndexRange) {
		t.Fatalf("expected ErrIndexRange, got %v", err)
	}
	if err := f.Update("nope", func(*QuestionTypeConfig) {}); !errors.Is(err, ErrUnknownConfig) {
		t.Fatalf("expected ErrUnknownConfig, got %v", err)
	}
	if err := f.Remove(essay.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(f.Questions()) != 10 {
		t.Fatalf("expected 10 questions after removal")
	}

	rev = f.Revision()
	f.SetName("Unit 3")
	f.SetName("Unit 3")
	if f.Revision() != rev+1 {
		t.Fatalf("setting the same name twice should bump revision once")
	}
}

func TestFormIndividualMode(t *testing.T) {
	f := NewForm()
	if err := f.SetMode(ModeIndividual); err != nil {
		t.Fatalf("set mode: %v", err)
	}
	if len(f.Questions()) != 0 {
		t.Fatalf("individual mode starts without items")
	}
	f.AddItem(Item{Kind: KindShortAnswer, Text: " Name a prime. ", Marks: 2})
	f.AddItem(Item{Kind: KindTrueFalse, Marks: 1})
	qs := f.Questions()
	if len(qs) != 2 || qs[0].DisplayText != "Name a prime." || qs[1].SequenceNumber != 2 {
		t.Fatalf("unexpected questions %+v", qs)
	}
	if f.Header().TotalMarks != 3 {
		t.Fatalf("total marks = %d", f.Header().TotalMarks)
	}
	if err := f.RemoveItem(5); !errors.Is(err, ErrIndexRange) {
		t.Fatalf("expected ErrIndexRange, got %v", err)
	}
	if err := f.SetMode("grid"); err == nil {
		t.Fatalf("unknown mode must be rejected")
	}
}

func TestFormFromDefinitionRoundTrip(t *testing.T) {
	d := Definition{
		Name:             "Quiz",
		EstimatedMinutes: 45,
		IncludePassages:  true,
		PassageCount:     2,
		QuestionTypes:    []QuestionTypeConfig{{Kind: KindFillBlank, Count: 3, MarksPerQuestion: 2}},
	}
	f := FormFromDefinition(d)
	got := f.Definition()
	if got.Name != "Quiz" || got.EstimatedMinutes != 45 || got.PassageCount != 2 || len(got.QuestionTypes) != 1 {
		t.Fatalf("unexpected definition %+v", got)
	}
	if h := f.Header(); h.PassageCount != 2 || h.TotalMarks != 6 {
		t.Fatalf("unexpected header %+v", h)
	}
}
