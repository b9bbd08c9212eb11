package worksheet

import "github.com/google/uuid"

const (
	defaultOptionCount = 4
	minOptionCount     = 2
	maxOptionCount     = 10
)

// QuestionTypeConfig is one authored rule: a kind of question, how many to
// generate and the per-question marks and options.
type QuestionTypeConfig struct {
	ID               string       `json:"id"`
	Kind             QuestionKind `json:"type" validate:"required,question_kind"`
	Count            int          `json:"count" validate:"min=1,max=100"`
	MarksPerQuestion int          `json:"marks" validate:"min=1,max=20"`
	OptionCount      int          `json:"optionsCount,omitempty" validate:"omitempty,min=2,max=10"`
}

// Normalize fills the id and reconciles OptionCount with the kind: kinds with
// options default to four, kinds without options carry none.
func (c *QuestionTypeConfig) Normalize() {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if !c.Kind.HasOptions() {
		c.OptionCount = 0
		return
	}
	if c.OptionCount == 0 {
		c.OptionCount = defaultOptionCount
	}
}

// Subtotal is count × marks.
func (c QuestionTypeConfig) Subtotal() int {
	return c.Count * c.MarksPerQuestion
}

// Item is a single question authored directly in individual mode.
type Item struct {
	Kind        QuestionKind `json:"type" validate:"required,question_kind"`
	Text        string       `json:"text"`
	Marks       int          `json:"marks" validate:"min=1,max=20"`
	OptionCount int          `json:"optionsCount,omitempty" validate:"omitempty,min=2,max=10"`
}

// PreviewQuestion is one expanded, numbered question. It is never persisted.
type PreviewQuestion struct {
	SequenceNumber int          `json:"number"`
	Kind           QuestionKind `json:"type"`
	DisplayText    string       `json:"text"`
	Marks          int          `json:"marks"`
	OptionCount    int          `json:"optionsCount,omitempty"`
}

// Header holds the fields rendered inside the measured worksheet header.
type Header struct {
	Name             string `json:"name"`
	EstimatedMinutes int    `json:"estimatedTime"`
	TotalMarks       int    `json:"totalMarks"`
	PassageCount     int    `json:"passages,omitempty"`
}

// Expand turns configs into numbered preview questions: every copy of config
// i precedes every copy of config i+1 and numbering runs 1..N in that order.
// Configs with a non-positive count contribute nothing.
func Expand(configs []QuestionTypeConfig) []PreviewQuestion {
	total := 0
	for _, c := range configs {
		if c.Count > 0 {
			total += c.Count
		}
	}
	out := make([]PreviewQuestion, 0, total)
	seq := 0
	for _, c := range configs {
		options := optionsFor(c.Kind, c.OptionCount)
		for r := 0; r < c.Count; r++ {
			seq++
			out = append(out, PreviewQuestion{
				SequenceNumber: seq,
				Kind:           c.Kind,
				DisplayText:    placeholderText(c.Kind, seq),
				Marks:          c.MarksPerQuestion,
				OptionCount:    options,
			})
		}
	}
	return out
}

// ExpandItems numbers individually authored items in order. Items without
// text fall back to the kind's placeholder.
func ExpandItems(items []Item) []PreviewQuestion {
	out := make([]PreviewQuestion, 0, len(items))
	for i, it := range items {
		text := it.Text
		if text == "" {
			text = placeholderText(it.Kind, i+1)
		}
		out = append(out, PreviewQuestion{
			SequenceNumber: i + 1,
			Kind:           it.Kind,
			DisplayText:    text,
			Marks:          it.Marks,
			OptionCount:    optionsFor(it.Kind, it.OptionCount),
		})
	}
	return out
}

// TotalMarks sums count × marks over configs.
func TotalMarks(configs []QuestionTypeConfig) int {
	sum := 0
	for _, c := range configs {
		sum += c.Subtotal()
	}
	return sum
}

// TotalQuestions sums counts over configs.
func TotalQuestions(configs []QuestionTypeConfig) int {
	sum := 0
	for _, c := range configs {
		sum += c.Count
	}
	return sum
}

func optionsFor(k QuestionKind, n int) int {
	if !k.HasOptions() {
		return 0
	}
	switch {
	case n <= 0:
		return defaultOptionCount
	case n < minOptionCount:
		return minOptionCount
	case n > maxOptionCount:
		return maxOptionCount
	}
	return n
}
