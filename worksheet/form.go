package worksheet

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects how a Form produces preview questions.
type Mode string

const (
	ModeTyped      Mode = "typed"
	ModeIndividual Mode = "individual"
)

var (
	ErrUnknownConfig = errors.New("worksheet: unknown question type config")
	ErrLastConfig    = errors.New("worksheet: at least one question type is required")
	ErrIndexRange    = errors.New("worksheet: index out of range")
)

// Form is the owned, mutable authoring state of one worksheet type. It is not
// safe for concurrent use. Every mutation bumps Revision so an owner can
// decide when to recompute the layout.
type Form struct {
	name             string
	description      string
	estimatedMinutes int
	includePassages  bool
	passageCount     int
	mode             Mode
	configs          []QuestionTypeConfig
	items            []Item
	revision         uint64
}

// NewForm returns a form seeded the way a blank authoring form starts: one
// multiple choice config of ten one-mark questions with four options.
func NewForm() *Form {
	first := QuestionTypeConfig{Kind: KindMultipleChoice, Count: 10, MarksPerQuestion: 1, OptionCount: defaultOptionCount}
	first.Normalize()
	return &Form{
		estimatedMinutes: DefaultEstimatedMinutes,
		mode:             ModeTyped,
		configs:          []QuestionTypeConfig{first},
	}
}

// FormFromDefinition loads a definition into a new typed-mode form.
func FormFromDefinition(d Definition) *Form {
	f := &Form{
		name:             d.Name,
		description:      d.Description,
		estimatedMinutes: d.EstimatedMinutes,
		includePassages:  d.IncludePassages,
		passageCount:     d.PassageCount,
		mode:             ModeTyped,
		configs:          make([]QuestionTypeConfig, len(d.QuestionTypes)),
	}
	copy(f.configs, d.QuestionTypes)
	for i := range f.configs {
		f.configs[i].Normalize()
	}
	return f
}

func (f *Form) touch() { f.revision++ }

// Revision counts mutations since the form was created.
func (f *Form) Revision() uint64 { return f.revision }

// Mode returns the authoring mode.
func (f *Form) Mode() Mode { return f.mode }

// SetMode switches between typed and individual authoring.
func (f *Form) SetMode(m Mode) error {
	if m != ModeTyped && m != ModeIndividual {
		return fmt.Errorf("worksheet: unknown mode %q", m)
	}
	if m != f.mode {
		f.mode = m
		f.touch()
	}
	return nil
}

// SetName updates the worksheet name shown in the header.
func (f *Form) SetName(name string) {
	if name != f.name {
		f.name = name
		f.touch()
	}
}

// SetDescription updates the description. It is not rendered in the header.
func (f *Form) SetDescription(desc string) {
	if desc != f.description {
		f.description = desc
		f.touch()
	}
}

// SetEstimatedMinutes updates the estimated time shown in the header.
func (f *Form) SetEstimatedMinutes(minutes int) {
	if minutes != f.estimatedMinutes {
		f.estimatedMinutes = minutes
		f.touch()
	}
}

// SetPassages toggles reading passages and their count.
func (f *Form) SetPassages(include bool, count int) {
	if !include {
		count = 0
	}
	if include != f.includePassages || count != f.passageCount {
		f.includePassages = include
		f.passageCount = count
		f.touch()
	}
}

// Configs returns a copy of the question-type configs in order.
func (f *Form) Configs() []QuestionTypeConfig {
	out := make([]QuestionTypeConfig, len(f.configs))
	copy(out, f.configs)
	return out
}

// Add appends a config with the defaults of a newly added row (five one-mark
// questions) and returns it.
func (f *Form) Add(kind QuestionKind) QuestionTypeConfig {
	c := QuestionTypeConfig{Kind: kind, Count: 5, MarksPerQuestion: 1}
	c.Normalize()
	f.configs = append(f.configs, c)
	f.touch()
	return c
}

// AddConfig appends a caller-built config after normalizing it.
func (f *Form) AddConfig(c QuestionTypeConfig) QuestionTypeConfig {
	c.Normalize()
	f.configs = append(f.configs, c)
	f.touch()
	return c
}

// Remove deletes the config with the given id. The last remaining config
// cannot be removed.
func (f *Form) Remove(id string) error {
	idx := f.indexOf(id)
	if idx < 0 {
		return ErrUnknownConfig
	}
	if len(f.configs) == 1 {
		return ErrLastConfig
	}
	f.configs = append(f.configs[:idx], f.configs[idx+1:]...)
	f.touch()
	return nil
}

// Update applies fn to the config with the given id and re-normalizes it. The
// id itself cannot be changed.
func (f *Form) Update(id string, fn func(*QuestionTypeConfig)) error {
	idx := f.indexOf(id)
	if idx < 0 {
		return ErrUnknownConfig
	}
	c := f.configs[idx]
	fn(&c)
	c.ID = id
	c.Normalize()
	f.configs[idx] = c
	f.touch()
	return nil
}

// Move reorders a config from one position to another (drag reorder).
func (f *Form) Move(from, to int) error {
	n := len(f.configs)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrIndexRange
	}
	if from == to {
		return nil
	}
	c := f.configs[from]
	f.configs = append(f.configs[:from], f.configs[from+1:]...)
	f.configs = append(f.configs[:to], append([]QuestionTypeConfig{c}, f.configs[to:]...)...)
	f.touch()
	return nil
}

// Items returns a copy of the individually authored items.
func (f *Form) Items() []Item {
	out := make([]Item, len(f.items))
	copy(out, f.items)
	return out
}

// AddItem appends an individually authored question.
func (f *Form) AddItem(it Item) {
	it.Text = strings.TrimSpace(it.Text)
	f.items = append(f.items, it)
	f.touch()
}

// RemoveItem deletes the item at index i.
func (f *Form) RemoveItem(i int) error {
	if i < 0 || i >= len(f.items) {
		return ErrIndexRange
	}
	f.items = append(f.items[:i], f.items[i+1:]...)
	f.touch()
	return nil
}

// Questions expands the current authoring state into numbered questions.
func (f *Form) Questions() []PreviewQuestion {
	if f.mode == ModeIndividual {
		return ExpandItems(f.items)
	}
	return Expand(f.configs)
}

// Header returns the fields rendered inside the worksheet header.
func (f *Form) Header() Header {
	h := Header{
		Name:             f.name,
		EstimatedMinutes: f.estimatedMinutes,
		PassageCount:     f.passageCount,
	}
	if f.mode == ModeIndividual {
		for _, it := range f.items {
			h.TotalMarks += it.Marks
		}
	} else {
		h.TotalMarks = TotalMarks(f.configs)
	}
	return h
}

// Definition snapshots the form as a definition.
func (f *Form) Definition() Definition {
	return Definition{
		Name:             f.name,
		Description:      f.description,
		EstimatedMinutes: f.estimatedMinutes,
		IncludePassages:  f.includePassages,
		PassageCount:     f.passageCount,
		QuestionTypes:    f.Configs(),
	}
}

func (f *Form) indexOf(id string) int {
	for i, c := range f.configs {
		if c.ID == id {
			return i
		}
	}
	return -1
}
