package worksheet

import "strings"

const (
	DefaultEstimatedMinutes = 30
	maxPassages             = 5
)

// Definition is a reusable custom worksheet type.
type Definition struct {
	Name             string               `json:"name" validate:"required"`
	Description      string               `json:"description,omitempty"`
	EstimatedMinutes int                  `json:"estimated_time" validate:"min=1,max=180"`
	IncludePassages  bool                 `json:"include_passages"`
	PassageCount     int                  `json:"passages_count" validate:"min=0,max=5"`
	QuestionTypes    []QuestionTypeConfig `json:"question_types" validate:"required,min=1,dive"`
}

// Summary is the derived totals shown alongside a definition.
type Summary struct {
	TotalQuestions int `json:"total_questions"`
	TotalMarks     int `json:"total_marks"`
	Minutes        int `json:"minutes"`
}

// DefaultConfig is the stored default_config document of a worksheet type.
type DefaultConfig struct {
	QuestionTypes   []QuestionTypeConfig `json:"question_types"`
	IncludePassages bool                 `json:"include_passages"`
	PassagesCount   int                  `json:"passages_count"`
	TotalMarks      int                  `json:"total_marks"`
	EstimatedTime   int                  `json:"estimated_time"`
}

// Normalize trims text fields, applies defaults and normalizes every config.
func (d *Definition) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	if d.EstimatedMinutes == 0 {
		d.EstimatedMinutes = DefaultEstimatedMinutes
	}
	if !d.IncludePassages {
		d.PassageCount = 0
	} else if d.PassageCount == 0 {
		d.PassageCount = 1
	}
	for i := range d.QuestionTypes {
		d.QuestionTypes[i].Normalize()
	}
}

// Validate checks the definition. It does not normalize; call Normalize first
// when accepting user input.
func (d Definition) Validate() error {
	ve := checkStruct(d)
	if ve == nil {
		ve = &ValidationError{}
	}
	if strings.TrimSpace(d.Name) == "" {
		ve.add("name", "Worksheet type name is required")
	}
	if d.IncludePassages && (d.PassageCount < 1 || d.PassageCount > maxPassages) {
		ve.add("passages_count", "passages_count must be between 1 and 5 when passages are included")
	}
	if len(d.QuestionTypes) > 0 && TotalQuestions(d.QuestionTypes) <= 0 {
		ve.add("question_types", "Total question count must be greater than 0")
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

// Summary returns totals over the question types.
func (d Definition) Summary() Summary {
	return Summary{
		TotalQuestions: TotalQuestions(d.QuestionTypes),
		TotalMarks:     TotalMarks(d.QuestionTypes),
		Minutes:        d.EstimatedMinutes,
	}
}

// DefaultConfig builds the stored default_config document.
func (d Definition) DefaultConfig() DefaultConfig {
	passages := 0
	if d.IncludePassages {
		passages = d.PassageCount
	}
	qts := make([]QuestionTypeConfig, len(d.QuestionTypes))
	copy(qts, d.QuestionTypes)
	return DefaultConfig{
		QuestionTypes:   qts,
		IncludePassages: d.IncludePassages,
		PassagesCount:   passages,
		TotalMarks:      TotalMarks(d.QuestionTypes),
		EstimatedTime:   d.EstimatedMinutes,
	}
}

// Header returns the header fields for the definition.
func (d Definition) Header() Header {
	h := Header{
		Name:             d.Name,
		EstimatedMinutes: d.EstimatedMinutes,
		TotalMarks:       TotalMarks(d.QuestionTypes),
	}
	if d.IncludePassages {
		h.PassageCount = d.PassageCount
	}
	return h
}

// Questions expands the definition's question types.
func (d Definition) Questions() []PreviewQuestion {
	return Expand(d.QuestionTypes)
}
