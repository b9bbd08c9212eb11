package worksheet

import "github.com/ByLCY/sheetpress/binding"

// QuestionKind identifies how a question is answered and therefore how its
// block is rendered.
type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "multiple_choice"
	KindShortAnswer    QuestionKind = "short_answer"
	KindEssay          QuestionKind = "essay"
	KindFillBlank      QuestionKind = "fill_blank"
	KindTrueFalse      QuestionKind = "true_false"
	KindMatching       QuestionKind = "matching"
)

type kindInfo struct {
	label      string
	hasOptions bool
	template   binding.Template
}

var kinds = map[QuestionKind]kindInfo{
	KindMultipleChoice: {"Multiple Choice", true, binding.Compile("${label} question ${number}. Read the question carefully and choose the best answer.")},
	KindShortAnswer:    {"Short Answer", false, binding.Compile("${label} question ${number}. Answer in one or two complete sentences.")},
	KindEssay:          {"Essay", false, binding.Compile("${label} question ${number}. Write a well-organised response of at least one paragraph, supporting your answer with examples.")},
	KindFillBlank:      {"Fill in the Blank", false, binding.Compile("${label} question ${number}. Complete the sentence: the missing word is ____________.")},
	KindTrueFalse:      {"True/False", false, binding.Compile("${label} question ${number}. Decide whether the statement is true or false.")},
	KindMatching:       {"Matching", true, binding.Compile("${label} question ${number}. Match each item on the left with the correct item on the right.")},
}

// Kinds lists every supported kind in display order.
func Kinds() []QuestionKind {
	return []QuestionKind{
		KindMultipleChoice,
		KindShortAnswer,
		KindEssay,
		KindFillBlank,
		KindTrueFalse,
		KindMatching,
	}
}

// Valid reports whether k is a supported kind.
func (k QuestionKind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// Label returns the human readable name, or the raw value for unknown kinds.
func (k QuestionKind) Label() string {
	if info, ok := kinds[k]; ok {
		return info.label
	}
	return string(k)
}

// HasOptions reports whether questions of this kind carry selectable options.
func (k QuestionKind) HasOptions() bool {
	return kinds[k].hasOptions
}

// placeholderText renders the templated display text of the n-th question.
func placeholderText(k QuestionKind, number int) string {
	info, ok := kinds[k]
	if !ok {
		return ""
	}
	return info.template.Execute(map[string]any{
		"label":  info.label,
		"number": number,
		"kind":   string(k),
	})
}
