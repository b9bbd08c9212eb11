package dsl_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ByLCY/sheetpress/dsl"
	"github.com/ByLCY/sheetpress/worksheet"
)

const sampleSheet = `
# reading practice for grade 5
worksheet "Reading Quiz" {
  description: "Comprehension practice"
  time: 40
  passages: 2

  question multiple_choice count: 10 marks: 1 options: 5
  question essay {
    count: 2
    marks: 5
  }
  question true_false count: 4, marks: 1; question fill_blank { count: 3; marks: 2 }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleSheet)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name != "Reading Quiz" {
		t.Fatalf("expected name Reading Quiz, got %s", doc.Name)
	}
	if len(doc.Body.Statements) != 7 {
		t.Fatalf("expected 7 statements, got %d", len(doc.Body.Statements))
	}
	q := doc.Body.Statements[3].Question
	if q == nil || q.Kind != "multiple_choice" || len(q.Params) != 3 {
		t.Fatalf("unexpected first question: %+v", q)
	}
	essay := doc.Body.Statements[4].Question
	if essay == nil || essay.Block == nil || len(essay.Block.Entries) != 2 {
		t.Fatalf("expected essay block with 2 entries, got %+v", essay)
	}
}

func TestLoadDefinition(t *testing.T) {
	def, err := dsl.LoadString(sampleSheet)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if def.EstimatedMinutes != 40 || !def.IncludePassages || def.PassageCount != 2 {
		t.Fatalf("unexpected header fields: %+v", def)
	}
	if len(def.QuestionTypes) != 4 {
		t.Fatalf("expected 4 question types, got %d", len(def.QuestionTypes))
	}
	mc := def.QuestionTypes[0]
	if mc.Kind != worksheet.KindMultipleChoice || mc.Count != 10 || mc.OptionCount != 5 {
		t.Fatalf("unexpected multiple choice config: %+v", mc)
	}
	if def.QuestionTypes[1].MarksPerQuestion != 5 || def.QuestionTypes[1].OptionCount != 0 {
		t.Fatalf("unexpected essay config: %+v", def.QuestionTypes[1])
	}
	if s := def.Summary(); s.TotalQuestions != 19 || s.TotalMarks != 10+10+4+6 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	for _, c := range def.QuestionTypes {
		if c.ID == "" {
			t.Fatalf("config without id: %+v", c)
		}
	}
}

func TestLoadRejectsUnknownKind(t *testing.T) {
	_, err := dsl.LoadString(`worksheet "X" {
  question poem count: 2
}`)
	if err == nil || !strings.Contains(err.Error(), "poem") {
		t.Fatalf("expected unknown kind error, got %v", err)
	}
}

func TestLoadRejectsUnknownField(t *testing.T) {
	_, err := dsl.LoadString(`worksheet "X" {
  colour: blue
  question essay count: 1
}`)
	if err == nil || !strings.Contains(err.Error(), "colour") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestLoadValidatesDefinition(t *testing.T) {
	_, err := dsl.LoadString(`worksheet "" {
  question essay count: 101
}`)
	var ve *worksheet.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := ve.Fields["name"]; !ok {
		t.Fatalf("expected name error in %v", ve.Fields)
	}
	if _, ok := ve.Fields["question_types[0].count"]; !ok {
		t.Fatalf("expected count error in %v", ve.Fields)
	}
}

func TestParseSyntaxError(t *testing.T) {
	if _, err := dsl.ParseString(`worksheet { }`); err == nil {
		t.Fatalf("missing name should fail to parse")
	}
}
