package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ByLCY/sheetpress/worksheet"
)

// ToDefinition 将 AST 转换为 worksheet.Definition，并完成规范化与校验。
func ToDefinition(doc *Document) (worksheet.Definition, error) {
	var def worksheet.Definition
	if doc == nil || doc.Body == nil {
		return def, fmt.Errorf("文档为空")
	}
	def.Name = string(doc.Name)

	for _, st := range doc.Body.Statements {
		switch {
		case st.Question != nil:
			cfg, err := questionConfig(st.Question)
			if err != nil {
				return def, err
			}
			def.QuestionTypes = append(def.QuestionTypes, cfg)
		case st.Assignment != nil:
			if err := applyDocumentField(&def, st.Assignment); err != nil {
				return def, err
			}
		}
	}

	def.Normalize()
	if err := def.Validate(); err != nil {
		return def, err
	}
	return def, nil
}

// Load 解析并转换 .sheet 定义。
func Load(r io.Reader) (worksheet.Definition, error) {
	doc, err := Parse(r)
	if err != nil {
		return worksheet.Definition{}, fmt.Errorf("解析定义失败: %w", err)
	}
	return ToDefinition(doc)
}

// LoadString 解析并转换字符串形式的 .sheet 定义。
func LoadString(src string) (worksheet.Definition, error) {
	return Load(strings.NewReader(src))
}

func applyDocumentField(def *worksheet.Definition, a *Assignment) error {
	switch strings.ToLower(a.Key) {
	case "description":
		def.Description = a.Value.Text()
	case "time", "estimated_time", "minutes":
		n, err := intValue(a)
		if err != nil {
			return err
		}
		def.EstimatedMinutes = n
	case "passages":
		n, err := intValue(a)
		if err != nil {
			return err
		}
		def.IncludePassages = n > 0
		def.PassageCount = n
	default:
		return fmt.Errorf("第 %d 行: 未知字段 %q", a.Pos.Line, a.Key)
	}
	return nil
}

func questionConfig(q *Question) (worksheet.QuestionTypeConfig, error) {
	cfg := worksheet.QuestionTypeConfig{
		Kind:             worksheet.QuestionKind(strings.ToLower(q.Kind)),
		Count:            1,
		MarksPerQuestion: 1,
	}
	if !cfg.Kind.Valid() {
		return cfg, fmt.Errorf("第 %d 行: 不支持的题型 %q", q.Pos.Line, q.Kind)
	}
	params := append([]*Assignment{}, q.Params...)
	if q.Block != nil {
		params = append(params, q.Block.Entries...)
	}
	for _, a := range params {
		n, err := intValue(a)
		if err != nil {
			return cfg, err
		}
		switch strings.ToLower(a.Key) {
		case "count":
			cfg.Count = n
		case "marks":
			cfg.MarksPerQuestion = n
		case "options":
			cfg.OptionCount = n
		default:
			return cfg, fmt.Errorf("第 %d 行: 题型参数 %q 不受支持", a.Pos.Line, a.Key)
		}
	}
	return cfg, nil
}

func intValue(a *Assignment) (int, error) {
	if a.Value == nil || a.Value.Number == nil {
		return 0, fmt.Errorf("第 %d 行: %s 需要整数", a.Pos.Line, a.Key)
	}
	n, err := strconv.Atoi(*a.Value.Number)
	if err != nil {
		return 0, fmt.Errorf("第 %d 行: %s 需要整数: %w", a.Pos.Line, a.Key, err)
	}
	return n, nil
}
