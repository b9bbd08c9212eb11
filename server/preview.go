package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ByLCY/sheetpress/dsl"
	"github.com/ByLCY/sheetpress/layout"
	"github.com/ByLCY/sheetpress/worksheet"
)

// PreviewRequest is the authoring form state sent by the editor.
type PreviewRequest struct {
	Name            string                         `json:"name"`
	EstimatedTime   int                            `json:"estimated_time" binding:"omitempty,min=1,max=180"`
	IncludePassages bool                           `json:"include_passages"`
	PassagesCount   int                            `json:"passages_count" binding:"omitempty,min=0,max=5"`
	Mode            worksheet.Mode                 `json:"mode" binding:"omitempty,oneof=typed individual"`
	QuestionTypes   []worksheet.QuestionTypeConfig `json:"question_types"`
	Questions       []worksheet.Item               `json:"questions"`
	SelectedPage    int                            `json:"selected_page" binding:"min=0"`
}

// Form converts the request into an authoring form. Field errors are keyed by JSON path.
// 预览允许空名称与零个题型（输出一张空页），只校验已提交的题型与题目。
func (r PreviewRequest) Form() (*worksheet.Form, map[string]string) {
	def := worksheet.Definition{
		Name:             r.Name,
		EstimatedMinutes: r.EstimatedTime,
		IncludePassages:  r.IncludePassages,
		PassageCount:     r.PassagesCount,
		QuestionTypes:    r.QuestionTypes,
	}
	def.Normalize()

	fields := map[string]string{}
	for i, c := range def.QuestionTypes {
		if err := worksheet.ValidateConfig(c); err != nil {
			fv, ok := validationFields(err, fmt.Sprintf("question_types[%d].", i))
			if !ok {
				fields[fmt.Sprintf("question_types[%d]", i)] = err.Error()
				continue
			}
			for k, v := range fv {
				fields[k] = v
			}
		}
	}

	form := worksheet.FormFromDefinition(def)
	if r.Mode == worksheet.ModeIndividual {
		if err := worksheet.ValidateItems(r.Questions); err != nil {
			fv, _ := validationFields(err, "")
			for k, v := range fv {
				fields[k] = v
			}
		}
		_ = form.SetMode(worksheet.ModeIndividual)
		for _, it := range r.Questions {
			form.AddItem(it)
		}
	}
	if len(fields) > 0 {
		return nil, fields
	}
	return form, nil
}

func (h *Handler) bindPreview(c *gin.Context) (*layout.Result, bool) {
	var req PreviewRequest
	if fields := Bind(c, &req); fields != nil {
		FailWithFields(c, http.StatusBadRequest, ErrValidation, fields)
		return nil, false
	}
	form, fields := req.Form()
	if fields != nil {
		FailWithFields(c, http.StatusBadRequest, ErrValidation, fields)
		return nil, false
	}
	return h.layout(c, form, req.SelectedPage)
}

func (h *Handler) layout(c *gin.Context, src layout.Source, selected int) (*layout.Result, bool) {
	res, err := h.computeLayout(c.Request.Context(), src, selected)
	if err != nil {
		if errors.Is(err, layout.ErrNoSurface) {
			Fail(c, http.StatusServiceUnavailable, ErrLayoutUnavailable)
			return nil, false
		}
		h.log.Error().Err(err).Msg("layout failed")
		Fail(c, http.StatusInternalServerError, ErrInternal)
		return nil, false
	}
	return res, true
}

// Preview godoc
// POST /api/v1/preview
func (h *Handler) Preview(c *gin.Context) {
	res, ok := h.bindPreview(c)
	if !ok {
		return
	}
	Success(c, http.StatusOK, newPreviewData(res))
}

// PreviewPDF godoc
// POST /api/v1/preview/pdf
func (h *Handler) PreviewPDF(c *gin.Context) {
	res, ok := h.bindPreview(c)
	if !ok {
		return
	}
	h.writePDF(c, res)
}

func (h *Handler) writePDF(c *gin.Context, res *layout.Result) {
	data, err := h.renderer.Render(res)
	if err != nil {
		h.log.Error().Err(err).Msg("render PDF failed")
		Fail(c, http.StatusInternalServerError, ErrInternal)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, pdfFilename(res.Header.Name)))
	c.Data(http.StatusOK, "application/pdf", data)
}

type parseRequest struct {
	Source string `json:"source" binding:"required"`
}

// ParseDefinition godoc
// POST /api/v1/worksheet-types/parse
func (h *Handler) ParseDefinition(c *gin.Context) {
	var req parseRequest
	if fields := Bind(c, &req); fields != nil {
		FailWithFields(c, http.StatusBadRequest, ErrValidation, fields)
		return
	}
	def, err := dsl.LoadString(req.Source)
	if err != nil {
		if fields, ok := validationFields(err, ""); ok {
			FailWithFields(c, http.StatusBadRequest, ErrValidation, fields)
			return
		}
		FailWithFields(c, http.StatusBadRequest, ErrParse, map[string]string{"source": err.Error()})
		return
	}
	Success(c, http.StatusOK, gin.H{
		"definition":     def,
		"summary":        def.Summary(),
		"default_config": def.DefaultConfig(),
	})
}
