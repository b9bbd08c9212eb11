package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ByLCY/sheetpress/store"
	"github.com/ByLCY/sheetpress/worksheet"
)

const contextKeyUserID = "user_id"

// RequireUser rejects requests without the X-User-Id header set by the upstream auth proxy.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-Id")
		if userID == "" {
			AbortFail(c, http.StatusUnauthorized, ErrUserRequired)
			return
		}
		c.Set(contextKeyUserID, userID)
		c.Next()
	}
}

// requireStore answers 503 when no database is configured.
func (h *Handler) requireStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.types == nil {
			AbortFail(c, http.StatusServiceUnavailable, ErrStoreUnavailable)
			return
		}
		c.Next()
	}
}

// typeID validates the :id path parameter.
func typeID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		Fail(c, http.StatusBadRequest, ErrInvalidID)
		return "", false
	}
	return id.String(), true
}

func (h *Handler) failStore(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		Fail(c, http.StatusNotFound, ErrNotFound)
		return
	}
	if fields, ok := validationFields(err, ""); ok {
		FailWithFields(c, http.StatusBadRequest, ErrValidation, fields)
		return
	}
	h.log.Error().Err(err).Msg("worksheet type store failed")
	Fail(c, http.StatusInternalServerError, ErrInternal)
}

// ListTypes godoc
// GET /api/v1/worksheet-types
func (h *Handler) ListTypes(c *gin.Context) {
	types, err := h.types.List(c.Request.Context(), c.GetString(contextKeyUserID))
	if err != nil {
		h.failStore(c, err)
		return
	}
	if types == nil {
		types = []store.WorksheetType{}
	}
	Success(c, http.StatusOK, gin.H{"types": types})
}

// GetType godoc
// GET /api/v1/worksheet-types/:id
func (h *Handler) GetType(c *gin.Context) {
	id, ok := typeID(c)
	if !ok {
		return
	}
	t, err := h.types.Get(c.Request.Context(), c.GetString(contextKeyUserID), id)
	if err != nil {
		h.failStore(c, err)
		return
	}
	Success(c, http.StatusOK, gin.H{"type": t, "summary": t.Definition.Summary()})
}

// CreateType godoc
// POST /api/v1/worksheet-types
func (h *Handler) CreateType(c *gin.Context) {
	var def worksheet.Definition
	if fields := Bind(c, &def); fields != nil {
		FailWithFields(c, http.StatusBadRequest, ErrInvalidPayload, fields)
		return
	}
	t, err := h.types.Create(c.Request.Context(), c.GetString(contextKeyUserID), def)
	if err != nil {
		h.failStore(c, err)
		return
	}
	h.log.Info().Str("type_id", t.ID).Str("user_id", t.UserID).Msg("worksheet type created")
	Success(c, http.StatusCreated, gin.H{"type": t})
}

// UpdateType godoc
// PUT /api/v1/worksheet-types/:id
func (h *Handler) UpdateType(c *gin.Context) {
	id, ok := typeID(c)
	if !ok {
		return
	}
	var def worksheet.Definition
	if fields := Bind(c, &def); fields != nil {
		FailWithFields(c, http.StatusBadRequest, ErrInvalidPayload, fields)
		return
	}
	t, err := h.types.Update(c.Request.Context(), c.GetString(contextKeyUserID), id, def)
	if err != nil {
		h.failStore(c, err)
		return
	}
	Success(c, http.StatusOK, gin.H{"type": t})
}

// DeleteType godoc
// DELETE /api/v1/worksheet-types/:id
func (h *Handler) DeleteType(c *gin.Context) {
	id, ok := typeID(c)
	if !ok {
		return
	}
	if err := h.types.Delete(c.Request.Context(), c.GetString(contextKeyUserID), id); err != nil {
		h.failStore(c, err)
		return
	}
	Success(c, http.StatusOK, gin.H{"success": true})
}

// PreviewType godoc
// GET /api/v1/worksheet-types/:id/preview?page=0&format=pdf
func (h *Handler) PreviewType(c *gin.Context) {
	id, ok := typeID(c)
	if !ok {
		return
	}
	selected := 0
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			FailWithFields(c, http.StatusBadRequest, ErrValidation, map[string]string{"page": "page must be a non-negative integer"})
			return
		}
		selected = n
	}
	t, err := h.types.Get(c.Request.Context(), c.GetString(contextKeyUserID), id)
	if err != nil {
		h.failStore(c, err)
		return
	}
	res, ok := h.layout(c, t.Definition, selected)
	if !ok {
		return
	}
	if c.Query("format") == "pdf" {
		h.writePDF(c, res)
		return
	}
	Success(c, http.StatusOK, newPreviewData(res))
}
