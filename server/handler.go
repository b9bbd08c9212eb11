package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ByLCY/sheetpress/cache"
	"github.com/ByLCY/sheetpress/layout"
	"github.com/ByLCY/sheetpress/renderer"
	"github.com/ByLCY/sheetpress/store"
	"github.com/ByLCY/sheetpress/worksheet"
)

// TypeRepository persists custom worksheet types per user. *store.Repository implements it.
type TypeRepository interface {
	List(ctx context.Context, userID string) ([]store.WorksheetType, error)
	Get(ctx context.Context, userID, id string) (store.WorksheetType, error)
	Create(ctx context.Context, userID string, def worksheet.Definition) (store.WorksheetType, error)
	Update(ctx context.Context, userID, id string, def worksheet.Definition) (store.WorksheetType, error)
	Delete(ctx context.Context, userID, id string) error
}

// PreviewCache caches layout results. *cache.LayoutCache implements it.
type PreviewCache interface {
	Get(ctx context.Context, key string) (*layout.Result, bool)
	Set(ctx context.Context, key string, res *layout.Result)
}

// Deps are the collaborators of Handler. Types and Cache may be nil.
type Deps struct {
	Surface  layout.Surface
	Renderer renderer.Renderer
	Params   layout.Params
	Types    TypeRepository
	Cache    PreviewCache
	Log      zerolog.Logger
}

// Handler serves preview and worksheet-type endpoints.
type Handler struct {
	surface  layout.Surface
	renderer renderer.Renderer
	params   layout.Params
	types    TypeRepository
	cache    PreviewCache
	log      zerolog.Logger
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		surface:  d.Surface,
		renderer: d.Renderer,
		params:   d.Params,
		types:    d.Types,
		cache:    d.Cache,
		log:      d.Log.With().Str("component", "preview_handler").Logger(),
	}
}

// computeLayout measures and paginates src, consulting the cache first.
func (h *Handler) computeLayout(ctx context.Context, src layout.Source, selected int) (*layout.Result, error) {
	if h.surface == nil || !h.surface.Mounted() {
		return nil, layout.ErrNoSurface
	}
	var key string
	if h.cache != nil {
		k, err := cache.Key("preview", src.Questions(), src.Header(), h.params, h.surface.GapPx(), selected)
		if err != nil {
			return nil, err
		}
		key = k
		if res, ok := h.cache.Get(ctx, key); ok {
			h.log.Debug().Str("key", key).Msg("layout cache hit")
			return res, nil
		}
	}

	res, err := layout.Build(h.surface, src, h.params, selected)
	if err != nil {
		return nil, err
	}
	h.log.Debug().
		Int("questions", res.QuestionCount()).
		Int("pages", len(res.Pages)).
		Float64("available_mm", res.AvailableMM).
		Msg("layout computed")

	if h.cache != nil {
		h.cache.Set(ctx, key, res)
	}
	return res, nil
}

// previewData is the JSON payload returned for a layout.
type previewData struct {
	Layout  *layout.Result    `json:"layout"`
	Summary worksheet.Summary `json:"summary"`
}

func newPreviewData(res *layout.Result) previewData {
	return previewData{
		Layout: res,
		Summary: worksheet.Summary{
			TotalQuestions: res.QuestionCount(),
			TotalMarks:     res.Header.TotalMarks,
			Minutes:        res.Header.EstimatedMinutes,
		},
	}
}

// validationFields extracts field messages from a worksheet validation error.
func validationFields(err error, prefix string) (map[string]string, bool) {
	var ve *worksheet.ValidationError
	if !errors.As(err, &ve) {
		return nil, false
	}
	out := make(map[string]string, len(ve.Fields))
	for k, v := range ve.Fields {
		out[prefix+k] = v
	}
	return out, true
}

func pdfFilename(name string) string {
	if name == "" {
		name = "worksheet"
	}
	safe := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			safe = append(safe, r)
		case r == ' ':
			safe = append(safe, '-')
		}
	}
	if len(safe) == 0 {
		return "worksheet.pdf"
	}
	return fmt.Sprintf("%s.pdf", string(safe))
}
