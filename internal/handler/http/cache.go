package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
)

type CacheHandler interface {
	Stats(w http.ResponseWriter, r *http.Request)
	WarmUp(w http.ResponseWriter, r *http.Request)
	Clear(w http.ResponseWriter, r *http.Request)
	Invalidate(w http.ResponseWriter, r *http.Request)
}

type cacheHandlerImpl struct {
	cacheService report.CacheService
}

func NewCacheHandler(cacheService report.CacheService) CacheHandler {
	return &cacheHandlerImpl{cacheService: cacheService}
}

// Stats implements CacheHandler.
func (h *cacheHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.cacheService.Stats())
}

// WarmUp implements CacheHandler.
func (h *cacheHandlerImpl) WarmUp(w http.ResponseWriter, r *http.Request) {
	if err := h.cacheService.WarmUp(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Cache warmed up", h.cacheService.Stats())
}

// Clear implements CacheHandler.
func (h *cacheHandlerImpl) Clear(w http.ResponseWriter, r *http.Request) {
	h.cacheService.ClearAll()
	response.SuccessWithMessage(w, "Cache cleared", nil)
}

// Invalidate implements CacheHandler.
func (h *cacheHandlerImpl) Invalidate(w http.ResponseWriter, r *http.Request) {
	var req report.InvalidateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	removed := h.cacheService.InvalidateFor(req)
	response.Success(w, map[string]int{"removed": removed})
}
