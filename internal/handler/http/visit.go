package http

import (
	"net/http"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/visit"
	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// visitHandlerImpl serves one visit kind; site and showroom share the table.
type visitHandlerImpl struct {
	kind         visit.Kind
	visitService visit.VisitService
}

func NewVisitHandler(kind visit.Kind, visitService visit.VisitService) RequestHandler {
	return &visitHandlerImpl{kind: kind, visitService: visitService}
}

func (h *visitHandlerImpl) label() string {
	if h.kind == visit.KindShowroom {
		return "Showroom visit request"
	}
	return "Site visit request"
}

// Create implements RequestHandler.
func (h *visitHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req visit.CreateVisitRequest
	if !decodeJSON(w, r, "CreateVisit", &req) {
		return
	}
	req.Kind = string(h.kind)

	resp, err := h.visitService.Create(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, h.label()+" submitted successfully", resp)
}

// Get implements RequestHandler.
func (h *visitHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	resp, err := h.visitService.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// ListMine implements RequestHandler.
func (h *visitHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	resp, err := h.visitService.ListMine(r.Context(), actor, &h.kind, parseListFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// ListPending implements RequestHandler.
func (h *visitHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	resp, err := h.visitService.ListPending(r.Context(), actor, &h.kind, parseListFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// Review implements RequestHandler.
func (h *visitHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req approval.ReviewRequest
	if !decodeJSON(w, r, "ReviewVisit", &req) {
		return
	}

	resp, err := h.visitService.Review(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, h.label()+" reviewed successfully", resp)
}

// Delete implements RequestHandler.
func (h *visitHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := h.visitService.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, h.label()+" deleted successfully", nil)
}
