package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/wfh"
	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// RequestHandler serves one request kind: create, read, review and delete.
type RequestHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

// requestService is the shape shared by the leave, permission and WFH services.
type requestService[C, R, L any] interface {
	Create(ctx context.Context, actor user.Actor, req C) (R, error)
	Get(ctx context.Context, actor user.Actor, id string) (R, error)
	ListMine(ctx context.Context, actor user.Actor, filter approval.ListFilter) (L, error)
	ListPending(ctx context.Context, actor user.Actor, filter approval.ListFilter) (L, error)
	Review(ctx context.Context, actor user.Actor, id string, req approval.ReviewRequest) (R, error)
	Delete(ctx context.Context, actor user.Actor, id string) error
}

type requestHandlerImpl[C, R, L any] struct {
	name    string
	service requestService[C, R, L]
}

func NewLeaveHandler(leaveService leave.LeaveService) RequestHandler {
	return &requestHandlerImpl[leave.CreateLeaveRequest, leave.LeaveRequestResponse, leave.ListLeaveRequestResponse]{
		name:    "Leave request",
		service: leaveService,
	}
}

func NewPermissionHandler(permissionService leave.PermissionService) RequestHandler {
	return &requestHandlerImpl[leave.CreatePermissionRequest, leave.PermissionRequestResponse, leave.ListPermissionRequestResponse]{
		name:    "Permission request",
		service: permissionService,
	}
}

func NewWfhHandler(wfhService wfh.WfhService) RequestHandler {
	return &requestHandlerImpl[wfh.CreateWfhRequest, wfh.WfhRequestResponse, wfh.ListWfhRequestResponse]{
		name:    "WFH request",
		service: wfhService,
	}
}

// Create implements RequestHandler.
func (h *requestHandlerImpl[C, R, L]) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req C
	if !decodeJSON(w, r, "Create "+h.name, &req) {
		return
	}

	resp, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		slog.Error("Create request service error", "kind", h.name, "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, h.name+" submitted successfully", resp)
}

// Get implements RequestHandler.
func (h *requestHandlerImpl[C, R, L]) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// ListMine implements RequestHandler.
func (h *requestHandlerImpl[C, R, L]) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	resp, err := h.service.ListMine(r.Context(), actor, parseListFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// ListPending implements RequestHandler.
func (h *requestHandlerImpl[C, R, L]) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	resp, err := h.service.ListPending(r.Context(), actor, parseListFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// Review implements RequestHandler.
func (h *requestHandlerImpl[C, R, L]) Review(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req approval.ReviewRequest
	if !decodeJSON(w, r, "Review "+h.name, &req) {
		return
	}

	resp, err := h.service.Review(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		slog.Error("Review request service error", "kind", h.name, "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, h.name+" reviewed successfully", resp)
}

// Delete implements RequestHandler.
func (h *requestHandlerImpl[C, R, L]) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, h.name+" deleted successfully", nil)
}
