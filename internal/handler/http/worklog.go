package http

import (
	"net/http"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/response"
)

type WorkLogHandler interface {
	Upsert(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
}

type workLogHandlerImpl struct {
	workLogService worklog.WorkLogService
}

func NewWorkLogHandler(workLogService worklog.WorkLogService) WorkLogHandler {
	return &workLogHandlerImpl{workLogService: workLogService}
}

// Upsert implements WorkLogHandler.
func (h *workLogHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req worklog.UpsertWorkLogRequest
	if !decodeJSON(w, r, "UpsertWorkLog", &req) {
		return
	}

	resp, err := h.workLogService.Upsert(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Work log saved"
	if req.Submit {
		message = "Work log submitted"
	}
	response.SuccessWithMessage(w, message, resp)
}

// ListMine implements WorkLogHandler.
func (h *workLogHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	resp, err := h.workLogService.ListMine(r.Context(), actor, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}
