package appointment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"viewingdesk/internal/api"
)

type Handlers struct {
	Service *Service
}

type CreateRequest struct {
	ID          string    `json:"id,omitempty"`
	Number      string    `json:"appointmentNumber,omitempty"`
	Requester   Requester `json:"requester"`
	Property    Property  `json:"property"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Remark      string    `json:"remark,omitempty"`
}

type TransitionBody struct {
	Remark  string     `json:"remark,omitempty"`
	NewTime *time.Time `json:"newTime,omitempty"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, CodeValidation, "invalid json")
		return
	}

	a, err := h.Service.Create(r.Context(), Intake{
		ID:          req.ID,
		Number:      req.Number,
		Requester:   req.Requester,
		Property:    req.Property,
		ScheduledAt: req.ScheduledAt,
		Operator:    api.OperatorFromContext(r.Context()),
		Remark:      req.Remark,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, a)
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	f, err := h.parseFilter(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	items, err := h.Service.Query(r.Context(), f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, a)
}

func (h Handlers) History(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Transition serves POST /appointments/{id}/{operation}.
func (h Handlers) Transition(w http.ResponseWriter, r *http.Request) {
	op, err := ParseOperation(chi.URLParam(r, "operation"))
	if err != nil {
		api.WriteError(w, http.StatusNotFound, CodeNotFound, "unknown operation")
		return
	}

	var body TransitionBody
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			api.WriteError(w, http.StatusBadRequest, CodeValidation, "invalid json")
			return
		}
	}

	a, err := h.Service.Transition(r.Context(), chi.URLParam(r, "id"), TransitionRequest{
		Op:       op,
		Operator: api.OperatorFromContext(r.Context()),
		Remark:   strings.TrimSpace(body.Remark),
		NewTime:  body.NewTime,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, a)
}

func (h Handlers) Calendar(w http.ResponseWriter, r *http.Request) {
	f, err := h.parseFilter(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	days, err := h.Service.Calendar(r.Context(), f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"days": days})
}

func (h Handlers) Day(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	items, err := h.Service.Day(r.Context(), date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"date": date, "items": items})
}

func (h Handlers) parseFilter(r *http.Request) (Filter, error) {
	q := r.URL.Query()
	f := Filter{
		PropertyNameContains: q.Get("property"),
		RequesterContains:    q.Get("requester"),
	}
	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		st, err := ParseStatus(raw)
		if err != nil {
			return Filter{}, &ValidationError{Field: "status", Message: "unknown status"}
		}
		f.Status = st
	}

	loc := h.Service.Location()
	from, hasFrom, err := parseBound(q.Get("from"), loc, false)
	if err != nil {
		return Filter{}, &ValidationError{Field: "from", Message: err.Error()}
	}
	to, hasTo, err := parseBound(q.Get("to"), loc, true)
	if err != nil {
		return Filter{}, &ValidationError{Field: "to", Message: err.Error()}
	}
	if hasFrom || hasTo {
		if !hasTo {
			to = maxTime
		}
		f.DateRange = &DateRange{From: from, To: to}
	}
	return f, nil
}

var maxTime = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

// parseBound accepts RFC3339 or a bare date. A bare upper bound covers the
// whole day.
func parseBound(raw string, loc *time.Location, upper bool) (time.Time, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true, nil
	}
	d, err := time.ParseInLocation(DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, false, errors.New("expected RFC3339 or YYYY-MM-DD")
	}
	if upper {
		d = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return d, true, nil
}

func writeServiceError(w http.ResponseWriter, err error) {
	code := ErrorCode(err)
	switch code {
	case CodeNotFound:
		api.WriteError(w, http.StatusNotFound, code, err.Error())
	case CodeInvalidTransition:
		api.WriteError(w, http.StatusConflict, code, err.Error())
	case CodeDuplicate:
		api.WriteError(w, http.StatusConflict, code, err.Error())
	case CodeMissingArgument, CodeValidation:
		api.WriteError(w, http.StatusBadRequest, code, err.Error())
	default:
		api.WriteError(w, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}
