package delete_slots

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
)

type call struct {
	op     string
	hostID int64
	value  string
}

type recordingService struct {
	calls []call
	err   error
}

func (s *recordingService) record(op string, hostID int64, value string) (*models.DeleteResponse, error) {
	s.calls = append(s.calls, call{op: op, hostID: hostID, value: value})
	if s.err != nil {
		return nil, s.err
	}
	return &models.DeleteResponse{Deleted: 2}, nil
}

func (s *recordingService) DeleteByDay(_ context.Context, hostID int64, day string) (*models.DeleteResponse, error) {
	return s.record("day", hostID, day)
}

func (s *recordingService) DeleteBySlotID(_ context.Context, hostID int64, slotID string) (*models.DeleteResponse, error) {
	return s.record("slot", hostID, slotID)
}

func (s *recordingService) DeleteByType(_ context.Context, hostID int64, slotType string) (*models.DeleteResponse, error) {
	return s.record("type", hostID, slotType)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/me/availability/days/{day}", h.HandleByDay).Methods(http.MethodDelete)
	r.HandleFunc("/me/availability/slots/{slotId}", h.HandleBySlotID).Methods(http.MethodDelete)
	r.HandleFunc("/me/availability/types/{slotType}", h.HandleByType).Methods(http.MethodDelete)
	return r
}

func del(r http.Handler, target string, hostID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, target, nil)
	if hostID != "" {
		req.Header.Set(middleware.HostIDHeader, hostID)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Routes(t *testing.T) {
	svc := &recordingService{}
	r := newRouter(NewHandler(svc, nopLogger{}))

	assert.Equal(t, http.StatusOK, del(r, "/me/availability/days/Monday", "5").Code)
	assert.Equal(t, http.StatusOK, del(r, "/me/availability/slots/general-meeting-monday-0900-0930-abc", "5").Code)
	rec := del(r, "/me/availability/types/General%20Meeting", "5")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":2}`, rec.Body.String())

	assert.Equal(t, []call{
		{op: "day", hostID: 5, value: "Monday"},
		{op: "slot", hostID: 5, value: "general-meeting-monday-0900-0930-abc"},
		{op: "type", hostID: 5, value: "General Meeting"},
	}, svc.calls)
}

func TestHandler_Errors(t *testing.T) {
	r := newRouter(NewHandler(&recordingService{}, nopLogger{}))
	assert.Equal(t, http.StatusUnauthorized, del(r, "/me/availability/days/Monday", "").Code)

	r = newRouter(NewHandler(&recordingService{err: fmt.Errorf("%w: invalid weekday", availability.ErrInvalidInput)}, nopLogger{}))
	assert.Equal(t, http.StatusBadRequest, del(r, "/me/availability/days/Funday", "5").Code)

	r = newRouter(NewHandler(&recordingService{err: availability.ErrInternal}, nopLogger{}))
	assert.Equal(t, http.StatusInternalServerError, del(r, "/me/availability/types/x", "5").Code)
}
