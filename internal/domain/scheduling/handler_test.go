package scheduling

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo, *mockAppointmentRepo) {
	repo := newMockAppointmentRepo()
	h := NewHandler(NewService(repo, newMockPatientUpserter()))
	return h, echo.New(), repo
}

const bookBody = `{
	"patient": {"first_name":"علی","last_name":"رضایی","national_code":"0499370899","phone_number":"09123456789"},
	"doctor_id": 1,
	"reserved_date": "1403-06-10",
	"reserved_time": "9:00"
}`

func postJSON(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_BookVisit(t *testing.T) {
	h, e, _ := newTestHandler()
	c, rec := postJSON(e, bookBody)

	if err := h.BookVisit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var a Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if a.TrackingCode == "" {
		t.Error("expected tracking code in response")
	}
	if a.Status != StatusPending {
		t.Errorf("expected pending status, got %q", a.Status)
	}
}

func TestHandler_BookVisit_SlotTaken(t *testing.T) {
	h, e, _ := newTestHandler()
	c, _ := postJSON(e, bookBody)
	if err := h.BookVisit(c); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	c, _ = postJSON(e, bookBody)
	err := h.BookVisit(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusConflict {
		t.Errorf("expected 409, got %v", err)
	}
}

func TestHandler_BookVisit_MissingDoctor(t *testing.T) {
	h, e, _ := newTestHandler()
	c, _ := postJSON(e, `{"patient":{"national_code":"0499370899"},"reserved_date":"1403-06-10","reserved_time":"9:00"}`)
	err := h.BookVisit(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_BookVisit_StoreFailure(t *testing.T) {
	h, e, repo := newTestHandler()
	repo.countErr = errors.New("store down")

	c, _ := postJSON(e, bookBody)
	err := h.BookVisit(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for store failure, got %v", err)
	}
}

func TestHandler_UpdateStatus_UnknownStatus(t *testing.T) {
	h, e, _ := newTestHandler()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"status":"Archived"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := h.UpdateStatus(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown status, got %v", err)
	}
}

func TestHandler_UpdateStatus_NotFound(t *testing.T) {
	h, e, _ := newTestHandler()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"status":"Canceled"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")

	err := h.UpdateStatus(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_GetByTrackingCode(t *testing.T) {
	h, e, repo := newTestHandler()
	c, _ := postJSON(e, bookBody)
	if err := h.BookVisit(c); err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	var code string
	for _, a := range repo.appointments {
		code = a.TrackingCode
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("code")
	ctx.SetParamValues(code)

	if err := h.GetByTrackingCode(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_CheckAvailability_SingleSlot(t *testing.T) {
	h, e, _ := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/?doctor_id=1&date=1403-06-10&time=09:00", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CheckAvailability(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp["available"] {
		t.Error("expected free slot to read as available")
	}
}

func TestHandler_CheckAvailability_BadDoctorID(t *testing.T) {
	h, e, _ := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/?doctor_id=abc&date=1403-06-10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CheckAvailability(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}
