package patient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler(t *testing.T) (*Handler, *echo.Echo) {
	t.Helper()
	svc, _ := newTestService(t)
	return NewHandler(svc), echo.New()
}

func TestHandler_Create(t *testing.T) {
	h, e := newTestHandler(t)

	body := `{"firstName":"Fatima","lastName":"Alaoui","city":"Rabat"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var p Patient
	json.Unmarshal(rec.Body.Bytes(), &p)
	if p.PatientNumber != "P001" {
		t.Errorf("expected P001, got %s", p.PatientNumber)
	}
	if p.LastName != "Alaoui" {
		t.Errorf("expected Alaoui, got %s", p.LastName)
	}
}

func TestHandler_Get_NotFound(t *testing.T) {
	h, e := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.Get(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_Update_PartialMerge(t *testing.T) {
	h, e := newTestHandler(t)

	p := &Patient{FirstName: "Fatima", LastName: "Alaoui", Phone: "0600000000"}
	h.svc.Create(context.Background(), p)

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"phone":"0611111111"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	if err := h.Update(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var updated Patient
	json.Unmarshal(rec.Body.Bytes(), &updated)
	if updated.Phone != "0611111111" || updated.FirstName != "Fatima" {
		t.Errorf("expected merged record, got %+v", updated)
	}
}

func TestHandler_Delete(t *testing.T) {
	h, e := newTestHandler(t)

	p := &Patient{LastName: "Courte"}
	h.svc.Create(context.Background(), p)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	if err := h.Delete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestHandler_Update_InvalidID(t *testing.T) {
	h, e := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.Update(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}
