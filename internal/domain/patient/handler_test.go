package patient

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	svc, _ := newTestService()
	return NewHandler(svc), echo.New()
}

func expectStatus(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Errorf("expected %d, got %d", code, he.Code)
	}
}

func TestGetDoctor_Handler(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("patient_id")
	c.SetParamValues("7")
	if err := h.GetDoctor(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var result map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &result)
	if result["doctor_name"] != "Dr. Rivera" || result["doctor_specialty"] != "Cardiology" {
		t.Errorf("unexpected body %v", result)
	}
}

func TestGetDoctor_Handler_NotFound(t *testing.T) {
	h, e := newTestHandler()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("patient_id")
	c.SetParamValues("8")
	expectStatus(t, h.GetDoctor(c), http.StatusNotFound)
}

func TestListByDoctor_Handler(t *testing.T) {
	h, e := newTestHandler()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("doctor_id")
	c.SetParamValues("3")
	if err := h.ListByDoctor(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var items []map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &items)
	if len(items) != 2 || items[0]["first_name"] != "Sam" {
		t.Errorf("unexpected body %v", items)
	}
}

func TestListByDoctor_Handler_BadID(t *testing.T) {
	h, e := newTestHandler()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("doctor_id")
	c.SetParamValues("dr3")
	expectStatus(t, h.ListByDoctor(c), http.StatusBadRequest)
}

func patchVitals(e *echo.Echo, patientID, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("patient_id")
	c.SetParamValues(patientID)
	return c, rec
}

func TestUpdateVitals_Handler(t *testing.T) {
	h, e := newTestHandler()
	c, rec := patchVitals(e, "7", `{"systolic":118,"diastolic":76}`)
	if err := h.UpdateVitals(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var result map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &result)
	if result["systolic"] != float64(118) || result["diastolic"] != float64(76) {
		t.Errorf("unexpected vitals %v", result)
	}
	if result["patient_id"] != float64(7) {
		t.Errorf("expected patient 7, got %v", result["patient_id"])
	}
}

func TestUpdateVitals_Handler_Errors(t *testing.T) {
	h, e := newTestHandler()

	c, _ := patchVitals(e, "7", `{}`)
	expectStatus(t, h.UpdateVitals(c), http.StatusBadRequest)

	c, _ = patchVitals(e, "404", `{"weight":80}`)
	expectStatus(t, h.UpdateVitals(c), http.StatusNotFound)

	c, _ = patchVitals(e, "7", `{"weight":"heavy"}`)
	expectStatus(t, h.UpdateVitals(c), http.StatusBadRequest)
}
