package patient

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patient-meds/:patient_id/doctor", h.GetDoctor)
	api.GET("/physicians/:doctor_id/patients", h.ListByDoctor)
	api.PATCH("/physician-meds/patient/:patient_id/vitals", h.UpdateVitals)
}

func (h *Handler) GetDoctor(c echo.Context) error {
	patientID, err := pathID(c, "patient_id")
	if err != nil {
		return err
	}
	d, err := h.svc.GetDoctor(c.Request().Context(), patientID)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "No doctor found for this patient")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch doctor info").SetInternal(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListByDoctor(c echo.Context) error {
	doctorID, err := pathID(c, "doctor_id")
	if err != nil {
		return err
	}
	items, err := h.svc.ListByDoctor(c.Request().Context(), doctorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error retrieving patients for physician").SetInternal(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) UpdateVitals(c echo.Context) error {
	patientID, err := pathID(c, "patient_id")
	if err != nil {
		return err
	}
	var u VitalsUpdate
	if err := c.Bind(&u); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge {
			return he
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid vitals body").SetInternal(err)
	}

	v, err := h.svc.UpdateVitals(c.Request().Context(), patientID, &u)
	switch {
	case errors.Is(err, ErrNoVitals):
		return echo.NewHTTPError(http.StatusBadRequest, "No vitals to update")
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update vitals").SetInternal(err)
	}
	return c.JSON(http.StatusOK, v)
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
