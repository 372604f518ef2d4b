package prescription

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
	// Physician view and prescription lifecycle
	physician := api.Group("/physician-meds")
	physician.GET("/:patient_id", h.ListPhysicianMedications)
	physician.POST("/prescriptions", h.CreatePrescription)
	physician.PUT("/medicine/:medId", h.EditMedication)
	physician.DELETE("/prescriptions/:id", h.DeletePrescription)

	// Patient view is read-only
	patient := api.Group("/patient-meds")
	patient.GET("/:patient_id", h.ListPatientMedications)
}

func (h *Handler) CreatePrescription(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err, "Invalid prescription body")
	}
	created, err := h.svc.CreatePrescription(c.Request().Context(), &req)
	if err != nil {
		return httpError(err, "Prescription not found", "Failed to create prescription")
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) EditMedication(c echo.Context) error {
	var req EditRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err, "Invalid prescription body")
	}
	medID, err := strconv.ParseInt(c.Param("medId"), 10, 64)
	if err != nil {
		// a malformed medId is reported like a missing one
		return httpError(&ValidationError{Msg: "Missing user_id or medId"}, "", "")
	}
	req.MedID = medID

	edit, err := h.svc.EditMedication(c.Request().Context(), &req)
	if err != nil {
		return httpError(err, "User_medicine row not found", "Failed to update prescription")
	}
	return c.JSON(http.StatusOK, edit)
}

func (h *Handler) DeletePrescription(c echo.Context) error {
	if err := h.svc.DeletePrescription(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err, "Prescription not found", "Failed to delete prescription")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Prescription deleted"})
}

func (h *Handler) ListPatientMedications(c echo.Context) error {
	patientID, err := pathID(c, "patient_id")
	if err != nil {
		return err
	}
	items, err := h.svc.ListPatientMedications(c.Request().Context(), patientID)
	if err != nil {
		return httpError(err, "", "Failed to fetch patient medications")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListPhysicianMedications(c echo.Context) error {
	patientID, err := pathID(c, "patient_id")
	if err != nil {
		return err
	}
	items, err := h.svc.ListPhysicianMedications(c.Request().Context(), patientID)
	if err != nil {
		return httpError(err, "", "Failed to fetch physician view")
	}
	return c.JSON(http.StatusOK, items)
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// bindError keeps the body limit's 413 and reports anything else as 400.
func bindError(err error, msg string) error {
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge {
		return he
	}
	return echo.NewHTTPError(http.StatusBadRequest, msg).SetInternal(err)
}

// httpError maps service errors to responses. Store failures get a generic
// message; the cause rides along as the internal error for the access log.
func httpError(err error, notFound, failed string) error {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Msg)
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, notFound)
	case errors.Is(err, ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "Prescription id conflict, please retry").SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, failed).SetInternal(err)
	}
}
