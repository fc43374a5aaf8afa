package prediction

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sepsiswatch/sepsiswatch/internal/platform/auth"
	"github.com/sepsiswatch/sepsiswatch/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "doctor", "nurse"))
	g.POST("/predictions/patient/:id", h.PredictForPatient)
	g.POST("/predictions/batch", h.PredictBatch)
	g.GET("/predictions/:id", h.GetPrediction)
	g.GET("/predictions/patient/:id/history", h.History)
	g.POST("/alerts/:id/notifications", h.ResendAlertNotification)
}

// requestingUser pulls the authenticated user's id if one is present.
func requestingUser(c echo.Context) *uuid.UUID {
	id, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return nil
	}
	return &id
}

func (h *Handler) PredictForPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	res, err := h.svc.RunForPatient(c.Request().Context(), patientID, requestingUser(c))
	switch {
	case errors.Is(err, ErrPatientNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNoObservations):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}

type batchRequest struct {
	PatientIDs []uuid.UUID `json:"patient_ids"`
}

func (h *Handler) PredictBatch(c echo.Context) error {
	var req batchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.PatientIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_ids is required")
	}
	res := h.svc.RunForPatients(c.Request().Context(), req.PatientIDs, requestingUser(c))
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) GetPrediction(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "prediction not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) History(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	page := pagination.FromContext(c)
	items, total, err := h.svc.History(c.Request().Context(), patientID, page.Limit, page.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, page.Limit, page.Offset))
}

func (h *Handler) ResendAlertNotification(c echo.Context) error {
	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	outcome, err := h.svc.NotifyAlert(c.Request().Context(), alertID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, outcome)
}
