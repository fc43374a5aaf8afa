package feedback

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
	g.POST("/feedback", h.CreateFeedback)
	g.GET("/feedback/prediction/:id", h.ListByPrediction)
	g.GET("/feedback/user/:id", h.ListByUser)
	g.GET("/feedback/patient/:id", h.ListByPatient)
}

func (h *Handler) CreateFeedback(c echo.Context) error {
	var f Feedback
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	userID, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
	}
	f.UserID = userID
	if err := h.svc.Create(c.Request().Context(), &f); err != nil {
		if errors.Is(err, ErrPredictionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *Handler) ListByPrediction(c echo.Context) error {
	predictionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.ListByPrediction(c.Request().Context(), predictionID)
	if err != nil {
		if errors.Is(err, ErrPredictionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

// ListByUser serves a user's own feedback; admins may read anyone's.
func (h *Handler) ListByUser(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if auth.UserIDFromContext(c.Request().Context()) != userID.String() && !isAdmin(c) {
		return echo.NewHTTPError(http.StatusForbidden, "cannot read another user's feedback")
	}
	page := pagination.FromContext(c)
	items, total, err := h.svc.ListByUser(c.Request().Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, page.Limit, page.Offset))
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	page := pagination.FromContext(c)
	items, total, err := h.svc.ListByPatient(c.Request().Context(), patientID, page.Limit, page.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, page.Limit, page.Offset))
}

func isAdmin(c echo.Context) bool {
	for _, role := range auth.RolesFromContext(c.Request().Context()) {
		if role == "admin" {
			return true
		}
	}
	return false
}
