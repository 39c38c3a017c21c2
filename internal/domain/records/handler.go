package records

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/matabyar/clinic/internal/platform/auth"
	"github.com/matabyar/clinic/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Records are clinical data; the front desk never sees them.
	rec := api.Group("/records", auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor))
	rec.GET("", h.ListRecords)
	rec.GET("/:id", h.GetRecord)
	rec.GET("/patients/:id", h.PatientRecords)

	write := api.Group("/records", auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor))
	write.POST("", h.CreateRecord)
	write.POST("/complete-visit", h.CompleteVisit)
	write.DELETE("/:id", h.DeleteRecord)
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func (h *Handler) CreateRecord(c echo.Context) error {
	var r MedicalRecord
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, r)
}

type completeVisitRequest struct {
	MedicalRecord
	AppointmentID int64 `json:"appointment_id"`
}

func (h *Handler) CompleteVisit(c echo.Context) error {
	var req completeVisitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CompleteVisit(c.Request().Context(), &req.MedicalRecord, req.AppointmentID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, req.MedicalRecord)
}

func (h *Handler) GetRecord(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	v, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medical record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) PatientRecords(c echo.Context) error {
	patientID, err := parseID(c)
	if err != nil {
		return err
	}
	list, err := h.svc.ListByPatient(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) ListRecords(c echo.Context) error {
	p := pagination.FromContext(c)
	if doctorID, err := strconv.ParseInt(c.QueryParam("doctor_id"), 10, 64); err == nil && doctorID > 0 {
		list, total, err := h.svc.ListByDoctor(c.Request().Context(), doctorID, p.Limit, p.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(list, total, p.Limit, p.Offset))
	}
	list, total, err := h.svc.List(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(list, total, p.Limit, p.Offset))
}

func (h *Handler) DeleteRecord(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medical record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
