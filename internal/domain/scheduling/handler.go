package scheduling

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
	// Booking is a front-desk operation; the schedule views also serve the
	// doctor's own day screen.
	booking := api.Group("/appointments", auth.RequireRole(auth.RoleAdmin, auth.RoleSecretary))
	booking.POST("", h.BookVisit)
	booking.GET("", h.ListAppointments)
	booking.PUT("/:id/status", h.UpdateStatus)

	read := api.Group("/appointments", auth.RequireRole(auth.RoleAdmin, auth.RoleSecretary, auth.RoleDoctor))
	read.GET("/:id", h.GetAppointment)
	read.GET("/tracking/:code", h.GetByTrackingCode)

	schedule := api.Group("/schedule", auth.RequireRole(auth.RoleAdmin, auth.RoleSecretary, auth.RoleDoctor))
	schedule.GET("/availability", h.CheckAvailability)
	schedule.GET("/doctors/:id", h.DoctorDay)
	schedule.GET("/patients/:id", h.PatientHistory)
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

type bookVisitRequest struct {
	Patient      PatientInfo `json:"patient"`
	DoctorID     int64       `json:"doctor_id"`
	ReservedDate string      `json:"reserved_date"`
	ReservedTime string      `json:"reserved_time"`
}

func (h *Handler) BookVisit(c echo.Context) error {
	var req bookVisitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.DoctorID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "doctor_id is required")
	}
	a, err := h.svc.BookVisit(c.Request().Context(), req.Patient, req.DoctorID, req.ReservedDate, req.ReservedTime)
	if err != nil {
		switch {
		case errors.Is(err, ErrSlotTaken):
			return echo.NewHTTPError(http.StatusConflict, "slot already taken")
		case errors.Is(err, ErrInvalid):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.UpdateStatus(c.Request().Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		case errors.Is(err, ErrInvalid):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) GetByTrackingCode(c echo.Context) error {
	code := c.Param("code")
	a, err := h.svc.GetByTrackingCode(c.Request().Context(), code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	p := pagination.FromContext(c)
	list, total, err := h.svc.List(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(list, total, p.Limit, p.Offset))
}

// CheckAvailability answers the booking screen's slot lookup. It returns the
// free/taken flag for one slot when ?time= is present, otherwise the day's
// remaining free slots.
func (h *Handler) CheckAvailability(c echo.Context) error {
	doctorID, err := strconv.ParseInt(c.QueryParam("doctor_id"), 10, 64)
	if err != nil || doctorID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor_id")
	}
	date := c.QueryParam("date")
	if date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date is required")
	}
	if t := c.QueryParam("time"); t != "" {
		free, err := h.svc.CheckAvailability(c.Request().Context(), doctorID, date, t)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"available": free})
	}
	slots, err := h.svc.AvailableSlots(c.Request().Context(), doctorID, date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"available_slots": slots})
}

func (h *Handler) DoctorDay(c echo.Context) error {
	doctorID, err := parseID(c)
	if err != nil {
		return err
	}
	date := c.QueryParam("date")
	if date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date is required")
	}
	list, err := h.svc.ListByDoctorAndDate(c.Request().Context(), doctorID, date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) PatientHistory(c echo.Context) error {
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
