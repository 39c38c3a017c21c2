package staff

import (
	"errors"
	"net/http"

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

// RegisterPublicRoutes registers the login endpoint, which must stay
// outside the authenticated group.
func (h *Handler) RegisterPublicRoutes(e *echo.Echo) {
	e.POST("/api/v1/login", h.Login)
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.PUT("/credentials", h.UpdateCredentials)

	personnel := api.Group("/personnel", auth.RequireRole(auth.RoleAdmin))
	personnel.POST("", h.CreatePersonnel)
	personnel.GET("", h.ListPersonnel)
	personnel.GET("/:national_code", h.GetPersonnel)
	personnel.PUT("/:national_code", h.UpdatePersonnel)
	personnel.DELETE("/:national_code", h.DeletePersonnel)
}

type loginRequest struct {
	NationalCode string `json:"national_code"`
	Role         string `json:"role"`
	Password     string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	session, err := h.svc.Authenticate(c.Request().Context(), req.NationalCode, req.Role, req.Password)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, session)
}

type updateCredentialsRequest struct {
	NewNationalCode string `json:"new_national_code"`
	NewPassword     string `json:"new_password"`
}

// UpdateCredentials changes the caller's own login. The current identity
// comes from the token, never from the request body.
func (h *Handler) UpdateCredentials(c echo.Context) error {
	var req updateCredentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	current := auth.UserIDFromContext(c.Request().Context())
	if current == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}
	if err := h.svc.UpdateCredentials(c.Request().Context(), current, req.NewNationalCode, req.NewPassword); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "staff member not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

type createPersonnelRequest struct {
	Personnel
	Password string `json:"password"`
}

func (h *Handler) CreatePersonnel(c echo.Context) error {
	var req createPersonnelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreatePersonnel(c.Request().Context(), &req.Personnel, req.Password); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, req.Personnel)
}

func (h *Handler) GetPersonnel(c echo.Context) error {
	p, err := h.svc.GetPersonnel(c.Request().Context(), c.Param("national_code"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "personnel not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPersonnel(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListPersonnel(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdatePersonnel(c echo.Context) error {
	var p Personnel
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.NationalCode = c.Param("national_code")
	if err := h.svc.UpdatePersonnel(c.Request().Context(), &p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "personnel not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePersonnel(c echo.Context) error {
	if err := h.svc.DeletePersonnel(c.Request().Context(), c.Param("national_code")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
