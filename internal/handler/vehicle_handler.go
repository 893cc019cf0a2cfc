package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rentora/rental-service/internal/dto"
	"github.com/rentora/rental-service/internal/models"
	"github.com/rentora/rental-service/internal/service"
)

type VehicleHandler struct {
	svc service.VehicleService
}

func NewVehicleHandler(svc service.VehicleService) *VehicleHandler {
	return &VehicleHandler{svc: svc}
}

func (h *VehicleHandler) RegisterRoutes(g *echo.Group, adminOnly echo.MiddlewareFunc) {
	g.POST("", h.CreateVehicle, adminOnly)
	g.GET("", h.ListVehicles)
	g.GET("/:vehicleId", h.GetVehicle)
	g.PUT("/:vehicleId", h.UpdateVehicle, adminOnly)
	g.DELETE("/:vehicleId", h.DeleteVehicle, adminOnly)
}

func (h *VehicleHandler) CreateVehicle(c echo.Context) error {
	var req dto.VehicleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	vehicle, err := h.svc.CreateVehicle(c.Request().Context(), vehicleInputOf(req))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRegistrationTaken):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidVehicleType):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToVehicleResponse(vehicle))
}

func (h *VehicleHandler) ListVehicles(c echo.Context) error {
	vehicles, err := h.svc.ListVehicles(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.VehicleResponse, len(vehicles))
	for i, v := range vehicles {
		resp[i] = dto.ToVehicleResponse(&v)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *VehicleHandler) GetVehicle(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("vehicleId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid vehicle id")
	}

	vehicle, err := h.svc.GetVehicle(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToVehicleResponse(vehicle))
}

func (h *VehicleHandler) UpdateVehicle(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("vehicleId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid vehicle id")
	}

	var req dto.VehicleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	vehicle, err := h.svc.UpdateVehicle(c.Request().Context(), uint(id), vehicleInputOf(req))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVehicleNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidVehicleType):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.ToVehicleResponse(vehicle))
}

func (h *VehicleHandler) DeleteVehicle(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("vehicleId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid vehicle id")
	}

	if err := h.svc.DeleteVehicle(c.Request().Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, service.ErrVehicleNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrVehicleHasBookings):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "vehicle deleted successfully"})
}

func vehicleInputOf(req dto.VehicleRequest) service.VehicleInput {
	return service.VehicleInput{
		VehicleName:        req.VehicleName,
		Type:               models.VehicleType(req.Type),
		RegistrationNumber: req.RegistrationNumber,
		DailyRentPrice:     req.DailyRentPrice,
		AvailabilityStatus: models.AvailabilityStatus(req.AvailabilityStatus),
	}
}
