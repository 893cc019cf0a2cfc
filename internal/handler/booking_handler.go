package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rentora/rental-service/internal/dto"
	"github.com/rentora/rental-service/internal/middleware"
	"github.com/rentora/rental-service/internal/models"
	"github.com/rentora/rental-service/internal/service"
)

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.POST("", h.CreateBooking, auth)
	g.GET("", h.ListBookings, auth)
	g.PUT("/:bookingId", h.UpdateBooking, auth)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "you must be logged in to access this resource")
	}

	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	start, err := time.ParseInLocation(dto.DateLayout, req.RentStartDate, time.Local)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "rent_start_date must be a valid YYYY-MM-DD date")
	}
	end, err := time.ParseInLocation(dto.DateLayout, req.RentEndDate, time.Local)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "rent_end_date must be a valid YYYY-MM-DD date")
	}

	booking, err := h.svc.CreateBooking(c.Request().Context(), actorOf(user), service.CreateBookingInput{
		VehicleID:     req.VehicleID,
		RentStartDate: start,
		RentEndDate:   end,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDateRange), errors.Is(err, service.ErrStartDateInPast):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrVehicleUnavailable):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToCreatedBookingResponse(booking))
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "you must be logged in to access this resource")
	}

	bookings, err := h.svc.ListBookings(c.Request().Context(), actorOf(user))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.BookingResponse, len(bookings))
	for i, b := range bookings {
		if user.Role == models.RoleAdmin {
			resp[i] = dto.ToAdminBookingResponse(&b)
		} else {
			resp[i] = dto.ToCustomerBookingResponse(&b)
		}
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) UpdateBooking(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "you must be logged in to access this resource")
	}

	bookingID, err := strconv.ParseUint(c.Param("bookingId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	var req dto.UpdateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	booking, err := h.svc.UpdateBooking(c.Request().Context(), actorOf(user), uint(bookingID), models.BookingStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookingNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotBookingOwner), errors.Is(err, service.ErrCustomerCancelOnly):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrBookingClosed):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidStatus):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.ToUpdatedBookingResponse(booking))
}

func actorOf(user middleware.AuthUser) service.Actor {
	return service.Actor{ID: user.ID, Role: user.Role}
}
