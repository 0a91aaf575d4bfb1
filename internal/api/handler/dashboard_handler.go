package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/loandesk/loan-manager/internal/core/ports"
)

// DashboardHandler serves the admin reporting endpoints.
type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats returns the aggregate dashboard statistics.
//
// @Summary      Dashboard statistics
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.DashboardStats
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Router       /dashboard/stats [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// LoansByMonth returns loan count and amount grouped by calendar month.
//
// @Summary      Loans grouped by month
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.MonthlyLoanStats
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Router       /dashboard/loans-by-month [get]
func (h *DashboardHandler) LoansByMonth(c echo.Context) error {
	rows, err := h.service.LoansByMonth(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

// LoansByStatus returns loan count and amount grouped by status.
//
// @Summary      Loans grouped by status
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.StatusLoanStats
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Router       /dashboard/loans-by-status [get]
func (h *DashboardHandler) LoansByStatus(c echo.Context) error {
	rows, err := h.service.LoansByStatus(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}
