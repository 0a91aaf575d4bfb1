package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/loandesk/loan-manager/internal/core/domain"
	"github.com/loandesk/loan-manager/internal/core/ports"
)

// LoanHandler handles HTTP requests for loan application operations.
type LoanHandler struct {
	service ports.LoanService
}

func NewLoanHandler(service ports.LoanService) *LoanHandler {
	return &LoanHandler{service: service}
}

type loanResponse struct {
	Message string                  `json:"message"`
	Loan    *domain.LoanApplication `json:"loan"`
}

// Create submits a new loan application.
//
// @Summary      Submit a loan application
// @Tags         loans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createLoanRequest  true  "Loan application details"
// @Success      201   {object}  loanResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Router       /loans [post]
func (h *LoanHandler) Create(c echo.Context) error {
	callerID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createLoanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	loan, err := h.service.Create(c.Request().Context(), ports.CreateLoanInput{
		FullName:  req.FullName,
		Amount:    req.Amount,
		Purpose:   req.Purpose,
		CreatedBy: callerID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, loanResponse{Message: "loan application submitted successfully", Loan: loan})
}

// ListAll returns every loan application with owner details. Admin only.
//
// @Summary      List all loan applications
// @Tags         loans
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.LoanWithOwner
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Router       /loans [get]
func (h *LoanHandler) ListAll(c echo.Context) error {
	loans, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loans)
}

// ListOwn returns the caller's own loan applications.
//
// @Summary      List the caller's loan applications
// @Tags         loans
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.LoanApplication
// @Failure      401  {object}  messageResponse
// @Router       /loans/my-loans [get]
func (h *LoanHandler) ListOwn(c echo.Context) error {
	callerID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	loans, err := h.service.ListOwn(c.Request().Context(), callerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loans)
}

// UpdateStatus transitions a loan application's status under the role rules.
//
// @Summary      Update a loan application's status
// @Tags         loans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Loan id"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  loanResponse
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /loans/{id}/status [patch]
func (h *LoanHandler) UpdateStatus(c echo.Context) error {
	callerID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	loan, err := h.service.UpdateStatus(c.Request().Context(), ports.UpdateStatusInput{
		LoanID:     c.Param("id"),
		NewStatus:  domain.LoanStatus(req.Status),
		CallerID:   callerID,
		CallerRole: role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loanResponse{Message: "loan status updated", Loan: loan})
}
