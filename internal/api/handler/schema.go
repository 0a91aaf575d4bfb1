package handler

// messageResponse is the standard envelope for informational responses.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	// Role is advisory: "admin" is honoured only for callers presenting a
	// valid admin token, anything else stores verifier.
	Role string `json:"role" validate:"omitempty,oneof=verifier admin"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=verifier admin"`
}

// --- Loans ---

type createLoanRequest struct {
	FullName string  `json:"full_name" validate:"required"`
	Amount   float64 `json:"amount"    validate:"required,gt=0,lte=100000000"`
	Purpose  string  `json:"purpose"   validate:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending verified approved rejected"`
}
