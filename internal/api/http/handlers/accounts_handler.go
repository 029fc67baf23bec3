package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/dashboard-gateway/internal/api/dto"
	"github.com/spec-kit/dashboard-gateway/internal/domain"
	"github.com/spec-kit/dashboard-gateway/internal/repository"
	"github.com/spec-kit/dashboard-gateway/internal/service"
	apperrors "github.com/spec-kit/dashboard-gateway/pkg/util/errorutil"
)

// AccountsHandler manages dashboard operator accounts.
type AccountsHandler struct {
	auth *service.AuthService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(authService *service.AuthService) *AccountsHandler {
	return &AccountsHandler{auth: authService}
}

// Create handles POST /api/accounts.
func (h *AccountsHandler) Create(c *fiber.Ctx) error {
	var req dto.AccountCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}
	role, ok := domain.ParseRole(string(req.Role))
	if !ok {
		return apperrors.NewValidationError("unknown role", map[string]any{"role": req.Role})
	}

	account, err := h.auth.CreateAccount(c.UserContext(), req.Name, req.Email, req.Password, role)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": accountResponse(account)})
}

// List handles GET /api/accounts.
func (h *AccountsHandler) List(c *fiber.Ctx) error {
	var filter repository.AccountFilter
	if roleStr := c.Query("role"); roleStr != "" {
		role, ok := domain.ParseRole(roleStr)
		if !ok {
			return apperrors.NewValidationError("unknown role", map[string]any{"role": roleStr})
		}
		filter.Role = &role
	}
	if active := c.Query("active"); active != "" {
		if val, err := strconv.ParseBool(active); err == nil {
			filter.Active = &val
		}
	}
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 50)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize

	accounts, err := h.auth.ListAccounts(c.UserContext(), filter)
	if err != nil {
		return err
	}
	resp := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		resp = append(resp, accountResponse(&accounts[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

func accountResponse(a *domain.Account) dto.AccountResponse {
	return dto.AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      a.Role,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
	}
}
