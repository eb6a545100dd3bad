package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wingman-crm/internal/application/auth"
	"github.com/jhoicas/wingman-crm/internal/application/dto"
)

// AuthHandler maneja login, registro de comerciales y verificación de acceso.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Signup godoc
// @Summary      Registrar comercial
// @Description  Crea el comercial y su rol COMERCIAL en una transacción para el usuario del Bearer Token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignupRequest  true  "datos del comercial"
// @Success      201   {object}  dto.ComercialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/registro [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in dto.SignupRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	in.UserID = GetIdentity(c).UserID
	out, err := h.uc.Signup(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// VerifyAccess GET /api/auth/verify-access?role=admin|comercial
// Requiere AuthMiddleware. Un usuario sin rol responde 200 con has_access=false.
func (h *AuthHandler) VerifyAccess(c *fiber.Ctx) error {
	out, err := h.uc.VerifyAccess(c.Context(), GetIdentity(c), c.Query("role"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
