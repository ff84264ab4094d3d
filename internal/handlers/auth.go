package handlers

import (
	"net/http"

	"library_backend/internal/models"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

func (r registerRequest) toRegistration() models.Registration {
	return models.Registration{
		Username: r.Username,
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Phone:    r.Phone,
	}
}

// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  service.AuthResult
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input loginRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	res, err := h.services.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		h.respondError(c, err, "auth_sign_in_failed", "email", models.NormalizeEmail(input.Email))
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Register a member account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account"
// @Success      200   {object}  models.UserProfile
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var input registerRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	profile, err := h.services.Register(c.Request.Context(), input.toRegistration())
	if err != nil {
		h.respondError(c, err, "auth_sign_up_failed", "username", input.Username)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// @Summary      Verify a token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  models.UserProfile
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/auth/verify [get]
// @Security     BearerAuth
func (h *Handler) verify(c *gin.Context) {
	token, msg := bearerToken(c)
	if msg != "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
		return
	}

	profile, err := h.services.VerifyToken(c.Request.Context(), token)
	if err != nil {
		h.respondError(c, err, "auth_verify_failed")
		return
	}
	c.JSON(http.StatusOK, profile)
}
