package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/eaglebank/account-api/shared/cqrs"
	"github.com/eaglebank/account-api/shared/middleware"
	"github.com/eaglebank/account-api/shared/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Client-facing messages. The web client matches on these strings.
const (
	msgSuccess            = "success"
	msgFailed             = "failed"
	msgInvalidBody        = "Invalid request body"
	msgInvalidCredentials = "Correo electrónico o contraseña inválidos"
	msgAuthUnavailable    = "Error al autenticar usuario. Por favor, inténtalo de nuevo más tarde."
	msgEmailRegistered    = "Este correo electrónico ya está registrado"
	msgUserNotFound       = "Usuario no encontrado"
	msgPasswordReset      = "Contraseña restablecida exitosamente"
	msgPasswordNotReset   = "No se pudo restablecer la contraseña"
)

// AccountCommander defines the write-side operations used by AccountHandler.
type AccountCommander interface {
	CreateAccount(context.Context, cqrs.CreateAccountCommand) (*models.AccountView, error)
	UpdateAccount(context.Context, cqrs.UpdateAccountCommand) (*models.AccountView, error)
	DeactivateAccount(context.Context, cqrs.DeactivateAccountCommand) (*models.AccountView, error)
	ResetPassword(context.Context, cqrs.ResetPasswordCommand) error
}

// AccountQuerier defines the read-side operations used by AccountHandler.
type AccountQuerier interface {
	AccountExists(context.Context, cqrs.AccountExistsQuery) (bool, error)
	Authenticate(context.Context, cqrs.AuthenticateQuery) (*models.AuthResult, error)
	ListActiveAccounts(context.Context, cqrs.ListActiveAccountsQuery) ([]models.AccountView, error)
}

// AccountHandler serves one account route group. The admin and self-service
// groups are two instances differing only in Options.
type AccountHandler struct {
	commands AccountCommander
	queries  AccountQuerier
	opts     Options
	log      zerolog.Logger
}

type CheckAccountRequest struct {
	Email string `json:"email"`
}

type CheckAccountResponse struct {
	UserExists bool `json:"userExists"`
}

type AuthRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenAuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type ProfileAuthResponse struct {
	Message  string      `json:"message"`
	UserType string      `json:"userType"`
	User     AuthProfile `json:"user"`
}

type AuthProfile struct {
	Name     string `json:"name"`
	LastName string `json:"lastName"`
	Email    string `json:"email"`
}

type AuthFailureResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// CreateAccountRequest keeps the field names the web client posts.
type CreateAccountRequest struct {
	Name     string `json:"nombre"`
	LastName string `json:"apellido"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
	UserType string `json:"tipoUsuario"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

type AccountResponse struct {
	User *models.AccountView `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewAccountHandler(commands AccountCommander, queries AccountQuerier, opts Options, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		commands: commands,
		queries:  queries,
		opts:     opts,
		log:      log.With().Str("component", "account_handler").Str("shape", string(opts.ResponseShape)).Logger(),
	}
}

// RegisterRoutes mounts the account routes relative to rg.
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/check-account", h.CheckAccount)
	rg.POST("/auth", h.Authenticate)
	rg.POST("/reset-password", h.ResetPassword)
	rg.GET("", h.ListActiveAccounts)
	rg.POST("", h.CreateAccount)
	rg.PUT("/:email", h.UpdateAccount)
	rg.DELETE("/:email", h.DeactivateAccount)
}

func (h *AccountHandler) CheckAccount(c *gin.Context) {
	var req CheckAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	exists, err := h.queries.AccountExists(c.Request.Context(), cqrs.AccountExistsQuery{Email: req.Email})
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, CheckAccountResponse{UserExists: exists})
}

func (h *AccountHandler) Authenticate(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.queries.Authenticate(c.Request.Context(), cqrs.AuthenticateQuery{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if h.opts.ResponseShape == ResponseProfile {
			h.log.Error().Err(err).Msg("authentication failed unexpectedly")
			c.JSON(http.StatusInternalServerError, AuthFailureResponse{Message: msgFailed, Error: msgAuthUnavailable})
			return
		}
		c.JSON(http.StatusUnauthorized, AuthFailureResponse{Message: msgFailed, Error: err.Error()})
		return
	}

	switch h.opts.ResponseShape {
	case ResponseProfile:
		if !result.OK() {
			c.JSON(http.StatusUnauthorized, AuthFailureResponse{Message: msgFailed, Error: result.Failure})
			return
		}
		c.JSON(http.StatusOK, ProfileAuthResponse{
			Message:  msgSuccess,
			UserType: result.UserType,
			User: AuthProfile{
				Name:     result.Name,
				LastName: result.LastName,
				Email:    result.Email,
			},
		})
	default:
		if !result.OK() || result.Token == "" {
			c.JSON(http.StatusUnauthorized, AuthFailureResponse{Message: msgFailed, Error: msgInvalidCredentials})
			return
		}
		c.JSON(http.StatusOK, TokenAuthResponse{Message: msgSuccess, Token: result.Token})
	}
}

func (h *AccountHandler) ListActiveAccounts(c *gin.Context) {
	views, err := h.queries.ListActiveAccounts(c.Request.Context(), cqrs.ListActiveAccountsQuery{})
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	if views == nil {
		views = []models.AccountView{}
	}

	c.JSON(http.StatusOK, views)
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if !h.opts.CollectAddress {
		req.Address = ""
	}

	if h.opts.ValidateCreate {
		schema := models.AccountSchema{
			Name:     req.Name,
			LastName: req.LastName,
			Email:    req.Email,
			Password: req.Password,
			Address:  req.Address,
			UserType: req.UserType,
		}
		if validationErrors := middleware.ValidateRequest(schema); validationErrors != nil {
			middleware.RespondWithValidationError(c, validationErrors)
			return
		}
	}

	ctx := c.Request.Context()
	if h.opts.DuplicateCheck == DuplicatePrecheck {
		exists, err := h.queries.AccountExists(ctx, cqrs.AccountExistsQuery{Email: req.Email})
		if err != nil {
			middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		if exists {
			middleware.RespondWithError(c, http.StatusBadRequest, msgEmailRegistered)
			return
		}
	}

	user, err := h.commands.CreateAccount(ctx, cqrs.CreateAccountCommand{
		Name:     req.Name,
		LastName: req.LastName,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		UserType: req.UserType,
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, AccountResponse{User: user})
}

func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	email := c.Param("email")

	var fields models.AccountUpdateSchema
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fields); err != nil && !errors.Is(err, io.EOF) {
		middleware.RespondWithError(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if validationErrors := middleware.ValidateRequest(fields); validationErrors != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, validationErrors.Error())
		return
	}

	user, err := h.commands.UpdateAccount(c.Request.Context(), cqrs.UpdateAccountCommand{
		Email:  email,
		Fields: fields,
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, AccountResponse{User: user})
}

func (h *AccountHandler) DeactivateAccount(c *gin.Context) {
	user, err := h.commands.DeactivateAccount(c.Request.Context(), cqrs.DeactivateAccountCommand{
		Email: c.Param("email"),
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, AccountResponse{User: user})
}

// ResetPassword never leaks the failure detail to the client; it is logged.
func (h *AccountHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, msgPasswordNotReset)
		return
	}

	ctx := c.Request.Context()
	exists, err := h.queries.AccountExists(ctx, cqrs.AccountExistsQuery{Email: req.Email})
	if err != nil {
		h.log.Error().Err(err).Str("email", req.Email).Msg("password reset failed")
		middleware.RespondWithError(c, http.StatusBadRequest, msgPasswordNotReset)
		return
	}
	if !exists {
		middleware.RespondWithError(c, http.StatusNotFound, msgUserNotFound)
		return
	}

	if err := h.commands.ResetPassword(ctx, cqrs.ResetPasswordCommand{
		Email:       req.Email,
		NewPassword: req.NewPassword,
	}); err != nil {
		h.log.Error().Err(err).Str("email", req.Email).Msg("password reset failed")
		middleware.RespondWithError(c, http.StatusBadRequest, msgPasswordNotReset)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: msgPasswordReset})
}
