package handler

import (
	"errors"
	"net/http"

	"github.com/nirajkr26/linkly/config"
	"github.com/nirajkr26/linkly/internal/jwt"
	"github.com/nirajkr26/linkly/internal/response"
	"github.com/nirajkr26/linkly/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service *service.UserService
	cfg     *config.Config
}

func NewUserHandler(service *service.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		service: service,
		cfg:     cfg,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register godoc
//
//	@Summary		Register a user
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			user	body		RegisterRequest		true	"Registration parameters"
//	@Success		201		{object}	response.Envelope	"User registered"
//	@Failure		400		{object}	response.Envelope	"Validation error"
//	@Failure		409		{object}	response.Envelope	"User already exists"
//	@Failure		500		{object}	response.Envelope	"Server error"
//	@Router			/api/auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(err.Error()))
		return
	}

	user, err := h.service.Register(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			c.JSON(http.StatusConflict, response.Error("User already exists"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error("Failed to register user"))
		return
	}

	token, err := jwt.GenerateToken(user.ID.String(), &h.cfg.JWT)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error("Failed to generate token"))
		return
	}

	c.JSON(http.StatusCreated, response.Success("User registered successfully", response.AuthResponse{
		User:  response.NewUserResponse(user),
		Token: token,
	}))
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
//
//	@Summary		Log a user in
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			user	body		LoginRequest		true	"Login parameters"
//	@Success		200		{object}	response.Envelope	"User logged in"
//	@Failure		400		{object}	response.Envelope	"Validation error"
//	@Failure		401		{object}	response.Envelope	"Invalid credentials"
//	@Router			/api/auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(err.Error()))
		return
	}

	user, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, response.Error("Invalid credentials"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error("Failed to log in"))
		return
	}

	token, err := jwt.GenerateToken(user.ID.String(), &h.cfg.JWT)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error("Failed to generate token"))
		return
	}

	c.JSON(http.StatusOK, response.Success("User logged in successfully", response.AuthResponse{
		User:  response.NewUserResponse(user),
		Token: token,
	}))
}

type GoogleCallbackRequest struct {
	GoogleID string `json:"googleId" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Avatar   string `json:"avatar"`
}

// GoogleCallback consumes the identity result of the external OAuth flow.
func (h *UserHandler) GoogleCallback(c *gin.Context) {
	var req GoogleCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(err.Error()))
		return
	}

	user, err := h.service.LoginWithGoogle(req.GoogleID, req.Email, req.Name, req.Avatar)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error("Google authentication failed"))
		return
	}

	token, err := jwt.GenerateToken(user.ID.String(), &h.cfg.JWT)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error("Failed to generate token"))
		return
	}

	c.JSON(http.StatusOK, response.Success("User logged in successfully", response.AuthResponse{
		User:  response.NewUserResponse(user),
		Token: token,
	}))
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error("Not authenticated"))
		return
	}

	user, err := h.service.Profile(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error("User not found"))
		return
	}

	c.JSON(http.StatusOK, response.Success("Current user fetched successfully", gin.H{
		"user": response.NewUserResponse(user),
	}))
}
