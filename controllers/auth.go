package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/cbam_end/models"
	"github.com/BerniceZTT/cbam_end/repository"
	"github.com/BerniceZTT/cbam_end/utils"
)

// Login 用户登录
func (ctl *Controller) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	utils.Logger.Info().Str("username", req.Username).Msg("login attempt")

	user, err := ctl.store.FindUserByUsername(c.Request.Context(), req.Username)
	if errors.Is(err, repository.ErrNotFound) {
		utils.Logger.Info().Str("username", req.Username).Msg("login failed: unknown username")
		utils.ErrorResponse(c, "invalid username or password", http.StatusUnauthorized)
		return
	}
	if err != nil {
		utils.Logger.Error().Err(err).Msg("find user failed")
		utils.ErrorResponse(c, "login failed: database error", http.StatusInternalServerError)
		return
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		utils.Logger.Info().Str("username", req.Username).Msg("login failed: wrong password")
		utils.ErrorResponse(c, "invalid username or password", http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateToken(*user)
	if err != nil {
		utils.ErrorResponse(c, "failed to issue token, please retry", http.StatusInternalServerError)
		return
	}

	user.Password = ""
	utils.Logger.Info().Str("username", user.Username).Msg("login succeeded")
	utils.SuccessResponse(c, models.LoginResponse{Token: token, User: *user}, "")
}

// ValidateToken 验证token
func (ctl *Controller) ValidateToken(c *gin.Context) {
	user, err := utils.GetUser(c)
	if err != nil {
		utils.ErrorResponse(c, err.Error(), http.StatusUnauthorized)
		return
	}
	if user.ID == "" || user.Username == "" || user.Role == "" {
		utils.ErrorResponse(c, "invalid token: incomplete user", http.StatusUnauthorized)
		return
	}

	// token签发后账号可能已被删除
	if _, err := ctl.store.FindUserByUsername(c.Request.Context(), user.Username); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.ErrorResponse(c, "user no longer exists", http.StatusUnauthorized)
			return
		}
		storeError(c, err, "user")
		return
	}

	utils.SuccessResponse(c, gin.H{"valid": true, "user": user}, "")
}

// CreateUser 创建用户，仅超级管理员
func (ctl *Controller) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}
	switch req.Role {
	case models.UserRoleCOMPLIANCE_MANAGER, models.UserRoleVIEWER:
	default:
		utils.HandleError(c, utils.CreateBadRequestError("role must be COMPLIANCE_MANAGER or VIEWER"))
		return
	}

	now := time.Now()
	user, err := ctl.store.CreateUser(c.Request.Context(), models.User{
		Username:  req.Username,
		Password:  utils.HashPassword(req.Password),
		Role:      req.Role,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		storeError(c, err, "user")
		return
	}

	utils.Logger.Info().Str("username", user.Username).Str("role", string(user.Role)).Msg("user created")
	user.Password = ""
	utils.SuccessResponse(c, user, "user created", http.StatusCreated)
}
