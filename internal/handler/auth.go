package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/joyas-pwa/joyas-api/internal/apperr"
    "github.com/joyas-pwa/joyas-api/internal/middleware"
    "github.com/joyas-pwa/joyas-api/internal/service"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
    Auth *service.AuthService
    // OnFailure, when set, is told about every rejected login.
    OnFailure func(stage string)
}

func NewAuthHandler(auth *service.AuthService, onFailure func(stage string)) *AuthHandler {
    return &AuthHandler{Auth: auth, OnFailure: onFailure}
}

// ----- DTOs -----

type loginReq struct {
    Username string `json:"username" form:"username"`
    Password string `json:"password" form:"password"`
}

type registerReq struct {
    Username string `json:"username" validate:"required,max=100"`
    Password string `json:"password" validate:"required"`
}

type tokenResp struct {
    AccessToken string    `json:"access_token"`
    TokenType   string    `json:"token_type"`
    ExpiresAt   time.Time `json:"expires_at"`
}

type registerResp struct {
    Message  string `json:"message"`
    ID       uint64 `json:"id"`
    Username string `json:"username"`
}

// Login exchanges a username and password for a bearer token.  Every
// credential failure answers the same 401 body.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return apperr.Validation("invalid request body", nil)
    }

    ctx, cancel := requestContext(c)
    defer cancel()

    res, err := h.Auth.Login(ctx, req.Username, req.Password)
    if err != nil {
        if apperr.KindOf(err) == apperr.KindUnauthorized && h.OnFailure != nil {
            h.OnFailure("login")
        }
        return err
    }
    return c.JSON(http.StatusOK, tokenResp{
        AccessToken: res.Token.Token,
        TokenType:   "bearer",
        ExpiresAt:   res.Token.Exp,
    })
}

// Register creates a user.  It does not log the user in.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }

    ctx, cancel := requestContext(c)
    defer cancel()

    u, err := h.Auth.Register(ctx, req.Username, req.Password)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusCreated, registerResp{Message: "user created", ID: u.ID, Username: u.Username})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
    u, ok := middleware.CurrentUser(c)
    if !ok {
        return middleware.ErrNotAuthenticated
    }
    return c.JSON(http.StatusOK, newUserResp(u))
}
