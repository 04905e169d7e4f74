package handler

import (
	"net/http"

	"fashionshop/internal/middleware"
	"fashionshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	uc           *usecase.AuthUsecase
	cookieSecure bool
}

// DIコンストラクタ
func NewAuthHandler(uc *usecase.AuthUsecase, cookieSecure bool) *AuthHandler {
	return &AuthHandler{uc: uc, cookieSecure: cookieSecure}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, requireLogin echo.MiddlewareFunc) {
	e.GET("/register", h.registerPage)
	e.POST("/register", h.register)
	e.GET("/login", h.loginPage)
	e.POST("/login", h.login)
	e.GET("/logout", h.logout, requireLogin)
	e.GET("/profile", h.profile, requireLogin)
}

func (h *AuthHandler) registerPage(c echo.Context) error {
	if _, ok := middleware.CurrentUser(c); ok {
		return c.Redirect(http.StatusFound, "/")
	}
	return render(c, http.StatusOK, "register.html", nil)
}

// POST /register
func (h *AuthHandler) register(c echo.Context) error {
	if _, ok := middleware.CurrentUser(c); ok {
		return c.Redirect(http.StatusFound, "/")
	}

	_, err := h.uc.Register(c.Request().Context(), usecase.RegisterInput{
		Username:        c.FormValue("username"),
		Email:           c.FormValue("email"),
		Password:        c.FormValue("password"),
		ConfirmPassword: c.FormValue("confirm_password"),
	})
	if err != nil {
		if he, ok := usecase.AsHTTPError(err); ok && he.Status < http.StatusInternalServerError {
			return renderFormError(c, he, "register.html", registerFormData(c))
		}
		return writeError(c, err, "/register")
	}

	return redirectWithFlash(c, flashSuccess, "Your account has been created! You can now log in.", "/login")
}

func (h *AuthHandler) loginPage(c echo.Context) error {
	if _, ok := middleware.CurrentUser(c); ok {
		return c.Redirect(http.StatusFound, "/")
	}
	return render(c, http.StatusOK, "login.html", map[string]string{"next": c.QueryParam("next")})
}

// POST /login
func (h *AuthHandler) login(c echo.Context) error {
	if _, ok := middleware.CurrentUser(c); ok {
		return c.Redirect(http.StatusFound, "/")
	}

	next := c.QueryParam("next")
	if next == "" {
		next = c.FormValue("next")
	}

	res, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
	})
	if err != nil {
		if he, ok := usecase.AsHTTPError(err); ok && he.Status < http.StatusInternalServerError {
			return renderFormError(c, he, "login.html", map[string]string{
				"username": c.FormValue("username"),
				"next":     next,
			})
		}
		return writeError(c, err, "/login")
	}

	middleware.SetSessionCookie(c, res.Token, res.ExpiresAt, h.cookieSecure)
	return redirectWithFlash(c, flashSuccess, "Logged in successfully!", safeNext(next, "/"))
}

func (h *AuthHandler) logout(c echo.Context) error {
	userID, _ := getUserIDFromContext(c)
	if err := h.uc.Logout(c.Request().Context(), userID); err != nil {
		return writeError(c, err, "/")
	}

	middleware.ClearSessionCookie(c, h.cookieSecure)
	return redirectWithFlash(c, flashInfo, "You have been logged out.", "/")
}

func (h *AuthHandler) profile(c echo.Context) error {
	userID, _ := getUserIDFromContext(c)
	u, err := h.uc.Profile(c.Request().Context(), userID)
	if err != nil {
		return pageError(c, err)
	}
	return render(c, http.StatusOK, "profile.html", map[string]interface{}{"user": u})
}

// パスワード以外を表示し直す
func registerFormData(c echo.Context) map[string]string {
	return map[string]string{
		"username": c.FormValue("username"),
		"email":    c.FormValue("email"),
	}
}
