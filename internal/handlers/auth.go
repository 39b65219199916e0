package handlers

import (
	"errors"
	"net/http"
	"strings"

	"infoshare/internal/logger"
	"infoshare/internal/middleware"
	"infoshare/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	accounts *services.AccountService
}

func NewAuthHandler(svc *services.Services) *AuthHandler {
	return &AuthHandler{accounts: svc.Accounts}
}

// safeNext only follows local redirects.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	Render(c, http.StatusOK, "auth/register.html", gin.H{"Title": "Sign up"})
}

func (h *AuthHandler) Register(c *gin.Context) {
	in := services.RegisterInput{
		Username:  c.PostForm("username"),
		Password:  c.PostForm("password"),
		Email:     c.PostForm("email"),
		FirstName: c.PostForm("first_name"),
		LastName:  c.PostForm("last_name"),
	}
	if c.PostForm("password") != c.PostForm("password_confirm") && c.PostForm("password_confirm") != "" {
		Render(c, http.StatusBadRequest, "auth/register.html", gin.H{"Title": "Sign up", "Error": "passwords do not match", "Input": in})
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), in)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) || errors.Is(err, services.ErrUsernameTaken) {
			in.Password = ""
			Render(c, http.StatusBadRequest, "auth/register.html", gin.H{
				"Title": "Sign up", "Error": services.PublicMessage(err), "Errors": fieldsOf(err), "Input": in,
			})
			return
		}
		renderServiceError(c, err)
		return
	}

	h.login(c, user.ID)
	c.Redirect(http.StatusFound, "/")
}

func fieldsOf(err error) map[string]string {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "auth/login.html", gin.H{"Title": "Sign in", "Next": c.Query("next")})
}

func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	next := c.PostForm("next")

	user, err := h.accounts.Authenticate(c.Request.Context(), username, c.PostForm("password"))
	if err != nil {
		if errors.Is(err, services.ErrBadCredentials) {
			Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{"Title": "Sign in", "Error": err.Error(), "Next": next})
			return
		}
		renderServiceError(c, err)
		return
	}

	h.login(c, user.ID)
	c.Redirect(http.StatusFound, safeNext(next))
}

func (h *AuthHandler) login(c *gin.Context, userID uint) {
	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, userID)
	if err := session.Save(); err != nil {
		logger.Error("session save failed", logger.ErrorField(err))
	}
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.Redirect(http.StatusFound, "/")
}
