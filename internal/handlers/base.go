package handlers

import (
	"net/http"

	"infoshare/internal/logger"
	"infoshare/internal/middleware"
	"infoshare/internal/services"
	"infoshare/internal/utils"

	"github.com/gin-gonic/gin"
)

var htmlEnabled bool

// EnableHTML switches Render from JSON to the loaded templates.
func EnableHTML(on bool) {
	htmlEnabled = on
}

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user := middleware.CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
		if count, ok := c.Get(middleware.UnreadCountKey); ok {
			obj["UnreadCount"] = count
		} else {
			obj["UnreadCount"] = 0
		}
	}
	obj["CurrentPath"] = c.Request.URL.Path

	if !htmlEnabled {
		delete(obj, "CurrentPath")
		c.JSON(code, obj)
		return
	}
	c.HTML(code, name, obj)
}

// Error helper
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message, "message": message})
}

// renderServiceError turns a service error into an error page.
func renderServiceError(c *gin.Context, err error) {
	code := services.StatusOf(err)
	if code == http.StatusInternalServerError {
		logger.Error("request failed", logger.String("path", c.Request.URL.Path), logger.ErrorField(err))
	}
	RenderError(c, code, services.PublicMessage(err))
}

// jsonError answers JSON endpoints: every failure is a 400 with a message.
func jsonError(c *gin.Context, err error) {
	if services.StatusOf(err) == http.StatusInternalServerError {
		logger.Error("request failed", logger.String("path", c.Request.URL.Path), logger.ErrorField(err))
	}
	c.JSON(http.StatusBadRequest, gin.H{"message": services.PublicMessage(err)})
}

func paramID(c *gin.Context, name string) (uint, bool) {
	return utils.ParseID(c.Param(name))
}
