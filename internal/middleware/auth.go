package middleware

import (
	"net/http"
	"net/url"

	"infoshare/internal/models"
	"infoshare/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"
const UnreadCountKey = "unread_count"
const SessionUserKey = "user_id"

// CurrentUser returns the logged in user or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(CheckUserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, "/signin?next="+url.QueryEscape(c.Request.URL.Path))
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthRequiredJSON rejects anonymous calls to JSON endpoints.
func AuthRequiredJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": services.ErrUnauthenticated.Error()})
			return
		}
		c.Next()
	}
}

func StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsStaff {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": services.ErrPermission.Error()})
			return
		}
		c.Next()
	}
}

// LoadUser retrieves user from session and sets to context
func LoadUser(accounts *services.AccountService, notes *services.NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, ok := session.Get(SessionUserKey).(uint)
		if !ok || id == 0 {
			c.Next()
			return
		}

		user, err := accounts.GetUser(c.Request.Context(), id)
		if err != nil {
			// Stale session: the account is gone.
			session.Delete(SessionUserKey)
			_ = session.Save()
			c.Next()
			return
		}
		c.Set(CheckUserKey, user)

		count, err := notes.UnreadCount(c.Request.Context(), user.ID)
		if err == nil {
			c.Set(UnreadCountKey, count)
		}
		c.Next()
	}
}
