package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"infoshare/internal/middleware"
	"infoshare/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	accounts   *services.AccountService
	engagement *services.EngagementService
	paywall    *services.PaywallService
}

func NewUserHandler(svc *services.Services) *UserHandler {
	return &UserHandler{
		accounts:   svc.Accounts,
		engagement: svc.Engagement,
		paywall:    svc.Paywall,
	}
}

// Profile is the public page of an author.
func (h *UserHandler) Profile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		RenderError(c, http.StatusNotFound, services.ErrNotFound.Error())
		return
	}
	profile, err := h.accounts.Profile(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	Render(c, http.StatusOK, "user/profile.html", gin.H{
		"Title":   profile.User.FullName(),
		"Profile": profile,
	})
}

// PointLogs shows the current user's balance and ledger.
func (h *UserHandler) PointLogs(c *gin.Context) {
	user := middleware.CurrentUser(c)
	logs, err := h.paywall.PointLogs(c.Request.Context(), user, 100)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	Render(c, http.StatusOK, "user/points.html", gin.H{
		"Title":  "Points",
		"Points": user.Points,
		"Logs":   logs,
		"Active": "points",
	})
}

// Follow toggles following the user in the path.
func (h *UserHandler) Follow(c *gin.Context) {
	id, ok := paramID(c, "user_id")
	if !ok {
		jsonError(c, services.ErrNotFound)
		return
	}
	res, err := h.engagement.ToggleFollow(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		jsonError(c, err)
		return
	}

	message := "Followed"
	if res.Type == "unfollowed" {
		message = "Unfollowed"
	}
	c.JSON(http.StatusOK, gin.H{
		"type":            res.Type,
		"followers_count": res.FollowersCount,
		"message":         message,
	})
}

func (h *UserHandler) ShowEdit(c *gin.Context) {
	user := middleware.CurrentUser(c)
	Render(c, http.StatusOK, "user/edit.html", gin.H{
		"Title": "Edit profile",
		"Input": services.ProfileInput{
			FirstName:  user.FirstName,
			LastName:   user.LastName,
			AvatarLink: user.AvatarLink,
			Phone:      user.Phone,
		},
	})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	in := services.ProfileInput{
		FirstName:  c.PostForm("first_name"),
		LastName:   c.PostForm("last_name"),
		AvatarLink: c.PostForm("avatar_link"),
		Phone:      c.PostForm("phone"),
	}
	if err := h.accounts.UpdateProfile(c.Request.Context(), user, in); err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			Render(c, http.StatusBadRequest, "user/edit.html", gin.H{
				"Title": "Edit profile", "Error": services.PublicMessage(err), "Errors": ve.Fields, "Input": in,
			})
			return
		}
		renderServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/u/"+strconv.FormatUint(uint64(user.ID), 10))
}

func (h *UserHandler) ShowPassword(c *gin.Context) {
	Render(c, http.StatusOK, "user/password.html", gin.H{"Title": "Change password"})
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	user := middleware.CurrentUser(c)
	in := services.PasswordInput{
		Old: c.PostForm("old_password"),
		New: c.PostForm("new_password"),
	}
	if confirm := c.PostForm("new_password_confirm"); confirm != "" && confirm != in.New {
		Render(c, http.StatusBadRequest, "user/password.html", gin.H{"Title": "Change password", "Error": "passwords do not match"})
		return
	}
	if err := h.accounts.ChangePassword(c.Request.Context(), user, in); err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			Render(c, http.StatusBadRequest, "user/password.html", gin.H{
				"Title": "Change password", "Error": services.PublicMessage(err), "Errors": ve.Fields,
			})
			return
		}
		renderServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/u/"+strconv.FormatUint(uint64(user.ID), 10))
}

// VotedUp lists the posts an author upvoted.
func (h *UserHandler) VotedUp(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		RenderError(c, http.StatusNotFound, services.ErrNotFound.Error())
		return
	}
	author, posts, err := h.accounts.VotedUp(c.Request.Context(), id)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	Render(c, http.StatusOK, "user/voted_up.html", gin.H{
		"Title":  "Voted up",
		"Author": author,
		"Posts":  posts,
	})
}
