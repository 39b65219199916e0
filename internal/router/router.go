package router

import (
	"infoshare/internal/handlers"
	"infoshare/internal/logger"
	"infoshare/internal/middleware"
	"infoshare/internal/services"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const sessionName = "infoshare_session"

type Options struct {
	SessionSecret string
	Limiter       *middleware.RateLimiter
}

// New builds the engine with the global middleware chain and every route.
func New(svc *services.Services, gdb *gorm.DB, opts Options) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{Path: "/", MaxAge: 14 * 24 * 3600, HttpOnly: true})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(middleware.LoadUser(svc.Accounts, svc.Notifications))

	RegisterRoutes(r, handlers.New(svc, gdb), opts.Limiter)
	return r
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handlers, limiter *middleware.RateLimiter) {
	limit := limiter.Middleware()

	// Public routes
	r.GET("/", h.Story.Home)
	r.GET("/post/:id", h.Story.Detail)
	r.GET("/search", h.Story.Search)
	r.GET("/trending_posts", h.Story.TrendingPosts)
	r.GET("/famous_authors", h.Story.FamousAuthors)
	r.GET("/categories", h.Category.List)
	r.GET("/category/:id", h.Category.Posts)
	r.GET("/u/:id", h.User.Profile)
	r.GET("/u/:id/voted_up", h.User.VotedUp)
	r.GET("/healthz", h.Healthz)

	r.GET("/signup", h.Auth.ShowRegister)
	r.POST("/signup", limit, h.Auth.Register)
	r.GET("/signin", h.Auth.ShowLogin)
	r.POST("/signin", limit, h.Auth.Login)
	r.GET("/logout", h.Auth.Logout)

	// Pages that need a session
	pages := r.Group("/")
	pages.Use(middleware.AuthRequired())
	{
		pages.GET("/create-post", h.Story.ShowCreate)
		pages.POST("/create-post", limit, h.Story.Create)
		pages.GET("/post/:id/edit", h.Story.ShowEdit)
		pages.POST("/post/:id/edit", limit, h.Story.Update)
		pages.GET("/post/:id/delete", h.Story.Delete)
		pages.POST("/comment/", limit, h.Comment.Create)
		pages.GET("/notifications", h.Notification.List)
		pages.GET("/points", h.User.PointLogs)
		pages.GET("/profile/edit", h.User.ShowEdit)
		pages.POST("/profile/edit", limit, h.User.UpdateProfile)
		pages.GET("/password", h.User.ShowPassword)
		pages.POST("/password", limit, h.User.ChangePassword)
	}

	// JSON actions
	api := r.Group("/")
	api.Use(middleware.AuthRequiredJSON(), limit)
	{
		api.POST("/post/:id/react/:kind", h.Vote.React)
		api.POST("/post/:id/bookmark", h.Bookmark.Toggle)
		api.POST("/post/:id/pay", h.Pay.Pay)
		api.POST("/post/:id/report", h.Moderation.ReportPost)
		api.POST("/comment/:id/edit", h.Comment.Edit)
		api.POST("/follow/:user_id", h.User.Follow)
		api.POST("/user/:id/report", h.Moderation.ReportUser)

		api.POST("/notifications/read-all", h.Notification.ReadAll)
		api.POST("/notifications/:id/read", h.Notification.Read)
		api.DELETE("/notifications/:id", h.Notification.Delete)
	}

	// Staff only
	mod := r.Group("/moderation")
	mod.Use(middleware.AuthRequiredJSON(), middleware.StaffRequired())
	{
		mod.GET("", h.Moderation.Queue)
		mod.POST("/post/:id/status", h.Moderation.SetPostStatus)
		mod.POST("/user/:id/ban", h.Moderation.BanUser)
		mod.POST("/report/:kind/:id/resolve", h.Moderation.ResolveReport)
	}
}
