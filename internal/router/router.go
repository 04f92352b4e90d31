package router

import (
	"github.com/gin-gonic/gin"

	"assochub/internal/handler"
	"assochub/internal/hub"
	"assochub/internal/middleware"
)

type Deps struct {
	Members    *handler.MemberHandler
	Events     *handler.EventHandler
	Posts      *handler.PostHandler
	Uploads    *handler.UploadHandler
	Hub        *hub.Hub
	AuthSecret []byte
	UploadDir  string
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())

	// broadcast channel; clients pick topics with ?topics=events,posts
	r.GET("/ws", d.Hub.ServeWS)

	// uploaded files are served straight off disk
	r.Static("/uploads", d.UploadDir)

	api := r.Group("/api")
	api.Use(middleware.Auth(d.AuthSecret))
	{
		api.GET("/members", d.Members.List)
		api.POST("/members", d.Members.Create)
		api.GET("/members/:id", d.Members.Get)
		api.PUT("/members/:id", d.Members.Update)

		api.GET("/events", d.Events.List)
		api.POST("/events", d.Events.Create)
		api.POST("/events/:id/rsvp", d.Events.RSVP)
		api.DELETE("/events/:id/rsvp", d.Events.CancelRSVP)

		api.GET("/posts", d.Posts.List)
		api.POST("/posts", d.Posts.Create)
		api.POST("/posts/:id/comments", d.Posts.CreateComment)
		api.POST("/posts/:id/like", d.Posts.Like)

		api.POST("/upload", d.Uploads.Upload)
	}

	return r
}
