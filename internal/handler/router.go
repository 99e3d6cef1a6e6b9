package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/photoshare/backend/internal/config"
	"github.com/photoshare/backend/internal/service"
)

type Services struct {
	Auth      *service.AuthService
	Photos    *service.PhotoService
	Reactions *service.ReactionService
}

func NewRouter(svcs Services, corsCfg config.CORSConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(), CORSMiddleware(corsCfg.AllowedOrigins, corsCfg.AllowCredentials))

	router.GET("/", Root)
	router.GET("/ping", Ping)
	router.GET("/openapi.json", OpenAPIDoc)

	authHandler := NewAuthHandler(svcs.Auth)
	photoHandler := NewPhotoHandler(svcs.Photos, svcs.Reactions)
	protect := func(fn AuthedHandlerFunc) gin.HandlerFunc {
		return Protect(svcs.Auth, fn)
	}

	admin := router.Group("/admin")
	admin.POST("/login", authHandler.Login)
	admin.POST("/logout", authHandler.Logout)
	admin.GET("/session", protect(authHandler.Session))

	router.POST("/user", authHandler.Register)
	router.PATCH("/user/:id", protect(authHandler.UpdateUser))

	photo := router.Group("/photo")
	photo.POST("/new", protect(photoHandler.CreatePhoto))
	photo.DELETE("/delete/:photo_id", protect(photoHandler.DeletePhoto))
	photo.POST("/commentsOfPhoto/:photo_id", protect(photoHandler.AddComment))
	photo.DELETE("/deleteComment/:photo_id/:comment_id", protect(photoHandler.DeleteComment))
	photo.PATCH("/like/:photo_id", protect(photoHandler.Like))
	photo.PATCH("/dislike/:photo_id", protect(photoHandler.Dislike))

	return router
}
