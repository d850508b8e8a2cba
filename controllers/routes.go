package controllers

import (
	"net/http"

	"Postline/middlewares"

	"github.com/gin-gonic/gin"
)

func (s *Server) initializeRoutes() {

	tokenAuth := middlewares.TokenAuthMiddleware(s.DB)
	loginRequired := middlewares.LoginRequiredMiddleware(s.DB)
	optionalAuth := middlewares.OptionalAuthMiddleware(s.DB)

	// Browsing surface: short reader-facing URLs, redirect semantics for
	// unauthenticated writes, JSON view-models.
	s.Router.GET("/", s.Index)
	s.Router.GET("/login", s.LoginPage)
	s.Router.GET("/group/:slug", s.GroupPage)
	s.Router.GET("/new", loginRequired, s.NewPostForm)
	s.Router.POST("/new", loginRequired, s.NewPost)
	s.Router.GET("/follow", loginRequired, s.FollowIndex)

	s.Router.GET("/:username", optionalAuth, s.Profile)
	s.Router.GET("/:username/follow", loginRequired, s.ProfileFollow)
	s.Router.POST("/:username/follow", loginRequired, s.ProfileFollow)
	s.Router.GET("/:username/unfollow", loginRequired, s.ProfileUnfollow)
	s.Router.POST("/:username/unfollow", loginRequired, s.ProfileUnfollow)
	s.Router.GET("/:username/:post_id", s.PostView)
	s.Router.GET("/:username/:post_id/edit", loginRequired, s.EditPostForm)
	s.Router.POST("/:username/:post_id/edit", loginRequired, s.EditPost)
	s.Router.POST("/:username/:post_id/comment", loginRequired, s.AddComment)

	v1 := s.Router.Group("/api/v1")
	{
		// Users routes
		v1.POST("/login", middlewares.LoginRateLimitMiddleware(), s.Login)
		v1.POST("/password/forgot", middlewares.LoginRateLimitMiddleware(), s.ForgotPassword)
		v1.POST("/password/reset", middlewares.LoginRateLimitMiddleware(), s.ResetPassword)
		v1.POST("/users", s.CreateUser)
		v1.GET("/users", s.GetUsers)
		v1.GET("/users/:id", s.GetUser)
		v1.PUT("/users/:id", tokenAuth, s.UpdateUser)
		v1.DELETE("/users/:id", tokenAuth, s.DeleteUser)

		// Follow routes
		v1.POST("/users/:id/follow", tokenAuth, s.FollowUser)
		v1.DELETE("/users/:id/follow", tokenAuth, s.UnfollowUser)
		v1.GET("/users/:id/followers", s.GetFollowers)
		v1.GET("/users/:id/following", s.GetFollowing)

		// Post routes
		v1.GET("/posts", s.GetPosts)
		v1.POST("/posts", tokenAuth, s.CreatePost)
		v1.GET("/posts/:id", s.GetPost)
		v1.PUT("/posts/:id", tokenAuth, s.UpdatePost)
		v1.DELETE("/posts/:id", tokenAuth, s.DeletePost)

		// Comment routes
		v1.GET("/posts/:id/comments", s.GetComments)
		v1.POST("/posts/:id/comments", tokenAuth, s.CreateComment)
		v1.PUT("/comments/:id", tokenAuth, s.UpdateComment)
		v1.DELETE("/comments/:id", tokenAuth, s.DeleteComment)

		// Group routes
		v1.GET("/groups", s.GetGroups)
		v1.GET("/groups/:slug", s.GetGroup)
		v1.POST("/groups", tokenAuth, middlewares.AdminOnlyMiddleware(), s.CreateGroup)
		v1.DELETE("/groups/:slug", tokenAuth, middlewares.AdminOnlyMiddleware(), s.DeleteGroup)

		// Composed feed for the caller
		v1.GET("/feed", tokenAuth, s.GetFeed)
	}

	s.Router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "Page not found",
		})
	})
}
