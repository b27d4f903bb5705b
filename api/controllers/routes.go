package controllers

import (
	"RestaurantAdviser/api/metrics"
	"RestaurantAdviser/api/middlewares"
)

func (s *Server) initializeRoutes() {
	requireAuth := middlewares.TokenAuthMiddleware(s.DB)
	optionalAuth := middlewares.OptionalAuthMiddleware(s.DB)
	selfOnly := middlewares.SelfOnlyMiddleware(s.DB)
	loginLimit := middlewares.LoginRateLimitMiddleware()

	s.Router.GET("/metrics", metrics.Handler())

	v1 := s.Router.Group("/api/v1")
	{
		// Users routes
		v1.POST("/login", loginLimit, s.Login)
		v1.POST("/password/forgot", loginLimit, s.ForgotPassword)
		v1.POST("/password/reset", loginLimit, s.ResetPassword)
		v1.POST("/users", s.CreateUser)
		v1.GET("/users/:id", optionalAuth, s.GetUser)
		v1.PUT("/users/:id", requireAuth, selfOnly, s.UpdateUser)
		v1.PUT("/users/:id/avatar", requireAuth, selfOnly, s.UpdateAvatar)
		v1.DELETE("/users/:id", requireAuth, selfOnly, s.DeleteUser)
		v1.GET("/users/:id/tournaments", s.GetUserTournaments)

		// Places routes
		v1.GET("/nearby", s.GetNearby)
		v1.GET("/shakeomat", s.Shakeomat)
		v1.GET("/restaurants/:place_id", s.GetRestaurant)

		// Comments routes
		v1.GET("/restaurants/:place_id/comments", optionalAuth, s.GetComments)
		v1.POST("/restaurants/:place_id/comments", requireAuth, s.CreateComment)
		v1.PUT("/comments/:id", requireAuth, s.UpdateComment)
		v1.DELETE("/comments/:id", requireAuth, s.DeleteComment)
		v1.POST("/comments/:id/like", requireAuth, s.ToggleCommentLike)

		// Favorites routes
		v1.GET("/favorites", requireAuth, s.GetFavorites)
		v1.POST("/favorites", requireAuth, s.SaveFavorite)
		v1.GET("/favorites/:place_id", requireAuth, s.GetFavorite)
		v1.DELETE("/favorites/:place_id", requireAuth, s.DeleteFavorite)

		// Tournament routes
		v1.POST("/tournaments", optionalAuth, s.StartTournament)
		v1.GET("/tournaments/:id", optionalAuth, s.GetTournament)
		v1.POST("/tournaments/:id/choose", optionalAuth, s.ChooseWinner)
		v1.DELETE("/tournaments/:id", optionalAuth, s.AbandonTournament)
	}
}
