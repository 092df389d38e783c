package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authsvc "github.com/Anayo007/linkup/internal/services/auth"
	discoverysvc "github.com/Anayo007/linkup/internal/services/discovery"
	likessvc "github.com/Anayo007/linkup/internal/services/likes"
	matchessvc "github.com/Anayo007/linkup/internal/services/matches"
	messagessvc "github.com/Anayo007/linkup/internal/services/messages"
	modsvc "github.com/Anayo007/linkup/internal/services/moderation"
	presencesvc "github.com/Anayo007/linkup/internal/services/presence"
	profilesvc "github.com/Anayo007/linkup/internal/services/profiles"
	promptsvc "github.com/Anayo007/linkup/internal/services/prompts"
	settingssvc "github.com/Anayo007/linkup/internal/services/settings"
	skipssvc "github.com/Anayo007/linkup/internal/services/skips"
	userssvc "github.com/Anayo007/linkup/internal/services/users"
	"github.com/Anayo007/linkup/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService       *authsvc.Service
	ProfileService    *profilesvc.Service
	PromptService     *promptsvc.Service
	DiscoveryService  *discoverysvc.Service
	LikeService       *likessvc.Service
	SkipService       *skipssvc.Service
	MatchService      *matchessvc.Service
	MessageService    *messagessvc.Service
	PresenceService   *presencesvc.Service
	ModerationService *modsvc.Service
	UserService       *userssvc.Service
	SettingsService   *settingssvc.Service
	Logger            *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService, deps.PromptService)
	discoveryHandler := handlers.NewDiscoveryHandler(deps.DiscoveryService)
	likesHandler := handlers.NewLikesHandler(deps.LikeService, deps.SkipService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService)
	messagesHandler := handlers.NewMessagesHandler(deps.MessageService)
	presenceHandler := handlers.NewPresenceHandler(deps.PresenceService)
	adminHandler := handlers.NewAdminHandler(deps.UserService, deps.ModerationService, deps.SettingsService, deps.PromptService)

	authMW := AuthMiddleware(deps.AuthService, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.With(authMW).Get("/me", authHandler.Me)
		r.With(authMW).Delete("/me", authHandler.DeleteAccount)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMW)

		r.Get("/profile", profileHandler.Get)
		r.Put("/profile", profileHandler.Save)
		r.Patch("/profile", profileHandler.Patch)
		r.Post("/profile/photo", profileHandler.UploadPhoto)
		r.Get("/prompts", profileHandler.Prompts)

		r.Get("/discovery", discoveryHandler.Browse)

		r.Post("/likes", likesHandler.Like)
		r.Get("/likes/incoming", likesHandler.Incoming)
		r.Get("/likes/remaining", likesHandler.Remaining)
		r.Post("/skips", likesHandler.Skip)
		r.Post("/skips/undo", likesHandler.Undo)

		r.Get("/matches", matchesHandler.List)
		r.Delete("/matches/{id}", matchesHandler.Unmatch)
		r.Post("/blocks", matchesHandler.Block)
		r.Delete("/blocks/{id}", matchesHandler.Unblock)
		r.Post("/reports", matchesHandler.Report)

		r.Get("/matches/{id}/messages", messagesHandler.List)
		r.Post("/matches/{id}/messages", messagesHandler.Send)
		r.Post("/matches/{id}/typing", messagesHandler.Typing)
		r.Post("/realtime/auth", messagesHandler.ChannelAuth)

		r.Post("/presence/ping", presenceHandler.Ping)
		r.Get("/presence/{id}", presenceHandler.Status)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(authMW, RequireAdmin)

		r.Get("/users", adminHandler.SearchUsers)
		r.Get("/users/{id}", adminHandler.GetUser)
		r.Post("/users/{id}/ban", adminHandler.BanUser)
		r.Post("/users/{id}/unban", adminHandler.UnbanUser)
		r.Post("/users/{id}/make-admin", adminHandler.MakeAdmin)
		r.Post("/users/{id}/remove-admin", adminHandler.RemoveAdmin)
		r.Post("/users/{id}/tier", adminHandler.SetUserTier)
		r.Delete("/users/{id}", adminHandler.DeleteUser)

		r.Get("/reports", adminHandler.ReportQueue)
		r.Post("/reports/{id}/review", adminHandler.ReviewReport)

		r.Get("/settings", adminHandler.GetSettings)
		r.Put("/settings", adminHandler.UpdateSettings)
		r.Get("/tiers", adminHandler.ListTiers)
		r.Put("/tiers/{id}", adminHandler.UpdateTier)

		r.Get("/prompts", adminHandler.ListPrompts)
		r.Post("/prompts", adminHandler.CreatePrompt)
		r.Put("/prompts/{id}", adminHandler.UpdatePrompt)
		r.Delete("/prompts/{id}", adminHandler.DeletePrompt)

		r.Get("/overview", adminHandler.Overview)
	})
}
