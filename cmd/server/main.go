package main

import (
	"log"
	"net/http"

	"storefront-be/internal/config"
	"storefront-be/internal/contact"
	"storefront-be/internal/db"
	"storefront-be/internal/logger"
	"storefront-be/internal/middleware"
	"storefront-be/internal/notify"
	"storefront-be/internal/order"
	"storefront-be/internal/transport"
	"storefront-be/internal/user"

	"github.com/go-chi/chi/v5"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	var sink notify.Sink = notify.LogSink{}
	if cfg.SMTPHost != "" {
		sink = notify.NewSMTPSink(cfg)
	}

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	orderRepo := order.NewRepository(database)
	engine := order.NewEngine(orderRepo)
	orderSvc := order.NewService(orderRepo, engine, userRepo, sink, cfg.DefaultCountry)
	orderHandler := order.NewHandler(orderSvc)

	contactRepo := contact.NewRepository(database)
	contactSvc := contact.NewService(contactRepo, sink)
	contactHandler := contact.NewHandler(contactSvc)

	router := setupRouter(orderHandler, userHandler, contactHandler)

	log.Printf("Server running at http://localhost:%s/", cfg.AppPort)
	log.Fatal(http.ListenAndServe(":"+cfg.AppPort, router))
}

func setupRouter(orderHandler *order.Handler, userHandler *user.Handler, contactHandler *contact.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.CORS)
	r.Use(middleware.AuthMiddleware)
	r.Use(middleware.RateLimitMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		transport.JSON(w, http.StatusOK, "OK", nil)
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)
		r.With(middleware.RequireUser).Get("/profile", userHandler.Profile)
	})

	r.Post("/admin/login", userHandler.AdminLogin)

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", orderHandler.Create)
		r.With(middleware.RequireUser).Get("/user/orders", orderHandler.ListMine)
		r.Get("/{orderNumber}", orderHandler.GetByNumber)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/", orderHandler.List)
			r.Get("/{id}/admin", orderHandler.GetByID)
			r.Patch("/{id}/status", orderHandler.UpdateStatus)
			r.Patch("/{id}/payment-status", orderHandler.UpdatePaymentStatus)
			r.Patch("/{id}/tracking", orderHandler.AddTracking)
			r.Patch("/{id}/deliver", orderHandler.MarkDelivered)
			r.Patch("/{id}/notes", orderHandler.UpdateNotes)
			r.Patch("/{id}/cancel", orderHandler.Cancel)
		})
	})

	r.Route("/contact", func(r chi.Router) {
		r.Post("/", contactHandler.Create)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/", contactHandler.List)
			r.Patch("/{id}/read", contactHandler.MarkRead)
			r.Delete("/{id}", contactHandler.Delete)
		})
	})

	return r
}
