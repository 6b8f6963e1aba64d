package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *application) routes() http.Handler {
	mux := pat.New()

	mux.Get("/health", http.HandlerFunc(app.healthcheck))

	// Account
	mux.Post("/api/users", http.HandlerFunc(app.registerUser))
	mux.Post("/api/users/login", http.HandlerFunc(app.loginUser))
	mux.Post("/api/users/logout", http.HandlerFunc(app.logoutUser))
	mux.Get("/api/users/profile", app.requireAuth(app.getProfile))
	mux.Put("/api/users/profile", app.requireAuth(app.updateProfile))
	mux.Get("/api/users", app.requireAdmin(app.listUsers))
	mux.Get("/api/users/:id", app.requireAdmin(app.getUser))
	mux.Put("/api/users/:id", app.requireAdmin(app.updateUser))
	mux.Del("/api/users/:id", app.requireAdmin(app.deleteUser))

	// Catalog
	mux.Get("/api/products", http.HandlerFunc(app.listProducts))
	mux.Get("/api/products/top", http.HandlerFunc(app.topProducts))
	mux.Get("/api/products/:id", http.HandlerFunc(app.getProduct))
	mux.Post("/api/products", app.requireAdmin(app.createProduct))
	mux.Put("/api/products/:id", app.requireAdmin(app.updateProduct))
	mux.Del("/api/products/:id", app.requireAdmin(app.deleteProduct))
	mux.Post("/api/products/:id/reviews", app.requireAuth(app.createReview))

	// Orders
	mux.Post("/api/orders", app.requireAuth(app.createOrder))
	mux.Get("/api/orders/mine", app.requireAuth(app.listMyOrders))
	mux.Get("/api/orders", app.requireAdmin(app.listOrders))
	mux.Get("/api/orders/:id", app.requireAuth(app.getOrder))
	mux.Put("/api/orders/:id/pay", app.requireAuth(app.payOrder))
	mux.Put("/api/orders/:id/deliver", app.requireAdmin(app.deliverOrder))

	// Payments
	mux.Get("/api/stripe/config", http.HandlerFunc(app.stripeConfig))
	mux.Post("/api/stripe/create-payment-intent", http.HandlerFunc(app.createPaymentIntent))
	mux.Post("/api/stripe/confirm-payment", app.requireAuth(app.confirmPaymentIntent))
	mux.Get("/api/config/paypal", http.HandlerFunc(app.paypalConfig))

	// Upload
	mux.Post("/api/upload", app.requireAdmin(app.uploadImage))

	// Registered last: pat treats a trailing slash as a prefix match, so "/"
	// would otherwise shadow everything above it.
	mux.Get("/", http.HandlerFunc(app.home))

	outer := http.NewServeMux()
	outer.Handle("/metrics", promhttp.Handler())
	outer.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(app.cfg.UploadDir))))
	outer.Handle("/", mux)

	return app.recoverPanic(app.logRequest(app.requestID(app.collectMetrics(outer))))
}
