package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"storefront/internal/config"
	"storefront/internal/models"
	"storefront/internal/payments"
	"storefront/internal/session"
)

type application struct {
	cfg      *config.Config
	infoLog  *log.Logger
	errorLog *log.Logger
	sessions *session.Manager
	users    userStore
	products productStore
	orders   orderStore
	stripe   paymentGateway
	degraded bool
}

func main() {
	cfg := config.Load()

	addr := flag.String("addr", cfg.Addr, "HTTP network address")
	flag.Parse()

	infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

	if cfg.JWTSecret == "" {
		errorLog.Fatal("JWT_SECRET environment variable not found")
	}

	app := &application{
		cfg:      cfg,
		infoLog:  infoLog,
		errorLog: errorLog,
		sessions: session.NewManager(cfg.JWTSecret, cfg.JWTTTL),
		stripe:   payments.NewStripeGateway(cfg.StripeSecretKey),
	}

	if err := app.connectStores(); err != nil {
		errorLog.Fatal(err)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		errorLog.Fatal(err)
	}

	srv := &http.Server{
		Addr:         *addr,
		ErrorLog:     errorLog,
		Handler:      app.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	infoLog.Printf("Starting storefront API on %s", *addr)
	err := srv.ListenAndServe()
	errorLog.Fatal(err)
}

// connectStores wires the document store, or the embedded fallback catalog
// when the store is unreachable and degraded mode is allowed. The decision is
// made once at startup; handlers never fall back mid-request.
func (app *application) connectStores() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if app.cfg.MongoURI != "" {
		client, err := models.OpenDB(ctx, app.cfg.MongoURI)
		if err == nil {
			db := client.Database(app.cfg.MongoDB)
			users := &models.UserModel{C: db.Collection("users")}
			if err := users.EnsureIndexes(ctx); err != nil {
				return err
			}
			app.users = users
			app.products = &models.ProductModel{C: db.Collection("products")}
			app.orders = &models.OrderModel{C: db.Collection("orders")}
			app.infoLog.Printf("Connected to document store %q", app.cfg.MongoDB)
			return nil
		}
		if !app.cfg.AllowDegraded {
			return err
		}
		app.errorLog.Printf("Document store unreachable (%v), starting degraded", err)
	} else {
		if !app.cfg.AllowDegraded {
			return errConfigNoStore
		}
		app.errorLog.Print("MONGO_URI not set, starting degraded")
	}

	app.degraded = true
	app.users = degradedUserStore{}
	app.products = models.NewFallbackCatalog()
	app.orders = degradedOrderStore{}
	return nil
}
