package main

import (
	"math"
	"net/http"

	"storefront/internal/payments"
)

func (app *application) stripeConfig(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusOK, envelope{"publishableKey": app.cfg.StripePublishableKey})
}

func (app *application) paypalConfig(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusOK, envelope{"clientId": app.cfg.PayPalClientID})
}

// createPaymentIntent opens a Stripe PaymentIntent for the order total. The
// amount arrives in dollars and is converted to cents for the processor.
func (app *application) createPaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	}
	if err := app.readJSON(w, r, &req); err != nil {
		app.badRequest(w, "invalid request body")
		return
	}
	if req.Amount <= 0 {
		app.badRequest(w, "amount must be positive")
		return
	}

	cents := int64(math.Round(req.Amount * 100))
	intent, err := app.stripe.CreateIntent(r.Context(), cents, req.Currency)
	if err != nil {
		app.badRequest(w, payments.ErrorMessage(err))
		return
	}

	app.writeJSON(w, http.StatusOK, envelope{"clientSecret": intent.ClientSecret})
}

// confirmPaymentIntent reports the processor-side status of an intent so the
// client can decide whether to record the order as paid.
func (app *application) confirmPaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaymentIntentID string `json:"paymentIntentId"`
	}
	if err := app.readJSON(w, r, &req); err != nil {
		app.badRequest(w, "invalid request body")
		return
	}
	if req.PaymentIntentID == "" {
		app.badRequest(w, "paymentIntentId is required")
		return
	}

	intent, err := app.stripe.GetIntent(r.Context(), req.PaymentIntentID)
	if err != nil {
		app.badRequest(w, payments.ErrorMessage(err))
		return
	}

	app.writeJSON(w, http.StatusOK, envelope{
		"status":        intent.Status,
		"paymentIntent": intent,
	})
}
