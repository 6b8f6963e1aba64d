package main

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

type orderItemRequest struct {
	Product string  `json:"product"`
	Name    string  `json:"name"`
	Qty     int     `json:"qty"`
	Price   float64 `json:"price"`
	Image   string  `json:"image"`
}

type createOrderRequest struct {
	OrderItems      []orderItemRequest     `json:"orderItems"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
}

func (app *application) createOrder(w http.ResponseWriter, r *http.Request) {
	ok := false
	defer func() { recordOrderOperation("create", ok) }()

	var req createOrderRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.badRequest(w, "invalid request body")
		return
	}
	if len(req.OrderItems) == 0 {
		app.badRequest(w, "no order items")
		return
	}
	if req.PaymentMethod == "" {
		app.badRequest(w, "payment method is required")
		return
	}

	items := make([]models.OrderItem, 0, len(req.OrderItems))
	for _, it := range req.OrderItems {
		if it.Qty <= 0 {
			app.badRequest(w, "item quantity must be positive")
			return
		}
		productID, err := primitive.ObjectIDFromHex(it.Product)
		if err != nil {
			app.badRequest(w, "invalid product id")
			return
		}
		items = append(items, models.OrderItem{
			Product: productID,
			Name:    it.Name,
			Qty:     it.Qty,
			Price:   it.Price,
			Image:   it.Image,
		})
	}

	// Reserve stock with conditional decrements before the order exists.
	// On a shortfall, unwind what was already taken.
	for i, it := range items {
		if err := app.products.DecrementStock(r.Context(), it.Product.Hex(), it.Qty); err != nil {
			for _, taken := range items[:i] {
				if rbErr := app.products.IncrementStock(r.Context(), taken.Product.Hex(), taken.Qty); rbErr != nil {
					app.errorLog.Printf("restoring stock for %s: %v", taken.Product.Hex(), rbErr)
				}
			}
			app.storeError(w, err)
			return
		}
	}

	totals := models.ComputeTotals(items, models.PricingRules{
		TaxRate:         app.cfg.TaxRate,
		FreeShippingMin: app.cfg.FreeShippingMin,
		ShippingPrice:   app.cfg.ShippingPrice,
	})

	order := &models.Order{
		User:            app.contextUser(r).ID,
		OrderItems:      items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		ItemsPrice:      totals.ItemsPrice,
		TaxPrice:        totals.TaxPrice,
		ShippingPrice:   totals.ShippingPrice,
		TotalPrice:      totals.TotalPrice,
	}

	if err := app.orders.Insert(r.Context(), order); err != nil {
		for _, taken := range items {
			if rbErr := app.products.IncrementStock(r.Context(), taken.Product.Hex(), taken.Qty); rbErr != nil {
				app.errorLog.Printf("restoring stock for %s: %v", taken.Product.Hex(), rbErr)
			}
		}
		app.storeError(w, err)
		return
	}

	ok = true
	app.writeJSON(w, http.StatusCreated, order)
}

func (app *application) listMyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := app.orders.ByUser(r.Context(), app.contextUser(r).ID)
	if err != nil {
		app.storeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, orders)
}

type orderUser struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// orderDetail embeds the order and shadows its user id field with the
// purchaser's name and email.
type orderDetail struct {
	*models.Order
	User orderUser `json:"user"`
}

func (app *application) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := app.orders.Get(r.Context(), r.URL.Query().Get(":id"))
	if err != nil {
		app.storeError(w, err)
		return
	}

	detail := orderDetail{Order: order}
	if buyer, err := app.users.Get(r.Context(), order.User.Hex()); err == nil {
		detail.User = orderUser{ID: buyer.ID.Hex(), Name: buyer.Name, Email: buyer.Email}
	} else {
		detail.User = orderUser{ID: order.User.Hex()}
	}
	app.writeJSON(w, http.StatusOK, detail)
}

func (app *application) payOrder(w http.ResponseWriter, r *http.Request) {
	ok := false
	defer func() { recordOrderOperation("pay", ok) }()

	var req struct {
		ID           string `json:"id"`
		Status       string `json:"status"`
		UpdateTime   string `json:"update_time"`
		EmailAddress string `json:"email_address"`
	}
	if err := app.readJSON(w, r, &req); err != nil {
		app.badRequest(w, "invalid request body")
		return
	}
	if req.ID == "" {
		app.badRequest(w, "transaction id is required")
		return
	}

	order, err := app.orders.MarkPaid(r.Context(), r.URL.Query().Get(":id"), models.PaymentResult{
		ID:           req.ID,
		Status:       req.Status,
		UpdateTime:   req.UpdateTime,
		EmailAddress: req.EmailAddress,
	})
	if err != nil {
		app.storeError(w, err)
		return
	}

	ok = true
	app.writeJSON(w, http.StatusOK, order)
}

func (app *application) deliverOrder(w http.ResponseWriter, r *http.Request) {
	ok := false
	defer func() { recordOrderOperation("deliver", ok) }()

	order, err := app.orders.MarkDelivered(r.Context(), r.URL.Query().Get(":id"))
	if err != nil {
		app.storeError(w, err)
		return
	}

	ok = true
	app.writeJSON(w, http.StatusOK, order)
}

func (app *application) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := app.orders.All(r.Context())
	if err != nil {
		app.storeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, orders)
}
