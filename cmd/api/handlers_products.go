package main

import (
	"net/http"
	"strconv"

	"storefront/internal/models"
)

func (app *application) listProducts(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	page, _ := strconv.Atoi(r.URL.Query().Get("pageNumber"))

	result, err := app.products.List(r.Context(), keyword, page)
	if err != nil {
		app.storeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, result)
}

func (app *application) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := app.products.Get(r.Context(), r.URL.Query().Get(":id"))
	if err != nil {
		app.storeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, product)
}

func (app *application) topProducts(w http.ResponseWriter, r *http.Request) {
	products, err := app.products.Top(r.Context(), 3)
	if err != nil {
		app.storeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, products)
}

// createProduct inserts a placeholder record meant to be edited right after,
// so missing fields default to "sample ..." values.
func (app *application) createProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string  `json:"name"`
		Price        float64 `json:"price"`
		Image        string  `json:"image"`
		Brand        string  `json:"brand"`
		Category     string  `json:"category"`
		CountInStock int     `json:"countInStock"`
		Description  string  `json:"description"`
	}
	if err := app.readJSON(w, r, &req); err != nil {
		app.badRequest(w, "invalid request body")
		return
	}

	product := &models.Product{
		User:         app.contextUser(r).ID,
		Name:         defaultString(req.Name, "sample name"),
		Price:        req.Price,
		Image:        defaultString(req.Image, "/images/sample.png"),
		Brand:        defaultString(req.Brand, "sample brand"),
		Category:     defaultString(req.Category, "sample category"),
		CountInStock: req.CountInStock,
		Description:  defaultString(req.Description, "sample description"),
	}

	if err := app.products.Insert(r.Context(), product); err != nil {
		app.storeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusCreated, product)
}

func (app *application) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string  `json:"name"`
		Price        float64 `json:"price"`
		Description  string  `json:"description"`
		Image        string  `json:"image"`
		Brand        string  `json:"brand"`
		Category     string  `json:"category"`
		CountInStock int     `json:"countInStock"`
	}
	if err := app.readJSON(w, r, &req); err != nil {
		app.badRequest(w, "invalid request body")
		return
	}

	product, err := app.products.Update(r.Context(), r.URL.Query().Get(":id"), models.ProductInput{
		Name:         req.Name,
		Price:        req.Price,
		Description:  req.Description,
		Image:        req.Image,
		Brand:        req.Brand,
		Category:     req.Category,
		CountInStock: req.CountInStock,
	})
	if err != nil {
		app.storeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, product)
}

func (app *application) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := app.products.Delete(r.Context(), r.URL.Query().Get(":id")); err != nil {
		app.storeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"message": "product deleted"})
}

func (app *application) createReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rating  float64 `json:"rating"`
		Comment string  `json:"comment"`
	}
	if err := app.readJSON(w, r, &req); err != nil {
		app.badRequest(w, "invalid request body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		app.badRequest(w, "rating must be between 1 and 5")
		return
	}

	user := app.contextUser(r)
	err := app.products.AddReview(r.Context(), r.URL.Query().Get(":id"), models.Review{
		User:    user.ID,
		Name:    user.Name,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		app.storeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusCreated, envelope{"message": "Review added"})
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
