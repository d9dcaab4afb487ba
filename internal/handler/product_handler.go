package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"product-catalog/internal/model"
	"product-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	jsonContentType = "application/json"

	// maxBodyBytes caps the size of a product document.
	maxBodyBytes = 1 << 20
)

var truthyValues = map[string]bool{"true": true, "yes": true, "1": true}

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// Register mounts the product routes on r.
func (h *ProductHandler) Register(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// Create handles POST /products requests.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.requireJSON(w, r) {
		return
	}

	product, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	created, err := h.service.Create(r.Context(), product)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to create product")
		return
	}

	h.logger.Info().Int64("product_id", created.ID).Msg("product saved")

	w.Header().Set("Location", productURL(r, created.ID))
	writeJSON(w, http.StatusCreated, created.Serialize())
}

// List handles GET /products requests with an optional filter.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidData, err.Error(), h.logger)
		return
	}

	products, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to retrieve products")
		return
	}

	docs := make([]model.ProductDocument, 0, len(products))
	for _, p := range products {
		docs = append(docs, p.Serialize())
	}

	writeJSON(w, http.StatusOK, docs)
}

// Get handles GET /products/{id} requests.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to retrieve product")
		return
	}

	writeJSON(w, http.StatusOK, product.Serialize())
}

// Update handles PUT /products/{id} requests. Existence is checked before the
// body is inspected.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	if _, err := h.service.Get(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err, "failed to retrieve product")
		return
	}

	if !h.requireJSON(w, r) {
		return
	}

	product, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	updated, err := h.service.Update(r.Context(), id, product)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to update product")
		return
	}

	writeJSON(w, http.StatusOK, updated.Serialize())
}

// Delete handles DELETE /products/{id} requests.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err, "failed to delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// requireJSON rejects requests whose Content-Type is missing or is not
// application/json. Media type parameters such as charset are allowed.
func (h *ProductHandler) requireJSON(w http.ResponseWriter, r *http.Request) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		writeError(w, r, http.StatusUnsupportedMediaType, model.ErrCodeUnsupportedMediaType,
			"Content-Type must be "+jsonContentType, h.logger)
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != jsonContentType {
		h.logger.Debug().Str("content_type", contentType).Msg("invalid content type")
		writeError(w, r, http.StatusUnsupportedMediaType, model.ErrCodeUnsupportedMediaType,
			"Content-Type must be "+jsonContentType, h.logger)
		return false
	}

	return true
}

func (h *ProductHandler) decodeProduct(w http.ResponseWriter, r *http.Request) (model.Product, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, model.ErrCodeInvalidData,
				"request body too large", h.logger)
			return model.Product{}, false
		}
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidData, "failed to read request body", h.logger)
		return model.Product{}, false
	}

	product, err := model.DecodeProduct(body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidData, err.Error(), h.logger)
		return model.Product{}, false
	}

	return product, true
}

func (h *ProductHandler) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidData, "invalid product id", h.logger)
		return 0, false
	}
	return id, true
}

func (h *ProductHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var validationErr *model.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidData, validationErr.Error(), h.logger)
	case errors.Is(err, model.ErrProductNotFound):
		writeError(w, r, http.StatusNotFound, model.ErrCodeProductNotFound, model.ErrProductNotFound.Message, h.logger)
	default:
		h.logger.Error().Err(err).Msg(fallback)
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, fallback, h.logger)
	}
}

// parseProductFilter reads the list filter from the query string. Only the
// highest-precedence parameter present is parsed: category, then available,
// then name, then price.
func parseProductFilter(r *http.Request) (service.ProductFilter, error) {
	q := r.URL.Query()
	var filter service.ProductFilter

	switch {
	case q.Has("category"):
		category, err := parseCategoryParam(q.Get("category"))
		if err != nil {
			return filter, err
		}
		filter.Category = &category
	case q.Has("available"):
		available := truthyValues[strings.ToLower(q.Get("available"))]
		filter.Available = &available
	case q.Has("name"):
		name := q.Get("name")
		filter.Name = &name
	case q.Has("price"):
		price, err := model.ParsePrice(q.Get("price"))
		if err != nil {
			return filter, fmt.Errorf("invalid price %q", q.Get("price"))
		}
		filter.Price = &price
	}

	return filter, nil
}

// parseCategoryParam accepts either a category ordinal or its exact name.
func parseCategoryParam(value string) (model.Category, error) {
	if isDigits(value) {
		n, err := strconv.Atoi(value)
		if err == nil {
			if c, ok := model.CategoryFromOrdinal(n); ok {
				return c, nil
			}
		}
		return model.CategoryUnknown, fmt.Errorf("invalid category ordinal %q", value)
	}

	c, ok := model.ParseCategory(value)
	if !ok {
		return model.CategoryUnknown, fmt.Errorf("invalid category %q", value)
	}
	return c, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func productURL(r *http.Request, id int64) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/products/%d", scheme, r.Host, id)
}
