package transport

import (
	"net/http"
	"strconv"
	"strings"

	"bikeparts/internal/catalog"
	"bikeparts/internal/domain"
	"bikeparts/internal/middleware"
	"bikeparts/internal/repository"
	"bikeparts/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductRequest represents the admin create/update payload
type ProductRequest struct {
	Name          string   `json:"name" validate:"required"`
	Brand         string   `json:"brand" validate:"required"`
	Category      string   `json:"category" validate:"required"`
	Description   string   `json:"description"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	OriginalPrice float64  `json:"original_price"`
	Stock         int      `json:"stock" validate:"gte=0"`
	Rating        float64  `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount   int      `json:"review_count" validate:"gte=0"`
	ImageURL      string   `json:"image_url"`
	Compatibility []string `json:"compatibility"`
}

// ProductHandler handles HTTP requests for the catalog
type ProductHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalogService service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers catalog routes. Browsing is public; mutations
// require an operator.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(adminMiddleware)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// criteriaFromQuery maps catalog query parameters onto filter criteria.
// Repeated values within one dimension arrive comma-separated.
func criteriaFromQuery(r *http.Request) catalog.Criteria {
	q := r.URL.Query()

	criteria := catalog.Criteria{
		Search:      q.Get("search"),
		Brands:      splitParam(q.Get("brands")),
		Categories:  splitParam(q.Get("categories")),
		InStockOnly: q.Get("in_stock") == "true",
		BikeMake:    q.Get("bike_make"),
		BikeModel:   q.Get("bike_model"),
	}

	for _, raw := range splitParam(q.Get("min_ratings")) {
		if rating, err := strconv.ParseFloat(raw, 64); err == nil {
			criteria.MinRatings = append(criteria.MinRatings, rating)
		}
	}
	if min, err := strconv.ParseFloat(q.Get("price_min"), 64); err == nil {
		criteria.PriceMin = min
	}
	if max, err := strconv.ParseFloat(q.Get("price_max"), 64); err == nil {
		criteria.PriceMax = max
	}

	return criteria
}

func splitParam(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// List returns the filtered, sorted catalog
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	criteria := criteriaFromQuery(r)
	key := catalog.ParseSortKey(r.URL.Query().Get("sort"))

	products := h.catalogService.Filter(criteria, key)

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"count":    len(products),
	})
}

// Get returns a single product
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := h.catalogService.Get(r.Context(), id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Create handles admin product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product := req.toDomain()
	if err := h.catalogService.Create(r.Context(), product); err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update handles admin product updates
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product := req.toDomain()
	product.ID = id
	if err := h.catalogService.Update(r.Context(), product); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to update product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete handles admin product deletion
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.catalogService.Delete(r.Context(), id); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func (req *ProductRequest) toDomain() *domain.Product {
	return &domain.Product{
		Name:          req.Name,
		Brand:         req.Brand,
		Category:      req.Category,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Stock:         req.Stock,
		Rating:        req.Rating,
		ReviewCount:   req.ReviewCount,
		ImageURL:      req.ImageURL,
		Compatibility: req.Compatibility,
	}
}
