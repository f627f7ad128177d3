package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/acme-store/internal/favorites/domain"
)

const maxBodyBytes = 1 << 20

// FavoritesHandler handles HTTP requests for users, products and favorites
type FavoritesHandler struct {
	repo           domain.Repository
	validate       *validator.Validate
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewFavoritesHandler creates a new handler and registers its metrics on reg
func NewFavoritesHandler(repo domain.Repository, reg prometheus.Registerer) (*FavoritesHandler, error) {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "acme_store_requests_total",
			Help: "Total number of requests to the acme store",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "acme_store_request_duration_seconds",
			Help:    "Duration of acme store requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	for _, c := range []prometheus.Collector{requestCounter, requestLatency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return &FavoritesHandler{
		repo:           repo,
		validate:       newValidator(),
		requestCounter: requestCounter,
		requestLatency: requestLatency,
	}, nil
}

type createUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type createProductRequest struct {
	Name string `json:"name" validate:"required"`
}

type createFavoriteRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *FavoritesHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// RegisterRoutes registers all API routes
func (h *FavoritesHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/users", h.metricsMiddleware("/api/users", h.ListUsers)).Methods("GET")
	router.HandleFunc("/api/users", h.metricsMiddleware("/api/users", h.CreateUser)).Methods("POST")
	router.HandleFunc("/api/products", h.metricsMiddleware("/api/products", h.ListProducts)).Methods("GET")
	router.HandleFunc("/api/products", h.metricsMiddleware("/api/products", h.CreateProduct)).Methods("POST")

	favorites := "/api/users/{id}/favorites"
	router.HandleFunc(favorites, h.metricsMiddleware(favorites, h.ListFavorites)).Methods("GET")
	router.HandleFunc(favorites, h.metricsMiddleware(favorites, h.CreateFavorite)).Methods("POST")

	favorite := "/api/users/{user_id}/favorites/{id}"
	router.HandleFunc(favorite, h.metricsMiddleware(favorite, h.DeleteFavorite)).Methods("DELETE")
}

// RegisterHealthCheck registers health check endpoint
// @Summary Health check
// @Description Check service health and store connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string}
// @Failure 503 {object} errorResponse
// @Router /health [get]
func (h *FavoritesHandler) RegisterHealthCheck(router *mux.Router) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if pinger, ok := h.repo.(domain.Pinger); ok {
			if err := pinger.Ping(r.Context()); err != nil {
				respondError(w, r, domain.Unavailable("Ping", err))
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}).Methods("GET")
}

// ListUsers handles GET /api/users
// @Summary List users
// @Description List every user. Password digests are never returned.
// @Tags Users
// @Produce json
// @Success 200 {array} domain.User
// @Failure 503 {object} errorResponse
// @Router /api/users [get]
func (h *FavoritesHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.ListUsers(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// CreateUser handles POST /api/users
// @Summary Create a user
// @Description Create a user; the password is stored as a bcrypt digest
// @Tags Users
// @Accept json
// @Produce json
// @Param request body createUserRequest true "User data"
// @Success 201 {object} domain.User
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /api/users [post]
func (h *FavoritesHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := h.decode(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	user, err := h.repo.CreateUser(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// ListProducts handles GET /api/products
// @Summary List products
// @Tags Products
// @Produce json
// @Success 200 {array} domain.Product
// @Failure 503 {object} errorResponse
// @Router /api/products [get]
func (h *FavoritesHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.ListProducts(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// CreateProduct handles POST /api/products
// @Summary Create a product
// @Tags Products
// @Accept json
// @Produce json
// @Param request body createProductRequest true "Product data"
// @Success 201 {object} domain.Product
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /api/products [post]
func (h *FavoritesHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := h.decode(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	product, err := h.repo.CreateProduct(r.Context(), req.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

// ListFavorites handles GET /api/users/{id}/favorites
// @Summary List a user's favorites
// @Tags Favorites
// @Produce json
// @Param id path string true "User ID" format(uuid)
// @Success 200 {array} domain.Favorite
// @Failure 400 {object} errorResponse
// @Router /api/users/{id}/favorites [get]
func (h *FavoritesHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id", "user id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	favorites, err := h.repo.ListFavoritesForUser(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, favorites)
}

// CreateFavorite handles POST /api/users/{id}/favorites
// @Summary Favorite a product
// @Tags Favorites
// @Accept json
// @Produce json
// @Param id path string true "User ID" format(uuid)
// @Param request body createFavoriteRequest true "Product to favorite"
// @Success 201 {object} domain.Favorite
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Failure 422 {object} errorResponse
// @Router /api/users/{id}/favorites [post]
func (h *FavoritesHandler) CreateFavorite(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id", "user id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req createFavoriteRequest
	if err := h.decode(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		respondError(w, r, domain.Validation("CreateFavorite", "invalid product_id"))
		return
	}

	favorite, err := h.repo.CreateFavorite(r.Context(), userID, productID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, favorite)
}

// DeleteFavorite handles DELETE /api/users/{user_id}/favorites/{id}.
// Deleting a missing or foreign favorite still answers 204.
// @Summary Remove a favorite
// @Tags Favorites
// @Param user_id path string true "User ID" format(uuid)
// @Param id path string true "Favorite ID" format(uuid)
// @Success 204
// @Failure 400 {object} errorResponse
// @Router /api/users/{user_id}/favorites/{id} [delete]
func (h *FavoritesHandler) DeleteFavorite(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "user_id", "user id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	favoriteID, err := pathUUID(r, "id", "favorite id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if _, err := h.repo.DeleteFavorite(r.Context(), userID, favoriteID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathUUID(r *http.Request, key, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[key])
	if err != nil {
		return uuid.Nil, domain.Validation("request", "invalid "+label)
	}
	return id, nil
}

// decode reads a JSON body into dst and validates it
func (h *FavoritesHandler) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Validation("request", "request body is required")
		}
		return domain.Validation("request", "invalid request body")
	}

	if err := h.validate.Struct(dst); err != nil {
		return domain.Validation("request", validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request body"
	}

	fe := fieldErrs[0]
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "uuid":
		return "invalid " + name
	}
	return name + " is invalid"
}

// newValidator reports field errors under their JSON names
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
