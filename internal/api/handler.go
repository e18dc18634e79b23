package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"bistro/m/domain"
	"bistro/m/internal/inventory"
)

type ctxKey string

const ctxUserID ctxKey = "userID"

// Handler bundles dependencies for HTTP handlers. Plain CRUD talks to the
// database directly; everything that touches stock goes through the core.
type Handler struct {
	db     *sqlx.DB
	core   *inventory.Service
	secret string
}

// New constructs a Handler.
func New(db *sqlx.DB, core *inventory.Service, secret string) *Handler {
	return &Handler{db: db, core: core, secret: secret}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Group(func(protected chi.Router) {
			protected.Use(h.authMiddleware)
			protected.Post("/reset-password", h.resetPassword)
		})
	})

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.Route("/ingredients", func(r chi.Router) {
			r.Get("/", h.listIngredients)
			r.Post("/", h.createIngredient)
			r.Put("/{id}", h.updateIngredient)
		})

		pr.Route("/menu", func(r chi.Router) {
			r.Get("/", h.listMenuItems)
			r.Post("/", h.createMenuItem)
			r.Get("/{id}/requirements", h.listRequirements)
			r.Post("/{id}/requirements", h.createRequirement)
		})

		pr.Route("/purchases", func(r chi.Router) {
			r.Get("/", h.listPurchases)
			r.Post("/", h.createPurchase)
		})

		pr.Route("/receipts", func(r chi.Router) {
			r.Get("/", h.listReceipts)
			r.Post("/", h.createReceipt)
		})

		pr.Get("/reports/purchases/daily", h.dailyPurchases)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Authentication helpers

type authClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

func (h *Handler) generateToken(userID int64) (string, error) {
	claims := authClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.secret))
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(header[len("Bearer "):])
		token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(h.secret), nil
		})
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		claims, ok := token.Claims.(*authClaims)
		if !ok {
			respondError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Auth Handlers

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to secure password")
		return
	}

	var userID int64
	err = h.db.QueryRowx(`INSERT INTO users (username, email, password) VALUES ($1, $2, $3) RETURNING id`,
		req.Username, strings.ToLower(req.Email), hashed).Scan(&userID)
	if err != nil {
		respondError(w, http.StatusConflict, "email already exists")
		return
	}

	token, err := h.generateToken(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{
		Token: token,
		User:  domain.User{ID: userID, Username: req.Username, Email: strings.ToLower(req.Email)},
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var user domain.User
	err := h.db.Get(&user, `SELECT id, username, email, password FROM users WHERE email = $1`, strings.ToLower(req.Email))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.generateToken(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}

	user.Password = ""
	respondJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		NewPassword string `json:"new_password"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.NewPassword == "" {
		respondError(w, http.StatusBadRequest, "new_password is required")
		return
	}
	uid := r.Context().Value(ctxUserID).(int64)
	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to secure password")
		return
	}
	if _, err := h.db.Exec(`UPDATE users SET password = $1 WHERE id = $2`, hashed, uid); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update password")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

// Ingredient handlers

type ingredientRequest struct {
	Name              string          `json:"name"`
	Unit              string          `json:"unit"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	QuantityAvailable float64         `json:"quantity_available"`
}

func (h *Handler) listIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.core.ListIngredients(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list ingredients")
		return
	}
	respondJSON(w, http.StatusOK, ingredients)
}

func (h *Handler) createIngredient(w http.ResponseWriter, r *http.Request) {
	var req ingredientRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Unit) == "" {
		respondError(w, http.StatusBadRequest, "name and unit are required")
		return
	}
	if req.QuantityAvailable < 0 || req.UnitPrice.IsNegative() {
		respondError(w, http.StatusBadRequest, "quantity_available and unit_price must not be negative")
		return
	}
	var id int64
	err := h.db.QueryRowx(`INSERT INTO ingredients (name, unit, unit_price, quantity_available) VALUES ($1, $2, $3, $4) RETURNING id`,
		req.Name, req.Unit, req.UnitPrice, req.QuantityAvailable).Scan(&id)
	if err != nil {
		respondError(w, http.StatusConflict, "ingredient already exists")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"id": id, "name": req.Name})
}

func (h *Handler) updateIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid ingredient id")
		return
	}
	var req ingredientRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Unit) == "" {
		respondError(w, http.StatusBadRequest, "name and unit are required")
		return
	}
	if req.QuantityAvailable < 0 || req.UnitPrice.IsNegative() {
		respondError(w, http.StatusBadRequest, "quantity_available and unit_price must not be negative")
		return
	}
	if _, err := h.db.Exec(`UPDATE ingredients SET name = $1, unit = $2, unit_price = $3, quantity_available = $4 WHERE id = $5`,
		req.Name, req.Unit, req.UnitPrice, req.QuantityAvailable, id); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update ingredient")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Menu handlers

type menuItemRequest struct {
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

func (h *Handler) listMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.core.ListMenuItems(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list menu items")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Price.IsNegative() {
		respondError(w, http.StatusBadRequest, "price must not be negative")
		return
	}
	var id int64
	err := h.db.QueryRowx(`INSERT INTO menu_items (title, price) VALUES ($1, $2) RETURNING id`, req.Title, req.Price).Scan(&id)
	if err != nil {
		respondError(w, http.StatusConflict, "menu item already exists")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"id": id, "title": req.Title})
}

type requirementRequest struct {
	IngredientID     int64   `json:"ingredient_id"`
	QuantityRequired float64 `json:"quantity_required"`
}

func (h *Handler) listRequirements(w http.ResponseWriter, r *http.Request) {
	menuItemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid menu item id")
		return
	}
	details, err := h.core.Requirements(r.Context(), menuItemID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list requirements")
		return
	}
	respondJSON(w, http.StatusOK, details)
}

func (h *Handler) createRequirement(w http.ResponseWriter, r *http.Request) {
	menuItemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid menu item id")
		return
	}
	var req requirementRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.IngredientID == 0 || req.QuantityRequired <= 0 {
		respondError(w, http.StatusBadRequest, "ingredient_id and a positive quantity_required are required")
		return
	}
	var id int64
	err = h.db.QueryRowx(`INSERT INTO recipe_requirements (menu_item_id, ingredient_id, quantity_required) VALUES ($1, $2, $3) RETURNING id`,
		menuItemID, req.IngredientID, req.QuantityRequired).Scan(&id)
	if err != nil {
		respondError(w, http.StatusBadRequest, "menu item or ingredient not found")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"id": id})
}

// Purchase handlers

type purchaseRequest struct {
	MenuItemID int64 `json:"menu_item_id"`
}

func (h *Handler) listPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.core.ListPurchases(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list purchases")
		return
	}
	respondJSON(w, http.StatusOK, purchases)
}

func (h *Handler) createPurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.MenuItemID == 0 {
		respondError(w, http.StatusBadRequest, "menu_item_id is required")
		return
	}
	purchase, err := h.core.RecordSale(r.Context(), req.MenuItemID)
	if err != nil {
		respondCoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, purchase)
}

// Receipt handlers

type receiptRequest struct {
	Note  string                  `json:"note"`
	Items []inventory.ReceiptLine `json:"items"`
}

func (h *Handler) listReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := h.core.ListReceipts(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list receipts")
		return
	}
	respondJSON(w, http.StatusOK, receipts)
}

func (h *Handler) createReceipt(w http.ResponseWriter, r *http.Request) {
	var req receiptRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	grn, err := h.core.RecordReceipt(r.Context(), req.Note, req.Items)
	if err != nil {
		respondCoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, grn)
}

// Reports

func (h *Handler) dailyPurchases(w http.ResponseWriter, r *http.Request) {
	var revenue decimal.Decimal
	var count int64
	err := h.db.QueryRow(`SELECT COALESCE(SUM(m.price), 0) AS revenue, COUNT(*) AS count
                FROM purchases p
                JOIN menu_items m ON m.id = p.menu_item_id
                WHERE DATE(p.created_at) = DATE('now')`).Scan(&revenue, &count)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch daily purchases")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"revenue": revenue, "purchase_count": count})
}

// Helpers

// respondCoreError maps the core's error taxonomy onto HTTP statuses.
// Shortages carry the full per-ingredient list; processing failures stay
// generic.
func respondCoreError(w http.ResponseWriter, err error) {
	var shortage *inventory.ShortageError
	var invalid *inventory.ValidationError
	var negative *inventory.NegativeStockError
	switch {
	case errors.As(err, &shortage):
		respondJSON(w, http.StatusConflict, map[string]any{
			"error":     shortage.Error(),
			"shortages": shortage.Shortages,
		})
	case errors.As(err, &invalid):
		respondError(w, http.StatusBadRequest, invalid.Message)
	case errors.As(err, &negative):
		respondError(w, http.StatusConflict, "insufficient stock")
	default:
		respondError(w, http.StatusInternalServerError, "processing error")
	}
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
