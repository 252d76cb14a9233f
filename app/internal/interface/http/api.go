package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domcart "example.com/storefront/app/internal/domain/cart"
	domorder "example.com/storefront/app/internal/domain/order"
	"example.com/storefront/app/internal/domain/outcome"
	domproduct "example.com/storefront/app/internal/domain/product"
	domsession "example.com/storefront/app/internal/domain/session"
	domuser "example.com/storefront/app/internal/domain/user"
	checkoutuc "example.com/storefront/app/internal/usecase/checkout"
	orderuc "example.com/storefront/app/internal/usecase/order"
	productuc "example.com/storefront/app/internal/usecase/product"
	"example.com/storefront/app/internal/usecase/storefront"
	useruc "example.com/storefront/app/internal/usecase/user"
)

// SessionTokens signs and reads the session cookie.
type SessionTokens interface {
	GenerateToken(storefrontID string) (string, time.Time, error)
	ParseToken(token string) (string, error)
}

type API struct {
	registry    *storefront.Registry
	tokens      SessionTokens
	accountSvc  *useruc.Service
	productSvc  *productuc.Service
	checkoutSvc *checkoutuc.Service
	orderSvc    *orderuc.Service
	relay       http.Handler
	gatherer    prometheus.Gatherer
	log         *slog.Logger
	validator   *validator.Validate

	secureCookie bool
	returnURL    string
}

type Dependencies struct {
	Registry        *storefront.Registry
	SessionTokens   SessionTokens
	AccountService  *useruc.Service
	ProductService  *productuc.Service
	CheckoutService *checkoutuc.Service
	OrderService    *orderuc.Service
	Relay           http.Handler
	Gatherer        prometheus.Gatherer
	Logger          *slog.Logger

	// SecureCookie marks the session cookie Secure; on outside local dev.
	SecureCookie bool
	// CheckoutReturnURL is where the payment page sends the browser back to
	// when the request does not name one.
	CheckoutReturnURL string
}

func NewAPI(deps Dependencies) *API {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &API{
		registry:     deps.Registry,
		tokens:       deps.SessionTokens,
		accountSvc:   deps.AccountService,
		productSvc:   deps.ProductService,
		checkoutSvc:  deps.CheckoutService,
		orderSvc:     deps.OrderService,
		relay:        deps.Relay,
		gatherer:     deps.Gatherer,
		log:          log,
		validator:    validator.New(),
		secureCookie: deps.SecureCookie,
		returnURL:    deps.CheckoutReturnURL,
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(a.requestLogger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if a.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{}))
	}
	if a.relay != nil {
		r.Handle("/api/proxy/*", a.relay)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.AllowContentType("application/json", "text/plain"))

		r.Get("/products", a.handleListProducts)
		r.Get("/products/{id}", a.handleGetProduct)
		r.Get("/categories", a.handleListCategories)
		r.Get("/brands", a.handleListBrands)
		r.Get("/brands/{id}", a.handleGetBrand)

		r.Post("/auth/register", a.handleRegister)
		r.Post("/auth/password/forgot", a.handleForgotPassword)
		r.Post("/auth/password/verify", a.handleVerifyResetCode)
		r.Put("/auth/password/reset", a.handleResetPassword)

		r.Group(func(sr chi.Router) {
			sr.Use(a.sessionMiddleware)

			sr.Post("/auth/login", a.handleLogin)
			sr.Post("/auth/logout", a.handleLogout)
			sr.Get("/me/session", a.handleGetSession)

			sr.Route("/me/cart", func(cr chi.Router) {
				cr.Get("/", a.handleGetCart)
				cr.Delete("/", a.handleEmptyCart)
				cr.Post("/refresh", a.handleRefreshCart)
				cr.Post("/items", a.handleAddCartItem)
				cr.Put("/items/{productID}", a.handleUpdateCartItem)
				cr.Delete("/items/{productID}", a.handleRemoveCartItem)
			})

			sr.Route("/me/wishlist", func(wr chi.Router) {
				wr.Get("/", a.handleGetWishlist)
				wr.Post("/refresh", a.handleRefreshWishlist)
				wr.Post("/{productID}/toggle", a.handleToggleWishlist)
			})

			sr.Post("/me/orders", a.handlePlaceOrder)
			sr.Get("/me/orders", a.handleListOrders)
			sr.Post("/me/checkout-session", a.handleStartCheckout)
		})
	})

	return r
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return a.validator.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// respondError writes the user-facing part of err; upstream failures keep
// the upstream's own message.
func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: outcome.Message(err)})
}

func respondValidation(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request", Details: fields})
}

func mapOutcome(o outcome.Outcome) map[string]any {
	return map[string]any{
		"success":    o.Success,
		"message":    o.Message,
		"reconciled": o.Reconciled,
	}
}

func mapSession(s domsession.Session) map[string]any {
	resp := map[string]any{
		"state":         s.State,
		"authenticated": s.Authenticated(),
	}
	if s.Authenticated() {
		resp["user"] = map[string]any{
			"id":    s.User.ID,
			"name":  s.User.Name,
			"email": s.User.Email,
			"role":  s.User.Role,
		}
		if !s.ExpiresAt.IsZero() {
			resp["expires_at"] = s.ExpiresAt
		}
	}
	return resp
}

func mapUser(u *domuser.User) map[string]any {
	return map[string]any{
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	}
}

func mapProduct(p *domproduct.Product) map[string]any {
	return map[string]any{
		"id":                   p.ID,
		"title":                p.Title,
		"slug":                 p.Slug,
		"description":          p.Description,
		"price":                p.Price,
		"price_after_discount": p.PriceAfterDisc,
		"quantity":             p.Quantity,
		"sold":                 p.Sold,
		"image_cover":          p.ImageCover,
		"images":               p.Images,
		"ratings_average":      p.RatingsAverage,
		"ratings_quantity":     p.RatingsCount,
		"category":             mapCategory(p.Category),
		"brand":                mapBrand(p.Brand),
	}
}

func mapCategory(c domproduct.Category) map[string]any {
	return map[string]any{
		"id":    c.ID,
		"name":  c.Name,
		"slug":  c.Slug,
		"image": c.Image,
	}
}

func mapBrand(b domproduct.Brand) map[string]any {
	return map[string]any{
		"id":    b.ID,
		"name":  b.Name,
		"slug":  b.Slug,
		"image": b.Image,
	}
}

// mapCart renders nil as JSON null: the cart is not loaded.
func mapCart(cart *domcart.Snapshot) any {
	if cart == nil {
		return nil
	}
	items := make([]map[string]any, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, map[string]any{
			"id":          item.ID,
			"product_id":  item.Product.ID,
			"title":       item.Product.Title,
			"image_cover": item.Product.ImageCover,
			"category":    item.Product.Category,
			"brand":       item.Product.Brand,
			"price":       item.Price,
			"quantity":    item.Quantity,
		})
	}
	return map[string]any{
		"id":          cart.ID,
		"items":       items,
		"total_price": cart.TotalPrice,
		"item_count":  cart.ItemCount,
	}
}

func mapOrder(o *domorder.Order) map[string]any {
	items := make([]map[string]any, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, map[string]any{
			"product_id":  item.ProductID,
			"title":       item.Title,
			"image_cover": item.ImageCover,
			"price":       item.Price,
			"quantity":    item.Quantity,
		})
	}

	return map[string]any{
		"id":             o.ID,
		"number":         o.Number,
		"user_id":        o.UserID,
		"payment_method": o.PaymentMethod,
		"total_price":    o.TotalPrice,
		"is_paid":        o.IsPaid,
		"is_delivered":   o.IsDelivered,
		"created_at":     o.CreatedAt,
		"shipping_address": map[string]any{
			"details": o.ShippingAddress.Details,
			"phone":   o.ShippingAddress.Phone,
			"city":    o.ShippingAddress.City,
		},
		"items": items,
	}
}

func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domuser.ErrEmailAlreadyUsed),
		errors.Is(err, domsession.ErrSignInInProgress),
		errors.Is(err, outcome.ErrDiscarded):
		respondError(w, http.StatusConflict, err)
	case errors.Is(err, domuser.ErrPasswordsMismatch),
		errors.Is(err, domuser.ErrInvalidResetCode),
		errors.Is(err, domsession.ErrInvalidCredential),
		errors.Is(err, outcome.ErrInvalidQuantity),
		errors.Is(err, domorder.ErrInvalidPayment),
		errors.Is(err, domorder.ErrEmptyOrderItems),
		errors.Is(err, domorder.ErrCartNotLoaded):
		respondError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, domproduct.ErrProductNotFound),
		errors.Is(err, domproduct.ErrBrandNotFound),
		errors.Is(err, domsession.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, outcome.ErrAuthRequired):
		respondError(w, http.StatusUnauthorized, err)
	case errors.Is(err, outcome.ErrRejected):
		// upstream 4xx pass through; a fail envelope on 2xx is a bad request
		status := outcome.StatusOf(err)
		switch {
		case status >= 500 || status == 0:
			status = http.StatusBadGateway
		case status < 400:
			status = http.StatusBadRequest
		}
		respondError(w, status, err)
	case errors.Is(err, outcome.ErrTransport):
		respondError(w, http.StatusBadGateway, err)
	default:
		respondError(w, http.StatusInternalServerError, err)
	}
}
