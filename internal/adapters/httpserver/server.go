package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/oauth2"

	"github.com/capsulahaus/shop/internal/domain"
	"github.com/capsulahaus/shop/internal/usecase"
)

type Server struct {
	mux       *http.ServeMux
	catalog   *usecase.CatalogUC
	orders    *usecase.OrderUC
	content   *usecase.ContentUC
	brochures *usecase.BrochureUC
	customers domain.CustomerRepo
	failures  domain.NotifyFailureRepo
	notifier  domain.Notifier
	oauthCfg  *oauth2.Config
	validate  *validator.Validate

	adminUser   string
	adminPass   string
	adminSecret []byte
}

type Deps struct {
	Catalog   *usecase.CatalogUC
	Orders    *usecase.OrderUC
	Content   *usecase.ContentUC
	Brochures *usecase.BrochureUC
	Customers domain.CustomerRepo
	Failures  domain.NotifyFailureRepo
	Notifier  domain.Notifier
	OAuth     *oauth2.Config
}

func New(d Deps) http.Handler {
	s := &Server{
		mux:       http.NewServeMux(),
		catalog:   d.Catalog,
		orders:    d.Orders,
		content:   d.Content,
		brochures: d.Brochures,
		customers: d.Customers,
		failures:  d.Failures,
		notifier:  d.Notifier,
		oauthCfg:  d.OAuth,
		validate:  validator.New(),
	}

	s.adminUser = os.Getenv("ADMIN_USER")
	s.adminPass = os.Getenv("ADMIN_PASS")
	sec := os.Getenv("ADMIN_SECRET")
	if sec == "" {
		sec = os.Getenv("SESSION_KEY")
	}
	if sec == "" {
		sec = "dev-admin-secret"
	}
	s.adminSecret = []byte(sec)

	s.routes()
	return s.mux
}

func (s *Server) routes() {
	// storefront
	s.mux.HandleFunc("GET /api/products", s.apiProducts)
	s.mux.HandleFunc("GET /api/products/{slug}", s.apiProductBySlug)
	s.mux.HandleFunc("GET /api/categories", s.apiCategories)
	s.mux.HandleFunc("GET /api/brochures", s.apiBrochures)
	s.mux.HandleFunc("GET /api/pages/{slug}", s.apiPage)

	// cart + checkout
	s.mux.HandleFunc("GET /api/cart", s.handleCartGet)
	s.mux.HandleFunc("POST /api/cart/add", s.handleCartAdd)
	s.mux.HandleFunc("POST /api/cart/update", s.handleCartUpdate)
	s.mux.HandleFunc("POST /api/cart/remove", s.handleCartRemove)
	s.mux.HandleFunc("POST /api/cart/clear", s.handleCartClear)
	s.mux.HandleFunc("POST /api/checkout", s.handleCheckout)

	// notification gateway
	s.mux.HandleFunc("POST /api/notify/send-order", s.notifySendOrder)
	s.mux.HandleFunc("POST /api/notify/send-order-status", s.notifySendOrderStatus)
	s.mux.HandleFunc("POST /api/notify/send-callback", s.notifySendCallback)
	s.mux.HandleFunc("POST /api/notify/send-consultation", s.notifySendConsultation)
	s.mux.HandleFunc("POST /api/notify/send-contact", s.notifySendContact)
	s.mux.HandleFunc("POST /api/notify/send-partner", s.notifySendPartner)

	// customer sessions
	s.mux.HandleFunc("POST /api/register", s.handleRegister)
	s.mux.HandleFunc("POST /api/login", s.handleLogin)
	s.mux.HandleFunc("GET /auth/google/login", s.handleGoogleLogin)
	s.mux.HandleFunc("GET /auth/google/callback", s.handleGoogleCallback)
	s.mux.HandleFunc("GET /logout", s.handleLogout)

	// admin
	s.mux.HandleFunc("POST /admin/login", s.handleAdminLogin)
	s.mux.HandleFunc("GET /admin/orders", s.adminOnly(s.adminOrders))
	s.mux.HandleFunc("PATCH /admin/orders/{id}/status", s.adminOnly(s.adminOrderStatus))
	s.mux.HandleFunc("DELETE /admin/orders/{id}", s.adminOnly(s.adminOrderDelete))
	s.mux.HandleFunc("GET /admin/stats", s.adminOnly(s.adminStats))

	s.mux.HandleFunc("POST /admin/products", s.adminOnly(s.adminProductCreate))
	s.mux.HandleFunc("PUT /admin/products/{id}", s.adminOnly(s.adminProductUpdate))
	s.mux.HandleFunc("DELETE /admin/products/{id}", s.adminOnly(s.adminProductDelete))
	s.mux.HandleFunc("PUT /admin/products/{id}/images", s.adminOnly(s.adminProductImages))

	s.mux.HandleFunc("POST /admin/brochures", s.adminOnly(s.adminBrochureCreate))
	s.mux.HandleFunc("PUT /admin/brochures/{id}", s.adminOnly(s.adminBrochureUpdate))
	s.mux.HandleFunc("DELETE /admin/brochures/{id}", s.adminOnly(s.adminBrochureDelete))

	s.mux.HandleFunc("GET /admin/pages/{slug}/blocks", s.adminOnly(s.adminBlocks))
	s.mux.HandleFunc("POST /admin/pages/{slug}/blocks", s.adminOnly(s.adminBlockAdd))
	s.mux.HandleFunc("POST /admin/pages/{slug}/blocks/reorder", s.adminOnly(s.adminBlocksReorder))
	s.mux.HandleFunc("POST /admin/blocks/{id}/toggle", s.adminOnly(s.adminBlockToggle))
	s.mux.HandleFunc("DELETE /admin/blocks/{id}", s.adminOnly(s.adminBlockDelete))

	s.mux.HandleFunc("PUT /admin/pages/{slug}/hero", s.adminOnly(s.adminHeroUpdate))
	s.mux.HandleFunc("POST /admin/pages/{slug}/innovations", s.adminOnly(s.adminInnovationAdd))
	s.mux.HandleFunc("PATCH /admin/pages/{slug}/innovations/{idx}", s.adminOnly(s.adminInnovationUpdate))
	s.mux.HandleFunc("DELETE /admin/pages/{slug}/innovations/{idx}", s.adminOnly(s.adminInnovationRemove))
	s.mux.HandleFunc("POST /admin/pages/{slug}/options", s.adminOnly(s.adminOptionAdd))
	s.mux.HandleFunc("PATCH /admin/pages/{slug}/options/{idx}", s.adminOnly(s.adminOptionUpdate))
	s.mux.HandleFunc("DELETE /admin/pages/{slug}/options/{idx}", s.adminOnly(s.adminOptionRemove))

	s.mux.HandleFunc("GET /admin/export/orders.xlsx", s.adminOnly(s.adminExportOrders))
	s.mux.HandleFunc("GET /admin/export/products.xlsx", s.adminOnly(s.adminExportProducts))
	s.mux.HandleFunc("GET /admin/notify/failures", s.adminOnly(s.adminNotifyFailures))
	s.mux.HandleFunc("POST /admin/notify/test-email", s.adminOnly(s.adminTestEmail))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// fieldErrors flattens validator output into "field: rule" strings.
func fieldErrors(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, strings.ToLower(fe.Field())+": "+fe.Tag())
	}
	return strings.Join(parts, ", ")
}

func secretKey() []byte {
	k := os.Getenv("SESSION_KEY")
	if k == "" {
		k = "dev-insecure"
	}
	return []byte(k)
}
