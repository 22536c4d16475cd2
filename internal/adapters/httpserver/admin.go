package httpserver

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/capsulahaus/shop/internal/domain"
)

// handleAdminLogin checks the configured credential pair and issues a
// short-lived signed token. Wrong credentials get a generic 401; there
// is no lockout or rate limiting.
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if s.adminUser == "" || s.adminPass == "" {
		log.Error().Msg("ADMIN_USER/ADMIN_PASS not configured")
		http.Error(w, "config", http.StatusInternalServerError)
		return
	}
	var req struct {
		User string `json:"user"`
		Pass string `json:"pass"`
	}
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "body", http.StatusBadRequest)
		return
	}
	if !secureCompare(req.User, s.adminUser) || !secureCompare(req.Pass, s.adminPass) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	tok, exp, err := s.issueAdminToken(30 * time.Minute)
	if err != nil {
		http.Error(w, "token", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "admin_token", Value: tok, Path: "/admin", MaxAge: 1800, HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]any{"token": tok, "exp": exp.Unix()})
}

func (s *Server) issueAdminToken(dur time.Duration) (string, time.Time, error) {
	head := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	exp := time.Now().Add(dur)
	claims := map[string]any{"sub": s.adminUser, "role": "admin", "exp": exp.Unix(), "iat": time.Now().Unix(), "iss": "capsulahaus"}
	b, err := json.Marshal(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	unsigned := head + "." + base64.RawURLEncoding.EncodeToString(b)
	h := hmac.New(sha256.New, s.adminSecret)
	h.Write([]byte(unsigned))
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	return unsigned + "." + sig, exp, nil
}

func (s *Server) verifyAdminToken(tok string) error {
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return errors.New("format")
	}
	unsigned := parts[0] + "." + parts[1]
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return errors.New("sig")
	}
	h := hmac.New(sha256.New, s.adminSecret)
	h.Write([]byte(unsigned))
	if !hmac.Equal(sig, h.Sum(nil)) {
		return errors.New("signature")
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return errors.New("payload")
	}
	var m map[string]any
	if err := json.Unmarshal(payload, &m); err != nil {
		return errors.New("json")
	}
	role, _ := m["role"].(string)
	expF, _ := m["exp"].(float64)
	if role != "admin" {
		return errors.New("claims")
	}
	if time.Now().Unix() > int64(expF) {
		return errors.New("expired")
	}
	return nil
}

func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			if err := s.verifyAdminToken(strings.TrimSpace(auth[7:])); err == nil {
				next(w, r)
				return
			}
		}
		if c, err := r.Cookie("admin_token"); err == nil && c.Value != "" {
			if err := s.verifyAdminToken(c.Value); err == nil {
				next(w, r)
				return
			}
		}
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}
}

func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	var v byte
	for i := 0; i < len(a); i++ {
		v |= a[i] ^ b[i]
	}
	return v == 0
}

// --- orders ---

func (s *Server) adminOrders(w http.ResponseWriter, r *http.Request) {
	status := domain.OrderStatus(r.URL.Query().Get("status"))
	if status != "" && !domain.ValidStatus(status) {
		http.Error(w, "status", http.StatusBadRequest)
		return
	}
	list, err := s.orders.List(r.Context(), status)
	if err != nil {
		http.Error(w, "err", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": list})
}

// adminOrderStatus commits the status change first, then fires the
// customer email in the background when the order carries one and the
// new status is past "new". The email outcome never rolls the change
// back.
func (s *Server) adminOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req struct {
		Status         domain.OrderStatus `json:"status"`
		Reason         string             `json:"reason"`
		TrackingNumber string             `json:"trackingNumber"`
	}
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "body", http.StatusBadRequest)
		return
	}
	o, err := s.orders.UpdateStatus(r.Context(), id, req.Status, req.Reason)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		// absent id is a no-op, not an error
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
		return
	case errors.Is(err, domain.ErrTerminalStatus), errors.Is(err, domain.ErrInvalidStatus):
		writeJSON(w, http.StatusConflict, map[string]any{"success": false, "error": err.Error()})
		return
	case err != nil:
		http.Error(w, "err", http.StatusInternalServerError)
		return
	}

	if o.Email != "" && o.Status != domain.OrderStatusNew {
		go func(o domain.Order, reason, tracking string) {
			err := s.notifier.SendOrderStatus(context.Background(), &o, o.Status, reason, tracking, o.Email)
			if err != nil {
				log.Warn().Err(err).Str("order", o.ID).Msg("status notification")
			}
		}(*o, req.Reason, req.TrackingNumber)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "order": o})
}

func (s *Server) adminOrderDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.orders.Delete(r.Context(), r.PathValue("id")); err != nil {
		http.Error(w, "err", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) adminStats(w http.ResponseWriter, r *http.Request) {
	revenue, err := s.orders.TotalRevenue(r.Context())
	if err != nil {
		http.Error(w, "err", http.StatusInternalServerError)
		return
	}
	count, err := s.orders.OrdersCount(r.Context())
	if err != nil {
		http.Error(w, "err", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"totalRevenue": revenue, "ordersCount": count})
}

// --- products ---

func (s *Server) adminProductCreate(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := decodeJSON(r, &p); err != nil {
		http.Error(w, "body", http.StatusBadRequest)
		return
	}
	if p.Name == "" {
		http.Error(w, "name", http.StatusBadRequest)
		return
	}
	if err := s.catalog.Create(r.Context(), &p); err != nil {
		http.Error(w, "err", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) adminProductUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "id", http.StatusBadRequest)
		return
	}
	var p domain.Product
	if err := decodeJSON(r, &p); err != nil {
		http.Error(w, "body", http.StatusBadRequest)
		return
	}
	p.ID = id
	if err := s.catalog.Update(r.Context(), &p); err != nil {
		http.Error(w, "err", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) adminProductDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "id", http.StatusBadRequest)
		return
	}
	if err := s.catalog.Delete(r.Context(), id); err != nil {
		http.Error(w, "err", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) adminProductImages(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "id", http.StatusBadRequest)
		return
	}
	var req struct {
		Images []domain.Image `json:"images"`
	}
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "body", http.StatusBadRequest)
		return
	}
	if err := s.catalog.ReplaceImages(r.Context(), id, req.Images); err != nil {
		http.Error(w, "err", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// --- brochures ---

func (s *Server) adminBrochureCreate(w http.ResponseWriter, r *http.Request) {
	var b domain.Brochure
	if err := decodeJSON(r, &b); err != nil {
		http.Error(w, "body", http.StatusBadRequest)
		return
	}
	if err := s.brochures.Create(r.Context(), &b); err != nil {
		http.Error(w, "err", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) adminBrochureUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "id", http.StatusBadRequest)
		return
	}
	var b domain.Brochure
	if err := decodeJSON(r, &b); err != nil {
		http.Error(w, "body", http.StatusBadRequest)
		return
	}
	b.ID = id
	if err := s.brochures.Update(r.Context(), &b); err != nil {
		http.Error(w, "err", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) adminBrochureDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "id", http.StatusBadRequest)
		return
	}
	if err := s.brochures.Delete(r.Context(), id); err != nil {
		http.Error(w, "err", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// --- page blocks ---

func (s *Server) adminBlocks(w http.ResponseWriter, r *http.Request) {
	blocks, err := s.content.ListBlocks(r.Context(), r.PathValue("slug"))
	if err != nil {
		http.Error(w, "err", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"blocks": blocks})
}

func (s *Server) adminBlockAdd(w http.ResponseWriter, r *http.Request) {
	var b domain.PageBlock
	if err := decodeJSON(r, &b); err != nil {
		http.Error(w, "body", http.StatusBadRequest)
		return
	}
	b.PageSlug = r.PathValue("slug")
	if err := s.content.AddBlock(r.Context(), &b); err != nil {
		http.Error(w, "err", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) adminBlocksReorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "body", http.StatusBadRequest)
		return
	}
	blocks, err := s.content.Reorder(r.Context(), r.PathValue("slug"), req.IDs)
	if err != nil {
		http.Error(w, "err", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"blocks": blocks})
}

func (s *Server) adminBlockToggle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "id", http.StatusBadRequest)
		return
	}
	b, err := s.content.ToggleBlock(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
		return
	}
	if err != nil {
		http.Error(w, "err", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) adminBlockDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "id", http.StatusBadRequest)
		return
	}
	if err := s.content.DeleteBlock(r.Context(), id); err != nil {
		http.Error(w, "err", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// --- page content ---

func (s *Server) adminHeroUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string `json:"title"`
		Subtitle string `json:"subtitle"`
	}
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "body", http.StatusBadRequest)
		return
	}
	if err := s.content.UpdateHero(r.Context(), r.PathValue("slug"), req.Title, req.Subtitle); err != nil {
		http.Error(w, "err", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) adminInnovationAdd(w http.ResponseWriter, r *http.Request) {
	var item domain.FeatureItem
	if err := decodeJSON(r, &item); err != nil {
		http.Error(w, "body", http.StatusBadRequest)
		return
	}
	if err := s.content.AddInnovation(r.Context(), r.PathValue("slug"), item); err != nil {
		http.Error(w, "err", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) adminInnovationUpdate(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(r.PathValue("idx"))
	if err != nil {
		http.Error(w, "idx", http.StatusBadRequest)
		return
	}
	var patch domain.FeatureItem
	if err := decodeJSON(r, &patch); err != nil {
		http.Error(w, "body", http.StatusBadRequest)
		return
	}
	if err := s.content.UpdateInnovation(r.Context(), r.PathValue("slug"), idx, patch); err != nil {
		http.Error(w, "err", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) adminInnovationRemove(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(r.PathValue("idx"))
	if err != nil {
		http.Error(w, "idx", http.StatusBadRequest)
		return
	}
	if err := s.content.RemoveInnovation(r.Context(), r.PathValue("slug"), idx); err != nil {
		http.Error(w, "err", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) adminOptionAdd(w http.ResponseWriter, r *http.Request) {
	var item domain.OptionItem
	if err := decodeJSON(r, &item); err != nil {
		http.Error(w, "body", http.StatusBadRequest)
		return
	}
	if err := s.content.AddOption(r.Context(), r.PathValue("slug"), item); err != nil {
		http.Error(w, "err", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) adminOptionUpdate(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(r.PathValue("idx"))
	if err != nil {
		http.Error(w, "idx", http.StatusBadRequest)
		return
	}
	var patch domain.OptionItem
	if err := decodeJSON(r, &patch); err != nil {
		http.Error(w, "body", http.StatusBadRequest)
		return
	}
	if err := s.content.UpdateOption(r.Context(), r.PathValue("slug"), idx, patch); err != nil {
		http.Error(w, "err", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) adminOptionRemove(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(r.PathValue("idx"))
	if err != nil {
		http.Error(w, "idx", http.StatusBadRequest)
		return
	}
	if err := s.content.RemoveOption(r.Context(), r.PathValue("slug"), idx); err != nil {
		http.Error(w, "err", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// --- diagnostics ---

func (s *Server) adminNotifyFailures(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := s.failures.ListRecent(r.Context(), limit)
	if err != nil {
		http.Error(w, "err", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"failures": list})
}

// adminTestEmail mirrors the storefront templates against an arbitrary
// recipient so a configured provider can be exercised end to end.
func (s *Server) adminTestEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type        string              `json:"type" validate:"required,oneof=order order-status callback consultation contact partner custom"`
		Email       string              `json:"email" validate:"required,email"`
		Order       *domain.Order       `json:"order"`
		OrderStatus *domain.OrderStatus `json:"orderStatus"`
		Custom      string              `json:"custom"`
	}
	if !s.decodeValid(w, r, &req) {
		return
	}
	o := req.Order
	if o == nil {
		o = &domain.Order{
			ID:          "0",
			OrderNumber: "00000",
			Name:        "Test Customer",
			Phone:       "+70000000000",
			Email:       req.Email,
			Total:       2500,
			Status:      domain.OrderStatusNew,
			Items: []domain.OrderItem{
				{Name: "Capsule Mini", Qty: 2, Price: 1000},
				{Name: "Terrace Kit", Qty: 1, Price: 500},
			},
		}
	}
	var err error
	switch req.Type {
	case "order":
		err = s.notifier.SendOrder(r.Context(), o, req.Email, "")
	case "order-status":
		st := domain.OrderStatusProcessing
		if req.OrderStatus != nil {
			st = *req.OrderStatus
		}
		err = s.notifier.SendOrderStatus(r.Context(), o, st, "", "", req.Email)
	case "callback":
		err = s.notifier.SendCallback(r.Context(), "Test Customer", "+70000000000")
	case "consultation":
		err = s.notifier.SendConsultation(r.Context(), "Test Customer", "+70000000000")
	case "contact":
		err = s.notifier.SendContact(r.Context(), "Test Customer", req.Email, "+70000000000", "Test message")
	case "partner":
		err = s.notifier.SendPartner(r.Context(), "Test Co", "Test Customer", "+70000000000", req.Email)
	case "custom":
		err = s.notifier.SendContact(r.Context(), "Diagnostics", req.Email, "", req.Custom)
	default:
		err = fmt.Errorf("unknown test type %q", req.Type)
	}
	s.respondNotify(w, err)
}
