package httpserver

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/capsulahaus/shop/internal/domain"
	"github.com/capsulahaus/shop/internal/usecase"
)

// The cart rides in an HMAC-signed JSON cookie: one browser session,
// one logical owner, last write wins.

func readCart(r *http.Request) domain.Cart {
	c, err := r.Cookie("cart")
	if err != nil || c.Value == "" {
		return domain.Cart{}
	}
	parts := strings.SplitN(c.Value, ".", 2)
	if len(parts) != 2 {
		return domain.Cart{}
	}
	sig, _ := base64.RawURLEncoding.DecodeString(parts[0])
	payload, _ := base64.RawURLEncoding.DecodeString(parts[1])
	h := hmac.New(sha256.New, secretKey())
	h.Write(payload)
	if !hmac.Equal(sig, h.Sum(nil)) {
		return domain.Cart{}
	}
	var cart domain.Cart
	_ = json.Unmarshal(payload, &cart)
	return cart
}

func writeCart(w http.ResponseWriter, cart domain.Cart) {
	b, _ := json.Marshal(cart)
	h := hmac.New(sha256.New, secretKey())
	h.Write(b)
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	val := sig + "." + base64.RawURLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{Name: "cart", Value: val, Path: "/", MaxAge: 60 * 60 * 24 * 7, HttpOnly: true})
}

func cartResponse(cart domain.Cart) map[string]any {
	return map[string]any{
		"items":      cart.Items,
		"totalPrice": cart.TotalPrice(),
		"totalCount": cart.TotalCount(),
	}
}

func (s *Server) handleCartGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, cartResponse(readCart(r)))
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID uuid.UUID `json:"productId"`
	}
	if err := decodeJSON(r, &req); err != nil || req.ProductID == uuid.Nil {
		http.Error(w, "productId", http.StatusBadRequest)
		return
	}
	p, err := s.catalog.GetByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "err", http.StatusInternalServerError)
		return
	}
	cart := readCart(r)
	cart.Add(domain.CartItem{
		ProductID:  p.ID,
		Name:       p.Name,
		Price:      p.Price,
		Dimensions: p.Dimensions,
		Guests:     p.Guests,
		Image:      p.FirstImage(),
	})
	writeCart(w, cart)
	writeJSON(w, http.StatusOK, cartResponse(cart))
}

func (s *Server) handleCartUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID uuid.UUID `json:"productId"`
		Qty       int       `json:"qty"`
	}
	if err := decodeJSON(r, &req); err != nil || req.ProductID == uuid.Nil {
		http.Error(w, "productId", http.StatusBadRequest)
		return
	}
	cart := readCart(r)
	cart.UpdateQty(req.ProductID, req.Qty)
	writeCart(w, cart)
	writeJSON(w, http.StatusOK, cartResponse(cart))
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID uuid.UUID `json:"productId"`
	}
	if err := decodeJSON(r, &req); err != nil || req.ProductID == uuid.Nil {
		http.Error(w, "productId", http.StatusBadRequest)
		return
	}
	cart := readCart(r)
	cart.Remove(req.ProductID)
	writeCart(w, cart)
	writeJSON(w, http.StatusOK, cartResponse(cart))
}

func (s *Server) handleCartClear(w http.ResponseWriter, r *http.Request) {
	cart := readCart(r)
	cart.Clear()
	writeCart(w, cart)
	writeJSON(w, http.StatusOK, cartResponse(cart))
}

type checkoutReq struct {
	Name            string `json:"name" validate:"required"`
	Phone           string `json:"phone" validate:"required"`
	Email           string `json:"email" validate:"omitempty,email"`
	DeliveryAddress string `json:"deliveryAddress"`
	Notes           string `json:"notes"`
}

// handleCheckout turns the cart cookie into an order. The order write
// commits first; the new-order notification is fired afterwards and
// its outcome never affects the response beyond a warning flag. The
// cart cookie is cleared in the same response, a separate non-atomic
// step.
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutReq
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "body", http.StatusBadRequest)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": fieldErrors(err)})
		return
	}
	cart := readCart(r)
	if len(cart.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "cart is empty"})
		return
	}
	o, err := s.orders.Create(r.Context(), usecase.CheckoutDraft{
		Name:            req.Name,
		Phone:           req.Phone,
		Email:           req.Email,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
		Items:           cart.Items,
	})
	if err != nil {
		log.Error().Err(err).Msg("create order")
		http.Error(w, "err", http.StatusInternalServerError)
		return
	}

	go func(o domain.Order, email, phone string) {
		if err := s.notifier.SendOrder(context.Background(), &o, email, phone); err != nil {
			log.Warn().Err(err).Str("order", o.ID).Msg("order notification")
		}
	}(*o, req.Email, req.Phone)

	cart.Clear()
	writeCart(w, cart)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "order": o})
}
