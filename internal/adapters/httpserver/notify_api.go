package httpserver

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/capsulahaus/shop/internal/domain"
)

// Thin forwarding endpoints: JSON in, {success, error?} out. Delivery
// failure is reported in the body, never as a 5xx; whatever state
// change triggered the call has already been committed by its owner.

type sendOrderReq struct {
	Order         domain.Order `json:"order" validate:"required"`
	CustomerEmail string       `json:"customerEmail" validate:"omitempty,email"`
	CustomerPhone string       `json:"customerPhone"`
}

func (s *Server) notifySendOrder(w http.ResponseWriter, r *http.Request) {
	var req sendOrderReq
	if !s.decodeValid(w, r, &req) {
		return
	}
	s.respondNotify(w, s.notifier.SendOrder(r.Context(), &req.Order, req.CustomerEmail, req.CustomerPhone))
}

type sendOrderStatusReq struct {
	Order              domain.Order       `json:"order" validate:"required"`
	Status             domain.OrderStatus `json:"status" validate:"required"`
	CancellationReason string             `json:"cancellationReason"`
	TrackingNumber     string             `json:"trackingNumber"`
	CustomerEmail      string             `json:"customerEmail" validate:"required,email"`
}

func (s *Server) notifySendOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req sendOrderStatusReq
	if !s.decodeValid(w, r, &req) {
		return
	}
	err := s.notifier.SendOrderStatus(r.Context(), &req.Order, req.Status, req.CancellationReason, req.TrackingNumber, req.CustomerEmail)
	s.respondNotify(w, err)
}

type callbackReq struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

func (s *Server) notifySendCallback(w http.ResponseWriter, r *http.Request) {
	var req callbackReq
	if !s.decodeValid(w, r, &req) {
		return
	}
	s.respondNotify(w, s.notifier.SendCallback(r.Context(), req.Name, req.Phone))
}

func (s *Server) notifySendConsultation(w http.ResponseWriter, r *http.Request) {
	var req callbackReq
	if !s.decodeValid(w, r, &req) {
		return
	}
	s.respondNotify(w, s.notifier.SendConsultation(r.Context(), req.Name, req.Phone))
}

type contactReq struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Message string `json:"message" validate:"required"`
}

func (s *Server) notifySendContact(w http.ResponseWriter, r *http.Request) {
	var req contactReq
	if !s.decodeValid(w, r, &req) {
		return
	}
	s.respondNotify(w, s.notifier.SendContact(r.Context(), req.Name, req.Email, req.Phone, req.Message))
}

type partnerReq struct {
	Company string `json:"company" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
}

func (s *Server) notifySendPartner(w http.ResponseWriter, r *http.Request) {
	var req partnerReq
	if !s.decodeValid(w, r, &req) {
		return
	}
	s.respondNotify(w, s.notifier.SendPartner(r.Context(), req.Company, req.Name, req.Phone, req.Email))
}

func (s *Server) decodeValid(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := decodeJSON(r, v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "malformed payload"})
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": fieldErrors(err)})
		return false
	}
	return true
}

func (s *Server) respondNotify(w http.ResponseWriter, err error) {
	if err != nil {
		log.Warn().Err(err).Msg("notify")
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
