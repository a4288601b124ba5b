package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"finanp2p/internal/models"
	"finanp2p/internal/pricing"
	"finanp2p/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type Handler struct {
	Orders *services.OrderService
	Config *services.ConfigService
	Tokens *services.TokenService
	Auth   *services.AuthService
	Prices *pricing.Cache

	// StreamInterval controls how often the websocket price stream pushes
	// updates. Zero means the 10s default.
	StreamInterval time.Duration
}

type createOrderRequest struct {
	WalletAddress string          `json:"walletAddress"`
	Amount        decimal.Decimal `json:"amount"`
}

type paymentInfoResponse struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountHolder string `json:"accountHolder"`
	QRImageURL    string `json:"qrImageUrl"`
	Note          string `json:"note"`
}

type createOrderResponse struct {
	OrderID       string              `json:"orderId"`
	Amount        string              `json:"amount"`
	Status        string              `json:"status"`
	WalletAddress string              `json:"walletAddress"`
	PaymentInfo   paymentInfoResponse `json:"paymentInfo"`
	CreatedAt     string              `json:"createdAt"`
}

type orderResponse struct {
	OrderID       string `json:"orderId"`
	Status        string `json:"status"`
	Amount        string `json:"amount"`
	WalletAddress string `json:"walletAddress"`
	TxHash        string `json:"txHash,omitempty"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

func toOrderResponse(order *models.Order) orderResponse {
	resp := orderResponse{
		OrderID:       order.ID,
		Status:        string(order.Status),
		Amount:        order.Amount.String(),
		WalletAddress: order.WalletAddress,
		CreatedAt:     order.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     order.UpdatedAt.Format(time.RFC3339),
	}
	if order.TxHash != nil {
		resp.TxHash = *order.TxHash
	}
	return resp
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	created, err := h.Orders.CreateOrder(r.Context(), req.WalletAddress, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, createOrderResponse{
		OrderID:       created.Order.ID,
		Amount:        created.Order.Amount.String(),
		Status:        string(created.Order.Status),
		WalletAddress: created.Order.WalletAddress,
		PaymentInfo: paymentInfoResponse{
			BankName:      created.Instructions.BankName,
			AccountNumber: created.Instructions.AccountNumber,
			AccountHolder: created.Instructions.AccountHolder,
			QRImageURL:    created.Instructions.QRImageURL,
			Note:          created.Instructions.Note,
		},
		CreatedAt: created.Order.CreatedAt.Format(time.RFC3339),
	})
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.GetOrder(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// ConfirmPayment is the buyer's "I have sent the bank transfer" signal.
func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.MarkPaid(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"orderId": order.ID,
		"status":  string(order.Status),
		"message": "Payment confirmation received. Waiting for admin approval.",
	})
}

func (h *Handler) PaymentConfig(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Config.ActiveProfile(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "payment configuration not found")
		return
	}
	writeJSON(w, http.StatusOK, paymentInfoResponse{
		BankName:      profile.BankName,
		AccountNumber: profile.AccountNumber,
		AccountHolder: profile.AccountHolder,
		QRImageURL:    profile.QRImageURL,
		Note:          profile.Note,
	})
}

func (h *Handler) GetPrices(w http.ResponseWriter, r *http.Request) {
	symbols := splitSymbols(r.URL.Query().Get("symbols"))
	if len(symbols) == 0 {
		writeError(w, http.StatusBadRequest, "symbols query parameter is required")
		return
	}
	writeJSON(w, http.StatusOK, h.Prices.GetPrices(r.Context(), symbols))
}

func (h *Handler) GetPrice(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	price, ok := h.Prices.GetPrice(r.Context(), symbol)
	if !ok {
		writeError(w, http.StatusNotFound, "price not available")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"symbol": pricing.Normalize(symbol),
		"usd":    price,
	})
}

func (h *Handler) ListTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.Tokens.ListTokens(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTokenResponses(tokens))
}

func (h *Handler) PopularTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.Tokens.PopularTokens(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTokenResponses(tokens))
}

type tokenResponse struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Decimals int    `json:"decimals"`
	LogoURI  string `json:"logoUri"`
}

func toTokenResponses(tokens []*models.Token) []tokenResponse {
	out := make([]tokenResponse, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, tokenResponse{
			Symbol:   t.Symbol,
			Name:     t.Name,
			Address:  t.Address,
			Decimals: t.Decimals,
			LogoURI:  t.LogoURI,
		})
	}
	return out
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	token, admin, err := h.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"accessToken": token,
		"admin": map[string]string{
			"id":       admin.ID,
			"username": admin.Username,
		},
	})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, services.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNoActiveProfile):
		writeError(w, http.StatusPreconditionFailed, "payment configuration not found")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func splitSymbols(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func parseIntOr(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return i
}
