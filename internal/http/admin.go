package http

import (
	"encoding/json"
	"net/http"

	"finanp2p/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type listOrdersResponse struct {
	Orders     []orderResponse `json:"orders"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	Total      int64           `json:"total"`
	TotalPages int64           `json:"totalPages"`
}

func (h *Handler) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	if status := r.URL.Query().Get("status"); status != "" {
		orders, err := h.Orders.ListOrdersByStatus(r.Context(), models.OrderStatus(status))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toOrderResponseList(orders))
		return
	}

	page := parseIntOr(r.URL.Query().Get("page"), 1)
	limit := parseIntOr(r.URL.Query().Get("limit"), 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	orders, total, err := h.Orders.ListOrders(r.Context(), page, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	writeJSON(w, http.StatusOK, listOrdersResponse{
		Orders:     toOrderResponseList(orders),
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	})
}

type confirmOrderRequest struct {
	TxHash string `json:"txHash"`
}

func (h *Handler) AdminConfirmOrder(w http.ResponseWriter, r *http.Request) {
	var req confirmOrderRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}
	}

	var txHash *string
	if req.TxHash != "" {
		txHash = &req.TxHash
	}

	order, err := h.Orders.ConfirmOrder(r.Context(), chi.URLParam(r, "orderId"), txHash)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) AdminCancelOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.CancelOrder(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

type updateConfigRequest struct {
	BankName           string          `json:"bankName"`
	AccountNumber      string          `json:"accountNumber"`
	AccountHolder      string          `json:"accountHolder"`
	QRImageURL         string          `json:"qrImageUrl"`
	Note               string          `json:"note"`
	AdminWalletAddress string          `json:"adminWalletAddress"`
	UsdtRate           decimal.Decimal `json:"usdtRate"`
}

func (h *Handler) AdminUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req updateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	profile, err := h.Config.UpdateProfile(r.Context(), &models.PaymentProfile{
		BankName:           req.BankName,
		AccountNumber:      req.AccountNumber,
		AccountHolder:      req.AccountHolder,
		QRImageURL:         req.QRImageURL,
		Note:               req.Note,
		AdminWalletAddress: req.AdminWalletAddress,
		UsdtRate:           req.UsdtRate,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":                 profile.ID,
		"bankName":           profile.BankName,
		"accountNumber":      profile.AccountNumber,
		"accountHolder":      profile.AccountHolder,
		"qrImageUrl":         profile.QRImageURL,
		"note":               profile.Note,
		"adminWalletAddress": profile.AdminWalletAddress,
		"usdtRate":           profile.UsdtRate.String(),
	})
}

func toOrderResponseList(orders []*models.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrderResponse(order))
	}
	return out
}
