package admin

import (
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/easycustoms360/backend/internal/dto"
	"github.com/easycustoms360/backend/internal/service/orderservice"
	"github.com/easycustoms360/backend/pkg/utils"
)

// ListOrders godoc
//
//	@Summary	List orders for review
//	@Tags		Admin
//	@Security	AdminSecret
//	@Produce	json
//	@Param		status	query		string	false	"Filter by status"
//	@Success	200		{array}		dto.OrderDTO
//	@Failure	500		{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/orders [get]
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit, _ := pagination(r)
	orders, err := h.orderService.ListByStatus(r.Context(), r.URL.Query().Get("status"), limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	response := make([]dto.OrderDTO, len(orders))
	for i, o := range orders {
		response[i] = dto.OrderDTO{
			ID:          o.ID.String(),
			AmountMinor: o.AmountMinor,
			Currency:    o.Currency,
			Credits:     o.Credits,
			Status:      o.Status,
			Provider:    o.Provider,
			CreatedAt:   o.CreatedAt,
			PaidAt:      o.PaidAt,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// MarkOrderPaid godoc
//
//	@Summary	Settle an order manually
//	@Description	Drives the same exactly-once settle path as the provider webhooks.
//	@Tags		Admin
//	@Security	AdminSecret
//	@Produce	json
//	@Param		id	path		string	true	"Order id"
//	@Success	200	{object}	dto.WebhookAckDTO
//	@Failure	404	{object}	utils.Response	"Order not found"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/orders/{id}/mark-paid [post]
func (h *AdminHandler) MarkOrderPaid(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	noop, err := h.orderService.MarkPaidManually(r.Context(), id)
	if err != nil {
		if errors.Is(err, orderservice.ErrOrderNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.auditService.Record(r.Context(), actor(r), "order.mark_paid", "order", id.String(), nil)
	utils.RespondWithJSON(w, http.StatusOK, dto.WebhookAckDTO{Noop: noop})
}

// ExportOrders godoc
//
//	@Summary	Export orders as CSV
//	@Tags		Admin
//	@Security	AdminSecret
//	@Produce	text/csv
//	@Param		status	query		string	false	"Filter by status"
//	@Success	200		{string}	string	"CSV document"
//	@Failure	500		{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/orders/export [get]
func (h *AdminHandler) ExportOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListByStatus(r.Context(), r.URL.Query().Get("status"), 10000)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="orders.csv"`)
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "user_id", "amount_minor", "currency", "credits", "status", "provider", "created_at", "paid_at"})
	for _, o := range orders {
		paidAt := ""
		if o.PaidAt != nil {
			paidAt = o.PaidAt.UTC().Format("2006-01-02 15:04:05")
		}
		_ = cw.Write([]string{
			o.ID.String(),
			o.UserID.String(),
			strconv.FormatInt(o.AmountMinor, 10),
			o.Currency,
			o.Credits.String(),
			o.Status,
			o.Provider,
			o.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			paidAt,
		})
	}
	cw.Flush()
}
