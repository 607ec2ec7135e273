package billing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/easycustoms360/backend/internal/domain"
	"github.com/easycustoms360/backend/internal/dto"
	"github.com/easycustoms360/backend/internal/payments"
	"github.com/easycustoms360/backend/internal/service/orderservice"
	"github.com/easycustoms360/backend/internal/service/pricingservice"
	"github.com/easycustoms360/backend/internal/tenant"
	"github.com/easycustoms360/backend/pkg/auth"
	"github.com/easycustoms360/backend/pkg/utils"
)

type LedgerService interface {
	GetBalance(ctx context.Context, scope domain.Scope) (decimal.Decimal, error)
	ListEntries(ctx context.Context, scope domain.Scope, limit, offset int) ([]domain.LedgerEntry, error)
}

type PricingService interface {
	QuoteFor(ctx context.Context, scopeType string, credits decimal.Decimal, currency string) (*pricingservice.Quote, error)
}

type OrderService interface {
	Checkout(ctx context.Context, userID, tenantID uuid.UUID, credits decimal.Decimal, currency, provider, userIP string) (*domain.Order, *payments.CheckoutSession, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error)
	HandlePayTRCallback(ctx context.Context, merchantOID, status, totalAmount, hash string) (bool, error)
	HandlePaddleWebhook(ctx context.Context, signatureHeader string, rawBody []byte) (bool, error)
}

type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type BillingHandler struct {
	ledgerService  LedgerService
	pricingService PricingService
	orderService   OrderService
	userService    UserService
}

func New(ledgerService LedgerService, pricingService PricingService, orderService OrderService, userService UserService) *BillingHandler {
	return &BillingHandler{
		ledgerService:  ledgerService,
		pricingService: pricingService,
		orderService:   orderService,
		userService:    userService,
	}
}

func (h *BillingHandler) scopeOf(ctx context.Context) (domain.Scope, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return domain.Scope{}, errors.New("no user in context")
	}
	user, err := h.userService.GetUser(ctx, userID)
	if err != nil || user == nil {
		return domain.Scope{}, errors.New("user not found")
	}
	if user.OrgID != nil {
		return domain.OrgScope(*user.OrgID), nil
	}
	return domain.UserScope(user.ID), nil
}

// GetBalance godoc
//
//	@Summary		Get current credit balance
//	@Description	Sum of the caller's ledger entries, routed to their organization when they belong to one.
//	@Tags			Billing
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.BalanceResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/balance [get]
func (h *BillingHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	scope, err := h.scopeOf(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	balance, err := h.ledgerService.GetBalance(r.Context(), scope)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceResponseDTO{Balance: balance})
}

// GetLedger godoc
//
//	@Summary		Get credit ledger history
//	@Tags			Billing
//	@Security		BearerAuth
//	@Produce		json
//	@Param			limit	query		int	false	"Page size"
//	@Param			offset	query		int	false	"Page offset"
//	@Success		200		{array}		dto.LedgerEntryDTO
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/ledger [get]
func (h *BillingHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	scope, err := h.scopeOf(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	limit, offset := pagination(r)
	entries, err := h.ledgerService.ListEntries(r.Context(), scope, limit, offset)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	response := make([]dto.LedgerEntryDTO, len(entries))
	for i, e := range entries {
		response[i] = dto.LedgerEntryDTO{
			ID:        e.ID.String(),
			Change:    e.Change,
			Reason:    e.Reason,
			CreatedAt: e.CreatedAt,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// Quote godoc
//
//	@Summary		Quote a credit purchase
//	@Description	Price the requested credit count against the caller's tier table.
//	@Tags			Billing
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.QuoteRequestDTO	true	"Quote request"
//	@Success		200		{object}	dto.QuoteResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		422		{object}	utils.Response	"No matching price tier"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/billing/quote [post]
func (h *BillingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	scope, err := h.scopeOf(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req dto.QuoteRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	quote, err := h.pricingService.QuoteFor(r.Context(), scope.Type, req.Credits, req.Currency)
	if err != nil {
		switch {
		case errors.Is(err, pricingservice.ErrNoTier), errors.Is(err, pricingservice.ErrInvalidCredits):
			utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.QuoteResponseDTO{
		Credits:   quote.Credits,
		UnitPrice: quote.UnitPrice,
		Total:     quote.Total,
		Currency:  quote.Currency,
	})
}

// Checkout godoc
//
//	@Summary		Start a credit purchase
//	@Description	Create a pending order and a payment session with the chosen provider.
//	@Tags			Billing
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CheckoutRequestDTO	true	"Checkout request"
//	@Success		200		{object}	dto.CheckoutResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		422		{object}	utils.Response	"No matching price tier"
//	@Failure		502		{object}	utils.Response	"Payment provider error"
//	@Router			/api/user/billing/checkout [post]
func (h *BillingHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	var req dto.CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, session, err := h.orderService.Checkout(r.Context(), userID, t.ID, req.Credits, req.Currency, req.Provider, clientIP(r))
	if err != nil {
		switch {
		case errors.Is(err, pricingservice.ErrNoTier), errors.Is(err, pricingservice.ErrInvalidCredits),
			errors.Is(err, orderservice.ErrUnknownProvider):
			utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, payments.ErrProviderRejected):
			utils.RespondWithError(w, http.StatusBadGateway, "Payment provider error")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.CheckoutResponseDTO{
		OrderID:     order.ID.String(),
		Provider:    order.Provider,
		RedirectURL: session.RedirectURL,
	})
}

// GetOrders godoc
//
//	@Summary		List the caller's credit orders
//	@Tags			Billing
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.OrderDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/orders [get]
func (h *BillingHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	orders, err := h.orderService.ListByUser(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	response := make([]dto.OrderDTO, len(orders))
	for i, o := range orders {
		response[i] = orderDTO(o)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// PayTRCallback godoc
//
//	@Summary		PayTR payment notification
//	@Description	Form-encoded server-to-server callback. PayTR expects the literal body "OK" on success.
//	@Tags			Webhooks
//	@Accept			x-www-form-urlencoded
//	@Produce		plain
//	@Success		200	{string}	string	"OK"
//	@Failure		400	{object}	utils.Response	"Bad signature or unknown order"
//	@Router			/api/webhooks/paytr [post]
func (h *BillingHandler) PayTRCallback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form body")
		return
	}
	_, err := h.orderService.HandlePayTRCallback(r.Context(),
		r.FormValue("merchant_oid"),
		r.FormValue("status"),
		r.FormValue("total_amount"),
		r.FormValue("hash"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	// PayTR retries unless the body is exactly OK.
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// PaddleWebhook godoc
//
//	@Summary		Paddle billing webhook
//	@Tags			Webhooks
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	dto.WebhookAckDTO
//	@Failure		400	{object}	utils.Response	"Bad signature or malformed event"
//	@Router			/api/webhooks/paddle [post]
func (h *BillingHandler) PaddleWebhook(w http.ResponseWriter, r *http.Request) {
	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	noop, err := h.orderService.HandlePaddleWebhook(r.Context(), r.Header.Get("Paddle-Signature"), rawBody)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.WebhookAckDTO{Noop: noop})
}

func orderDTO(o domain.Order) dto.OrderDTO {
	return dto.OrderDTO{
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

func pagination(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
