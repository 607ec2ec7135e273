package admin

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/easycustoms360/backend/internal/domain"
	"github.com/easycustoms360/backend/internal/dto"
	"github.com/easycustoms360/backend/internal/service/ledgerservice"
	"github.com/easycustoms360/backend/pkg/utils"
)

// ListLedger godoc
//
//	@Summary	List ledger entries across all scopes
//	@Tags		Admin
//	@Security	AdminSecret
//	@Produce	json
//	@Success	200	{array}		dto.LedgerEntryDTO
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/ledger [get]
func (h *AdminHandler) ListLedger(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	entries, err := h.ledgerService.ListAllEntries(r.Context(), limit, offset)
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

// AdjustLedger godoc
//
//	@Summary	Apply a manual ledger correction
//	@Tags		Admin
//	@Security	AdminSecret
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dto.LedgerAdjustRequestDTO	true	"Adjustment"
//	@Success	200		{object}	dto.LedgerEntryDTO
//	@Failure	400		{object}	utils.Response	"Invalid request body"
//	@Failure	500		{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/ledger/adjust [post]
func (h *AdminHandler) AdjustLedger(w http.ResponseWriter, r *http.Request) {
	var req dto.LedgerAdjustRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	scopeID, err := uuid.Parse(req.ScopeID)
	if err != nil || (req.ScopeType != domain.ScopeUser && req.ScopeType != domain.ScopeOrg) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid scope")
		return
	}
	entry, err := h.ledgerService.Adjust(r.Context(), domain.Scope{Type: req.ScopeType, ID: scopeID}, req.Change, req.Note)
	if err != nil {
		if errors.Is(err, ledgerservice.ErrNonPositiveAmount) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.auditService.Record(r.Context(), actor(r), "ledger.adjust", "ledger_entry", entry.ID.String(), req)
	utils.RespondWithJSON(w, http.StatusOK, dto.LedgerEntryDTO{
		ID:        entry.ID.String(),
		Change:    entry.Change,
		Reason:    entry.Reason,
		CreatedAt: entry.CreatedAt,
	})
}

// DeleteLedgerEntry godoc
//
//	@Summary	Delete a ledger entry
//	@Description	Correction tooling for operator mistakes; normal flows never delete.
//	@Tags		Admin
//	@Security	AdminSecret
//	@Produce	json
//	@Param		id	path		string	true	"Entry id"
//	@Success	200	{object}	utils.Response
//	@Failure	404	{object}	utils.Response	"Entry not found"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/ledger/{id} [delete]
func (h *AdminHandler) DeleteLedgerEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Entry not found")
		return
	}
	if err := h.ledgerService.DeleteEntry(r.Context(), id); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.auditService.Record(r.Context(), actor(r), "ledger.delete", "ledger_entry", id.String(), nil)
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Entry deleted"})
}

// ExportLedger godoc
//
//	@Summary	Export the ledger as CSV
//	@Tags		Admin
//	@Security	AdminSecret
//	@Produce	text/csv
//	@Success	200	{string}	string	"CSV document"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/ledger/export [get]
func (h *AdminHandler) ExportLedger(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledgerService.ListAllEntries(r.Context(), 100000, 0)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="ledger.csv"`)
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "scope_type", "scope_id", "change", "reason", "created_at"})
	for _, e := range entries {
		_ = cw.Write([]string{
			e.ID.String(),
			e.ScopeType,
			e.ScopeID.String(),
			e.Change.String(),
			e.Reason,
			e.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}
	cw.Flush()
}
