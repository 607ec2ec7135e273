package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/easycustoms360/backend/internal/dto"
	"github.com/easycustoms360/backend/internal/service/ragservice"
	"github.com/easycustoms360/backend/internal/tenant"
	"github.com/easycustoms360/backend/pkg/utils"
)

// IngestDocument godoc
//
//	@Summary	Ingest a knowledge-base document
//	@Description	Stores the document and its chunks; embeddings are computed asynchronously.
//	@Tags		Admin
//	@Security	AdminSecret
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dto.RagIngestRequestDTO	true	"Document payload"
//	@Success	200		{object}	dto.RagDocumentResponseDTO
//	@Failure	400		{object}	utils.Response	"Invalid request body"
//	@Failure	500		{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/rag/documents [post]
func (h *AdminHandler) IngestDocument(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	var req dto.RagIngestRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	doc, err := h.ragService.Ingest(r.Context(), t.ID, req.Title, req.Source, req.Text)
	if err != nil {
		if errors.Is(err, ragservice.ErrEmptyDocument) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.auditService.Record(r.Context(), actor(r), "rag.ingest", "rag_document", doc.ID.String(), nil)
	utils.RespondWithJSON(w, http.StatusOK, dto.RagDocumentResponseDTO{
		ID:         doc.ID.String(),
		Title:      doc.Title,
		Source:     doc.Source,
		Status:     doc.Status,
		ChunkCount: doc.ChunkCount,
		CreatedAt:  doc.CreatedAt,
	})
}

// ListDocuments godoc
//
//	@Summary	List knowledge-base documents
//	@Tags		Admin
//	@Security	AdminSecret
//	@Produce	json
//	@Success	200	{array}		dto.RagDocumentResponseDTO
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/rag/documents [get]
func (h *AdminHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	limit, offset := pagination(r)
	docs, err := h.ragService.ListDocuments(r.Context(), t.ID, limit, offset)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	response := make([]dto.RagDocumentResponseDTO, len(docs))
	for i, d := range docs {
		response[i] = dto.RagDocumentResponseDTO{
			ID:         d.ID.String(),
			Title:      d.Title,
			Source:     d.Source,
			Status:     d.Status,
			ChunkCount: d.ChunkCount,
			CreatedAt:  d.CreatedAt,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// BulkDeleteDocuments godoc
//
//	@Summary	Delete knowledge-base documents in bulk
//	@Tags		Admin
//	@Security	AdminSecret
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dto.RagBulkDeleteRequestDTO	true	"Document ids"
//	@Success	200		{object}	dto.RagBulkDeleteResponseDTO
//	@Failure	400		{object}	utils.Response	"Invalid request body"
//	@Failure	500		{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/rag/documents/bulk-delete [post]
func (h *AdminHandler) BulkDeleteDocuments(w http.ResponseWriter, r *http.Request) {
	var req dto.RagBulkDeleteRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid document id: "+raw)
			return
		}
		ids = append(ids, id)
	}
	deleted, err := h.ragService.DeleteDocuments(r.Context(), ids)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.auditService.Record(r.Context(), actor(r), "rag.bulk_delete", "rag_document", "", req)
	utils.RespondWithJSON(w, http.StatusOK, dto.RagBulkDeleteResponseDTO{Deleted: deleted})
}
