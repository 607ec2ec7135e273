package storage

import (
	"errors"
	"net/http"
	"path"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves private objects behind the signed URLs Signer issues. The
// object key is the wildcard route segment; a request only reaches the disk
// after the exp/sig pair survives verification.
type Handler struct {
	signer *Signer
	root   string
}

func NewHandler(signer *Signer, root string) *Handler {
	return &Handler{signer: signer, root: root}
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		http.NotFound(w, r)
		return
	}

	exp, err := strconv.ParseInt(r.URL.Query().Get("exp"), 10, 64)
	if err != nil {
		http.Error(w, "malformed expiry", http.StatusBadRequest)
		return
	}
	if err := h.signer.Verify(key, exp, r.URL.Query().Get("sig")); err != nil {
		if !errors.Is(err, ErrExpiredURL) && !errors.Is(err, ErrBadURLSig) {
			zap.L().Error("failed to verify signed url", zap.Error(err))
		}
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	// Re-rooting the cleaned key keeps traversal sequences inside the
	// storage root.
	clean := path.Clean("/" + key)
	http.ServeFile(w, r, filepath.Join(h.root, filepath.FromSlash(clean)))
}
