package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ativbrasil/arsenal/internal/cert"
	"github.com/ativbrasil/arsenal/internal/store"
)

// GET /certificates/{code}/pdf
//
// Render-only: regenerates the document from stored data, never mints a new
// code. Safe to call any number of times.
func RenderCertificateHandler(issuer *cert.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimSpace(chi.URLParam(r, "code"))
		if code == "" {
			http.Error(w, "code required", http.StatusBadRequest)
			return
		}
		pdf, filename, err := issuer.Render(r.Context(), code)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "certificate not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "certificate generation failed", 500)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		_, _ = w.Write(pdf)
	}
}
