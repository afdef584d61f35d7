package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ativbrasil/arsenal/internal/verify"
)

// GET /validar?code=ATIV-XXXXXXXX
//
// Public endpoint behind the QR on every certificate. Unknown codes are a
// 200 with status "invalid": a negative verdict, not an error.
func ValidateHandler(svc *verify.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimSpace(r.URL.Query().Get("code"))
		res, err := svc.Validate(r.Context(), code)
		if errors.Is(err, verify.ErrCodeMissing) {
			http.Error(w, "code missing", http.StatusBadRequest)
			return
		}
		if err != nil {
			http.Error(w, "falha de comunicação", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(res)
	}
}
