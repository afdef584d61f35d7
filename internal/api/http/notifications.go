package http

import (
	"encoding/json"
	"net/http"

	"github.com/ativbrasil/arsenal/internal/notify"
)

// GET /notifications?recipient=...
func ListNotificationsHandler(svc *notify.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.Inbox(r.Context(), r.URL.Query().Get("recipient"))
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(list)
	}
}

// POST /notifications/expire
func ExpireNotificationsHandler(svc *notify.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.Expire(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]int64{"expired": n})
	}
}
