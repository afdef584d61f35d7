package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ativbrasil/arsenal/internal/cohort"
	"github.com/ativbrasil/arsenal/internal/rbac"
	"github.com/ativbrasil/arsenal/internal/store"
)

// Accounts is the store slice login and activation need.
type Accounts interface {
	LearnerCredentials(ctx context.Context, email string) (store.Learner, string, error)
	LearnerByEmail(ctx context.Context, email string) (store.Learner, error)
	CreateLearner(ctx context.Context, l store.Learner, passwordHash string) error
	ConsumeAllowEntry(ctx context.Context, code string) (store.AllowEntry, error)
	Cohort(ctx context.Context, id string) (store.Cohort, error)
}

// POST /auth/login  { "email": "...", "password": "..." }
func LoginHandler(a *AuthService, accounts Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Email == "" || req.Password == "" {
			http.Error(w, "email and password required", http.StatusBadRequest)
			return
		}
		l, hash, err := accounts.LearnerCredentials(r.Context(), req.Email)
		if err != nil || bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		if l.ExpiresAt != 0 && l.ExpiresAt < time.Now().Unix() {
			http.Error(w, "access expired", http.StatusForbidden)
			return
		}
		role := rbac.Role(l.Role)
		if !role.Valid() {
			role = rbac.RoleLearner
		}
		tok, err := a.IssueJWT(l.ID, role)
		if err != nil {
			http.Error(w, "issue token", 500)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": tok})
	}
}

// POST /auth/activate  { "invite": "...", "name": "...", "email": "...", "password": "..." }
//
// Consumes one allow-list code. The used_at guard in the store makes the code
// single-shot: a second activation with the same code gets 404.
func ActivateHandler(a *AuthService, accounts Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Invite   string `json:"invite"`
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		req.Invite = strings.ToUpper(strings.TrimSpace(req.Invite))
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		req.Name = strings.TrimSpace(req.Name)
		if req.Invite == "" || req.Name == "" || req.Email == "" || req.Password == "" {
			http.Error(w, "invite, name, email and password required", http.StatusBadRequest)
			return
		}

		// Reject a taken email before touching the invite: the code is
		// single-use and must survive input mistakes.
		if _, err := accounts.LearnerByEmail(r.Context(), req.Email); err == nil {
			http.Error(w, "email already registered", http.StatusConflict)
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			http.Error(w, "activation failed", 500)
			return
		}

		entry, err := accounts.ConsumeAllowEntry(r.Context(), req.Invite)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "invalid or already used code", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "activation failed", 500)
			return
		}
		c, err := accounts.Cohort(r.Context(), entry.CohortID)
		if err != nil {
			http.Error(w, "activation failed", 500)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
		if err != nil {
			http.Error(w, "activation failed", 500)
			return
		}
		now := time.Now()
		l := store.Learner{
			ID:          uuid.NewString(),
			DisplayName: req.Name,
			Email:       req.Email,
			Role:        string(rbac.RoleLearner),
			CohortID:    c.ID,
			CreatedAt:   now.Unix(),
		}
		if c.ValidityDays <= cohort.LifetimeSentinel {
			l.ExpiresAt = now.AddDate(0, 0, c.ValidityDays).Unix()
		}
		if err := accounts.CreateLearner(r.Context(), l, string(hash)); err != nil {
			http.Error(w, "activation failed: "+err.Error(), 500)
			return
		}
		tok, err := a.IssueJWT(l.ID, rbac.RoleLearner)
		if err != nil {
			http.Error(w, "issue token", 500)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"learner_id": l.ID, "access_token": tok})
	}
}
