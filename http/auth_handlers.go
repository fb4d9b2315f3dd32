package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"startupml/auth"
	"startupml/db"
)

// RegisterAuthHandlers registers the signup and login routes.
func RegisterAuthHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/signup", handleSignup)
	mux.HandleFunc("POST /api/auth/login", handleLogin)
}

func handleSignup(w http.ResponseWriter, r *http.Request) {
	if userStore == nil {
		respondError(w, http.StatusServiceUnavailable, "user store not initialized")
		return
	}

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	existing, err := userStore.FindUserByEmail(req.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to look up user")
		return
	}
	if existing != nil {
		respondError(w, http.StatusBadRequest, "Email already exists")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}
	if err := userStore.CreateUser(req.Name, req.Email, hash); err != nil {
		// A concurrent signup can slip past the existence check and land on
		// the UNIQUE constraint instead.
		if errors.Is(err, db.ErrDuplicateEmail) {
			respondError(w, http.StatusBadRequest, "Email already exists")
			return
		}
		zap.L().Error("failed to create user", zap.String("email", req.Email), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"message": "Signup successful!"})
}

func handleLogin(w http.ResponseWriter, r *http.Request) {
	if userStore == nil {
		respondError(w, http.StatusServiceUnavailable, "user store not initialized")
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := userStore.FindUserByEmail(req.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to look up user")
		return
	}
	// Unknown email and wrong password answer identically.
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := tokens.Issue(strconv.FormatInt(user.ID, 10))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	respondJSON(w, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"user": map[string]string{
			"name":  user.Name,
			"email": user.Email,
		},
	})
}
