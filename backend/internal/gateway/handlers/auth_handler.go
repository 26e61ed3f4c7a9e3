package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"schoolhub/backend/internal/auth"
	"schoolhub/backend/internal/gateway/util"
)

// AuthHandler serves the public authentication endpoints.
type AuthHandler struct {
	Auth *auth.Service
}

// RESTSigninRequest mirrors the expected JSON input for /auth/signin.
type RESTSigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RESTForgotPasswordRequest mirrors the input for /auth/forgot-password.
type RESTForgotPasswordRequest struct {
	Email string `json:"email"`
}

// Test handles GET /auth/test. Lightweight liveness probe for the API.
func (h *AuthHandler) Test(w http.ResponseWriter, r *http.Request) {
	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Auth API is running",
	})
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var reqBody auth.SignupRequest
	if err := decodeBody(w, r, &reqBody); err != nil {
		return
	}

	user, token, err := h.Auth.Signup(r.Context(), &reqBody)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Account created successfully",
		"user":    user,
		"token":   token,
	})
}

// Signin handles POST /auth/signin.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var reqBody RESTSigninRequest
	if err := decodeBody(w, r, &reqBody); err != nil {
		return
	}

	if reqBody.Email == "" || reqBody.Password == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, token, err := h.Auth.Signin(r.Context(), reqBody.Email, reqBody.Password)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// ForgotPassword handles POST /auth/forgot-password.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var reqBody RESTForgotPasswordRequest
	if err := decodeBody(w, r, &reqBody); err != nil {
		return
	}

	if err := h.Auth.ForgotPassword(r.Context(), reqBody.Email); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password reset instructions sent",
	})
}

// decodeBody decodes a JSON request body, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			util.WriteJSONError(w, http.StatusBadRequest, "Request body is empty")
			return err
		}
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return err
	}
	return nil
}
