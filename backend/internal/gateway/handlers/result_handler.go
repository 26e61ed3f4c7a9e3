package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"schoolhub/backend/internal/gateway/util"
	"schoolhub/backend/internal/result"
)

// ResultHandler serves the result ledger endpoints.
type ResultHandler struct {
	Results *result.Service
}

// Create handles POST /results (admin only, gated by the router).
func (h *ResultHandler) Create(w http.ResponseWriter, r *http.Request) {
	var reqBody result.CreateRequest
	if err := decodeBody(w, r, &reqBody); err != nil {
		return
	}

	res, err := h.Results.Create(r.Context(), &reqBody)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"result":  res,
	})
}

// ListAll handles GET /results (admin only).
func (h *ResultHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	results, err := h.Results.ListAll(r.Context())
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"results": results,
	})
}

// ListMine handles GET /results/my-results.
func (h *ResultHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	results, err := h.Results.ListByStudent(r.Context(), principal.ID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"results": results,
	})
}

// GetByID handles GET /results/{id}. Students may only read their own
// record; the ownership check happens in the service.
func (h *ResultHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	resultID := chi.URLParam(r, "id")

	res, err := h.Results.GetByID(r.Context(), resultID, principal.ID, principal.Role)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  res,
	})
}

// Update handles PUT /results/{id} (admin only).
func (h *ResultHandler) Update(w http.ResponseWriter, r *http.Request) {
	resultID := chi.URLParam(r, "id")

	var reqBody result.UpdateRequest
	if err := decodeBody(w, r, &reqBody); err != nil {
		return
	}

	res, err := h.Results.Update(r.Context(), resultID, &reqBody)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  res,
	})
}

// Delete handles DELETE /results/{id} (admin only). Hard delete.
func (h *ResultHandler) Delete(w http.ResponseWriter, r *http.Request) {
	resultID := chi.URLParam(r, "id")

	if err := h.Results.Delete(r.Context(), resultID); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Result deleted successfully",
	})
}
