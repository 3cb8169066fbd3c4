package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olachris/backend/internal/auth"
	"github.com/olachris/backend/internal/httpx"
	"github.com/olachris/backend/internal/session"
)

func (h *handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, users)
}

func (h *handlers) createUser(w http.ResponseWriter, r *http.Request) {
	var params auth.CreateUserParams
	if err := httpx.DecodeJSON(r, &params); err != nil {
		httpx.Error(w, err)
		return
	}

	user, err := h.auth.CreateUser(r.Context(), params)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, sessionResponse{
		Message: "User created successfully.",
		User:    user,
	})
}

// deleteUser removes an account by id. Administrators cannot delete
// themselves through this route; demotion or self-deletion would otherwise
// silently lock the last admin out.
func (h *handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.UserFromContext(r.Context())
	targetID := chi.URLParam(r, "id")

	if actor.ID.Hex() == targetID {
		httpx.Error(w, httpx.NewHTTPError(http.StatusForbidden,
			"You cannot delete your own account from the admin panel."))
		return
	}

	if err := h.users.Delete(r.Context(), targetID); err != nil {
		h.fail(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully."})
}
