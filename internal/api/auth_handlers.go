package api

import (
	"errors"
	"net/http"

	"github.com/olachris/backend/internal/auth"
	"github.com/olachris/backend/internal/httpx"
	"github.com/olachris/backend/internal/logger"
	"github.com/olachris/backend/internal/session"
	"github.com/olachris/backend/internal/store"
)

type sessionResponse struct {
	Message string      `json:"message"`
	User    *store.User `json:"user"`
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	var params auth.RegisterParams
	if err := httpx.DecodeJSON(r, &params); err != nil {
		httpx.Error(w, err)
		return
	}

	sess, err := h.auth.Register(r.Context(), params)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.cookies.Set(w, sess.Token)
	httpx.JSON(w, http.StatusCreated, sessionResponse{
		Message: "Account created successfully.",
		User:    sess.User,
	})
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var params auth.LoginParams
	if err := httpx.DecodeJSON(r, &params); err != nil {
		httpx.Error(w, err)
		return
	}

	sess, err := h.auth.Login(r.Context(), params)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.cookies.Set(w, sess.Token)
	httpx.JSON(w, http.StatusOK, sessionResponse{
		Message: "Logged in successfully.",
		User:    sess.User,
	})
}

func (h *handlers) googleAuth(w http.ResponseWriter, r *http.Request) {
	// Older storefront builds post the assertion as id_token; both keys are
	// accepted.
	var params struct {
		Credential string `json:"credential"`
		IDToken    string `json:"id_token"`
	}
	if err := httpx.DecodeJSON(r, &params); err != nil {
		httpx.Error(w, err)
		return
	}
	assertion := params.Credential
	if assertion == "" {
		assertion = params.IDToken
	}
	if assertion == "" {
		httpx.Error(w, httpx.NewHTTPError(http.StatusBadRequest, "Missing Google credential."))
		return
	}

	sess, err := h.auth.GoogleAuth(r.Context(), assertion)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.cookies.Set(w, sess.Token)
	httpx.JSON(w, http.StatusOK, sessionResponse{
		Message: "Logged in with Google.",
		User:    sess.User,
	})
}

// status reports the authenticated user behind the session middleware; an
// unauthenticated request never reaches it.
func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	user, _ := session.UserFromContext(r.Context())
	httpx.JSON(w, http.StatusOK, struct {
		IsAuthenticated bool        `json:"isAuthenticated"`
		User            *store.User `json:"user"`
	}{IsAuthenticated: true, User: user})
}

// logout clears the session cookie. Sessions are stateless, so an already
// issued token stays valid until its expiry.
func (h *handlers) logout(w http.ResponseWriter, _ *http.Request) {
	h.cookies.Clear(w)
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully."})
}

// fail logs server-side failures and writes the mapped client error.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	mapped := mapError(err)

	var httpErr httpx.HTTPError
	if !errors.As(mapped, &httpErr) || httpErr.Code >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			logger.Error(err),
			logger.Component("api"),
			logger.Event(r.Method+" "+r.URL.Path),
		)
	}
	httpx.Error(w, mapped)
}
