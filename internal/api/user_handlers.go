package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olachris/backend/internal/auth"
	"github.com/olachris/backend/internal/httpx"
	"github.com/olachris/backend/internal/session"
	"github.com/olachris/backend/internal/store"
)

func (h *handlers) profile(w http.ResponseWriter, r *http.Request) {
	user, _ := session.UserFromContext(r.Context())
	httpx.JSON(w, http.StatusOK, user)
}

func (h *handlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := session.UserFromContext(r.Context())

	var params auth.UpdateProfileParams
	if err := httpx.DecodeJSON(r, &params); err != nil {
		httpx.Error(w, err)
		return
	}

	updated, err := h.auth.UpdateProfile(r.Context(), user.ID.Hex(), params)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, sessionResponse{
		Message: "Profile updated successfully.",
		User:    updated,
	})
}

func (h *handlers) deleteProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := session.UserFromContext(r.Context())

	if err := h.auth.DeleteAccount(r.Context(), user.ID.Hex()); err != nil {
		h.fail(w, r, err)
		return
	}

	h.cookies.Clear(w)
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Account deleted successfully."})
}

func (h *handlers) favorites(w http.ResponseWriter, r *http.Request) {
	user, _ := session.UserFromContext(r.Context())

	favorites := user.Favorites
	if favorites == nil {
		favorites = []string{}
	}
	httpx.JSON(w, http.StatusOK, struct {
		FavoriteIDs []string `json:"favoriteIds"`
	}{FavoriteIDs: favorites})
}

func (h *handlers) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	user, _ := session.UserFromContext(r.Context())
	productID := chi.URLParam(r, "productID")

	isFavorite, favorites, err := h.auth.ToggleFavorite(r.Context(), user.ID.Hex(), productID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, struct {
		IsFavorite         bool     `json:"isFavorite"`
		FavoriteProductIDs []string `json:"favoriteProductIds"`
	}{IsFavorite: isFavorite, FavoriteProductIDs: favorites})
}

// orders serves the storefront's order history. Order management lives in a
// separate system; until its API is consumed here, members see a simulated
// history derived from their account.
func (h *handlers) orders(w http.ResponseWriter, r *http.Request) {
	user, _ := session.UserFromContext(r.Context())
	httpx.JSON(w, http.StatusOK, sampleOrders(user))
}

type orderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type order struct {
	ID     string      `json:"id"`
	Date   string      `json:"date"`
	Status string      `json:"status"`
	Total  float64     `json:"total"`
	Items  []orderItem `json:"items"`
}

func sampleOrders(user *store.User) []order {
	suffix := user.ID.Hex()
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return []order{
		{
			ID:     "ORD-" + suffix + "-003",
			Date:   "2024-03-18",
			Status: "Delivered",
			Total:  42.70,
			Items: []orderItem{
				{Name: "Basmati Rice 5kg", Quantity: 1, Price: 18.50},
				{Name: "Palm Oil 1L", Quantity: 2, Price: 7.60},
				{Name: "Scotch Bonnet Peppers", Quantity: 3, Price: 3.00},
			},
		},
		{
			ID:     "ORD-" + suffix + "-002",
			Date:   "2024-02-02",
			Status: "Delivered",
			Total:  23.15,
			Items: []orderItem{
				{Name: "Plantain (bunch)", Quantity: 2, Price: 4.20},
				{Name: "Egusi Seeds 500g", Quantity: 1, Price: 9.75},
				{Name: "Dried Fish Pack", Quantity: 1, Price: 5.00},
			},
		},
		{
			ID:     "ORD-" + suffix + "-001",
			Date:   "2024-01-11",
			Status: "Cancelled",
			Total:  12.30,
			Items: []orderItem{
				{Name: "Garri 2kg", Quantity: 1, Price: 6.80},
				{Name: "Chin Chin 250g", Quantity: 1, Price: 5.50},
			},
		},
	}
}
