package httpapi

import (
	"fmt"
	"net/http"

	"myfood-be/internal/order"
	"myfood-be/internal/user"
	"myfood-be/internal/utils"

	"github.com/go-chi/chi"
)

func uintParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := utils.ToUint(raw)
	if err != nil || id == 0 {
		return 0, invalid(fmt.Errorf("invalid %s %q", name, raw))
	}
	return id, nil
}

func pageParams(r *http.Request) order.Page {
	q := r.URL.Query()
	return order.Page{
		Page: utils.ToIntDefault(q.Get("page"), 0),
		Size: utils.ToIntDefault(q.Get("size"), order.DefaultPageSize),
	}.Normalize()
}

// canActFor reports whether the caller may touch resources owned by ownerID.
// Staff may act for anyone.
func canActFor(r *http.Request, ownerID uint) bool {
	id, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return false
	}
	if user.Role(utils.GetUserRoleFromContext(r.Context())).IsStaff() {
		return true
	}
	return id == ownerID
}

// authorizeOrder loads the order and checks the caller owns it. It writes
// the response itself when the answer is no.
func (a *API) authorizeOrder(w http.ResponseWriter, r *http.Request, orderID uint) bool {
	o, err := a.orders.Get(r.Context(), orderID)
	if err != nil {
		a.errorResponse(w, r, err)
		return false
	}
	if !canActFor(r, o.UserID) {
		forbidden(w)
		return false
	}
	return true
}
