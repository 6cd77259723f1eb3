package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"myfood-be/internal/catalog"
	"myfood-be/internal/order"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

type LineItemResponse struct {
	ID      uint          `json:"id"`
	OrderID uint          `json:"orderId"`
	Dish    *catalog.Dish `json:"dish,omitempty"`
	Menu    *catalog.Menu `json:"menu,omitempty"`
}

func lineItemResponse(it *order.LineItem) LineItemResponse {
	resp := LineItemResponse{ID: it.ID, OrderID: it.OrderID}
	switch u := it.Unit.(type) {
	case order.DishUnit:
		resp.Dish = u.Dish
	case order.MenuUnit:
		resp.Menu = u.Menu
	}
	return resp
}

func (a *API) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := uintParam(r, "userId")
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	if !canActFor(r, userID) {
		forbidden(w)
		return
	}

	o, err := a.orders.CreateDraft(r.Context(), userID)
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, o.View())
}

func (a *API) userOrdersHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := uintParam(r, "userId")
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	if !canActFor(r, userID) {
		forbidden(w)
		return
	}

	orders, err := a.orders.ListForUser(r.Context(), userID, pageParams(r))
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, order.Views(orders))
}

// itemParams reads the order id and the dish or menu id from the path and
// checks the caller owns the order.
func (a *API) itemParams(w http.ResponseWriter, r *http.Request, target string) (orderID, targetID uint, ok bool) {
	orderID, err := uintParam(r, "orderId")
	if err != nil {
		a.errorResponse(w, r, err)
		return 0, 0, false
	}
	targetID, err = uintParam(r, target)
	if err != nil {
		a.errorResponse(w, r, err)
		return 0, 0, false
	}
	if !a.authorizeOrder(w, r, orderID) {
		return 0, 0, false
	}
	return orderID, targetID, true
}

func (a *API) addDishHandler(w http.ResponseWriter, r *http.Request) {
	orderID, dishID, ok := a.itemParams(w, r, "dishId")
	if !ok {
		return
	}

	item, err := a.orders.AddDish(r.Context(), orderID, dishID)
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, lineItemResponse(item))
}

func (a *API) removeDishHandler(w http.ResponseWriter, r *http.Request) {
	orderID, dishID, ok := a.itemParams(w, r, "dishId")
	if !ok {
		return
	}

	if err := a.orders.RemoveDish(r.Context(), orderID, dishID); err != nil {
		a.errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) addMenuHandler(w http.ResponseWriter, r *http.Request) {
	orderID, menuID, ok := a.itemParams(w, r, "menuId")
	if !ok {
		return
	}

	item, err := a.orders.AddMenu(r.Context(), orderID, menuID)
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, lineItemResponse(item))
}

func (a *API) removeMenuHandler(w http.ResponseWriter, r *http.Request) {
	orderID, menuID, ok := a.itemParams(w, r, "menuId")
	if !ok {
		return
	}

	if err := a.orders.RemoveMenu(r.Context(), orderID, menuID); err != nil {
		a.errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) finalizeHandler(w http.ResponseWriter, r *http.Request) {
	orderID, slotID, ok := a.itemParams(w, r, "slotId")
	if !ok {
		return
	}

	view, err := a.checkout.Finalize(r.Context(), orderID, slotID)
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusAccepted, view)
}

func (a *API) finalizeWithPriceHandler(w http.ResponseWriter, r *http.Request) {
	orderID, err := uintParam(r, "orderId")
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	slotID, err := uintParam(r, "slotId")
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	price, err := decimal.NewFromString(chi.URLParam(r, "price"))
	if err != nil {
		a.errorResponse(w, r, invalid(err))
		return
	}

	view, err := a.checkout.FinalizeWithPrice(r.Context(), orderID, slotID, price)
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusAccepted, view)
}

func (a *API) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}

	o, err := a.orders.Get(r.Context(), id)
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, o.View())
}

func (a *API) pendingOrdersHandler(w http.ResponseWriter, r *http.Request) {
	orders, err := a.orders.ListPending(r.Context(), pageParams(r))
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, order.Views(orders))
}

func (a *API) kitchenQueueHandler(w http.ResponseWriter, r *http.Request) {
	tickets, err := a.orders.KitchenQueue(r.Context())
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, tickets)
}

func (a *API) markFulfilledHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}

	if err := a.orders.MarkFulfilled(r.Context(), id); err != nil {
		a.errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

var errDateParams = errors.New("year, month and day query parameters are required")

func (a *API) ordersByDateHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, errY := strconv.Atoi(q.Get("year"))
	month, errM := strconv.Atoi(q.Get("month"))
	day, errD := strconv.Atoi(q.Get("day"))
	if errY != nil || errM != nil || errD != nil {
		a.errorResponse(w, r, invalid(errDateParams))
		return
	}

	orders, err := a.orders.ListByDate(r.Context(), year, time.Month(month), day)
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, order.Views(orders))
}
