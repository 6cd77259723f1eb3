package httpapi

import (
	"net/http"

	"myfood-be/internal/catalog"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

type CreateDishRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
	Image       string `json:"image" validate:"omitempty,url"`
	Price       string `json:"price" validate:"required,numeric"`
	Category    string `json:"category" validate:"required,oneof=APPETIZER FIRST SECOND DESSERT"`
	Visible     bool   `json:"visible"`
}

type CreateMenuRequest struct {
	AppetizerID uint `json:"appetizerId" validate:"required"`
	FirstID     uint `json:"firstId" validate:"required"`
	SecondID    uint `json:"secondId" validate:"required"`
	DessertID   uint `json:"dessertId" validate:"required"`
	Visible     bool `json:"visible"`
}

type VisibilityRequest struct {
	Visible *bool `json:"visible" validate:"required"`
}

func (a *API) visibleDishesHandler(w http.ResponseWriter, r *http.Request) {
	dishes, err := a.catalog.VisibleDishes(r.Context())
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, dishes)
}

func (a *API) visibleDishesByCategoryHandler(w http.ResponseWriter, r *http.Request) {
	category, err := catalog.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}

	dishes, err := a.catalog.VisibleDishesByCategory(r.Context(), category)
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, dishes)
}

func (a *API) visibleDishesByAttributeHandler(w http.ResponseWriter, r *http.Request) {
	attr, err := catalog.ParseAttribute(chi.URLParam(r, "attribute"))
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}

	dishes, err := a.catalog.DishesWithAttribute(r.Context(), attr, true)
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, dishes)
}

func (a *API) visibleMenusHandler(w http.ResponseWriter, r *http.Request) {
	menus, err := a.catalog.VisibleMenus(r.Context())
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, menus)
}

func (a *API) getDishHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}

	dish, err := a.catalog.GetDish(r.Context(), id)
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, dish)
}

func (a *API) getMenuHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}

	menu, err := a.catalog.GetMenu(r.Context(), id)
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, menu)
}

func (a *API) listDishesHandler(w http.ResponseWriter, r *http.Request) {
	dishes, err := a.catalog.ListDishes(r.Context())
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, dishes)
}

func (a *API) findDishByNameHandler(w http.ResponseWriter, r *http.Request) {
	dish, err := a.catalog.FindDishByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, dish)
}

func (a *API) createDishHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateDishRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		a.errorResponse(w, r, err)
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		a.errorResponse(w, r, invalid(err))
		return
	}

	dish, err := a.catalog.CreateDish(r.Context(), catalog.NewDishInput{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Price:       price,
		Category:    catalog.Category(req.Category),
		Visible:     req.Visible,
	})
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, dish)
}

func (a *API) setDishVisibilityHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	var req VisibilityRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		a.errorResponse(w, r, err)
		return
	}

	if err := a.catalog.SetDishVisibility(r.Context(), id, *req.Visible); err != nil {
		a.errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) tagDishHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	attr, err := catalog.ParseAttribute(chi.URLParam(r, "attribute"))
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}

	if err := a.catalog.TagDish(r.Context(), id, attr); err != nil {
		a.errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) listMenusHandler(w http.ResponseWriter, r *http.Request) {
	menus, err := a.catalog.ListMenus(r.Context())
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, menus)
}

func (a *API) createMenuHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateMenuRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		a.errorResponse(w, r, err)
		return
	}

	menu, err := a.catalog.CreateMenu(r.Context(), catalog.NewMenuInput{
		AppetizerID: req.AppetizerID,
		FirstID:     req.FirstID,
		SecondID:    req.SecondID,
		DessertID:   req.DessertID,
		Visible:     req.Visible,
	})
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, menu)
}

func (a *API) setMenuVisibilityHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	var req VisibilityRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		a.errorResponse(w, r, err)
		return
	}

	if err := a.catalog.SetMenuVisibility(r.Context(), id, *req.Visible); err != nil {
		a.errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
