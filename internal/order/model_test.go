package order

import (
	"encoding/json"
	"testing"
	"time"

	"myfood-be/internal/catalog"
	"myfood-be/internal/slot"
	"myfood-be/internal/user"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRef_Validate(t *testing.T) {
	assert.NoError(t, DishRef(1).Validate())
	assert.NoError(t, MenuRef(1).Validate())
	assert.ErrorIs(t, Ref{}.Validate(), ErrInvalidLineItem)
	assert.ErrorIs(t, Ref{DishID: 1, MenuID: 2}.Validate(), ErrInvalidLineItem)
}

func TestUnit_Dishes(t *testing.T) {
	a := &catalog.Dish{ID: 1}
	d := &catalog.Dish{ID: 4}

	assert.Len(t, DishUnit{Dish: a}.Dishes(), 1)
	assert.Empty(t, DishUnit{}.Dishes())
	assert.Equal(t, []*catalog.Dish{a, d}, MenuUnit{Menu: &catalog.Menu{Appetizer: a, Dessert: d}}.Dishes())
	assert.Empty(t, MenuUnit{}.Dishes())
}

func TestOrder_View(t *testing.T) {
	t.Run("draft has no confirmation fields", func(t *testing.T) {
		o := &Order{ID: 1, UserID: 2}
		v := o.View()
		assert.False(t, o.IsConfirmed())
		assert.Nil(t, v.Slot)
		assert.Nil(t, v.TotalPrice)
		assert.Nil(t, v.ActualDate)
	})

	t.Run("confirmed order without credentials", func(t *testing.T) {
		at := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
		o := &Order{
			ID:    1,
			Maked: true,
			User:  &user.User{ID: 2, Email: "ana@example.com", PasswordHash: "s3cr3t-hash"},
			Confirmation: &Confirmation{
				Slot:        &slot.Slot{ID: 1, Time: "13:00", LimitSlot: 2, Actual: 2},
				TotalPrice:  decimal.RequireFromString("8.50"),
				ConfirmedAt: at,
			},
		}

		v := o.View()
		require.NotNil(t, v.TotalPrice)
		assert.True(t, decimal.RequireFromString("8.5").Equal(*v.TotalPrice))
		assert.Equal(t, at, *v.ActualDate)

		raw, err := json.Marshal(Views([]*Order{o}))
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "s3cr3t-hash")
		assert.Contains(t, string(raw), `"maked":true`)
		assert.Contains(t, string(raw), `"totalPrice":"8.5"`)
	})
}

func TestPage_Normalize(t *testing.T) {
	assert.Equal(t, Page{Page: 0, Size: DefaultPageSize}, Page{Page: -1}.Normalize())
	assert.Equal(t, MaxPageSize, Page{Size: 1000}.Normalize().Size)
	assert.Equal(t, 20, Page{Page: 2, Size: 10}.Offset())
}
