// Package session holds per-login client state (current user, search filters and
// cart). Transitions go through Reduce; state is stored per session id and is
// removed on logout.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type User struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	Name string `json:"name,omitempty"`
}

type Filters struct {
	Query    string  `json:"query,omitempty"`
	Category string  `json:"category,omitempty"`
	County   string  `json:"county,omitempty"`
	MinPrice float64 `json:"min_price,omitempty"`
	MaxPrice float64 `json:"max_price,omitempty"`
}

type CartItem struct {
	ProductID  string  `json:"product_id"`
	ProviderID string  `json:"provider_id"`
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   int     `json:"quantity"`
}

type State struct {
	ID        string     `json:"id"`
	User      User       `json:"user"`
	Filters   Filters    `json:"filters"`
	Cart      []CartItem `json:"cart"`
	Version   int        `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type ActionType string

const (
	SetFilters     ActionType = "set_filters"
	ClearFilters   ActionType = "clear_filters"
	AddToCart      ActionType = "add_to_cart"
	RemoveFromCart ActionType = "remove_from_cart"
	SetQuantity    ActionType = "set_quantity"
	ClearCart      ActionType = "clear_cart"
)

// Action is one client-side state transition.
type Action struct {
	Type      ActionType `json:"type" binding:"required"`
	Filters   *Filters   `json:"filters,omitempty"`
	ProductID string     `json:"product_id,omitempty"`
	Quantity  int        `json:"quantity,omitempty"`

	// Item is resolved from the catalogue for AddToCart; clients do not set prices.
	Item *CartItem `json:"-"`
}

var ErrInvalidAction = errors.New("invalid session action")

// Validate checks the action's shape before any lookup.
func (a Action) Validate() error {
	switch a.Type {
	case SetFilters:
		if a.Filters == nil {
			return fmt.Errorf("%w: filters required", ErrInvalidAction)
		}
		if a.Filters.MaxPrice > 0 && a.Filters.MinPrice > a.Filters.MaxPrice {
			return fmt.Errorf("%w: min_price above max_price", ErrInvalidAction)
		}
	case AddToCart, SetQuantity:
		if strings.TrimSpace(a.ProductID) == "" {
			return fmt.Errorf("%w: product_id required", ErrInvalidAction)
		}
		if a.Quantity < 0 || (a.Type == AddToCart && a.Quantity == 0) {
			return fmt.Errorf("%w: quantity must be positive", ErrInvalidAction)
		}
	case RemoveFromCart:
		if strings.TrimSpace(a.ProductID) == "" {
			return fmt.Errorf("%w: product_id required", ErrInvalidAction)
		}
	case ClearFilters, ClearCart:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidAction, a.Type)
	}
	return nil
}

// Reduce returns the state after applying a. It never mutates s.
func Reduce(s State, a Action) State {
	next := s
	next.Cart = append([]CartItem(nil), s.Cart...)

	switch a.Type {
	case SetFilters:
		if a.Filters != nil {
			next.Filters = *a.Filters
		}
	case ClearFilters:
		next.Filters = Filters{}
	case AddToCart:
		if a.Item == nil {
			return s
		}
		if i := indexOf(next.Cart, a.Item.ProductID); i >= 0 {
			next.Cart[i].Quantity += a.Quantity
			next.Cart[i].UnitPrice = a.Item.UnitPrice
		} else {
			item := *a.Item
			item.Quantity = a.Quantity
			next.Cart = append(next.Cart, item)
		}
	case SetQuantity:
		i := indexOf(next.Cart, a.ProductID)
		if i < 0 {
			return s
		}
		if a.Quantity == 0 {
			next.Cart = append(next.Cart[:i], next.Cart[i+1:]...)
		} else {
			next.Cart[i].Quantity = a.Quantity
		}
	case RemoveFromCart:
		i := indexOf(next.Cart, a.ProductID)
		if i < 0 {
			return s
		}
		next.Cart = append(next.Cart[:i], next.Cart[i+1:]...)
	case ClearCart:
		next.Cart = nil
	default:
		return s
	}
	next.Version++
	return next
}

func indexOf(cart []CartItem, productID string) int {
	for i, it := range cart {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// CartTotal is the sum of unit price times quantity over the cart.
func CartTotal(s State) float64 {
	var total float64
	for _, it := range s.Cart {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total
}

// CartQuantity returns the quantity of productID in the cart.
func CartQuantity(s State, productID string) int {
	if i := indexOf(s.Cart, productID); i >= 0 {
		return s.Cart[i].Quantity
	}
	return 0
}
