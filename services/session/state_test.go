package session

import (
	"errors"
	"testing"
)

func TestReduceCart(t *testing.T) {
	s := State{ID: "s1", User: User{ID: "u1"}}
	basket := &CartItem{ProductID: "p1", Name: "Kiondo basket", UnitPrice: 1200}
	beads := &CartItem{ProductID: "p2", Name: "Maasai beads", UnitPrice: 350}

	s1 := Reduce(s, Action{Type: AddToCart, ProductID: "p1", Quantity: 1, Item: basket})
	s2 := Reduce(s1, Action{Type: AddToCart, ProductID: "p1", Quantity: 2, Item: basket})
	s3 := Reduce(s2, Action{Type: AddToCart, ProductID: "p2", Quantity: 4, Item: beads})

	if len(s.Cart) != 0 || len(s1.Cart) != 1 || s1.Cart[0].Quantity != 1 {
		t.Fatalf("reduce must not mutate earlier states: %+v / %+v", s, s1)
	}
	if got := CartQuantity(s3, "p1"); got != 3 {
		t.Fatalf("expected 3 baskets, got %d", got)
	}
	if got := CartTotal(s3); got != 3*1200+4*350 {
		t.Fatalf("unexpected total %v", got)
	}
	if s3.Version != 3 {
		t.Fatalf("expected version 3, got %d", s3.Version)
	}

	s4 := Reduce(s3, Action{Type: SetQuantity, ProductID: "p2", Quantity: 0})
	if CartQuantity(s4, "p2") != 0 || len(s4.Cart) != 1 {
		t.Fatalf("zero quantity should remove the line, got %+v", s4.Cart)
	}
	if CartQuantity(s3, "p2") != 4 {
		t.Fatal("earlier state changed")
	}
	s5 := Reduce(s4, Action{Type: RemoveFromCart, ProductID: "p1"})
	if len(s5.Cart) != 0 || CartTotal(s5) != 0 {
		t.Fatalf("expected empty cart, got %+v", s5.Cart)
	}
	if same := Reduce(s5, Action{Type: RemoveFromCart, ProductID: "missing"}); same.Version != s5.Version {
		t.Fatal("no-op removal should not bump the version")
	}
}

func TestReduceFilters(t *testing.T) {
	s := Reduce(State{}, Action{Type: SetFilters, Filters: &Filters{Category: "salon", County: "Nairobi"}})
	if s.Filters.Category != "salon" || s.Filters.County != "Nairobi" {
		t.Fatalf("filters not applied: %+v", s.Filters)
	}
	s = Reduce(s, Action{Type: ClearFilters})
	if s.Filters != (Filters{}) {
		t.Fatalf("filters not cleared: %+v", s.Filters)
	}
}

func TestActionValidate(t *testing.T) {
	tests := []struct {
		name string
		a    Action
		ok   bool
	}{
		{"filters", Action{Type: SetFilters, Filters: &Filters{Query: "braids"}}, true},
		{"filters missing", Action{Type: SetFilters}, false},
		{"price range inverted", Action{Type: SetFilters, Filters: &Filters{MinPrice: 500, MaxPrice: 100}}, false},
		{"add", Action{Type: AddToCart, ProductID: "p1", Quantity: 1}, true},
		{"add zero", Action{Type: AddToCart, ProductID: "p1"}, false},
		{"add no product", Action{Type: AddToCart, Quantity: 1}, false},
		{"set zero", Action{Type: SetQuantity, ProductID: "p1"}, true},
		{"clear cart", Action{Type: ClearCart}, true},
		{"unknown", Action{Type: "checkout"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.a.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidAction) {
				t.Fatalf("expected ErrInvalidAction, got %v", err)
			}
		})
	}
}
