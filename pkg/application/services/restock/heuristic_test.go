package restock

import (
	"errors"
	"testing"

	"github.com/vsinha/restock/pkg/domain/entities"
)

func TestHeuristicStrategy_Thresholds(t *testing.T) {
	s, err := NewHeuristicStrategy(0.3, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := s.SafetyStock(8.2); got != 3 {
		t.Errorf("Expected safety stock 3, got %d", got)
	}
	if got := s.Threshold(8.2); got != 11 {
		t.Errorf("Expected threshold 11, got %d", got)
	}
	if got := s.RefillQuantity(8.2); got != 115 {
		t.Errorf("Expected refill 115, got %d", got)
	}
}

func TestHeuristicStrategy_Plan(t *testing.T) {
	s, _ := NewHeuristicStrategy(0.3, 2)
	supplier := testSupplier(10, 500, 1, 3)
	view := &fakeView{items: []entities.ItemState{
		testState("LOW", 10, 8.2, 1000, supplier),
		testState("EDGE", 11, 8.2, 1000, supplier),
	}}

	plan, err := s.Plan(view, 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if plan["LOW"] != 115 {
		t.Errorf("Expected LOW to be planned at 115, got %d", plan["LOW"])
	}
	if _, ok := plan["EDGE"]; ok {
		t.Error("Expected no order when stock equals the threshold")
	}
	if plan.Total() != 115 {
		t.Errorf("Expected plan total 115, got %d", plan.Total())
	}
}

func TestNewHeuristicStrategy_Validation(t *testing.T) {
	if _, err := NewHeuristicStrategy(-0.1, 2); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter for negative safety factor, got %v", err)
	}
	if _, err := NewHeuristicStrategy(0.3, -1); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter for negative weeks, got %v", err)
	}
}
