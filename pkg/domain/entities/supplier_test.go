package entities

import (
	"errors"
	"testing"
)

// fixedSource returns a scripted sequence of draws and counts calls
type fixedSource struct {
	values []int
	calls  int
}

func (f *fixedSource) Intn(n int) int {
	v := f.values[f.calls%len(f.values)] % n
	f.calls++
	return v
}

func TestNewSupplier_Validation(t *testing.T) {
	testCases := []struct {
		name     string
		supName  string
		minOrder Quantity
		maxOrder Quantity
		low      int
		high     int
		fill     float64
	}{
		{"empty name", "", 1, 10, 1, 2, 1},
		{"negative min order", "S", -1, 10, 1, 2, 1},
		{"negative max supply", "S", 1, -10, 1, 2, 1},
		{"inverted lead time", "S", 1, 10, 5, 2, 1},
		{"negative lead time", "S", 1, 10, -1, 2, 1},
		{"fill rate above one", "S", 1, 10, 1, 2, 1.2},
		{"negative fill rate", "S", 1, 10, 1, 2, -0.1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSupplier(tc.supName, tc.minOrder, tc.maxOrder, tc.low, tc.high, tc.fill)
			if !errors.Is(err, ErrInvalidSupplier) {
				t.Errorf("Expected ErrInvalidSupplier, got %v", err)
			}
		})
	}
}

func TestSupplier_PlaceOrderRejections(t *testing.T) {
	supplier, _ := NewSupplier("MOQ", 10, 100, 1, 3, 1.0)
	rng := &fixedSource{values: []int{0}}

	for _, requested := range []Quantity{-5, 0, 9} {
		accepted, _, ok := supplier.PlaceOrder("A", requested, 1, rng)
		if ok || accepted != 0 {
			t.Errorf("Expected rejection for %d units, got accepted=%d ok=%v", requested, accepted, ok)
		}
	}
	if rng.calls != 0 {
		t.Errorf("Expected no lead time draws for rejected orders, got %d", rng.calls)
	}
}

func TestSupplier_PlaceOrderCapsAndFills(t *testing.T) {
	supplier, _ := NewSupplier("Partial", 10, 300, 4, 7, 0.9)
	rng := &fixedSource{values: []int{2}}

	accepted, arrival, ok := supplier.PlaceOrder("B1", 500, 10, rng)
	if !ok {
		t.Fatal("Expected order to be accepted")
	}
	// min(500, 300) * 0.9
	if accepted != 270 {
		t.Errorf("Expected 270 accepted, got %d", accepted)
	}
	if arrival != 16 {
		t.Errorf("Expected arrival on day 16, got %d", arrival)
	}
	if rng.calls != 1 {
		t.Errorf("Expected exactly one lead time draw, got %d", rng.calls)
	}
}

func TestSupplier_FillRateRoundsHalfToEven(t *testing.T) {
	supplier, _ := NewSupplier("Half", 0, 100, 1, 1, 0.5)
	rng := &fixedSource{values: []int{0}}

	accepted, _, _ := supplier.PlaceOrder("A", 5, 1, rng)
	if accepted != 2 {
		t.Errorf("Expected 2.5 to round to 2, got %d", accepted)
	}
	accepted, _, _ = supplier.PlaceOrder("A", 7, 1, rng)
	if accepted != 4 {
		t.Errorf("Expected 3.5 to round to 4, got %d", accepted)
	}
}

func TestSupplier_LeadTimeWithinRange(t *testing.T) {
	supplier, _ := NewSupplier("Range", 1, 1000, 1, 5, 1.0)
	rng := NewRandomSource(7)

	for i := 0; i < 200; i++ {
		_, arrival, ok := supplier.PlaceOrder("A", 10, 100, rng)
		if !ok {
			t.Fatal("Expected acceptance")
		}
		if arrival < 101 || arrival > 105 {
			t.Fatalf("Expected arrival in [101, 105], got %d", arrival)
		}
	}
}

func TestSupplier_ExpectedLeadTimeMean(t *testing.T) {
	supplier, _ := NewSupplier("Mean", 1, 10, 4, 7, 1.0)
	if supplier.ExpectedLeadTimeMean() != 5.5 {
		t.Errorf("Expected mean lead time 5.5, got %g", supplier.ExpectedLeadTimeMean())
	}
}

func TestUniformInt_SingleValueRangeStillDraws(t *testing.T) {
	rng := &fixedSource{values: []int{3}}
	if v := UniformInt(rng, 4, 4); v != 4 {
		t.Errorf("Expected 4, got %d", v)
	}
	if rng.calls != 1 {
		t.Errorf("Expected one draw, got %d", rng.calls)
	}
}
