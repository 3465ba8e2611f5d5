package usecase

import "testing"

func TestShippingPolicyFee(t *testing.T) {
	policy := ShippingPolicy{FreeThreshold: 10000, FlatFee: 1000}

	cases := []struct {
		name       string
		itemsPrice int64
		want       int64
	}{
		{"below threshold", 9999, 1000},
		{"at threshold", 10000, 0},
		{"above threshold", 25000, 0},
		{"zero items price", 0, 1000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := policy.Fee(tc.itemsPrice); got != tc.want {
				t.Fatalf("Fee(%d) = %d, want %d", tc.itemsPrice, got, tc.want)
			}
		})
	}
}
