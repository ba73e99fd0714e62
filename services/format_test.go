package services

import "testing"

func TestPrice(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{150, "₱150"},
		{1250, "₱1,250"},
		{1000000, "₱1,000,000"},
		{0, "—"},
		{-5, "—"},
	}
	for _, tt := range tests {
		if got := Price(tt.n); got != tt.want {
			t.Errorf("Price(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
