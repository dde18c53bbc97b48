package types

import "testing"

func TestTokensConstructors(t *testing.T) {
	tests := []struct {
		name    string
		tokens  Tokens
		raw     uint64
		display string
	}{
		{"E8s", E8s(4900), 4900, "0.00004900"},
		{"Whole", Whole(3), 300_000_000, "3.00000000"},
		{"Zero", E8s(0), 0, "0.00000000"},
		{"OneToken", Whole(1), E8sPerToken, "1.00000000"},
		{"Mixed", E8s(150_000_000), 150_000_000, "1.50000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if uint64(tt.tokens) != tt.raw {
				t.Errorf("Raw: got %d, want %d", uint64(tt.tokens), tt.raw)
			}
			if tt.tokens.String() != tt.display {
				t.Errorf("Display: got %s, want %s", tt.tokens.String(), tt.display)
			}
		})
	}
}

func TestTokensArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func() Tokens
		expected Tokens
	}{
		{"Add", func() Tokens { return E8s(100).Add(E8s(200)) }, E8s(300)},
		{"Sub", func() Tokens { return E8s(500).Sub(E8s(200)) }, E8s(300)},
		{"Mul", func() Tokens { return E8s(100).Mul(3) }, E8s(300)},
		{"Share", func() Tokens { return E8s(900).Share(3) }, E8s(300)},
		{"ShareTruncates", func() Tokens { return E8s(99).Share(10) }, E8s(9)},
		{"ShareBelowDivisor", func() Tokens { return E8s(9).Share(10) }, E8s(0)},
		{"Sum", func() Tokens { return Sum(E8s(1), E8s(2), E8s(3)) }, E8s(6)},
		{"Complex", func() Tokens {
			return Whole(1).Add(Whole(2)).Sub(E8s(50_000_000))
		}, E8s(250_000_000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.op()
			if result != tt.expected {
				t.Errorf("Got %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestTokensSubUnderflow(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for balance underflow")
		}
	}()

	// This should panic
	_ = E8s(100).Sub(E8s(200))
}

func TestTokensShareByZero(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for zero divisor")
		}
	}()

	// This should panic
	_ = E8s(100).Share(0)
}

func TestTokensComparisons(t *testing.T) {
	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"IsZero true", E8s(0).IsZero(), true},
		{"IsZero false", E8s(1).IsZero(), false},
		{"IsPositive true", E8s(1).IsPositive(), true},
		{"IsPositive false", E8s(0).IsPositive(), false},
		{"LessThan true", E8s(1).LessThan(E8s(2)), true},
		{"LessThan false", E8s(2).LessThan(E8s(2)), false},
		{"Covers equal", E8s(100).Covers(E8s(100)), true},
		{"Covers above", E8s(101).Covers(E8s(100)), true},
		{"Covers below", E8s(99).Covers(E8s(100)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("Got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestPrincipalIsZero(t *testing.T) {
	tests := []struct {
		name      string
		principal Principal
		zero      bool
	}{
		{"Empty", Principal(""), true},
		{"Whitespace", Principal("   "), true},
		{"Set", Principal("alice"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.principal.IsZero() != tt.zero {
				t.Errorf("IsZero(%q): got %v, want %v", tt.principal, tt.principal.IsZero(), tt.zero)
			}
		})
	}
}
