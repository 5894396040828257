package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestResolveYieldFactor(t *testing.T) {
	ptr := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}

	cases := []struct {
		name    string
		input   *decimal.Decimal
		want    string
		wantErr bool
	}{
		{"absent defaults to one", nil, "1", false},
		{"lower bound open: zero rejected", ptr("0"), "", true},
		{"negative rejected", ptr("-0.5"), "", true},
		{"above one rejected", ptr("1.01"), "", true},
		{"upper bound closed: one accepted", ptr("1"), "1", false},
		{"interior value accepted", ptr("0.85"), "0.85", false},
	}
	for _, tc := range cases {
		got, err := resolveYieldFactor(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%s: got %s, want error", tc.name, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
			continue
		}
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}
