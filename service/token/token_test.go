package token

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		atomic   string
		decimals int32
		want     string
		wantErr  bool
	}{
		{name: "xl3", atomic: "1000000000000000000000", decimals: 18, want: "1000"},
		{name: "usdt", atomic: "500000000", decimals: 6, want: "500"},
		{name: "dust", atomic: "1", decimals: 18, want: "0.000000000000000001"},
		{name: "zero decimals", atomic: "42", decimals: 0, want: "42"},
		{name: "zero", atomic: "0", decimals: 18, want: "0"},
		{name: "fraction", atomic: "1.5", decimals: 18, wantErr: true},
		{name: "negative", atomic: "-1", decimals: 6, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.atomic, tt.decimals)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize() err = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				return
			}

			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Normalize() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestServiceList(t *testing.T) {
	s := New(Config{Tokens: []Entry{
		{Symbol: "XL3", Balance: "1000.50", USDValue: "1.25", ContractAddress: "0x1234567890123456789012345678901234567890"},
		{Symbol: "USDT", Balance: "500000000", Atomic: true, Decimals: 6, USDValue: "1"},
		{Symbol: "WXL3"},
	}})

	tokens, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() err = %v", err)
	}

	if len(tokens) != 3 {
		t.Fatalf("List() returned %d tokens", len(tokens))
	}

	if tokens[0].Balance != "1000.50" {
		t.Errorf("verbatim balance = %s, want 1000.50", tokens[0].Balance)
	}

	if tokens[1].Balance != "500" {
		t.Errorf("normalised balance = %s, want 500", tokens[1].Balance)
	}

	if tokens[2].Balance != "0" || !tokens[2].USDValue.IsZero() {
		t.Errorf("defaults = %+v", tokens[2])
	}
}

func TestServiceListInvalid(t *testing.T) {
	tests := []Entry{
		{Symbol: "A", Balance: "abc"},
		{Symbol: "B", Balance: "-1"},
		{Symbol: "C", USDValue: "x"},
		{Symbol: "D", ContractAddress: "0x682EbA0Fb232E1775687B500F8205"},
	}

	for _, e := range tests {
		t.Run(e.Symbol, func(t *testing.T) {
			if _, err := New(Config{Tokens: []Entry{e}}).List(context.Background()); err == nil {
				t.Error("List() err = nil")
			}
		})
	}
}
