package core

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  bool
	}{
		{in: "50", want: "50"},
		{in: "100.50", want: "100.5"},
		{in: "1.5e3", want: "1500"},
		{in: "-1", want: "-1"},
		{in: "0.000000000000000001", want: "0.000000000000000001"},
		{in: "abc", err: true},
		{in: "", err: true},
		{in: "1e-20000000", err: true},
		{in: "1e20000000", err: true},
		{in: "1e999999999", err: true},
		{in: "1e-37", err: true},
		{in: "1e37", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.err {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("ParseAmount() err = %v, want ErrInvalidAmount", err)
				}
				return
			}

			if err != nil || got.String() != tt.want {
				t.Errorf("ParseAmount() = %s, %v, want %s", got, err, tt.want)
			}
		})
	}
}
