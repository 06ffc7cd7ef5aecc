package validate

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMoney(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    string
		invalid bool
	}{
		{name: "rounds to cents", input: "10.555", want: "10.56"},
		{name: "largest storable value", input: "999999999999.99", want: "999999999999.99"},
		{name: "negative values keep their sign", input: "-12.344", want: "-12.34"},
		{name: "thirteen integer digits", input: "1000000000000", invalid: true},
		{name: "rounding past the maximum", input: "999999999999.995", invalid: true},
		{name: "large negative", input: "-1e12", invalid: true},
		{name: "tiny value rounds to zero", input: "1e-5", want: "0"},
		{name: "zero with a huge exponent", input: "0e300000000", want: "0"},
		{name: "small value with a long fraction", input: "0.0049999", want: "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			value := decimal.RequireFromString(tc.input)
			got, err := Money("amount", value)
			if tc.invalid {
				var fieldErr *Error
				if !errors.As(err, &fieldErr) || fieldErr.Field != "amount" {
					t.Fatalf("expected amount field error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestMoneyRejectsHugeExponentsQuickly(t *testing.T) {
	for _, input := range []string{"1e300000000", "-7e2000000000", "1e-300000000"} {
		value := decimal.RequireFromString(input)

		done := make(chan error, 1)
		go func() {
			_, err := Money("delta", value)
			done <- err
		}()

		select {
		case err := <-done:
			if input == "1e-300000000" {
				if err != nil {
					t.Fatalf("%s: expected zero without error, got %v", input, err)
				}
				continue
			}
			if err == nil {
				t.Fatalf("%s: expected field error", input)
			}
		case <-time.After(time.Second):
			t.Fatalf("%s: validation did not return", input)
		}
	}
}
