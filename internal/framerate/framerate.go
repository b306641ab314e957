package framerate

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	ntsc24 = big.NewRat(24000, 1001)
	ntsc30 = big.NewRat(30000, 1001)
	ntsc60 = big.NewRat(60000, 1001)

	dropFactor = big.NewRat(999, 1000)
)

// ToInterchange maps a rational frame rate to an xmeml timebase and NTSC flag.
func ToInterchange(rate *big.Rat) (int64, bool) {
	switch {
	case rate.Cmp(ntsc24) == 0:
		return 24, true
	case rate.Cmp(ntsc30) == 0:
		return 30, true
	case rate.Cmp(ntsc60) == 0:
		return 60, true
	}

	ceil := Ceil(rate)
	if ceil != 24 && ceil != 30 && ceil != 60 {
		scaled := new(big.Rat).Mul(new(big.Rat).SetInt64(ceil), dropFactor)
		if scaled.Cmp(rate) == 0 {
			return ceil, true
		}
	}
	return Trunc(rate), false
}

// FromInterchange maps an integer timebase and NTSC flag back to a rate.
func FromInterchange(timebase int64, ntsc bool) *big.Rat {
	return FromInterchangeRat(new(big.Rat).SetInt64(timebase), ntsc)
}

// FromInterchangeRat is FromInterchange for documents that carry a
// non-integer timebase.
func FromInterchangeRat(timebase *big.Rat, ntsc bool) *big.Rat {
	if !ntsc {
		return new(big.Rat).Set(timebase)
	}
	if timebase.IsInt() {
		switch timebase.Num().Int64() {
		case 24:
			return new(big.Rat).Set(ntsc24)
		case 30:
			return new(big.Rat).Set(ntsc30)
		case 60:
			return new(big.Rat).Set(ntsc60)
		}
	}
	return new(big.Rat).Mul(timebase, dropFactor)
}

// Trunc returns the integer part of r, rounding toward zero.
func Trunc(r *big.Rat) int64 {
	return new(big.Int).Quo(r.Num(), r.Denom()).Int64()
}

// Ceil returns the smallest integer not less than r.
func Ceil(r *big.Rat) int64 {
	q, m := new(big.Int).DivMod(r.Num(), r.Denom(), new(big.Int))
	if m.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q.Int64()
}

// Parse reads a frame rate written as an integer, a fraction such as
// 30000/1001, or a decimal such as 29.97.
func Parse(value string) (*big.Rat, error) {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return nil, errors.New("frame rate: empty value")
	}
	rate, ok := new(big.Rat).SetString(cleaned)
	if !ok {
		return nil, fmt.Errorf("frame rate: invalid value %q", value)
	}
	if rate.Sign() <= 0 {
		return nil, fmt.Errorf("frame rate: %q must be positive", value)
	}
	return rate, nil
}

// Format renders a rate as "num/den", the form Parse and the JSON timeline use.
func Format(rate *big.Rat) string {
	return rate.Num().String() + "/" + rate.Denom().String()
}
