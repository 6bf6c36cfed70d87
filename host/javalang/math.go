package javalang

import (
	"math"
	"reflect"

	"github.com/chazu/smalireflect/host"
)

// Math is the java.lang.Math class. It has no instances.
type Math struct{}

func arithmetic(msg string) *Exception {
	return &Exception{Class: "java.lang.ArithmeticException", Message: msg}
}

func registerMath(r *host.Registry) {
	r.Register("java.lang.Math", reflect.TypeOf(Math{})).
		SetAbstract().
		Static("abs", func(a int32) int32 {
			if a < 0 {
				return -a
			}
			return a
		}).
		Static("abs", func(a int64) int64 {
			if a < 0 {
				return -a
			}
			return a
		}).
		Static("abs", func(a float32) float32 { return float32(math.Abs(float64(a))) }).
		Static("abs", math.Abs).
		Static("max", func(a, b int32) int32 { return max(a, b) }).
		Static("max", func(a, b int64) int64 { return max(a, b) }).
		Static("max", func(a, b float32) float32 { return float32(math.Max(float64(a), float64(b))) }).
		Static("max", math.Max).
		Static("min", func(a, b int32) int32 { return min(a, b) }).
		Static("min", func(a, b int64) int64 { return min(a, b) }).
		Static("min", func(a, b float32) float32 { return float32(math.Min(float64(a), float64(b))) }).
		Static("min", math.Min).
		Static("pow", math.Pow).
		Static("sqrt", math.Sqrt).
		Static("cbrt", math.Cbrt).
		Static("floor", math.Floor).
		Static("ceil", math.Ceil).
		Static("rint", math.RoundToEven).
		Static("round", func(a float64) int64 {
			if math.IsNaN(a) {
				return 0
			}
			return int64(math.Floor(a + 0.5))
		}).
		Static("round", func(a float32) int32 {
			if a != a {
				return 0
			}
			return int32(math.Floor(float64(a) + 0.5))
		}).
		Static("signum", func(a float64) float64 {
			if a == 0 || math.IsNaN(a) {
				return a
			}
			return math.Copysign(1, a)
		}).
		Static("hypot", math.Hypot).
		Static("exp", math.Exp).
		Static("log", math.Log).
		Static("log10", math.Log10).
		Static("sin", math.Sin).
		Static("cos", math.Cos).
		Static("tan", math.Tan).
		Static("atan", math.Atan).
		Static("atan2", math.Atan2).
		Static("toRadians", func(deg float64) float64 { return deg / 180 * math.Pi }).
		Static("toDegrees", func(rad float64) float64 { return rad * 180 / math.Pi }).
		Static("floorDiv", func(a, b int32) (int32, error) {
			if b == 0 {
				return 0, arithmetic("/ by zero")
			}
			q := a / b
			if (a%b != 0) && ((a < 0) != (b < 0)) {
				q--
			}
			return q, nil
		}).
		Static("floorMod", func(a, b int32) (int32, error) {
			if b == 0 {
				return 0, arithmetic("/ by zero")
			}
			m := a % b
			if m != 0 && ((m < 0) != (b < 0)) {
				m += b
			}
			return m, nil
		}).
		Static("addExact", func(a, b int32) (int32, error) {
			s := int64(a) + int64(b)
			if s > math.MaxInt32 || s < math.MinInt32 {
				return 0, arithmetic("integer overflow")
			}
			return int32(s), nil
		}).
		Static("multiplyExact", func(a, b int32) (int32, error) {
			p := int64(a) * int64(b)
			if p > math.MaxInt32 || p < math.MinInt32 {
				return 0, arithmetic("integer overflow")
			}
			return int32(p), nil
		}).
		Static("negateExact", func(a int32) (int32, error) {
			if a == math.MinInt32 {
				return 0, arithmetic("integer overflow")
			}
			return -a, nil
		})
}
