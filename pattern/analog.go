package pattern

import "math"

// Sine is an analog pattern oscillating in [0,1) with period one cycle.
func Sine() Pattern {
	return Signal(func(t Rational) Value {
		return NumberValue(FromFloat((math.Sin(t.Float64()*2*math.Pi) + 1) / 2))
	})
}

// Cosine is Sine phase-shifted by a quarter cycle.
func Cosine() Pattern {
	return Signal(func(t Rational) Value {
		return NumberValue(FromFloat((math.Cos(t.Float64()*2*math.Pi) + 1) / 2))
	})
}

// Saw ramps linearly from 0 to 1 each cycle.
func Saw() Pattern {
	return Signal(func(t Rational) Value {
		return NumberValue(t.CyclePos())
	})
}

// Isaw is the inverse (falling) saw.
func Isaw() Pattern {
	return Signal(func(t Rational) Value {
		return NumberValue(One.Sub(t.CyclePos()))
	})
}

// Tri is a triangle wave in [0,1) with period one cycle.
func Tri() Pattern {
	return Signal(func(t Rational) Value {
		pos := t.CyclePos().Float64()
		var v float64
		if pos < 0.5 {
			v = pos * 2
		} else {
			v = 2 - pos*2
		}
		return NumberValue(FromFloat(v))
	})
}

// Square is a 50%-duty square wave in {0,1}.
func Square() Pattern {
	return Signal(func(t Rational) Value {
		if t.CyclePos().Lt(Half) {
			return NumberValue(Zero)
		}
		return NumberValue(One)
	})
}
