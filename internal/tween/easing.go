package tween

// Easing maps linear progress in [0,1] to eased progress. Every easing maps 0
// to 0 and 1 to 1.
type Easing func(k float64) float64

func Linear(k float64) float64 {
	return k
}

func QuadraticIn(k float64) float64 {
	return k * k
}

func QuadraticOut(k float64) float64 {
	return k * (2 - k)
}

func QuadraticInOut(k float64) float64 {
	k *= 2
	if k < 1 {
		return 0.5 * k * k
	}
	k--
	return -0.5 * (k*(k-2) - 1)
}

func CubicInOut(k float64) float64 {
	k *= 2
	if k < 1 {
		return 0.5 * k * k * k
	}
	k -= 2
	return 0.5 * (k*k*k + 2)
}

func QuinticInOut(k float64) float64 {
	k *= 2
	if k < 1 {
		return 0.5 * k * k * k * k * k
	}
	k -= 2
	return 0.5 * (k*k*k*k*k + 2)
}
