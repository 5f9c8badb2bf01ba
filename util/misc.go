package util

func MaxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func ClampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func CopyStringFloatMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
