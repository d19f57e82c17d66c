package analysis

const (
	levelWindow = 20
	levelBand   = 0.05
)

// SupportResistance derives levels from the extremes of the last 20 closes:
// support is [min, min*0.95] and resistance is [max, max*1.05].
func SupportResistance(closes []float64) (support, resistance []float64) {
	window := closes
	if len(window) > levelWindow {
		window = window[:levelWindow]
	}
	if len(window) == 0 {
		return []float64{}, []float64{}
	}
	lo, hi := window[0], window[0]
	for _, v := range window[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return []float64{lo, lo * (1 - levelBand)}, []float64{hi, hi * (1 + levelBand)}
}
