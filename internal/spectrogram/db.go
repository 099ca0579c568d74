package spectrogram

import "math"

const (
	dbAmin = 1e-10
	dbTop  = 80.0
)

// PowerToDB converts power values to decibels relative to the maximum
// power, floored at 80 dB below the peak. The receiver is left unchanged.
func (m *Mel) PowerToDB() *Mel {
	ref := dbAmin
	for _, row := range m.Data {
		for _, v := range row {
			ref = math.Max(ref, v)
		}
	}
	refDB := 10 * math.Log10(ref)

	peak := math.Inf(-1)
	data := make([][]float64, len(m.Data))
	for i, row := range m.Data {
		out := make([]float64, len(row))
		for j, v := range row {
			out[j] = 10*math.Log10(math.Max(dbAmin, v)) - refDB
			peak = math.Max(peak, out[j])
		}
		data[i] = out
	}

	floor := peak - dbTop
	for _, row := range data {
		for j, v := range row {
			row[j] = math.Max(v, floor)
		}
	}

	db := *m
	db.Data = data
	db.Decibels = true
	return &db
}
