package simulation

// CurvePoint is the max-score estimate at one sample size.
type CurvePoint struct {
	SampleSize int
	Result     Result
}

// Curve estimates max scores across a ladder of sample sizes, sharing one
// option set. Useful for answering "how large must the sample be before a
// GRI of X is even achievable".
func Curve(bench []float64, sampleSizes []int, opts Options) ([]CurvePoint, error) {
	points := make([]CurvePoint, 0, len(sampleSizes))
	for _, n := range sampleSizes {
		result, err := MaxScores(bench, n, opts)
		if err != nil {
			return nil, err
		}
		points = append(points, CurvePoint{SampleSize: n, Result: result})
	}
	return points, nil
}
