package simulation

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
)

// Stats summarizes one score across simulation trials.
type Stats struct {
	Mean   float64
	Std    float64
	Min    float64
	Max    float64
	Median float64
	Q25    float64
	Q75    float64
}

// Result is the outcome of a Monte Carlo max-score estimation.
type Result struct {
	SampleSize     int
	Simulations    int
	TotalStrata    int
	RelevantStrata int
	Threshold      float64
	GRI            Stats
	Diversity      Stats
}

// Options configures a Monte Carlo run.
type Options struct {
	Simulations int   // trials, default 1000
	Seed        int64 // base seed, used when Seeded
	Seeded      bool  // false means system entropy per run
	Workers     int   // parallel trial workers, default 1
	Progress    func(done int)
}

// MaxScores estimates the expected best-achievable GRI and Diversity for a
// benchmark at the given sample size. Trials are independent; with Seeded
// set, trial i runs on seed Seed+i so results are reproducible regardless
// of worker count. The relevance threshold for Diversity is 1/sampleSize.
func MaxScores(bench []float64, sampleSize int, opts Options) (Result, error) {
	if sampleSize <= 0 {
		return Result{}, fmt.Errorf("simulation: sample size must be positive, got %d", sampleSize)
	}
	if len(bench) == 0 {
		return Result{}, fmt.Errorf("simulation: empty benchmark")
	}
	if opts.Simulations <= 0 {
		opts.Simulations = 1000
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	threshold := 1.0 / float64(sampleSize)
	relevant := 0
	for _, q := range bench {
		if q > threshold {
			relevant++
		}
	}

	seeds := make([]int64, opts.Simulations)
	if opts.Seeded {
		for i := range seeds {
			seeds[i] = opts.Seed + int64(i)
		}
	} else {
		for i := range seeds {
			seeds[i] = rand.Int63()
		}
	}

	griScores := make([]float64, opts.Simulations)
	divScores := make([]float64, opts.Simulations)
	errs := make([]error, opts.Simulations)

	var wg sync.WaitGroup
	var done int
	var mu sync.Mutex
	sem := make(chan struct{}, opts.Workers)
	for i := 0; i < opts.Simulations; i++ {
		wg.Add(1)
		go func(trial int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			rng := rand.New(rand.NewSource(seeds[trial]))
			counts, err := OptimalAllocation(bench, sampleSize, rng)
			if err != nil {
				errs[trial] = err
				return
			}
			griScores[trial], divScores[trial] = scoreAllocation(bench, counts, threshold)

			if opts.Progress != nil {
				mu.Lock()
				done++
				opts.Progress(done)
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return Result{}, err
		}
	}

	return Result{
		SampleSize:     sampleSize,
		Simulations:    opts.Simulations,
		TotalStrata:    len(bench),
		RelevantStrata: relevant,
		Threshold:      threshold,
		GRI:            summarize(griScores),
		Diversity:      summarize(divScores),
	}, nil
}

// scoreAllocation computes GRI and Diversity for one simulated allocation.
// The allocation sums to the sample size by construction, so the empty
// sample precondition cannot trip here.
func scoreAllocation(bench []float64, counts []int, threshold float64) (gri, diversity float64) {
	total := 0
	for _, n := range counts {
		total += n
	}
	tvd := 0.0
	relevant, represented := 0, 0
	for i, q := range bench {
		s := float64(counts[i]) / float64(total)
		tvd += math.Abs(s - q)
		if q > threshold {
			relevant++
			if counts[i] > 0 {
				represented++
			}
		}
	}
	gri = 1 - 0.5*tvd
	if relevant == 0 {
		diversity = 1.0
	} else {
		diversity = float64(represented) / float64(relevant)
	}
	return gri, diversity
}

func summarize(scores []float64) Stats {
	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)

	mean := 0.0
	for _, s := range sorted {
		mean += s
	}
	mean /= float64(len(sorted))

	variance := 0.0
	for _, s := range sorted {
		variance += (s - mean) * (s - mean)
	}
	variance /= float64(len(sorted))

	return Stats{
		Mean:   mean,
		Std:    math.Sqrt(variance),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: percentile(sorted, 0.50),
		Q25:    percentile(sorted, 0.25),
		Q75:    percentile(sorted, 0.75),
	}
}

// percentile interpolates linearly between the closest ranks of a sorted
// slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	index := p * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
