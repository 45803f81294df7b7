package dub

import (
	"fmt"
	"math"
	"strings"
)

// atempo accepts a single-stage tempo factor in [0.5, 2.0]. Ratios outside
// that range are expressed as a chain of stages whose product is the ratio.
const (
	atempoMin = 0.5
	atempoMax = 2.0
)

// DecomposeTempo splits a tempo ratio into atempo stages. Ratios above 2.0
// are peeled into 2.0 stages, ratios below 0.5 into 0.5 stages, and the
// remainder lands in [0.5, 2.0] as the final stage. A ratio of 5.0 becomes
// [2.0, 2.0, 1.25].
func DecomposeTempo(ratio float64) ([]float64, error) {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio <= 0 {
		return nil, fmt.Errorf("tempo ratio must be a positive finite number, got %v", ratio)
	}
	var stages []float64
	remain := ratio
	for remain > atempoMax {
		stages = append(stages, atempoMax)
		remain /= atempoMax
	}
	for remain < atempoMin {
		stages = append(stages, atempoMin)
		remain /= atempoMin
	}
	return append(stages, remain), nil
}

// filterExpression renders stages as an ffmpeg -filter:a argument such as
// "atempo=2.0,atempo=1.25000". Peeled stages are exact 2.0 or 0.5 values;
// the final stage carries the fractional remainder.
func filterExpression(stages []float64) string {
	parts := make([]string, len(stages))
	for i, stage := range stages {
		if i < len(stages)-1 {
			parts[i] = fmt.Sprintf("atempo=%.1f", stage)
			continue
		}
		parts[i] = fmt.Sprintf("atempo=%.5f", stage)
	}
	return strings.Join(parts, ",")
}
