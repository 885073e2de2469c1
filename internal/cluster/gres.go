package cluster

import (
	"strings"

	"github.com/xangma/sciama-vscode/internal/utils"
)

// ParseGres decodes a comma-separated GRES descriptor string into the maximum
// GPU count seen on any token and a per-type maximum map. The untyped form
// "gpu:2" is recorded under the empty type label.
//
// Supported token shapes (socket/NUMA annotations like "(S:0-1)" stripped):
//   - gpu:4            -> count 4, type ""
//   - gpu:a100:4       -> count 4, type "a100"
//   - gpu:a100:4(S:0)  -> count 4, type "a100"
//
// Malformed tokens and tokens without a positive count are silently skipped;
// this function never fails.
func ParseGres(gres string) (int, map[string]int) {
	gpuMax := 0
	gpuTypes := make(map[string]int)

	for _, token := range strings.Split(gres, ",") {
		token = strings.TrimSpace(token)
		if !strings.Contains(token, "gpu") {
			continue
		}

		// Strip parenthetical suffix, e.g. socket annotations
		if idx := strings.Index(token, "("); idx >= 0 {
			token = token[:idx]
		}

		parts := strings.Split(token, ":")
		if parts[0] != "gpu" {
			continue
		}

		gpuType := ""
		count := 0
		switch {
		case len(parts) == 2:
			// gpu:X — bare count, or a type label with no count (skipped below)
			if utils.IsAllDigits(parts[1]) {
				count = utils.ExtractInt(parts[1])
			}
		case len(parts) >= 3:
			gpuType = parts[1]
			if utils.IsAllDigits(parts[2]) {
				count = utils.ExtractInt(parts[2])
			}
		}

		if count <= 0 {
			continue
		}

		if count > gpuMax {
			gpuMax = count
		}
		if count > gpuTypes[gpuType] {
			gpuTypes[gpuType] = count
		}
	}

	return gpuMax, gpuTypes
}
