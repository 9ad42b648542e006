package flagscan

import (
	"strings"

	"flagbot/models"
)

// Classify partitions a FlagMap three ways: entries whose lowercased key
// contains a primary denylist term, entries caught by the strict list
// afterwards, and everything else. Removal by the primary list is terminal;
// the strict pass only sees primary survivors.
func (sc *Scanner) Classify(ff models.FlagMap) models.ScanResult {
	res := models.ScanResult{
		Kept:           make(models.FlagMap),
		RemovedPrimary: make(models.FlagMap),
		RemovedStrict:  make(models.FlagMap),
	}

	for k, v := range ff {
		low := strings.ToLower(k)
		switch {
		case containsAny(low, sc.primary):
			res.RemovedPrimary[k] = v
		case containsAny(low, sc.strict):
			res.RemovedStrict[k] = v
		default:
			res.Kept[k] = v
		}
	}
	return res
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
