package section

import (
	"fmt"
	"strings"

	"github.com/agext/levenshtein"
)

// Closest returns the candidate with the smallest edit distance to key,
// or an empty string when there are no candidates.
func Closest(candidates []string, key string) string {
	best, bestDistance := "", -1

	for _, candidate := range candidates {
		distance := levenshtein.Distance(candidate, key, nil)
		if bestDistance < 0 || distance < bestDistance {
			best, bestDistance = candidate, distance
		}
	}

	return best
}

// suggestion formats a did-you-mean hint, prefixing the closest candidate with path.
func suggestion(candidates []string, key string, path []string) string {
	closest := Closest(candidates, key)
	if closest == "" {
		return ""
	}

	full := strings.Join(append(append([]string(nil), path...), closest), ".")

	return fmt.Sprintf(" (did you mean %q?)", full)
}

func unknownKey(key, name string, candidates []string, path []string) error {
	return fmt.Errorf("%w %q%s", ErrUnknownKey, key, suggestion(candidates, name, path))
}
