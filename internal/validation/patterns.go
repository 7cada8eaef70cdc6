package validation

import "strings"

// Keyboard rows used for adjacency detection. Fragments are matched in both
// directions so "ytrewq" flags the same as "qwerty".
var keyboardRows = []string{
	"qwertyuiop",
	"asdfghjkl",
	"zxcvbnm",
	"1234567890",
}

const keyboardFragmentLength = 5

// hasKeyboardPattern reports whether s contains a run of adjacent keyboard
// characters (e.g. "qwerty", "asdfg")
func hasKeyboardPattern(s string) bool {
	s = strings.ToLower(s)
	for _, row := range keyboardRows {
		for i := 0; i+keyboardFragmentLength <= len(row); i++ {
			fragment := row[i : i+keyboardFragmentLength]
			if strings.Contains(s, fragment) || strings.Contains(s, reverse(fragment)) {
				return true
			}
		}
	}
	return false
}

// hasSequentialRun reports whether s contains an ascending or descending run
// of consecutive characters (alphabetic or numeric) of at least minRun length
func hasSequentialRun(s string, minRun int) bool {
	if minRun < 2 || len(s) < minRun {
		return false
	}
	s = strings.ToLower(s)

	ascending, descending := 1, 1
	for i := 1; i < len(s); i++ {
		prev, cur := s[i-1], s[i]
		if !isAlphanumeric(prev) || !isAlphanumeric(cur) {
			ascending, descending = 1, 1
			continue
		}
		if cur == prev+1 {
			ascending++
			descending = 1
		} else if cur == prev-1 {
			descending++
			ascending = 1
		} else {
			ascending, descending = 1, 1
		}
		if ascending >= minRun || descending >= minRun {
			return true
		}
	}
	return false
}

// hasHighRepetition reports whether one character makes up at least maxRatio
// of s, or a short substring tiles the whole of s (e.g. "abcabcabc")
func hasHighRepetition(s string, maxRatio float64) bool {
	if len(s) < 4 {
		return false
	}
	s = strings.ToLower(s)

	counts := make(map[byte]int)
	for i := 0; i < len(s); i++ {
		counts[s[i]]++
	}
	for _, count := range counts {
		if float64(count)/float64(len(s)) >= maxRatio {
			return true
		}
	}

	// Periodic tiling with a period of up to 3 characters
	for period := 1; period <= 3 && period*2 <= len(s); period++ {
		if len(s)%period != 0 {
			continue
		}
		if strings.Repeat(s[:period], len(s)/period) == s {
			return true
		}
	}
	return false
}

// isSuspiciousPattern combines the three pattern detectors
func isSuspiciousPattern(s string, cfg Config) bool {
	return hasKeyboardPattern(s) ||
		hasSequentialRun(s, cfg.MinSequentialRun) ||
		hasHighRepetition(s, cfg.MaxRepetitionRatio)
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
