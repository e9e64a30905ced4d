package cmd

import "strings"

// maxSuggestDistance is the largest edit distance still worth suggesting.
const maxSuggestDistance = 3

// levenshtein computes the Levenshtein edit distance between two strings,
// counting runes so accented names compare correctly.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	row := make([]int, lb+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= la; i++ {
		prev := i - 1
		row[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			val := min(row[j]+1, row[j-1]+1, prev+cost)
			prev = row[j]
			row[j] = val
		}
	}
	return row[lb]
}

// closest returns the candidate nearest to input after normalize, or "" when
// none is within maxSuggestDistance.
func closest(input string, candidates []string, normalize func(string) string) string {
	input = normalize(input)
	if input == "" {
		return ""
	}
	bestDist := maxSuggestDistance + 1
	bestMatch := ""
	for _, c := range candidates {
		if d := levenshtein(input, normalize(c)); d < bestDist {
			bestDist = d
			bestMatch = c
		}
	}
	return bestMatch
}

// suggestCommand finds the closest command name to the unknown input.
func suggestCommand(unknown string, commands []string) string {
	return closest(unknown, commands, strings.ToLower)
}

// suggestFlag finds the closest flag name to the unknown input. Dashes are
// ignored for comparison but kept in the returned match.
func suggestFlag(unknown string, flags []string) string {
	return closest(unknown, flags, func(s string) string {
		return strings.ToLower(strings.TrimLeft(s, "-"))
	})
}
