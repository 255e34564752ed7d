package csvimport

import (
	"bufio"
	"bytes"
	"strings"
)

// delimiterCandidates lists the separators tried during detection, in
// preference order for ties.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

// sniffPrefixSize bounds how much of the stream the sniffer inspects.
const sniffPrefixSize = 5 * 1024

// sniffMaxLines bounds how many lines the sniffer inspects.
const sniffMaxLines = 20

// DetectDelimiter inspects a bounded prefix of raw file content and returns
// the most probable field separator. An explicit non-zero override
// short-circuits detection. The winner is the candidate with the highest
// occurrence count on the first non-empty line; when several lines are
// available the counts of the remaining lines break ties in favour of the
// candidate whose per-line count is most consistent. With no candidate
// present the comma is returned.
func DetectDelimiter(sample []byte, override rune) rune {
	if override != 0 {
		return override
	}
	if len(sample) > sniffPrefixSize {
		sample = sample[:sniffPrefixSize]
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(sample))
	for scanner.Scan() && len(lines) < sniffMaxLines {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return ','
	}

	best := ','
	bestCount := 0
	bestConsistency := -1
	for _, cand := range delimiterCandidates {
		first := strings.Count(lines[0], string(cand))
		if first == 0 {
			continue
		}
		consistent := 0
		for _, line := range lines[1:] {
			if strings.Count(line, string(cand)) == first {
				consistent++
			}
		}
		if first > bestCount || (first == bestCount && consistent > bestConsistency) {
			best = cand
			bestCount = first
			bestConsistency = consistent
		}
	}
	return best
}
