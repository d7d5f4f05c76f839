package service

import (
	"sort"
	"strings"
)

// nameIndex finds look-alike column names without comparing every pair.
type nameIndex struct {
	names []string                       // unique, sorted
	inv   map[string]map[string]struct{} // trigram -> set(name)
}

func buildNameIndex(names []string) *nameIndex {
	idx := &nameIndex{inv: make(map[string]map[string]struct{})}

	uniq := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := uniq[n]; ok {
			continue
		}
		uniq[n] = struct{}{}
		idx.names = append(idx.names, n)

		for g := range trigramSet(n) {
			bucket, ok := idx.inv[g]
			if !ok {
				bucket = make(map[string]struct{})
				idx.inv[g] = bucket
			}
			bucket[n] = struct{}{}
		}
	}
	sort.Strings(idx.names)
	return idx
}

func trigramSet(s string) map[string]struct{} {
	m := make(map[string]struct{})
	if s == "" {
		return m
	}
	r := []rune(" " + s + " ")
	if len(r) < 3 {
		m[string(r)] = struct{}{}
		return m
	}
	for i := 0; i <= len(r)-3; i++ {
		m[string(r[i:i+3])] = struct{}{}
	}
	return m
}

// candidateNames returns every indexed name sharing a trigram with name,
// sorted.
func (idx *nameIndex) candidateNames(name string) []string {
	if name == "" {
		return nil
	}
	seen := make(map[string]struct{})
	for g := range trigramSet(name) {
		for n := range idx.inv[g] {
			seen[n] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// similarity is normalized Damerau-Levenshtein similarity in [0..1].
func similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	d := damerauLevenshtein(a, b)
	m := max(len([]rune(a)), len([]rune(b)))
	return 1 - float64(d)/float64(m)
}

// tokenSort orders the "_"-separated words, so first_name == name_first.
func tokenSort(s string) string {
	t := strings.Split(s, "_")
	sort.Strings(t)
	return strings.Join(t, "_")
}

func bestSimilarity(a, b string) float64 {
	return max(similarity(a, b), similarity(tokenSort(a), tokenSort(b)))
}
