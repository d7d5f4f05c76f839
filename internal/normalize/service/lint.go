package service

import (
	"strings"

	"schemagen/internal/normalize/model"
)

// SimilarColumns reports distinct names that are at least threshold similar,
// sorted by (A, B) with A < B. A threshold <= 0 turns the check off.
func SimilarColumns(names []string, threshold float64) []model.SimilarPair {
	if threshold <= 0 || len(names) < 2 {
		return nil
	}

	idx := buildNameIndex(names)

	var out []model.SimilarPair
	for _, a := range idx.names {
		for _, b := range idx.candidateNames(a) {
			if b <= a || suffixBase(a) == suffixBase(b) {
				continue
			}
			if s := bestSimilarity(a, b); s >= threshold {
				out = append(out, model.SimilarPair{A: a, B: b, Score: s})
			}
		}
	}
	return out
}

// suffixBase strips a collision suffix such as "_3", so name, name_0 and
// name_11 are not reported against each other.
func suffixBase(s string) string {
	i := strings.LastIndexByte(s, '_')
	if i < 0 || i == len(s)-1 {
		return s
	}
	for _, c := range s[i+1:] {
		if c < '0' || c > '9' {
			return s
		}
	}
	return s[:i]
}
