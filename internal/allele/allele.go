// Package allele parses comma-separated allele lists such as "A,G,T".
package allele

import "strings"

// Count returns the number of alleles in list. Empty tokens are skipped,
// except that a comma ending the list counts as one more allele:
//
//	"A,G"  -> 2
//	"A,G," -> 3
//	"A,,G" -> 2
//	""     -> 0
func Count(list string) int {
	n := 0
	i := 0
	for i < len(list) {
		if list[i] == ',' {
			i++
			continue
		}
		n++
		for i < len(list) && list[i] != ',' {
			i++
		}
		if i < len(list) {
			i++
			if i == len(list) {
				n++
				break
			}
		}
	}
	return n
}

// Index returns the position of allele in list, or -1. Empty tokens
// occupy a position.
func Index(allele, list string) int {
	idx := 0
	for list != "" {
		tok, rest, found := strings.Cut(list, ",")
		if tok == allele {
			return idx
		}
		if !found {
			break
		}
		idx++
		list = rest
	}
	return -1
}

// Split returns the tokens of list, keeping empty ones. An empty list has
// no tokens.
func Split(list string) []string {
	if list == "" {
		return nil
	}
	return strings.Split(list, ",")
}
