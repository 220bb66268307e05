package aplib

import (
	"bytes"

	"github.com/apack/pack"
)

// MatchFinder is an implementation of pack.MatchFinder that makes the
// choices the aPLib reference packer makes: at each position it grows a word
// one byte at a time and keeps the most recent earlier occurrence of the
// longest word that still occurs.
//
// The search is exhaustive, so inputs with many long matches that do not
// overlap themselves cost time proportional to the square of their size.
// Runs and other periodic data are extended in linear time.
type MatchFinder struct {
	// MaxDistance is the limit on how far back to look for a match;
	// 0 means unlimited.
	MaxDistance int

	parser  pack.GreedyParser
	history []byte

	// border[m] is the length of the longest proper border of the first m
	// bytes of the word being grown.
	border []int
}

func (q *MatchFinder) Reset() {
	q.history = q.history[:0]
}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
// The first byte is always left unmatched. Matches that no aPLib token can
// express are skipped, leaving their first byte unmatched.
func (q *MatchFinder) FindMatches(dst []pack.Match, src []byte) []pack.Match {
	q.history = append(q.history[:0], src...)
	q.parser.MinLength = 1
	q.parser.Accept = accept
	return q.parser.Parse(dst, q, 0, len(q.history))
}

func accept(m pack.AbsoluteMatch) bool {
	return Encodable(m.Length(), m.Distance())
}

// Search looks for a match at pos and appends it to dst. It ignores min,
// since matches never extend backward. Where nothing matches and the byte at
// pos is zero, it returns a one-byte match with a distance of 0, which the
// encoder writes as a zero single-byte token.
func (q *MatchFinder) Search(dst []pack.AbsoluteMatch, pos, min, max int) []pack.AbsoluteMatch {
	if pos == 0 || pos >= max {
		return dst
	}

	distance, length := q.find(pos, max)
	if length == 0 {
		if q.history[pos] == 0 {
			dst = append(dst, pack.AbsoluteMatch{Start: pos, End: pos + 1, Match: pos})
		}
		return dst
	}
	return append(dst, pack.AbsoluteMatch{
		Start: pos,
		End:   pos + length,
		Match: pos - distance,
	})
}

// find returns the distance and length of the longest word starting at pos
// that occurs in the history before pos. The word never includes the byte at
// end-1, and the last byte before pos is left out of the search window, so
// an occurrence never touches pos. When there are several occurrences, the
// one closest to pos wins. (0, 0) means not even one byte matched.
func (q *MatchFinder) find(pos, end int) (distance, length int) {
	base := 0
	if q.MaxDistance > 0 && pos > q.MaxDistance {
		base = pos - q.MaxDistance
	}
	if pos-1 <= base || pos >= end-1 {
		return 0, 0
	}
	window := q.history[base : pos-1]
	ahead := q.history[pos : end-1]

	i := bytes.LastIndexByte(window, ahead[0])
	if i < 0 {
		return 0, 0
	}
	q.border = append(q.border[:0], 0, 0)
	n := 1
	for n < len(ahead) {
		// Any occurrence of the longer word is also an occurrence of the
		// current one, so it is at i or to the left of it.
		if i+n < len(window) && window[i+n] == ahead[n] {
			n++
			continue
		}
		if j, ok := q.shift(window, ahead, i, n); ok {
			i = j
			n++
			continue
		}
		j := bytes.LastIndex(window[:i+n], ahead[:n+1])
		if j < 0 {
			break
		}
		i = j
		n++
	}
	return pos - (base + i), n
}

// shift looks for ahead[:n+1] at i-p, where p is the shortest period of
// ahead[:n+1] and i is the rightmost occurrence of ahead[:n] that could not be
// extended. An occurrence that overlaps the one at i is shifted left by a
// period, so if there is one at i-p nothing between i-p and i can match.
func (q *MatchFinder) shift(window, ahead []byte, i, n int) (int, bool) {
	for m := len(q.border); m <= n+1; m++ {
		b := q.border[m-1]
		for b > 0 && ahead[b] != ahead[m-1] {
			b = q.border[b]
		}
		if ahead[b] == ahead[m-1] {
			b++
		}
		q.border = append(q.border, b)
	}

	p := n + 1 - q.border[n+1]
	if p > n || p > i {
		return 0, false
	}
	j := i - p
	if !bytes.Equal(window[j:i], ahead[:p]) {
		return 0, false
	}
	return j, true
}
