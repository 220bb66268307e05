package pack

// An AbsoluteMatch is like a Match, but it stores indexes into the byte
// stream instead of lengths.
type AbsoluteMatch struct {
	// Start is the index of the first byte.
	Start int

	// End is the index of the byte after the last byte
	// (so that End - Start = Length).
	End int

	// Match is the index of the previous data that matches
	// (Start - Match = Distance).
	Match int
}

// Length returns the number of bytes covered by m.
func (m AbsoluteMatch) Length() int {
	return m.End - m.Start
}

// Distance returns how far back m copies from.
func (m AbsoluteMatch) Distance() int {
	return m.Start - m.Match
}

// A Searcher is the source of matches for a Parser. It is a lower-level
// interface than MatchFinder, only looking for matches at one position at a
// time. A type that uses a Parser to implement MatchFinder can implement
// Searcher as well, and pass itself to the Parser.
type Searcher interface {
	// Search looks for matches at pos and appends them to dst.
	// In each match, Start and End must fall within the interval [min,max),
	// and Match <= Start < End.
	Search(dst []AbsoluteMatch, pos, min, max int) []AbsoluteMatch
}

// A Parser chooses which matches to use to compress the data.
type Parser interface {
	// Parse gets matches from src, chooses which ones to use, and appends
	// them to dst. The matches cover the range of bytes from start to end.
	Parse(dst []Match, src Searcher, start, end int) []Match
}

// A GreedyParser implements the greedy matching strategy: It goes from start
// to end, choosing the longest match at each position.
type GreedyParser struct {
	// MinLength is the shortest match that will be used. The default is 4.
	MinLength int

	// Accept, if non-nil, is consulted for every match that is long enough.
	// Rejected matches are treated as if no match had been found, and the
	// byte at that position becomes unmatched.
	Accept func(m AbsoluteMatch) bool

	matchCache []AbsoluteMatch
}

func (p *GreedyParser) Parse(dst []Match, src Searcher, start, end int) []Match {
	minLength := p.MinLength
	if minLength == 0 {
		minLength = 4
	}

	matches := p.matchCache[:0]
	s := start
	nextEmit := start

	for s < end {
		matches = src.Search(matches[:0], s, nextEmit, end)
		m := longestMatch(matches)
		if m.Length() < minLength || (p.Accept != nil && !p.Accept(m)) {
			s++
			continue
		}

		dst = append(dst, Match{
			Unmatched: m.Start - nextEmit,
			Length:    m.Length(),
			Distance:  m.Distance(),
		})
		s = m.End
		nextEmit = s
	}

	if nextEmit < end {
		dst = append(dst, Match{
			Unmatched: end - nextEmit,
		})
	}
	p.matchCache = matches[:0]
	return dst
}

func longestMatch(matches []AbsoluteMatch) AbsoluteMatch {
	var longest AbsoluteMatch

	for _, m := range matches {
		if m.Length() > longest.Length() {
			longest = m
		}
	}

	return longest
}
