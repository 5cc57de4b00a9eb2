package detector

// automaton is an Aho-Corasick matcher over UTF-8 bytes. Matching on bytes is
// safe for UTF-8 keywords since no valid encoding is a substring of another
// rune's encoding at a different offset.
// best[s] is the lowest keyword index recognised in state s, following fail
// links, or -1. Lower index means earlier in configured order
type automaton struct {
	next []map[byte]int32
	fail []int32
	best []int
}

func newAutomaton(keywords []string) *automaton {
	a := &automaton{}
	a.node()
	for i, kw := range keywords {
		s := int32(0)
		for j := 0; j < len(kw); j++ {
			nx, ok := a.next[s][kw[j]]
			if !ok {
				nx = a.node()
				a.next[s][kw[j]] = nx
			}
			s = nx
		}
		if s != 0 && (a.best[s] < 0 || i < a.best[s]) {
			a.best[s] = i
		}
	}
	a.link()
	return a
}

func (a *automaton) node() int32 {
	a.next = append(a.next, map[byte]int32{})
	a.fail = append(a.fail, 0)
	a.best = append(a.best, -1)
	return int32(len(a.next) - 1)
}

// link computes fail links breadth first and folds best through them
func (a *automaton) link() {
	queue := make([]int32, 0, len(a.next))
	for _, s := range a.next[0] {
		queue = append(queue, s)
	}
	for qi := 0; qi < len(queue); qi++ {
		r := queue[qi]
		for b, s := range a.next[r] {
			queue = append(queue, s)
			f := a.fail[r]
			for {
				if nx, ok := a.next[f][b]; ok && nx != s {
					a.fail[s] = nx
					break
				}
				if f == 0 {
					a.fail[s] = 0
					break
				}
				f = a.fail[f]
			}
			if fb := a.best[a.fail[s]]; fb >= 0 && (a.best[s] < 0 || fb < a.best[s]) {
				a.best[s] = fb
			}
		}
	}
}

// first returns the lowest keyword index occurring anywhere in text, or -1
func (a *automaton) first(text string) int {
	lowest := -1
	s := int32(0)
	for i := 0; i < len(text); i++ {
		b := text[i]
		for {
			if nx, ok := a.next[s][b]; ok {
				s = nx
				break
			}
			if s == 0 {
				break
			}
			s = a.fail[s]
		}
		if k := a.best[s]; k >= 0 && (lowest < 0 || k < lowest) {
			lowest = k
			if lowest == 0 {
				return 0
			}
		}
	}
	return lowest
}
