package filter

import (
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Match is a blocked term found in a prompt.
type Match struct {
	Term     string
	Position int
	Source   string
	Reason   string
}

// TermInfo stores metadata about a blocked term.
type TermInfo struct {
	Term   string
	Source string
	Reason string
}

type node struct {
	children    map[rune]*node
	failLink    *node
	output      []TermInfo
	isEndOfTerm bool
}

// AhoCorasick matches blocked terms against normalized prompts. All terms are
// matched in a single pass over the text.
type AhoCorasick struct {
	root *node
	mu   sync.RWMutex
}

// NewAhoCorasick creates an empty automaton.
func NewAhoCorasick() *AhoCorasick {
	return &AhoCorasick{
		root: newNode(),
	}
}

func newNode() *node {
	return &node{
		children: make(map[rune]*node),
		output:   make([]TermInfo, 0),
	}
}

// Build resets the automaton and rebuilds it from the given terms.
func (ac *AhoCorasick) Build(terms []TermInfo) {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	ac.root = newNode()
	for _, term := range terms {
		ac.addTerm(term)
	}
	ac.buildFailLinks()
}

func (ac *AhoCorasick) addTerm(term TermInfo) {
	n := ac.root
	normalized := NormalizeText(term.Term)

	for _, char := range normalized {
		if _, ok := n.children[char]; !ok {
			n.children[char] = newNode()
		}
		n = n.children[char]
	}

	n.isEndOfTerm = true
	n.output = append(n.output, term)
}

// buildFailLinks links each node to its longest proper suffix using BFS.
func (ac *AhoCorasick) buildFailLinks() {
	queue := make([]*node, 0)

	for _, child := range ac.root.children {
		child.failLink = ac.root
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for char, child := range current.children {
			queue = append(queue, child)

			failNode := current.failLink
			for failNode != nil && failNode.children[char] == nil {
				failNode = failNode.failLink
			}

			if failNode == nil {
				child.failLink = ac.root
			} else {
				child.failLink = failNode.children[char]
				child.output = append(child.output, child.failLink.output...)
			}
		}
	}
}

// Search returns every blocked term occurring in the text.
func (ac *AhoCorasick) Search(text string) []Match {
	ac.mu.RLock()
	defer ac.mu.RUnlock()

	matches := make([]Match, 0)
	normalized := NormalizeText(text)
	n := ac.root
	position := 0

	for _, char := range normalized {
		for n != nil && n.children[char] == nil {
			n = n.failLink
		}

		if n == nil {
			n = ac.root
		} else {
			n = n.children[char]
		}

		for _, term := range n.output {
			matches = append(matches, Match{
				Term:     term.Term,
				Position: position - len([]rune(term.Term)) + 1,
				Source:   term.Source,
				Reason:   term.Reason,
			})
		}
		position++
	}

	return matches
}

// HasMatch reports whether any blocked term occurs in the text.
func (ac *AhoCorasick) HasMatch(text string) bool {
	ac.mu.RLock()
	defer ac.mu.RUnlock()

	normalized := NormalizeText(text)
	n := ac.root

	for _, char := range normalized {
		for n != nil && n.children[char] == nil {
			n = n.failLink
		}

		if n == nil {
			n = ac.root
		} else {
			n = n.children[char]
		}

		if len(n.output) > 0 {
			return true
		}
	}

	return false
}

// NormalizeText folds text for term matching: unicode NFC, diacritics removed,
// lowercase, common leetspeak substitutions collapsed.
func NormalizeText(text string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	result, _, _ := transform.String(t, text)

	lowered := make([]rune, 0, len(result))
	for _, r := range result {
		lowered = append(lowered, unicode.ToLower(r))
	}

	leetMap := map[rune]rune{
		'0': 'o',
		'1': 'i',
		'3': 'e',
		'4': 'a',
		'5': 's',
		'7': 't',
		'8': 'b',
		'@': 'a',
		'$': 's',
	}

	normalized := make([]rune, 0, len(lowered))
	for _, r := range lowered {
		if replacement, ok := leetMap[r]; ok {
			normalized = append(normalized, replacement)
		} else {
			normalized = append(normalized, r)
		}
	}

	return string(normalized)
}
