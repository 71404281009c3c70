package enrich

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Lexicon maps "word#pos" sense keys to a single polarity score in [-1, 1].
// It is built from a SentiWordNet 3.0 dump and is immutable once loaded, so
// concurrent lookups need no locking.
type Lexicon struct {
	scores map[string]float64
}

// LoadLexiconFile opens and parses a SentiWordNet file from disk.
func LoadLexiconFile(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening lexicon: %w", err)
	}
	defer f.Close()

	return LoadLexicon(f)
}

// LoadLexicon parses the SentiWordNet tab-separated format: each data line
// carries the part of speech, the positive and negative scores, and the
// synset terms as "word#rank" tokens. Scores across a word's senses are
// combined with rank-weighted harmonic averaging, so the primary sense of a
// word dominates.
func LoadLexicon(r io.Reader) (*Lexicon, error) {
	// senseScores accumulates per-rank scores for each "word#pos" key.
	senseScores := make(map[string][]float64)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 5 || fields[2] == "" ||
			fields[2] == "PosScore" {

			continue
		}

		pos, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad PosScore: %w",
				lineNo, err)
		}
		neg, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad NegScore: %w",
				lineNo, err)
		}
		score := pos - neg

		for _, term := range strings.Split(fields[4], " ") {
			word, rank, ok := splitSense(term)
			if !ok {
				continue
			}

			key := word + "#" + fields[0]
			ranks := senseScores[key]
			for len(ranks) < rank {
				ranks = append(ranks, 0)
			}
			ranks[rank-1] = score
			senseScores[key] = ranks
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading lexicon: %w", err)
	}

	lex := &Lexicon{scores: make(map[string]float64, len(senseScores))}
	for key, ranks := range senseScores {
		var weighted, norm float64
		for i, s := range ranks {
			weighted += s / float64(i+1)
			norm += 1 / float64(i+1)
		}
		if norm > 0 {
			lex.scores[key] = weighted / norm
		}
	}

	return lex, nil
}

// splitSense parses a "word#rank" synset term.
func splitSense(term string) (string, int, bool) {
	idx := strings.LastIndex(term, "#")
	if idx <= 0 {
		return "", 0, false
	}

	rank, err := strconv.Atoi(term[idx+1:])
	if err != nil || rank < 1 {
		return "", 0, false
	}

	return term[:idx], rank, true
}

// Score sums the noun, adjective and verb senses of one lower-cased word.
// Unknown words score zero.
func (l *Lexicon) Score(word string) float64 {
	return l.scores[word+"#n"] + l.scores[word+"#a"] + l.scores[word+"#v"]
}

// Len reports the number of sense keys in the lexicon.
func (l *Lexicon) Len() int {
	return len(l.scores)
}

// SentimentScore sums the lexicon score of every space-separated word in
// the phrase, lower-cased. An empty phrase scores zero.
func (l *Lexicon) SentimentScore(phrase string) float64 {
	var total float64
	for _, w := range strings.Split(phrase, " ") {
		total += l.Score(strings.ToLower(w))
	}

	return total
}
