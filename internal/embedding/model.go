// Package embedding wraps a pretrained word-to-vector table and turns token
// sequences into fixed-size vectors by averaging.
package embedding

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Model is a read-only word embedding lookup loaded from a word2vec
// text-format file. Safe for concurrent use after Load.
type Model struct {
	dim  int
	vecs map[string][]float32
}

// Load reads a word2vec text-format model: an optional "count dim" header
// line followed by one "word v1 v2 ... vD" line per word. Dimensionality is
// taken from the file, never hardcoded.
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model %s: %w", path, err)
	}
	defer f.Close()

	m := &Model{vecs: make(map[string][]float32)}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	first := true
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if first {
			first = false
			// Header line: "<vocab size> <dimensions>".
			if len(fields) == 2 {
				if dim, err := strconv.Atoi(fields[1]); err == nil {
					m.dim = dim
					continue
				}
			}
		}
		if len(fields) < 2 {
			continue
		}
		word := fields[0]
		vec := make([]float32, 0, len(fields)-1)
		for _, fv := range fields[1:] {
			v, err := strconv.ParseFloat(fv, 32)
			if err != nil {
				return nil, fmt.Errorf("model %s: bad value %q for word %q: %w", path, fv, word, err)
			}
			vec = append(vec, float32(v))
		}
		if m.dim == 0 {
			m.dim = len(vec)
		}
		if len(vec) != m.dim {
			return nil, fmt.Errorf("model %s: word %q has %d dims, expected %d", path, word, len(vec), m.dim)
		}
		m.vecs[word] = vec
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}
	if len(m.vecs) == 0 {
		return nil, fmt.Errorf("model %s: no vectors", path)
	}
	return m, nil
}

// Dim returns the model's vector dimensionality.
func (m *Model) Dim() int {
	return m.dim
}

// Vocab returns the number of known words.
func (m *Model) Vocab() int {
	return len(m.vecs)
}

// Vectorize returns the element-wise mean of the known tokens' vectors.
// Unknown tokens are skipped; if no token is known the zero vector is
// returned. Pure function over (model, tokens), never errors.
func (m *Model) Vectorize(tokens []string) []float32 {
	out := make([]float32, m.dim)
	known := 0
	for _, tok := range tokens {
		vec, ok := m.vecs[tok]
		if !ok {
			continue
		}
		for i, v := range vec {
			out[i] += v
		}
		known++
	}
	if known > 1 {
		inv := 1 / float32(known)
		for i := range out {
			out[i] *= inv
		}
	}
	return out
}
