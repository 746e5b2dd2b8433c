package embedding

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeModel(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "w2v.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return path
}

func TestLoad_WithHeader(t *testing.T) {
	path := writeModel(t, "2 3\npantai 1 0 0\nbersih 0 1 0\n")
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Dim() != 3 {
		t.Errorf("expected dim 3, got %d", m.Dim())
	}
	if m.Vocab() != 2 {
		t.Errorf("expected vocab 2, got %d", m.Vocab())
	}
}

func TestLoad_WithoutHeader(t *testing.T) {
	path := writeModel(t, "pantai 1 0 0 0\nbersih 0 1 0 0\n")
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Dim() != 4 {
		t.Errorf("dimensionality must come from the file, got %d", m.Dim())
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
			t.Error("expected error for missing file")
		}
	})
	t.Run("bad value", func(t *testing.T) {
		path := writeModel(t, "2 2\npantai 1 x\n")
		if _, err := Load(path); err == nil {
			t.Error("expected error for non-numeric value")
		}
	})
	t.Run("dim mismatch", func(t *testing.T) {
		path := writeModel(t, "pantai 1 0 0\nbersih 0 1\n")
		if _, err := Load(path); err == nil {
			t.Error("expected error for inconsistent dimensions")
		}
	})
}

func TestVectorize_MeanOfKnownTokens(t *testing.T) {
	path := writeModel(t, "2 2\npantai 1 0\nbersih 0 1\n")
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	vec := m.Vectorize([]string{"pantai", "bersih", "zzz"})
	if math.Abs(float64(vec[0])-0.5) > 1e-6 || math.Abs(float64(vec[1])-0.5) > 1e-6 {
		t.Errorf("expected [0.5 0.5], got %v", vec)
	}
}

func TestVectorize_AllUnknownIsZero(t *testing.T) {
	path := writeModel(t, "1 3\npantai 1 2 3\n")
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	vec := m.Vectorize([]string{"x", "y"})
	if len(vec) != 3 {
		t.Fatalf("zero vector must use the model dimensionality, got len %d", len(vec))
	}
	if !IsZero(vec) {
		t.Errorf("expected zero vector, got %v", vec)
	}
}

func TestCosine(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2}, []float32{1, 2}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"length mismatch", []float32{1}, []float32{1, 1}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Cosine(tc.a, tc.b)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Cosine(%v, %v) = %f, want %f", tc.a, tc.b, got, tc.want)
			}
			if math.IsNaN(got) {
				t.Error("cosine must never be NaN")
			}
		})
	}
}
