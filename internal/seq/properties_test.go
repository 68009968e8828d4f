package seq

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomSequences returns a deterministic batch of sequences, some dense and
// some sparse, of lengths 0..12.
func randomSequences(holeRatio float64) []*Sequence[int] {
	r := rand.New(rand.NewSource(42))
	var out []*Sequence[int]
	for n := 0; n < 60; n++ {
		length := r.Intn(13)
		s := Sparse[int](length)
		for i := 0; i < length; i++ {
			if r.Float64() >= holeRatio {
				s.Set(i, r.Intn(200)-100)
			}
		}
		out = append(out, s)
	}
	return out
}

// affine is non-commutative, so any reordering of calls changes the result.
func affine(acc, cur, _ int, _ *Sequence[int]) int {
	return acc*3 + cur
}

func TestProperty_LeftFold(t *testing.T) {
	for _, s := range randomSequences(0) {
		seed := 7
		want := seed
		for i := 0; i < s.Len(); i++ {
			v, _ := s.At(i)
			want = affine(want, v, i, s)
		}

		got, err := Fold(s, affine, seed)
		require.NoError(t, err)
		assert.Equal(t, want, got, "sequence %v", s)
	}
}

func TestProperty_NoSeedEquivalence(t *testing.T) {
	for _, s := range randomSequences(0) {
		if s.Len() == 0 {
			continue
		}
		head, _ := s.At(0)

		want, err := Fold(s.Slice(1), affine, head)
		require.NoError(t, err)

		got, err := Reduce(s, affine)
		require.NoError(t, err)
		assert.Equal(t, want, got, "sequence %v", s)
	}
}

func TestProperty_HoleTransparency(t *testing.T) {
	for _, s := range randomSequences(0.4) {
		compact := FromSlice(s.Compact())

		want, err := Fold(compact, affine, 1)
		require.NoError(t, err)

		got, err := Fold(s, affine, 1)
		require.NoError(t, err)
		assert.Equal(t, want, got, "sequence %v", s)

		visited := 0
		_, err = Fold(s, func(acc, cur, idx int, s *Sequence[int]) int {
			visited++
			assert.True(t, s.Has(idx), "callback called for hole at %d", idx)
			return acc
		}, 0)
		require.NoError(t, err)
		assert.Equal(t, s.Count(), visited)
	}
}

func TestProperty_EmptyWithSeed(t *testing.T) {
	for _, seed := range []int{0, -1, 5, 1 << 40} {
		got, err := Fold(Of[int](), func(int, int, int, *Sequence[int]) int {
			t.Fatal("callback must not be called")
			return 0
		}, seed)
		require.NoError(t, err)
		assert.Equal(t, seed, got)
	}
}

func TestProperty_EmptyNoSeed(t *testing.T) {
	for _, s := range randomSequences(1) {
		_, err := Reduce(s, add)
		assert.True(t, IsEmptyReduce(err))
	}
}

func TestProperty_MapShape(t *testing.T) {
	for _, s := range randomSequences(0.3) {
		out, err := Map(s, func(cur, idx int, _ *Sequence[int]) string {
			return Describe(cur * idx)
		})
		require.NoError(t, err)
		require.Equal(t, s.Len(), out.Len())
		for i := 0; i < s.Len(); i++ {
			assert.Equal(t, s.Has(i), out.Has(i), "slot %d", i)
		}
	}
}
