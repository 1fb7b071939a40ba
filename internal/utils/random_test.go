package utils

import (
	"math"
	"testing"
	"time"
)

func TestRandomReproducibility(t *testing.T) {
	seed := int64(42)

	// Create two RNGs with the same seed
	rng1 := NewRandom(seed)
	rng2 := NewRandom(seed)

	t.Run("IntN", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			v1 := rng1.IntN(1000)
			v2 := rng2.IntN(1000)
			if v1 != v2 {
				t.Errorf("Mismatch at iteration %d: %d != %d", i, v1, v2)
				return
			}
		}
	})

	rng1 = NewRandom(seed)
	rng2 = NewRandom(seed)

	t.Run("Mixed operations", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			if rng1.Float64() != rng2.Float64() {
				t.Error("Float64 mismatch")
				return
			}
			if rng1.Probability(0.4) != rng2.Probability(0.4) {
				t.Error("Probability mismatch")
				return
			}
			if rng1.IntRange(10, 20) != rng2.IntRange(10, 20) {
				t.Error("IntRange mismatch")
				return
			}
		}
	})
}

func TestRandomSeedStorage(t *testing.T) {
	rng := NewRandom(12345)
	if rng.Seed() != 12345 {
		t.Errorf("Expected seed 12345, got %d", rng.Seed())
	}

	// Seed 0 asks for an auto-generated seed
	rng = NewRandom(0)
	if rng.Seed() == 0 {
		t.Error("Expected non-zero auto-generated seed")
	}
}

func TestRandomFork(t *testing.T) {
	parent1 := NewRandom(7)
	parent2 := NewRandom(7)

	child1 := parent1.Fork()
	child2 := parent2.Fork()

	if child1.Seed() != child2.Seed() {
		t.Fatalf("Forks of identical parents should share a seed: %d != %d", child1.Seed(), child2.Seed())
	}
	if child1.Seed() == parent1.Seed() {
		t.Error("Fork should derive a new seed")
	}

	for i := 0; i < 100; i++ {
		if child1.IntN(1000) != child2.IntN(1000) {
			t.Fatal("Forked sequences diverged")
		}
	}
}

func TestRandomRestart(t *testing.T) {
	for _, rng := range []*Random{NewRandom(11), NewRandom(11).Fork()} {
		first := make([]int, 20)
		for i := range first {
			first[i] = rng.IntN(1000)
		}

		replay := rng.Restart()
		if replay.Seed() != rng.Seed() {
			t.Errorf("Expected restart to keep seed %d, got %d", rng.Seed(), replay.Seed())
		}
		for i, want := range first {
			if got := replay.IntN(1000); got != want {
				t.Fatalf("Expected draw %d to be %d after restart, got %d", i, want, got)
			}
		}
	}
}

func TestRandomRanges(t *testing.T) {
	rng := NewRandom(1)

	t.Run("IntRange", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			v := rng.IntRange(10, 20)
			if v < 10 || v > 20 {
				t.Fatalf("IntRange out of bounds: %d", v)
			}
		}
		if v := rng.IntRange(5, 5); v != 5 {
			t.Errorf("Expected degenerate range to return 5, got %d", v)
		}
	})

	t.Run("Float64Range", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			v := rng.Float64Range(1.0, 2.0)
			if v < 1.0 || v >= 2.0 {
				t.Fatalf("Float64Range out of bounds: %f", v)
			}
		}
	})

	t.Run("RoundedRange", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			v := RoundedRange(rng, 0.71, 0.95, 2)
			if v < 0.71 || v > 0.95 {
				t.Fatalf("RoundedRange out of bounds: %f", v)
			}
			if scaled := v * 100; math.Abs(scaled-math.Round(scaled)) > 1e-6 {
				t.Fatalf("RoundedRange not rounded to 2 places: %v", v)
			}
		}
	})

	t.Run("DateBetween", func(t *testing.T) {
		start := time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 100; i++ {
			d := DateBetween(rng, start, end)
			if d.Before(start) || !d.Before(end) {
				t.Fatalf("DateBetween out of bounds: %v", d)
			}
		}
		if d := DateBetween(rng, end, start); !d.Equal(end) {
			t.Errorf("Expected inverted range to return start, got %v", d)
		}
	})
}

func TestRandomProbability(t *testing.T) {
	rng := NewRandom(99)

	for i := 0; i < 100; i++ {
		if rng.Probability(0) {
			t.Fatal("Probability(0) returned true")
		}
		if !rng.Probability(1) {
			t.Fatal("Probability(1) returned false")
		}
	}

	hits := 0
	for i := 0; i < 10000; i++ {
		if rng.Probability(0.3) {
			hits++
		}
	}
	if hits < 2700 || hits > 3300 {
		t.Errorf("Expected ~3000 hits for p=0.3, got %d", hits)
	}
}

func TestRandomShuffle(t *testing.T) {
	rng := NewRandom(5)
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	rng.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })

	seen := make(map[int]bool)
	for _, v := range items {
		seen[v] = true
	}
	if len(seen) != 10 {
		t.Errorf("Shuffle lost elements: %v", items)
	}
}

func TestPick(t *testing.T) {
	rng := NewRandom(3)
	slice := []string{"a", "b", "c"}

	for i := 0; i < 100; i++ {
		v := Pick(rng, slice)
		if v != "a" && v != "b" && v != "c" {
			t.Fatalf("Pick returned unexpected value %q", v)
		}
	}

	if v := Pick(rng, []string{}); v != "" {
		t.Errorf("Expected zero value from empty slice, got %q", v)
	}
}

func TestNumericAndLetterStrings(t *testing.T) {
	rng := NewRandom(11)

	str := NumericString(rng, 12)
	if len(str) != 12 {
		t.Errorf("Expected length 12, got %d", len(str))
	}
	for _, c := range str {
		if c < '0' || c > '9' {
			t.Errorf("Non-numeric character %q in %s", c, str)
		}
	}

	letters := LetterString(rng, 5)
	if len(letters) != 5 {
		t.Errorf("Expected length 5, got %d", len(letters))
	}
	for _, c := range letters {
		if c < 'A' || c > 'Z' {
			t.Errorf("Non-uppercase character %q in %s", c, letters)
		}
	}
}
