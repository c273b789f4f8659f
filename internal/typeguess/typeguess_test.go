package typeguess

import "testing"

func samplesOf(values ...string) []Sample {
	out := make([]Sample, len(values))
	for i, v := range values {
		out[i] = Sample{Field: []byte(v)}
	}
	return out
}

func TestGuessLogical(t *testing.T) {
	got := Guess(samplesOf("TRUE", "FALSE", "TRUE"), DefaultOptions)
	if got != Logical {
		t.Fatalf("got %s, want logical", got)
	}
}

func TestGuessInteger(t *testing.T) {
	got := Guess(samplesOf("1", "2", "3"), DefaultOptions)
	if got != Integer {
		t.Fatalf("got %s, want integer", got)
	}
}

func TestGuessLeadingZeroIsNotInteger(t *testing.T) {
	got := Guess(samplesOf("007", "123"), DefaultOptions)
	if got == Integer {
		t.Fatalf("leading zero should not be treated as integer, got %s", got)
	}
}

func TestGuessDouble(t *testing.T) {
	got := Guess(samplesOf("1.5", "2.25", "3"), DefaultOptions)
	if got != Double {
		t.Fatalf("got %s, want double", got)
	}
}

func TestGuessDate(t *testing.T) {
	got := Guess(samplesOf("2024-01-01", "2024-06-15"), DefaultOptions)
	if got != Date {
		t.Fatalf("got %s, want date", got)
	}
}

func TestGuessDateTime(t *testing.T) {
	got := Guess(samplesOf("2024-01-01T10:00:00", "2024-06-15T08:30:00"), DefaultOptions)
	if got != DateTime {
		t.Fatalf("got %s, want datetime", got)
	}
}

func TestGuessString(t *testing.T) {
	got := Guess(samplesOf("hello", "world"), DefaultOptions)
	if got != String {
		t.Fatalf("got %s, want string", got)
	}
}

func TestGuessMixedFallsToString(t *testing.T) {
	got := Guess(samplesOf("1", "abc", "2024-01-01"), DefaultOptions)
	if got != String {
		t.Fatalf("got %s, want string (no single predicate satisfies all)", got)
	}
}

func TestGuessAllMissingIsLogical(t *testing.T) {
	got := Guess(samplesOf("", "NA", ""), DefaultOptions)
	if got != Logical {
		t.Fatalf("got %s, want logical for all-missing", got)
	}
}

func TestGuessSkipsNASamples(t *testing.T) {
	got := Guess(samplesOf("1", "NA", "2", ""), DefaultOptions)
	if got != Integer {
		t.Fatalf("got %s, want integer (NA samples skipped)", got)
	}
}

func TestGuessConfidenceThreshold(t *testing.T) {
	opts := DefaultOptions
	opts.Threshold = 0.8
	opts.MinSamples = 5
	got := Guess(samplesOf("1", "2", "3", "4", "x"), opts)
	if got != Integer {
		t.Fatalf("got %s, want integer under 0.8 threshold with one outlier", got)
	}
}

func TestStride(t *testing.T) {
	if got := Stride(100, 1000); got != 1 {
		t.Fatalf("got %d, want 1 when rows < guessMax", got)
	}
	if got := Stride(1000, 100); got != 10 {
		t.Fatalf("got %d, want 10", got)
	}
}
