package chunk

import (
	"strings"
	"testing"
)

func TestSplitEmptyInput(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t  \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Split(tt.text); got != nil {
				t.Errorf("Split(%q) = %v, want nil", tt.text, got)
			}
		})
	}
}

func TestSplitShortInputSingleChunk(t *testing.T) {
	text := "  A short bid covering all requirements.  "
	got := Split(text)
	if len(got) != 1 {
		t.Fatalf("got %d chunks, want 1", len(got))
	}
	if got[0] != strings.TrimSpace(text) {
		t.Errorf("chunk = %q, want trimmed input", got[0])
	}
}

func TestSplitExactTargetSize(t *testing.T) {
	text := strings.Repeat("a", targetSize)
	got := Split(text)
	if len(got) != 1 {
		t.Fatalf("got %d chunks, want 1", len(got))
	}
}

func TestSplitOverlap(t *testing.T) {
	// Unbroken text forces hard cuts at exactly targetSize.
	text := strings.Repeat("x", targetSize*3)
	got := Split(text)
	if len(got) < 2 {
		t.Fatalf("got %d chunks, want at least 2", len(got))
	}
	for i := 1; i < len(got); i++ {
		prev := got[i-1]
		tail := prev[len(prev)-overlapSize:]
		if !strings.HasPrefix(got[i], tail) {
			t.Errorf("chunk %d does not start with previous chunk's tail", i)
		}
	}
}

func TestSplitReconstructsOriginal(t *testing.T) {
	// Mixed paragraphs and sentences, long enough for several chunks.
	var b strings.Builder
	for i := 0; i < 80; i++ {
		b.WriteString("The vendor shall provide round-the-clock support. ")
		if i%10 == 9 {
			b.WriteString("\n\n")
		}
	}
	text := strings.TrimSpace(b.String())

	chunks := Split(text)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want at least 2", len(chunks))
	}

	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for _, c := range chunks[1:] {
		rebuilt.WriteString(c[overlapSize:])
	}
	if rebuilt.String() != text {
		t.Error("concatenating chunks minus overlap did not reconstruct the input")
	}
}

func TestSplitPrefersParagraphBreaks(t *testing.T) {
	// Two unbroken 1500-char paragraphs: the 1800-char cut lands mid-word,
	// forcing a back-off to the paragraph boundary.
	para := strings.Repeat("x", 1500)
	text := para + "\n\n" + para
	chunks := Split(text)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want at least 2", len(chunks))
	}
	if !strings.HasSuffix(chunks[0], "\n\n") {
		t.Errorf("first chunk does not end at a paragraph break: ...%q", chunks[0][len(chunks[0])-10:])
	}
}

func TestSplitDeterministic(t *testing.T) {
	text := strings.Repeat("Deliverables are due within thirty days. ", 200)
	a := Split(text)
	b := Split(text)
	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}
