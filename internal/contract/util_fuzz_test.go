package contract

import (
	"testing"
	"unicode/utf8"
)

// FuzzTruncateText fuzzes TruncateText with random text and widths.
func FuzzTruncateText(f *testing.F) {
	seeds := []struct {
		text  string
		width int
	}{
		{"Sunrise Apartments", 10},
		{"", 0},
		{"₹45,00,000", 4},
		{"a", -1},
	}
	for _, seed := range seeds {
		f.Add(seed.text, seed.width)
	}

	f.Fuzz(func(t *testing.T, text string, width int) {
		if !utf8.ValidString(text) {
			return
		}
		out := TruncateText(text, width)
		if width > 3 && utf8.RuneCountInString(out) > width {
			t.Errorf("TruncateText(%q, %d) = %q exceeds width", text, width, out)
		}
	})
}

// FuzzSplitList checks that SplitList never returns blank entries.
func FuzzSplitList(f *testing.F) {
	for _, seed := range []string{"Chennai, Pune", "", ",,,", " a ,b"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		for _, item := range SplitList(s) {
			if item == "" {
				t.Errorf("SplitList(%q) kept a blank entry", s)
			}
		}
	})
}
