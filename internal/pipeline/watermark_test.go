package pipeline

import "testing"

func TestKeywordWatermarkDetector(t *testing.T) {
	d := KeywordWatermarkDetector{}

	cases := []struct {
		analysis string
		want     bool
	}{
		{"The product shows a clear crack across the screen.", false},
		{"There is a visible WATERMARK across the image.", true},
		{"This looks like a stock photo from a retailer site.", true},
		{"A logo overlay covers the lower third of the frame.", true},
		{"Text overlay reading SAMPLE is present.", true},
		{"Appears to be a catalog photo rather than a user shot.", true},
		{"", false},
	}

	for _, tc := range cases {
		if got := d.Detect(tc.analysis); got != tc.want {
			t.Errorf("Detect(%q) = %v, want %v", tc.analysis, got, tc.want)
		}
	}
}
