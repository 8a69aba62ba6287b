package qrcode

import (
	"bytes"
	"image/png"
	"testing"
)

func TestClampSize(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultSize},
		{-5, DefaultSize},
		{64, MinSize},
		{300, 300},
		{4096, MaxSize},
	}

	for _, tt := range tests {
		if got := ClampSize(tt.in); got != tt.want {
			t.Errorf("ClampSize(%d) = %d; want %d", tt.in, got, tt.want)
		}
	}
}

func TestGeneratePNG(t *testing.T) {
	data, err := GeneratePNG("https://links.example.com/abc123", 256)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 256 || bounds.Dy() != 256 {
		t.Errorf("expected 256x256 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}
