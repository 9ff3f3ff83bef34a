package output

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/webp"

	"cpu-raytracer/internal/raster"
)

func testFrame(t *testing.T) *raster.FrameBuffer {
	t.Helper()
	fb, err := raster.NewFrameBuffer(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if err := fb.Set(x, y, uint8(x*80), uint8(y*200), 17); err != nil {
				t.Fatal(err)
			}
		}
	}
	return fb
}

func checkDecoded(t *testing.T, img image.Image, fb *raster.FrameBuffer) {
	t.Helper()
	if img.Bounds().Dx() != fb.Width || img.Bounds().Dy() != fb.Height {
		t.Fatalf("decoded size %v, want %dx%d", img.Bounds(), fb.Width, fb.Height)
	}
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			wr, wg, wb, _ := fb.At(x, y)
			if uint8(r>>8) != wr || uint8(g>>8) != wg || uint8(b>>8) != wb || a != 0xffff {
				t.Errorf("pixel (%d,%d) = %d,%d,%d,%d want %d,%d,%d", x, y, r>>8, g>>8, b>>8, a>>8, wr, wg, wb)
			}
		}
	}
}

func TestWriteImage_PNG(t *testing.T) {
	fb := testFrame(t)
	path := filepath.Join(t.TempDir(), "nested", "out.png")
	if err := WriteImage(path, fb); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	checkDecoded(t, img, fb)
}

func TestWriteImage_WebPLossless(t *testing.T) {
	fb := testFrame(t)
	path := filepath.Join(t.TempDir(), "out.webp")
	if err := WriteImage(path, fb); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := webp.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	checkDecoded(t, img, fb)
}

func TestWriteImage_Errors(t *testing.T) {
	dir := t.TempDir()
	if err := WriteImage(filepath.Join(dir, "out.gif"), testFrame(t)); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("gif = %v, want ErrUnknownFormat", err)
	}
	if err := WriteImage(filepath.Join(dir, "out.png"), &raster.FrameBuffer{}); !errors.Is(err, raster.ErrNilData) {
		t.Errorf("empty framebuffer = %v, want ErrNilData", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"", PNG, true},
		{"PNG", PNG, true},
		{".webp", WebP, true},
		{"jpeg", "", false},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
	if WebP.Ext() != ".webp" {
		t.Errorf("Ext = %q", WebP.Ext())
	}
}
