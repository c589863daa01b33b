package render

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/matzehuels/netplot/pkg/errors"
)

// fakeConverter points rsvgConvert at a shell script running body.
func fakeConverter(t *testing.T, body string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "rsvg-convert")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	old := rsvgConvert
	rsvgConvert = path
	t.Cleanup(func() { rsvgConvert = old })
}

func TestConvertPipesSVG(t *testing.T) {
	fakeConverter(t, "cat")
	svg := []byte("<svg/>")
	out, err := ToPDF(context.Background(), svg)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, svg) {
		t.Errorf("out = %q", out)
	}
}

func TestConvertFailure(t *testing.T) {
	fakeConverter(t, "echo 'Error reading SVG' >&2\nexit 1")
	_, err := ToPNG(context.Background(), []byte("<svg"), 2)
	if !errors.Is(err, errors.ErrCodeExternalTool) {
		t.Fatalf("err = %v, want EXTERNAL_TOOL", err)
	}
}

func TestConvertMissingBinary(t *testing.T) {
	old := rsvgConvert
	rsvgConvert = filepath.Join(t.TempDir(), "missing-rsvg-convert")
	t.Cleanup(func() { rsvgConvert = old })

	_, err := ToPDF(context.Background(), []byte("<svg/>"))
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Fatalf("err = %v, want UNSUPPORTED", err)
	}
}
