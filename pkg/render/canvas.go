package render

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Canvas draws a Scene to an output.
type Canvas interface {
	Draw(ctx context.Context, s Scene) error
}

// Format is an output image format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatJPG Format = "jpg"
	FormatPDF Format = "pdf"
)

// ParseFormat returns the format named by s, accepting a file extension with
// or without the leading dot, or a whole file name.
func ParseFormat(s string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext("x."+strings.TrimPrefix(s, ".")), "."))
	switch ext {
	case "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPG, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// Backend names a canvas implementation.
type Backend string

const (
	BackendSVG      Backend = "svg"
	BackendGraphviz Backend = "graphviz"
)

// NewCanvas returns a canvas writing format to w. JPG is only produced by
// the graphviz backend and selects it regardless of backend.
func NewCanvas(w io.Writer, format Format, backend Backend) (Canvas, error) {
	if format == FormatJPG {
		backend = BackendGraphviz
	}
	switch backend {
	case BackendSVG, "":
		if format != FormatSVG && format != FormatPNG && format != FormatPDF {
			return nil, fmt.Errorf("svg backend cannot produce %s", format)
		}
		return NewSVGCanvas(w, format), nil
	case BackendGraphviz:
		if format == FormatPDF {
			return nil, fmt.Errorf("graphviz backend cannot produce %s", format)
		}
		return NewGraphvizCanvas(w, format), nil
	}
	return nil, fmt.Errorf("unknown render backend %q", backend)
}

// Multi draws the same scene on every canvas in order and stops at the
// first error.
func Multi(canvases ...Canvas) Canvas {
	return multiCanvas(canvases)
}

type multiCanvas []Canvas

func (m multiCanvas) Draw(ctx context.Context, s Scene) error {
	for _, c := range m {
		if err := c.Draw(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
