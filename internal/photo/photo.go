// Package photo turns uploaded images into opaque references the showroom
// stores on a car. Decoding runs off the request path and is exposed as a
// single-shot Future.
package photo

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxSize bounds a single upload.
const MaxSize = 8 << 20

// Future resolves once to an image reference. A nil *Future means no photo
// was supplied.
type Future struct {
	done chan struct{}
	ref  string
	err  error
}

// Resolved returns a Future that is already complete.
func Resolved(ref string) *Future {
	f := &Future{done: make(chan struct{}), ref: ref}
	close(f.done)
	return f
}

// Go runs fn in its own goroutine and returns a Future for its result.
func Go(fn func() (string, error)) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.ref, f.err = fn()
	}()
	return f
}

// Await blocks until the future completes or ctx is done. The second return
// value is false when no photo was supplied.
func (f *Future) Await(ctx context.Context) (string, bool, error) {
	if f == nil {
		return "", false, nil
	}
	select {
	case <-f.done:
		if f.err != nil {
			return "", false, f.err
		}
		return f.ref, f.ref != "", nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

// Capture reads r in the background and encodes it as a data URL. When
// contentType is empty or generic the MIME type is sniffed from the content.
// If r is an io.Closer it is closed once read.
func Capture(r io.Reader, contentType string) *Future {
	return Go(func() (string, error) {
		if c, ok := r.(io.Closer); ok {
			defer c.Close()
		}
		data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
		if err != nil {
			return "", fmt.Errorf("failed to read photo: %w", err)
		}
		if len(data) > MaxSize {
			return "", fmt.Errorf("photo exceeds %d bytes", MaxSize)
		}
		return DataURL(data, contentType), nil
	})
}

// DataURL encodes data as a base64 data URL.
func DataURL(data []byte, contentType string) string {
	if len(data) == 0 {
		return ""
	}
	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
		contentType = http.DetectContentType(data)
	}
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
