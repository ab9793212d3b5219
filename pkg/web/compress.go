package web

import (
	"io"
	"net/http"

	"github.com/andybalholm/brotli"
)

// compressMiddleware encodes responses with brotli or gzip, whichever the
// client accepts
func compressMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cw := brotli.HTTPCompressor(w, r)
		defer cw.Close()
		next.ServeHTTP(&compressWriter{ResponseWriter: w, w: cw}, r)
	})
}

type compressWriter struct {
	http.ResponseWriter
	w io.Writer
}

func (c *compressWriter) WriteHeader(code int) {
	c.Header().Del("Content-Length")
	c.ResponseWriter.WriteHeader(code)
}

func (c *compressWriter) Write(p []byte) (int, error) {
	return c.w.Write(p)
}

func (c *compressWriter) Unwrap() http.ResponseWriter {
	return c.ResponseWriter
}
