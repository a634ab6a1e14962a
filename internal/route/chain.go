package route

import (
	"bytes"
	"log/slog"
	"net/http"

	httperr "github.com/aevon-lab/routekit/internal/core/errors"
	"github.com/gin-gonic/gin"
)

// buildChain binds a definition and its optional lifecycle hooks into gin handlers.
// The same chain is shared by the canonical route and its aliases.
func buildChain(def RouteDefinition, cfg Config) []gin.HandlerFunc {
	var chain []gin.HandlerFunc

	if cfg.BodyLimit > 0 {
		chain = append(chain, bodyLimit(cfg.BodyLimit))
	}
	if o, ok := def.(ResponseObserver); ok {
		chain = append(chain, func(c *gin.Context) {
			c.Next()
			o.OnResponse(c)
		})
	}
	if t, ok := def.(SendTransformer); ok {
		chain = append(chain, onSend(t))
	}
	if b, ok := def.(BeforeHandler); ok {
		chain = append(chain, b.BeforeHandle)
	}

	return append(chain, def.Handle)
}

func bodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

// onSend buffers everything written downstream and hands it to the transformer
// before anything reaches the client. A downstream panic discards the buffer so
// the recovery handler writes to the client directly.
func onSend(t SendTransformer) gin.HandlerFunc {
	return func(c *gin.Context) {
		original := c.Writer
		buf := &bufferedWriter{ResponseWriter: original}
		c.Writer = buf
		defer func() {
			c.Writer = original
		}()

		c.Next()

		c.Writer = original
		payload, err := t.OnSend(c, buf.body.Bytes())
		if err != nil {
			slog.Error("onSend hook failed", "path", c.FullPath(), "error", err)
			c.JSON(http.StatusInternalServerError, httperr.Internal())
			return
		}

		original.Header().Del("Content-Length")
		if _, err := original.Write(payload); err != nil {
			slog.Error("Failed to write response", "path", c.FullPath(), "error", err)
		}
	}
}

// bufferedWriter holds the body back while letting status and headers through.
type bufferedWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bufferedWriter) Write(data []byte) (int, error) {
	return w.body.Write(data)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

// WriteHeaderNow defers the header until the transformed body is written.
func (w *bufferedWriter) WriteHeaderNow() {}

func (w *bufferedWriter) Written() bool {
	return w.body.Len() > 0
}
