// Package safe wraps best-effort I/O whose failures should be logged rather
// than returned: deferred closes, response writes after headers are sent, and
// streaming copies where the caller has nothing useful to do with the error.
package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/secmon-lab/tyche/pkg/utils/logging"
)

// Close closes closer, logging a failure instead of returning it. A nil
// closer is ignored so it can sit in a bare defer.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.Any("error", err))
	}
}

// Write writes data to w, logging a failure. A nil writer is ignored.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if _, err := w.Write(data); err != nil {
		logging.From(ctx).Error("Failed to write", slog.Any("error", err))
	}
}

// Copy streams src into dst, logging a failure
func Copy(ctx context.Context, dst io.Writer, src io.Reader) {
	if _, err := io.Copy(dst, src); err != nil {
		logging.From(ctx).Error("Failed to copy", slog.Any("error", err))
	}
}
