package errutil_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/secmon-lab/tyche/pkg/utils/errutil"
)

func TestHandle(t *testing.T) {
	ctx := context.Background()

	t.Run("nil error passes through", func(t *testing.T) {
		gt.NoError(t, errutil.Handle(ctx, nil, "no-op"))
	})

	t.Run("error is returned unchanged", func(t *testing.T) {
		orig := goerr.New("something broke", goerr.V("key", "value"))
		err := errutil.Handle(ctx, orig, "operation failed")
		gt.Bool(t, errors.Is(err, orig)).True()
	})

	t.Run("plain error is returned unchanged", func(t *testing.T) {
		orig := errors.New("plain failure")
		err := errutil.Handle(ctx, orig, "operation failed")
		gt.Bool(t, errors.Is(err, orig)).True()
	})
}

func TestHandleHTTP(t *testing.T) {
	ctx := context.Background()

	t.Run("writes a JSON error body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		errutil.HandleHTTP(ctx, rec, goerr.New("bad input"), http.StatusBadRequest)

		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
		gt.Value(t, rec.Header().Get("Content-Type")).Equal("application/json")

		var body struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body)).Required()
		gt.Bool(t, body.Success).False()
		gt.Value(t, body.Error).Equal("bad input")
	})

	t.Run("nil error writes nothing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		errutil.HandleHTTP(ctx, rec, nil, http.StatusInternalServerError)

		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.Number(t, rec.Body.Len()).Equal(0)
	})
}
