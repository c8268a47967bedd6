package http

import (
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/tyche/pkg/domain/types"
	"github.com/secmon-lab/tyche/pkg/repository/firestore"
	"github.com/secmon-lab/tyche/pkg/repository/memory"
)

// statusOf maps an error to an HTTP status code: precondition violations
// become 400, missing records 404, everything else 500.
func statusOf(err error) int {
	switch {
	case goerr.HasTag(err, types.TagInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, memory.ErrNotFound), errors.Is(err, firestore.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
