package types

import (
	"github.com/m-mizutani/goerr/v2"
)

// TagInvalidArgument marks precondition violations detected before any
// computation starts. The HTTP layer maps it to a 400 response.
var TagInvalidArgument = goerr.NewTag("invalid_argument")
