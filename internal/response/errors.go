package response

import "errors"

var ErrStatusLineAlreadyWritten = errors.New("status line already written")
var ErrHeadersAlreadyWritten = errors.New("headers already written")
var ErrNoBodyState = errors.New("body already written")

// ErrInvalidParserState is returned when a parse stage is called out of order.
var ErrInvalidParserState = errors.New("parse stage called out of order")
