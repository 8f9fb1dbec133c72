package store

import (
	"errors"
	"io"
	"net/url"
)

// ErrMissingFilter is returned for a delete without filters; the client never
// deletes a whole table.
var ErrMissingFilter = errors.New("delete requires at least one filter")

// IsEmptyBody reports whether err is the REST client failing to decode a
// successful response that carried no body. postgrest-go returns the decoder's
// io.EOF unwrapped in that case. A transport failure wrapping io.EOF is a
// *url.Error and does not match.
func IsEmptyBody(err error) bool {
	var urlErr *url.Error
	return errors.Is(err, io.EOF) && !errors.As(err, &urlErr)
}
