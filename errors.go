package growthbook

import "errors"

// ErrConfig is returned from NewClient when the client is built with a
// configuration that can never evaluate anything: an explicit poll/SSE
// datasource (or auto-refresh) requested without api_url/client_key
// credentials to fetch from.
var ErrConfig = errors.New("growthbook: client requires api_url and client_key to use a network datasource")

// ErrNoDecryptionKey is returned when decrypting features is attempted
// without a decryption key configured on the client.
var ErrNoDecryptionKey = errors.New("growthbook: no decryption key configured")
