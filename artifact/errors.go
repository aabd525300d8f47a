package artifact

import "errors"

// ErrNotFound reports that no artifact exists under the requested session
// and artifact id. Every store in this package and in the minio subpackage
// returns it for missing blobs, so callers can errors.Is against one
// sentinel regardless of the configured backend.
var ErrNotFound = errors.New("artifact not found")
