package domain

import (
	"errors"
	"fmt"
)

// Infrastructure-level failures. These never consult the business retry
// schedule; the process tracker's own error handling requeues or gives up.
var (
	ErrDeserializationFailed = errors.New("deserialization failed")
	ErrNotFound              = errors.New("not found")
)

// ResourceFetchingFailedError reports a collaborator contract violation: a
// resource lookup answered with a non-content response where structured
// content was expected.
type ResourceFetchingFailedError struct {
	ResourceName string
}

func (e *ResourceFetchingFailedError) Error() string {
	return fmt.Sprintf("failed fetching resource %q: unexpected response shape", e.ResourceName)
}
