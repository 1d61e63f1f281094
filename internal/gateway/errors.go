package gateway

import "fmt"

// RPCError is returned when the master answers with a non-2xx status or a
// body that is not a result document. Body is kept verbatim.
type RPCError struct {
	StatusCode int
	Body       string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("master returned status %d", e.StatusCode)
}

// TimeoutError is returned when the master does not answer within the
// configured timeout.
type TimeoutError struct {
	URL string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("DAO Master at %s could not be reached: timeout", e.URL)
}
