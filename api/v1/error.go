package api_v1

import "fmt"

// InvalidIdentityError is returned when a flow is started without a complete
// identity pair. The flow cannot start; there is nothing to retry.
type InvalidIdentityError struct{}

func (e InvalidIdentityError) Error() string {
	return "user id and subscription id are required"
}

// AssignmentStorageError is returned when the variant record could not be read
// or created. Callers must treat the flow as unavailable, never default a variant.
type AssignmentStorageError struct {
	Err error
}

func (e AssignmentStorageError) Error() string {
	return fmt.Sprintf("variant assignment failed: %v", e.Err)
}

func (e AssignmentStorageError) Unwrap() error {
	return e.Err
}

type FlowNotFoundError struct {
	FlowId string
}

func (e FlowNotFoundError) Error() string {
	return fmt.Sprintf("no active flow with id %s", e.FlowId)
}
