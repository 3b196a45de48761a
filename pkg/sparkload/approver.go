package sparkload

import "context"

// Approver confirms destructive schema operations such as dropping tables
// or recreating the target database.
type Approver interface {
	// RequestApproval returns true when the operation on dbName may proceed.
	RequestApproval(ctx context.Context, dbName, action string) (bool, error)
}
