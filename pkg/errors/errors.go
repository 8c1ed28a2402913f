package errors

import "errors"

// ErrStatusConflict means a conditional status update matched zero rows: the
// record's delete_status changed underneath the caller (concurrent transition)
// between read and write.
var ErrStatusConflict = errors.New("record status changed by another operation, refresh and retry")
