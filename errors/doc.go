/*
Package errors provides the semantic error taxonomy shared by the codec, the
storage port and the planner.

Every failure surfaces typed. Callers branch with the standard errors.Is()
function or the provided helpers:

	var (
	    ErrMissingField         = errors.New("missing field")
	    ErrTypeMismatch         = errors.New("type mismatch")
	    ErrInvalidCursor        = errors.New("invalid cursor")
	    ErrItemAlreadyExists    = errors.New("item already exists")
	    ErrItemNotFound         = errors.New("item not found")
	    ErrVersionMismatch      = errors.New("version mismatch")
	    ErrUnsupportedOperation = errors.New("unsupported operation")
	    ErrRequirementNotFound  = errors.New("requirement not found")
	    ErrBackendUnavailable   = errors.New("backend unavailable")
	)

Usage:

	write, err := item.SaveUpdate()
	if err != nil {
	    return err
	}
	err = store.WriteSingle(ctx, write)
	switch {
	case errors.IsConditionFailed(err):
	    // re-read, re-apply, retry: retrying is a caller policy
	case err != nil:
	    return err
	}

The typed errors keep their context (table, key, versions) and still match
their sentinel through any amount of fmt.Errorf("...: %w") wrapping.
*/
package errors
