package train

import "errors"

// Sentinel errors for training setup and per-batch validation. Wrap with
// fmt.Errorf("%w: ...") and test with errors.Is.
var (
	// ErrConfiguration reports invalid training setup: a missing model,
	// loss, optimizer or data source, or a non-positive epoch count.
	ErrConfiguration = errors.New("invalid training configuration")

	// ErrShapeMismatch reports a batch whose flattened input width does
	// not match the model's expected input width. The check runs before
	// the forward pass, so nothing is recorded and parameters are
	// untouched.
	ErrShapeMismatch = errors.New("input shape mismatch")
)
