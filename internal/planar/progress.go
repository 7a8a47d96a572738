package planar

// Progress is called synchronously once per scanned row or column. Returning
// false aborts the running operation with a KindAborted error. A nil
// Progress is never called.
type Progress func() bool

// Tick calls p and converts a false return into an abort error for op.
func (p Progress) Tick(op string) error {
	if p != nil && !p() {
		return &Error{Kind: KindAborted, Op: op, Err: ErrAborted}
	}
	return nil
}
