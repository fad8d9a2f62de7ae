package mines

/*
AssertionError signals a broken knowledge invariant: a sentence whose
count cannot be satisfied, or a cell classified both safe and mined.
It is raised as a panic deep inside propagation and recovered at the
public API boundary, since it indicates bad input, not a reasoning
edge case.
*/
type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}
