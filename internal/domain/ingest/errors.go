package ingest

// parseError marks malformed provider data, which is contained to the item
// being processed rather than aborting the run like a storage fault does.
type parseError struct {
	err error
}

func (e *parseError) Error() string {
	return e.err.Error()
}

func (e *parseError) Unwrap() error {
	return e.err
}
