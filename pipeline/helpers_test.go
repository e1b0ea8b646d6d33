package pipeline

// closeRecorder counts Close calls on the wrapped iterator and fails them
// with err when it is set.
type closeRecorder[T any] struct {
	Iterator[T]
	err    error
	closed int
}

func (c *closeRecorder[T]) Close() error {
	c.closed++
	return c.err
}
