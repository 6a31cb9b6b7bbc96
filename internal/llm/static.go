package llm

import "context"

// StaticClient returns a fixed reply or error. Used in tests and when no
// hosted model is configured.
type StaticClient struct {
	Reply string
	Err   error
}

// Complete returns the configured reply or error.
func (s *StaticClient) Complete(ctx context.Context, req Request) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	return s.Reply, nil
}
