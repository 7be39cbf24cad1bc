package extract

import (
	"context"
	"io"
)

// StreamingBody hands the request body to the handler without buffering it.
// The byte ceiling applies cumulatively as the handler reads; crossing it
// mid-read fails with ErrPayloadTooLarge. The stream is single-pass and not
// restartable. Closing is optional, the server closes the underlying body
// when the request finishes.
type StreamingBody struct {
	Body io.ReadCloser
}

// Kind reports that streaming extraction consumes the request body.
func (*StreamingBody) Kind() Kind { return KindExclusive }

func (b *StreamingBody) Extract(ctx context.Context, src *Source) error {
	body, err := src.TakeBody()
	if err != nil {
		return err
	}
	b.Body = body
	return nil
}
