package notifier

import (
	"context"
	"fmt"
	"io"

	"rent_radar/internal/digest"
)

// Writer prints the digest instead of delivering it.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (n *Writer) Notify(_ context.Context, d digest.Digest) error {
	_, err := fmt.Fprintf(n.w, "Subject: %s\n\n%s", d.Subject, d.Text)
	return err
}
