package input

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jmylchreest/uisync/internal/engine"
)

// maxInputSize caps how much a single import may read.
const maxInputSize = 10 << 20

// StdinAdapter reads key/value pairs from a stream, standard input unless
// another reader is given.
type StdinAdapter struct {
	reader io.Reader
}

// NewStdinAdapter reads from os.Stdin.
func NewStdinAdapter() *StdinAdapter {
	return NewStdinAdapterWithReader(os.Stdin)
}

// NewStdinAdapterWithReader reads from r.
func NewStdinAdapterWithReader(r io.Reader) *StdinAdapter {
	return &StdinAdapter{reader: r}
}

func (a *StdinAdapter) Name() string { return "stdin" }

// Import reads the stream to EOF and hands it to Parse. A cancelled ctx
// abandons the read; the reader itself is left open.
func (a *StdinAdapter) Import(ctx context.Context) ([]engine.KeyValue, error) {
	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := io.ReadAll(io.LimitReader(a.reader, maxInputSize+1))
		done <- result{data, err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-done:
	}

	if res.err != nil {
		return nil, &AdapterError{Source: a.Name(), Message: "failed to read stdin", Err: res.err}
	}
	if len(res.data) > maxInputSize {
		return nil, &AdapterError{Source: a.Name(), Message: fmt.Sprintf("input exceeds %d bytes", maxInputSize)}
	}
	return Parse(a.Name(), res.data)
}
