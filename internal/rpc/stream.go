package rpc

import (
	"context"
	"io"
	"sync"

	"go.lsp.dev/jsonrpc2"
)

// stub joins a reader and a writer, typically the stdout and stdin pipes of a
// language server process, into one connection.
type stub struct {
	r io.Reader
	w io.Writer
}

func (s stub) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

func (s stub) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

func (s stub) Close() error {
	var err1, err2 error
	if c, ok := s.r.(io.Closer); ok {
		err1 = c.Close()
	}

	if c, ok := s.w.(io.Closer); ok && any(s.w) != any(s.r) {
		err2 = c.Close()
	}

	if err1 != nil {
		return err1
	}
	return err2
}

type stream struct {
	s jsonrpc2.Stream
	l *sync.Mutex
}

func (s stream) Read(ctx context.Context) (jsonrpc2.Message, int64, error) {
	return s.s.Read(ctx)
}

func (s stream) Write(ctx context.Context, msg jsonrpc2.Message) (int64, error) {
	s.l.Lock()
	defer s.l.Unlock()
	return s.s.Write(ctx, msg)
}

func (s stream) Close() error {
	return s.s.Close()
}

// NewStream returns a header-framed JSON-RPC stream reading from r and writing
// to w. Writes are serialized.
func NewStream(r io.Reader, w io.Writer) jsonrpc2.Stream {
	return stream{
		s: jsonrpc2.NewStream(stub{r: r, w: w}),
		l: &sync.Mutex{},
	}
}
