// Package console implements a speech session over a terminal: each
// line typed is a committed utterance, replies are printed. It stands
// in for the real-time audio pipeline during development and tests.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/conversate-labs/conversate/internal/core/ports/driven"
)

// Ensure Session implements the interface.
var _ driven.SpeechSession = (*Session)(nil)

// Session adapts line-oriented text I/O to the speech session port.
type Session struct {
	out        io.Writer
	utterances chan string

	closeOnce sync.Once
	closed    chan struct{}
}

// NewSession starts reading utterances from in. Typing "quit" or
// "exit" ends the session, as does EOF.
func NewSession(in io.Reader, out io.Writer) *Session {
	s := &Session{
		out:        out,
		utterances: make(chan string),
		closed:     make(chan struct{}),
	}
	go s.read(in)
	return s
}

func (s *Session) read(in io.Reader) {
	defer close(s.utterances)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			return
		}
		select {
		case s.utterances <- line:
		case <-s.closed:
			return
		}
	}
}

// Utterances emits each line as a committed utterance. The channel
// closes on EOF, a quit command, or Close.
func (s *Session) Utterances() <-chan string {
	return s.utterances
}

// Say prints a reply.
func (s *Session) Say(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(s.out, "%s\n", text)
	return err
}

// Close ends the session.
func (s *Session) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	return nil
}
