package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionEmitsLinesAsUtterances(t *testing.T) {
	in := strings.NewReader("hello\nwhat are your hours\n")
	session := NewSession(in, &bytes.Buffer{})
	defer session.Close()

	assert.Equal(t, "hello", receive(t, session.Utterances()))
	assert.Equal(t, "what are your hours", receive(t, session.Utterances()))

	_, open := <-session.Utterances()
	assert.False(t, open, "channel should close on EOF")
}

func TestSessionQuitEndsSession(t *testing.T) {
	in := strings.NewReader("quit\nnever seen\n")
	session := NewSession(in, &bytes.Buffer{})
	defer session.Close()

	_, open := <-session.Utterances()
	assert.False(t, open)
}

func TestSaySendsToOutput(t *testing.T) {
	var out bytes.Buffer
	session := NewSession(strings.NewReader(""), &out)
	defer session.Close()

	require.NoError(t, session.Say(context.Background(), "Welcome!"))
	assert.Equal(t, "Welcome!\n", out.String())
}

func TestSayHonoursCancelledContext(t *testing.T) {
	session := NewSession(strings.NewReader(""), &bytes.Buffer{})
	defer session.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, session.Say(ctx, "ignored"))
}

func receive(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for utterance")
		return ""
	}
}
