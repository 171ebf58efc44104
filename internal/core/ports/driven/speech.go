package driven

import "context"

// SpeechSession is an opaque real-time voice session. The audio
// pipeline behind it (speech-to-text, text-to-speech, voice activity
// detection, turn taking) is an external collaborator; the core only
// sees committed text utterances and replies with text.
type SpeechSession interface {
	// Utterances emits each committed user utterance as text.
	// The channel closes when the session ends.
	Utterances() <-chan string

	// Say speaks a reply to the participant.
	Say(ctx context.Context, text string) error

	// Close ends the session.
	Close() error
}
