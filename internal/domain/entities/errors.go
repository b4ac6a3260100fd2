package entities

import "errors"

// Domain errors
var (
	// Input errors
	ErrEmptyAudio        = errors.New("audio buffer is empty")
	ErrInvalidSampleRate = errors.New("sample rate must be positive")

	// Configuration errors
	ErrUnknownMetric           = errors.New("unknown metric")
	ErrUnknownSpeechRateMethod = errors.New("unknown speech rate method")

	// Transcription errors
	ErrTranscriptionUnavailable = errors.New("transcription service not configured")
	ErrNoRawAudio               = errors.New("no raw audio provided for transcription")
)
