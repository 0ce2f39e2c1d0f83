package domain

import "context"

// AudioSource downloads the audio track of a video into dir.
// Every failure is reported as a DownloadError.
type AudioSource interface {
	Fetch(ctx context.Context, ref VideoReference, dir string) (*AudioArtifact, error)
}

// SpeechRecognizer converts an audio artifact to text.
// Every failure is reported as a TranscriptionError.
type SpeechRecognizer interface {
	Transcribe(ctx context.Context, artifact *AudioArtifact) (Transcript, error)
}
