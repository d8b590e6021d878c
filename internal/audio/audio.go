package audio

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const ttsRequestTimeout = 10 * time.Second

// Service manages pre-recorded word audio. Words with an MP3 on disk are
// served as static files; the manifest marks the rest so the client falls
// back to on-device speech synthesis.
type Service struct {
	audioDir string
}

// NewService creates an audio service over a directory of word MP3s.
func NewService(audioDir string) *Service {
	return &Service{audioDir: audioDir}
}

// filename maps a word to its audio file name.
func (s *Service) filename(word string) string {
	sanitized := strings.ToLower(strings.TrimSpace(word))
	sanitized = strings.ReplaceAll(sanitized, " ", "_")
	return fmt.Sprintf("word_%s.mp3", sanitized)
}

// HasAudio reports whether a pre-recorded file exists for the word.
func (s *Service) HasAudio(word string) bool {
	_, err := os.Stat(filepath.Join(s.audioDir, s.filename(word)))
	return err == nil
}

// Manifest maps each word to its audio URL path, or to the empty string when
// the client must use speech synthesis.
func (s *Service) Manifest(words []string) map[string]string {
	manifest := make(map[string]string, len(words))
	for _, w := range words {
		if s.HasAudio(w) {
			manifest[w] = "/static/audio/" + s.filename(w)
		} else {
			manifest[w] = ""
		}
	}
	return manifest
}

// EnsureAudio generates any missing files for the words of a newly saved
// question set. Failures are logged, not fatal: the word just stays on the
// speech-synthesis fallback.
func (s *Service) EnsureAudio(words []string) {
	for _, word := range words {
		if s.HasAudio(word) {
			continue
		}
		path := filepath.Join(s.audioDir, s.filename(word))
		if err := s.fetchTTS(word, path); err != nil {
			log.Printf("Audio generation failed for %q: %v", word, err)
		}
	}
}

// fetchTTS fetches spoken audio for text from the Google Translate TTS
// endpoint and writes it to outputPath.
func (s *Service) fetchTTS(text, outputPath string) error {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", "en")
	params.Set("client", "tw-ob")
	params.Set("textlen", fmt.Sprintf("%d", len(text)))

	fullURL := "https://translate.google.com/translate_tts?" + params.Encode()

	ctx, cancel := context.WithTimeout(context.Background(), ttsRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	client := &http.Client{Timeout: ttsRequestTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := os.MkdirAll(s.audioDir, 0o755); err != nil {
		return fmt.Errorf("failed to create audio directory: %w", err)
	}
	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, resp.Body); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return nil
}
