// Package speech synthesizes section text into MP3 audio through an
// external text-to-speech provider.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrProvider wraps any failure talking to the TTS provider; handlers map
// it to a 500.
var ErrProvider = errors.New("tts provider error")

// Synthesizer turns text into MP3 bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, language, voice string) ([]byte, error)
}

const (
	defaultVoice = "alloy"
	defaultModel = "tts-1"
	callTimeout  = 30 * time.Second
)

// languageCodes normalizes human-readable language names to BCP 47 codes
// stored alongside generated audio.
var languageCodes = map[string]string{
	"english":    "en-US",
	"spanish":    "es-US",
	"french":     "fr-FR",
	"german":     "de-DE",
	"italian":    "it-IT",
	"portuguese": "pt-BR",
	"japanese":   "ja-JP",
	"korean":     "ko-KR",
	"chinese":    "zh-CN",
	"arabic":     "ar",
	"hindi":      "hi-IN",
	"russian":    "ru-RU",
	"dutch":      "nl-NL",
	"swedish":    "sv-SE",
	"polish":     "pl-PL",
}

// NormalizeLanguage maps a language name or code to a normalized code.
// Unknown inputs default to en-US rather than failing the generation.
func NormalizeLanguage(language string) string {
	l := strings.ToLower(strings.TrimSpace(language))
	if code, ok := languageCodes[l]; ok {
		return code
	}
	if len(l) == 2 {
		if l == "en" {
			return "en-US"
		}
		return fmt.Sprintf("%s-%s", l, strings.ToUpper(l))
	}
	if strings.Contains(language, "-") {
		return language
	}
	return "en-US"
}

// HTTPSynthesizer calls a JSON-over-HTTP TTS API that answers with raw MP3
// bytes (OpenAI-compatible surface).
type HTTPSynthesizer struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     logrus.FieldLogger
}

func NewHTTPSynthesizer(baseURL, apiKey string, log logrus.FieldLogger) *HTTPSynthesizer {
	return &HTTPSynthesizer{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: callTimeout},
		log:     log.WithField("component", "speech"),
	}
}

type synthesisRequest struct {
	Model string `json:"model"`
	Voice string `json:"voice"`
	Input string `json:"input"`
}

func (s *HTTPSynthesizer) Synthesize(ctx context.Context, text, language, voice string) ([]byte, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("%w: API key not configured", ErrProvider)
	}
	if voice == "" {
		voice = defaultVoice
	}

	body, err := json.Marshal(synthesisRequest{Model: defaultModel, Voice: voice, Input: text})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrProvider, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	s.log.WithFields(logrus.Fields{"bytes": len(audio), "language": NormalizeLanguage(language), "voice": voice}).
		Info("generated speech audio")
	return audio, nil
}
