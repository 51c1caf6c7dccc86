package speech

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLanguage(t *testing.T) {
	assert.Equal(t, "en-US", NormalizeLanguage("English"))
	assert.Equal(t, "en-US", NormalizeLanguage("  english "))
	assert.Equal(t, "es-US", NormalizeLanguage("Spanish"))
	assert.Equal(t, "en-US", NormalizeLanguage("en"))
	assert.Equal(t, "fr-FR", NormalizeLanguage("fr"))
	assert.Equal(t, "pt-BR", NormalizeLanguage("pt-BR"))
	assert.Equal(t, "en-US", NormalizeLanguage("klingon"))
}

func testSynthLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func TestSynthesize(t *testing.T) {
	var gotAuth string
	var gotReq synthesisRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	s := NewHTTPSynthesizer(srv.URL, "test-key", testSynthLogger())
	audio, err := s.Synthesize(context.Background(), "hello world", "English", "")
	require.NoError(t, err)

	assert.Equal(t, []byte("mp3-bytes"), audio)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "hello world", gotReq.Input)
	assert.Equal(t, defaultVoice, gotReq.Voice)
}

func TestSynthesizeProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "voice not available", http.StatusBadRequest)
	}))
	defer srv.Close()

	s := NewHTTPSynthesizer(srv.URL, "test-key", testSynthLogger())
	_, err := s.Synthesize(context.Background(), "hello", "English", "nope")
	require.ErrorIs(t, err, ErrProvider)
	assert.Contains(t, err.Error(), "voice not available")
}

func TestSynthesizeMissingKey(t *testing.T) {
	s := NewHTTPSynthesizer("https://tts.example.com", "", testSynthLogger())
	_, err := s.Synthesize(context.Background(), "hello", "English", "")
	assert.ErrorIs(t, err, ErrProvider)
}
