package transcription

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/santhosh-thouda/podcast-summarizer/config"
	"github.com/santhosh-thouda/podcast-summarizer/storage"
)

func writeAudio(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("fake audio"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenAITranscriber(t *testing.T) {
	var gotModel, gotFilename string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("failed to parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		if _, header, err := r.FormFile("file"); err == nil {
			gotFilename = header.Filename
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"text": " Hello from the podcast. "})
	}))
	defer srv.Close()

	tr := NewOpenAITranscriber("sk-test", srv.URL+"/v1/", "", nil)
	text, err := tr.Transcribe(context.Background(), writeAudio(t, "episode.mp3"))
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	if text != "Hello from the podcast." {
		t.Errorf("unexpected text %q", text)
	}
	if gotModel != "whisper-1" {
		t.Errorf("expected whisper-1, got %q", gotModel)
	}
	if gotFilename != "episode.mp3" {
		t.Errorf("expected episode.mp3 upload, got %q", gotFilename)
	}
}

func TestOpenAITranscriberError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	tr := NewOpenAITranscriber("bad", srv.URL+"/v1", "whisper-1", nil)
	_, err := tr.Transcribe(context.Background(), writeAudio(t, "a.wav"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Incorrect API key") {
		t.Errorf("expected API message in error, got %v", err)
	}
}

type fakeRunner struct {
	calls  [][]string
	output string
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.err != nil {
		return nil, f.err
	}
	for i, arg := range args {
		if arg == "-of" && i+1 < len(args) {
			if err := os.WriteFile(args[i+1]+".txt", []byte(f.output), 0o600); err != nil {
				return nil, err
			}
		}
	}
	return nil, nil
}

func (f *fakeRunner) RunWithInput(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error) {
	return f.Run(ctx, name, args...)
}

type fakeExtractor struct {
	calls int
	err   error
}

func (f *fakeExtractor) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(audioPath, []byte("wav"), 0o600)
}

func newCommandDeps(t *testing.T, runner *fakeRunner, extractor *fakeExtractor) (Dependencies, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "tmp")
	tempDir, err := storage.NewTempDir(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	return Dependencies{Runner: runner, Extractor: extractor, TempDir: tempDir}, dir
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no leftover files, found %d", len(entries))
	}
}

func TestCommandTranscriberWav(t *testing.T) {
	runner := &fakeRunner{output: " Hello world.\n And goodbye.\n\n"}
	extractor := &fakeExtractor{}
	deps, dir := newCommandDeps(t, runner, extractor)

	tr, err := NewCommandTranscriber(CommandConfig{Binary: "whisper-cli", ModelPath: "/models/tiny.bin"}, deps)
	if err != nil {
		t.Fatal(err)
	}

	text, err := tr.Transcribe(context.Background(), writeAudio(t, "speech.wav"))
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "Hello world. And goodbye." {
		t.Errorf("unexpected text %q", text)
	}
	if extractor.calls != 0 {
		t.Errorf("wav input should not be converted")
	}
	if runner.calls[0][0] != "whisper-cli" {
		t.Errorf("expected whisper-cli, got %v", runner.calls[0])
	}
	assertEmptyDir(t, dir)
}

func TestCommandTranscriberConvertsOtherFormats(t *testing.T) {
	runner := &fakeRunner{output: "converted"}
	extractor := &fakeExtractor{}
	deps, dir := newCommandDeps(t, runner, extractor)

	tr, err := NewCommandTranscriber(CommandConfig{Binary: "whisper-cli", ModelPath: "m.bin"}, deps)
	if err != nil {
		t.Fatal(err)
	}

	text, err := tr.Transcribe(context.Background(), writeAudio(t, "speech.m4a"))
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "converted" {
		t.Errorf("unexpected text %q", text)
	}
	if extractor.calls != 1 {
		t.Errorf("expected one conversion, got %d", extractor.calls)
	}
	assertEmptyDir(t, dir)
}

func TestCommandTranscriberFailureCleansUp(t *testing.T) {
	runner := &fakeRunner{err: errors.New("model not found")}
	deps, dir := newCommandDeps(t, runner, &fakeExtractor{})

	tr, err := NewCommandTranscriber(CommandConfig{Binary: "whisper-cli", ModelPath: "m.bin"}, deps)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := tr.Transcribe(context.Background(), writeAudio(t, "speech.mp3")); err == nil {
		t.Fatal("expected error")
	}
	assertEmptyDir(t, dir)
}

func TestNew(t *testing.T) {
	deps, _ := newCommandDeps(t, &fakeRunner{}, &fakeExtractor{})

	tr, err := New(config.TranscriberConfig{Backend: config.TranscriberOpenAI, OpenAIAPIKey: "sk"}, deps)
	if err != nil {
		t.Fatalf("New(openai) error = %v", err)
	}
	if _, ok := tr.(*OpenAITranscriber); !ok {
		t.Errorf("expected *OpenAITranscriber, got %T", tr)
	}

	tr, err = New(config.TranscriberConfig{Backend: config.TranscriberCommand, WhisperBinary: "w", ModelPath: "m"}, deps)
	if err != nil {
		t.Fatalf("New(command) error = %v", err)
	}
	if _, ok := tr.(*CommandTranscriber); !ok {
		t.Errorf("expected *CommandTranscriber, got %T", tr)
	}

	if _, err := New(config.TranscriberConfig{Backend: "nope"}, deps); err == nil {
		t.Error("expected error for unknown backend")
	}
}
