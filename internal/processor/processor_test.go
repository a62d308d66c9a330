package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/audio-brief/internal/audio"
	"github.com/nguyentantai21042004/audio-brief/internal/config"
	"github.com/nguyentantai21042004/audio-brief/internal/logger"
)

type fakeExecutor struct {
	err   error
	calls [][]string
}

// Execute pretends to be ffmpeg: it writes a small WAV at the output path,
// which is always the last argument.
func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.err != nil {
		return "", f.err
	}
	out := args[len(args)-1]
	return "", audio.WriteWAV(out, make([]int16, 441), 44100, 1)
}

func (f *fakeExecutor) LookPath(name string) (string, error) {
	return "/usr/bin/" + name, nil
}

type fakeSummarizer struct {
	err          error
	paths        []string
	instructions []string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, rec audio.Recording, instruction string) (string, error) {
	f.paths = append(f.paths, rec.Path)
	f.instructions = append(f.instructions, instruction)
	if f.err != nil {
		return "", f.err
	}
	return "## Key points\n\n- **Budget** approved\n- Launch in May", nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		Paths: config.PathsConfig{
			Temp:     filepath.Join(root, "temp"),
			Input:    filepath.Join(root, "input"),
			Output:   filepath.Join(root, "output"),
			Archived: filepath.Join(root, "archived"),
		},
		Instruction: config.InstructionConfig{Default: "Summarize the meeting."},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(cfg.Paths.Input, 0755); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func dropFile(t *testing.T, cfg *config.Config, name string) string {
	t.Helper()
	path := filepath.Join(cfg.Paths.Input, name)
	if err := os.WriteFile(path, []byte("RIFF fake audio"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestProcessWAV(t *testing.T) {
	cfg := testConfig(t)
	exec := &fakeExecutor{}
	sum := &fakeSummarizer{}
	p := New(cfg, exec, sum, logger.Discard())

	src := dropFile(t, cfg, "standup.wav")
	if err := p.Process(context.Background(), src); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if len(exec.calls) != 0 {
		t.Errorf("WAV input should not be converted, got %d ffmpeg call(s)", len(exec.calls))
	}
	if len(sum.paths) != 1 || sum.paths[0] != src {
		t.Errorf("summarized paths = %v, want [%s]", sum.paths, src)
	}
	if sum.instructions[0] != "Summarize the meeting." {
		t.Errorf("instruction = %q", sum.instructions[0])
	}

	md, err := os.ReadFile(filepath.Join(cfg.Paths.Output, "standup.md"))
	if err != nil {
		t.Fatalf("markdown not written: %v", err)
	}
	if !strings.HasPrefix(string(md), "# standup\n") || !strings.Contains(string(md), "**Budget** approved") {
		t.Errorf("unexpected markdown:\n%s", md)
	}
	if !exists(filepath.Join(cfg.Paths.Output, "standup.docx")) {
		t.Error("docx not written")
	}
	if exists(src) {
		t.Error("source should be moved out of the input folder")
	}
	if !exists(filepath.Join(cfg.Paths.Archived, "standup.wav")) {
		t.Error("source should be archived")
	}
}

func TestProcessConvertsOtherFormats(t *testing.T) {
	cfg := testConfig(t)
	exec := &fakeExecutor{}
	sum := &fakeSummarizer{}
	p := New(cfg, exec, sum, logger.Discard())

	src := dropFile(t, cfg, "call.m4a")
	if err := p.Process(context.Background(), src); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if len(exec.calls) != 1 || exec.calls[0][0] != "ffmpeg" {
		t.Fatalf("ffmpeg calls = %v", exec.calls)
	}
	args := strings.Join(exec.calls[0], " ")
	for _, want := range []string{"-i " + src, "-ar 44100", "-ac 1", "-c:a pcm_s16le"} {
		if !strings.Contains(args, want) {
			t.Errorf("ffmpeg args %q missing %q", args, want)
		}
	}

	converted := sum.paths[0]
	if filepath.Dir(converted) != cfg.Paths.Temp || filepath.Ext(converted) != ".wav" {
		t.Errorf("converted path = %s", converted)
	}
	if exists(converted) {
		t.Error("converted temp file should be removed")
	}
}

func TestProcessConversionFailure(t *testing.T) {
	cfg := testConfig(t)
	sum := &fakeSummarizer{}
	p := New(cfg, &fakeExecutor{err: errors.New("exit status 1")}, sum, logger.Discard())

	src := dropFile(t, cfg, "broken.mp3")
	err := p.Process(context.Background(), src)
	if !errors.Is(err, audio.ErrInvalidAudioFormat) {
		t.Fatalf("Process() error = %v, want ErrInvalidAudioFormat", err)
	}
	if len(sum.paths) != 0 {
		t.Error("summarizer should not be called when conversion fails")
	}
	if !exists(src) {
		t.Error("failed source should stay in the input folder")
	}
}

func TestProcessSummarizeFailure(t *testing.T) {
	cfg := testConfig(t)
	remoteErr := errors.New("quota exceeded")
	p := New(cfg, &fakeExecutor{}, &fakeSummarizer{err: remoteErr}, logger.Discard())

	src := dropFile(t, cfg, "notes.wav")
	if err := p.Process(context.Background(), src); !errors.Is(err, remoteErr) {
		t.Fatalf("Process() error = %v, want %v", err, remoteErr)
	}
	if exists(filepath.Join(cfg.Paths.Output, "notes.md")) {
		t.Error("no output should be written on failure")
	}
	if !exists(src) {
		t.Error("failed source should stay in the input folder")
	}
}

func TestMarkdownToDocx(t *testing.T) {
	out := filepath.Join(t.TempDir(), "summary.docx")
	md := "# Title\n\n- first **bold** point\n* second\n\n1. numbered\n---\nplain `code`"
	if err := markdownToDocx("Meeting", md, out); err != nil {
		t.Fatalf("markdownToDocx() error = %v", err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("docx is empty")
	}
}

func TestCleanMarkdownInline(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"**bold**", "bold"},
		{"__under__", "under"},
		{"use `go test`", "use go test"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := cleanMarkdownInline(tt.in); got != tt.want {
			t.Errorf("cleanMarkdownInline(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
