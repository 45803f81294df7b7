package edgetts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestSynthesizeArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "cue-001.mp3")

	cli := NewCLI("edge-tts", nil)
	var gotName string
	var gotArgs []string
	cli.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = append([]string(nil), args...)
		return os.WriteFile(output, []byte("mp3"), 0o644)
	})

	res, err := cli.Synthesize(context.Background(), Request{
		Text:       "你好，世界",
		Voice:      "zh-CN-XiaoxiaoNeural",
		Rate:       "-10%",
		Volume:     "+5%",
		OutputPath: output,
	})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if res.Path != output {
		t.Fatalf("Result.Path = %q, want %q", res.Path, output)
	}
	if gotName != "edge-tts" {
		t.Fatalf("binary = %q", gotName)
	}
	want := []string{
		"--text", "你好，世界",
		"--voice", "zh-CN-XiaoxiaoNeural",
		"--rate=-10%",
		"--volume=+5%",
		"--write-media", output,
	}
	if !reflect.DeepEqual(gotArgs, want) {
		t.Fatalf("argument mismatch\n got: %v\nwant: %v", gotArgs, want)
	}
}

func TestSynthesizeDefaultsModifiers(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "cue.mp3")

	cli := NewCLI("", nil)
	var gotArgs []string
	cli.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotArgs = append([]string(nil), args...)
		return os.WriteFile(output, []byte("mp3"), 0o644)
	})

	if _, err := cli.Synthesize(context.Background(), Request{
		Text:       "hello",
		Voice:      "en-US-AriaNeural",
		OutputPath: output,
	}); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	joined := strings.Join(gotArgs, " ")
	if !strings.Contains(joined, "--rate=+0%") || !strings.Contains(joined, "--volume=+0%") {
		t.Fatalf("expected default modifiers, args: %v", gotArgs)
	}
}

func TestSynthesizeValidation(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "cue.mp3")

	cases := []struct {
		name string
		req  Request
		want string
	}{
		{"empty text", Request{Voice: "en-US-AriaNeural", OutputPath: output}, "text is required"},
		{"blank text", Request{Text: "  \n", Voice: "en-US-AriaNeural", OutputPath: output}, "text is required"},
		{"malformed voice", Request{Text: "hi", Voice: "AriaNeural", OutputPath: output}, "lang-REGION-Name"},
		{"bad rate", Request{Text: "hi", Voice: "en-US-AriaNeural", Rate: "fast", OutputPath: output}, "rate"},
		{"bad volume", Request{Text: "hi", Voice: "en-US-AriaNeural", Volume: "11", OutputPath: output}, "volume"},
		{"missing output", Request{Text: "hi", Voice: "en-US-AriaNeural"}, "output path"},
	}

	cli := NewCLI("edge-tts", nil)
	cli.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		t.Fatal("runner should not be invoked for invalid requests")
		return nil
	})

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := cli.Synthesize(context.Background(), tc.req)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q error, got %v", tc.want, err)
			}
		})
	}
}

func TestSynthesizeRunnerFailureRemovesOutput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "cue.mp3")

	cli := NewCLI("edge-tts", nil)
	cli.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		if err := os.WriteFile(output, []byte("partial"), 0o644); err != nil {
			return err
		}
		return errors.New("exit status 1: 403 Forbidden")
	})

	_, err := cli.Synthesize(context.Background(), Request{
		Text:       "hi",
		Voice:      "en-US-AriaNeural",
		OutputPath: output,
	})
	if err == nil || !strings.Contains(err.Error(), "edge-tts failed") {
		t.Fatalf("expected failure error, got %v", err)
	}
	if !strings.Contains(err.Error(), "403") {
		t.Fatalf("diagnostic output missing from error: %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatalf("partial output should be removed, stat err = %v", statErr)
	}
}

func TestSynthesizeEmptyOutputRejected(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "cue.mp3")

	cli := NewCLI("edge-tts", nil)
	cli.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return os.WriteFile(output, nil, 0o644)
	})

	_, err := cli.Synthesize(context.Background(), Request{
		Text:       "hi",
		Voice:      "en-US-AriaNeural",
		OutputPath: output,
	})
	if err == nil || !strings.Contains(err.Error(), "empty file") {
		t.Fatalf("expected empty-file error, got %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatalf("empty output should be removed, stat err = %v", statErr)
	}
}

func TestSynthesizeCreatesOutputDirectory(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "clips", "nested", "cue.mp3")

	cli := NewCLI("edge-tts", nil)
	cli.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return os.WriteFile(output, []byte("mp3"), 0o644)
	})

	if _, err := cli.Synthesize(context.Background(), Request{
		Text:       "hi",
		Voice:      "en-US-AriaNeural",
		OutputPath: output,
	}); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
}
