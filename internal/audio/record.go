package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// settings for capturing a meeting from an input device
type RecordOptions struct {
	SampleRate  int
	Channels    int
	MaxDuration time.Duration // 0 means record until cancelled
}

func DefaultRecordOptions() RecordOptions {
	return RecordOptions{
		SampleRate: 16000,
		Channels:   1,
	}
}

// captureFormat returns the ffmpeg input format for the host platform.
func captureFormat() string {
	switch runtime.GOOS {
	case "darwin":
		return "avfoundation"
	case "windows":
		return "dshow"
	default:
		return "pulse"
	}
}

// DefaultDevice returns the platform default capture device name.
func DefaultDevice() string {
	switch runtime.GOOS {
	case "darwin":
		return ":0"
	case "windows":
		return "audio=default"
	default:
		return "default"
	}
}

// Record captures audio from an input device until the context is
// cancelled or MaxDuration elapses. ffmpeg is interrupted rather than
// killed so it finalizes the output container cleanly.
func Record(ctx context.Context, device, outputPath string, opts RecordOptions) error {
	if device == "" {
		device = DefaultDevice()
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outKwargs := ffmpeg.KwArgs{
		"ar": opts.SampleRate,
		"ac": opts.Channels,
		"y":  "",
	}
	if opts.MaxDuration > 0 {
		outKwargs["t"] = opts.MaxDuration.Seconds()
	}

	cmd := ffmpeg.Input(device, ffmpeg.KwArgs{"f": captureFormat()}).
		Output(outputPath, outKwargs).
		OverWriteOutput().
		Compile()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg capture: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		_ = cmd.Process.Signal(os.Interrupt)
		// interrupt is the expected stop path, so a non-zero exit here is
		// not a failure as long as the file was written
		<-done
		if _, err := os.Stat(outputPath); err != nil {
			return fmt.Errorf("capture produced no output: %w", err)
		}
		return nil
	case err := <-done:
		if err != nil {
			return fmt.Errorf("ffmpeg capture failed: %w", err)
		}
		return nil
	}
}
