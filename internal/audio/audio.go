package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// audio chunk info
type ChunkInfo struct {
	Path      string
	Index     int
	StartTime time.Duration
	EndTime   time.Duration
}

// settings for preparing audio for the neural tools
type PrepareOptions struct {
	SampleRate int // sample rate in Hz
	Channels   int // 1=mono, 2=stereo
}

// 16 kHz mono is what faster-whisper and pyannote expect
func DefaultPrepareOptions() PrepareOptions {
	return PrepareOptions{
		SampleRate: 16000,
		Channels:   1,
	}
}

// JSON output from ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Duration probes the length of an audio or video file.
func Duration(filePath string) (time.Duration, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return 0, fmt.Errorf("file not found: %s", filePath)
	}

	cmd := exec.Command("ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		filePath,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe ffprobeOutput
	if err := json.Unmarshal(out.Bytes(), &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	var seconds float64
	if _, err := fmt.Sscanf(probe.Format.Duration, "%f", &seconds); err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

// Prepare downmixes and resamples a recording into a WAV file the
// transcription and diarization tools can consume directly.
func Prepare(ctx context.Context, inputPath, outputPath string, opts PrepareOptions) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	kwargs := ffmpeg.KwArgs{
		"vn":     "",
		"ar":     opts.SampleRate,
		"ac":     opts.Channels,
		"acodec": "pcm_s16le",
		"y":      "",
	}

	err := ffmpeg.Input(inputPath).
		Output(outputPath, kwargs).
		OverWriteOutput().
		Run()
	if err != nil {
		return fmt.Errorf("audio preparation failed: %w", err)
	}

	return nil
}

// ChunkAudio splits an audio file into fixed-duration chunks for parallel
// API transcription. Chunks are cut with stream copy for speed.
func ChunkAudio(
	ctx context.Context,
	audioPath string,
	chunkDuration time.Duration,
	outputDir string,
) ([]ChunkInfo, error) {
	if chunkDuration <= 0 {
		return nil, fmt.Errorf("chunk duration must be positive, got %v", chunkDuration)
	}
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	totalDuration, err := Duration(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get audio duration: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	ext := filepath.Ext(audioPath)

	type job struct {
		index      int
		start, end time.Duration
		path       string
	}

	var jobs []job
	for i := 0; ; i++ {
		start := time.Duration(i) * chunkDuration
		if start >= totalDuration {
			break
		}
		end := start + chunkDuration
		if end > totalDuration {
			end = totalDuration
		}
		jobs = append(jobs, job{
			index: i,
			start: start,
			end:   end,
			path: filepath.Join(
				outputDir,
				fmt.Sprintf("%s_chunk_%03d%s", baseName, i, ext),
			),
		})
	}

	var (
		mu       sync.Mutex
		chunks   []ChunkInfo
		firstErr error
		wg       sync.WaitGroup
	)
	sem := make(chan struct{}, 4)

	for _, j := range jobs {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}

			err := ffmpeg.Input(audioPath).
				Output(j.path, ffmpeg.KwArgs{
					"ss": j.start.Seconds(),
					"t":  (j.end - j.start).Seconds(),
					"c":  "copy",
					"y":  "",
				}).
				OverWriteOutput().
				Run()

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("failed to create chunk %d: %w", j.index, err)
				}
				return
			}
			chunks = append(chunks, ChunkInfo{
				Path:      j.path,
				Index:     j.index,
				StartTime: j.start,
				EndTime:   j.end,
			})
		}(j)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Index < chunks[j].Index
	})

	return chunks, nil
}

// CleanupChunks removes all chunk files.
func CleanupChunks(chunks []ChunkInfo) error {
	var lastErr error
	for _, chunk := range chunks {
		if err := os.Remove(chunk.Path); err != nil && !os.IsNotExist(err) {
			lastErr = err
		}
	}
	return lastErr
}

// IsAudioFile checks the extension against common audio container types.
func IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	audioExts := map[string]bool{
		".mp3":  true,
		".wav":  true,
		".aac":  true,
		".flac": true,
		".ogg":  true,
		".m4a":  true,
		".opus": true,
	}
	return audioExts[ext]
}

// IsMediaFile reports whether the file is audio or a video container a
// meeting recording might arrive in.
func IsMediaFile(path string) bool {
	if IsAudioFile(path) {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	videoExts := map[string]bool{
		".mp4":  true,
		".mkv":  true,
		".mov":  true,
		".webm": true,
	}
	return videoExts[ext]
}
