package transcoder

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"gifmill/internal/config"
	"gifmill/internal/logging"
	"gifmill/internal/mediatypes"
)

// Transcoder builds and executes ffmpeg invocations for GIF conversion.
type Transcoder struct {
	ffmpegBin  string
	ffprobeBin string
	width      int
	fps        int

	processMu sync.Mutex
	processes map[int64]trackedProcess
	nextID    int64
}

type trackedProcess struct {
	source string
	cmd    *exec.Cmd
}

// New creates a Transcoder from the loaded configuration.
func New(cfg *config.Config) *Transcoder {
	return &Transcoder{
		ffmpegBin:  cfg.FFmpegBinary,
		ffprobeBin: cfg.FFprobeBinary,
		width:      cfg.Width,
		fps:        cfg.FPS,
		processes:  make(map[int64]trackedProcess),
	}
}

// Convert renders one GIF variant for the given video and dither using the
// two-pass palette pipeline, returning the output path. The palette is
// written to a unique scratch file beside the source and removed
// afterwards. Existing output at the deterministic path is overwritten.
func (t *Transcoder) Convert(ctx context.Context, filePath string, dither mediatypes.Dither) (string, error) {
	output := OutputPath(filePath, dither)

	palette, err := os.CreateTemp(filepath.Dir(filePath), ".palette-*.png")
	if err != nil {
		return "", fmt.Errorf("creating palette scratch file: %w", err)
	}
	palettePath := palette.Name()
	palette.Close()
	defer os.Remove(palettePath)

	if err := t.runFFmpeg(ctx, filePath, buildPaletteArgs(filePath, palettePath, t.width)); err != nil {
		return "", fmt.Errorf("palette generation for %s: %w", filePath, err)
	}

	if err := t.runFFmpeg(ctx, filePath, buildRenderArgs(filePath, palettePath, output, dither, t.width, t.fps)); err != nil {
		return "", fmt.Errorf("rendering %s: %w", output, err)
	}

	logging.Debug("Rendered %s", output)
	return output, nil
}

// runFFmpeg executes one ffmpeg invocation, tracking the process so
// Cleanup can kill it on shutdown. On failure the trailing stderr output
// is folded into the error.
func (t *Transcoder) runFFmpeg(ctx context.Context, source string, args []string) error {
	cmd := exec.CommandContext(ctx, t.ffmpegBin, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	id := t.track(source, cmd)
	defer t.untrack(id)

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg error: %w - %s", err, tail(stderr.String(), 512))
	}
	return nil
}

func (t *Transcoder) track(source string, cmd *exec.Cmd) int64 {
	t.processMu.Lock()
	defer t.processMu.Unlock()
	t.nextID++
	t.processes[t.nextID] = trackedProcess{source: source, cmd: cmd}
	return t.nextID
}

func (t *Transcoder) untrack(id int64) {
	t.processMu.Lock()
	defer t.processMu.Unlock()
	delete(t.processes, id)
}

// Cleanup stops all active conversion processes.
func (t *Transcoder) Cleanup() {
	t.processMu.Lock()
	defer t.processMu.Unlock()

	for _, p := range t.processes {
		if p.cmd.Process != nil {
			logging.Info("Killing conversion process for: %s", p.source)
			if err := p.cmd.Process.Kill(); err != nil {
				logging.Warn("failed to kill conversion process for %s: %v", p.source, err)
			}
		}
	}
}

// tail returns the last max bytes of s, trimmed of surrounding whitespace.
func tail(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max:]
}
