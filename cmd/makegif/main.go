package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gifmill/internal/config"
	"gifmill/internal/transcoder"

	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	deleteSource := flag.Bool("delete", false, "delete each source after all variants succeed")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: makegif [--config config.yaml] [-delete] FILE...")
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "makegif: %v\n", err)
		return 1
	}

	// Ctrl+C kills the in-flight ffmpeg rather than orphaning it
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	trans := transcoder.New(cfg)
	defer trans.Cleanup()

	failed := 0
	for _, file := range files {
		if !convertFile(ctx, trans, cfg, file, *deleteSource) {
			failed++
		}
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "makegif: %d of %d files failed\n", failed, len(files))
		return 1
	}
	return 0
}

// convertFile renders every configured variant of one file, reporting
// success only when all of them succeed.
func convertFile(ctx context.Context, trans *transcoder.Transcoder, cfg *config.Config, path string, deleteSource bool) bool {
	info, err := trans.Probe(ctx, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: probe failed: %v\n", path, err)
		return false
	}
	fmt.Printf("%s: %s %dx%d %.1fs @ %.2f fps\n", path, info.Codec, info.Width, info.Height, info.Duration, info.FrameRate)

	ok := true
	for _, dither := range cfg.DitherOptions {
		start := time.Now()
		out, err := trans.Convert(ctx, path, dither)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %-16s FAILED: %v\n", dither, err)
			ok = false
			continue
		}
		fmt.Printf("  %-16s %s (%v)\n", dither, out, time.Since(start).Round(time.Millisecond))
	}

	if !ok {
		fmt.Fprintf(os.Stderr, "%s: retained (not all variants succeeded)\n", path)
		return false
	}

	if deleteSource {
		if err := os.Remove(path); err != nil {
			fmt.Fprintf(os.Stderr, "%s: delete failed: %v\n", path, err)
			return false
		}
		fmt.Printf("%s: deleted\n", path)
	}

	return true
}
