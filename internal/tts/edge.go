package tts

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/aladhefafalquran/tts/internal/config"
)

// EdgeProvider drives the edge-tts command line client.
type EdgeProvider struct {
	// Command is the executable plus any leading arguments,
	// e.g. ["python3", "-m", "edge_tts"].
	Command []string
	// Default voice if none provided
	DefaultVoice string
}

func NewEdgeProvider(cfg *config.Config) *EdgeProvider {
	command := strings.Fields(cfg.EdgeCommand)
	if len(command) == 0 {
		command = []string{"edge-tts"}
	}
	voice := cfg.DefaultVoice
	if voice == "" {
		voice = "en-US-AriaNeural"
	}
	return &EdgeProvider{
		Command:      command,
		DefaultVoice: voice,
	}
}

func (e *EdgeProvider) Name() string { return string(EngineEdge) }

// Args builds the CLI arguments. Values are attached with '=' so that text or
// rates starting with '-' are not parsed as flags.
func (e *EdgeProvider) Args(text, outputPath, voiceName string, opts Options) []string {
	if voiceName == "" {
		voiceName = e.DefaultVoice
	}
	args := make([]string, 0, len(e.Command)+3)
	args = append(args, e.Command[1:]...)
	args = append(args,
		"--text="+text,
		"--voice="+voiceName,
		"--write-media="+outputPath,
	)
	if opts.Rate != "" {
		args = append(args, "--rate="+opts.Rate)
	}
	return args
}

func (e *EdgeProvider) Synthesize(ctx context.Context, text, outputPath, voiceName string, opts Options) error {
	cmd := exec.CommandContext(ctx, e.Command[0], e.Args(text, outputPath, voiceName, opts)...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("edge-tts synthesis timed out")
		}
		return fmt.Errorf("edge-tts cli failed: %w, output: %s", err, strings.TrimSpace(string(output)))
	}

	if err := verifyOutput(outputPath); err != nil {
		if errors.Is(err, ErrEmptyAudio) {
			return fmt.Errorf("edge-tts generated empty file, output: %s: %w", strings.TrimSpace(string(output)), err)
		}
		return fmt.Errorf("failed to stat output file: %w", err)
	}
	return nil
}
