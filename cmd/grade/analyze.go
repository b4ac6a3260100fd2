package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/johnquangdev/speech-coach/internal/adapter/dto/analysis"
	"github.com/johnquangdev/speech-coach/internal/adapter/presenter"
	"github.com/johnquangdev/speech-coach/internal/domain/entities"
	"github.com/johnquangdev/speech-coach/internal/usecase/scoring"
	pkgai "github.com/johnquangdev/speech-coach/pkg/ai"
	"github.com/johnquangdev/speech-coach/pkg/audio"
	"github.com/johnquangdev/speech-coach/pkg/config"
)

// definitionsFile is the YAML layout accepted by --definitions
type definitionsFile struct {
	Definitions []analysis.MetricDefinitionRequest `yaml:"definitions"`
}

type analyzeOptions struct {
	definitions string
	method      string
	asJSON      bool
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <file.wav>",
		Short: "Grade a WAV recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, root, opts, args[0])
		},
	}
	cmd.Flags().StringVar(&opts.definitions, "definitions", "", "YAML file overriding metric definitions")
	cmd.Flags().StringVar(&opts.method, "method", "", "speech rate method (energy_peaks, zero_crossing_rate, remote_transcription)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the full result as JSON")
	return cmd
}

func runAnalyze(cmd *cobra.Command, root *rootOptions, opts *analyzeOptions, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	buf, err := audio.DecodeWAVBytes(data)
	if err != nil {
		return err
	}

	set, err := buildDefinitions(opts.definitions, opts.method)
	if err != nil {
		return err
	}

	logger := root.logger()
	defer logger.Sync()

	var transcriber pkgai.Transcriber
	var timeout time.Duration
	if set.SpeechRateMethod() == entities.MethodRemoteTranscription {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		timeout = cfg.Scoring.TranscriptionTimeout
		switch strings.ToLower(cfg.Scoring.Transcriber) {
		case "assemblyai":
			transcriber = pkgai.NewAssemblyAITranscriber(&cfg.Assembly, logger)
		case "http":
			transcriber = pkgai.NewSpeechServiceClient(&cfg.Transcription, logger)
		default:
			return fmt.Errorf("remote_transcription needs SCORING_TRANSCRIBER=assemblyai or http")
		}
	}

	svc := scoring.NewService(nil, transcriber, timeout, logger)
	result, err := svc.AnalyzeWithDefinitions(cmd.Context(), scoring.Input{
		Buffer:      buf,
		RawAudio:    data,
		ContentType: audio.WAVContentType,
	}, set)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(presenter.ToAnalysisResponse(result))
	}
	return printReport(cmd.OutOrStdout(), result)
}

// buildDefinitions loads the optional YAML overrides and applies --method last
func buildDefinitions(path, method string) (entities.MetricSet, error) {
	set := entities.DefaultMetricSet()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return set, fmt.Errorf("read definitions: %w", err)
		}
		var file definitionsFile
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return set, fmt.Errorf("parse definitions: %w", err)
		}
		if set, err = analysis.ApplyDefinitions(set, file.Definitions); err != nil {
			return set, fmt.Errorf("definitions: %w", err)
		}
	}

	if method != "" {
		m, err := entities.ParseSpeechRateMethod(method)
		if err != nil {
			return set, err
		}
		def := set.Get(entities.MetricSpeechRate)
		def.Method = m
		set = set.With(def)
	}
	return set, nil
}

func printReport(w io.Writer, r *entities.AnalysisResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Overall\t%d\t%s\n", r.OverallScore, r.EmotionalFeedback)
	fmt.Fprintf(tw, "Volume\t%d\t%.1f dB (%s)\n", r.Volume.Score, r.Volume.DB, r.Volume.Tag)
	fmt.Fprintf(tw, "Speech rate\t%d\t%.0f wpm via %s (%s)\n", r.SpeechRate.Score, r.SpeechRate.WordsPerMinute, r.SpeechRate.Method, r.SpeechRate.Tag)
	fmt.Fprintf(tw, "Acceleration\t%d\t%s\n", r.Acceleration.Score, r.Acceleration.Tag)
	fmt.Fprintf(tw, "Response latency\t%d\t%.0f ms (%s)\n", r.ResponseLatency.Score, r.ResponseLatency.ResponseTimeMs, r.ResponseLatency.Tag)
	fmt.Fprintf(tw, "Pauses\t%d\t%d pauses, longest %.2fs (%s)\n", r.PauseManagement.Score, r.PauseManagement.PauseCount, r.PauseManagement.LongestPause, r.PauseManagement.Tag)
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, f := range r.Feedback {
		fmt.Fprintf(w, "• %s\n", f)
	}
	return nil
}
