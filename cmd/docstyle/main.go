// Package main provides the CLI entry point for docstyle-go.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ukaji3/docstyle-go/pkg/docstyle"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/config"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/logger"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/segment"
)

var (
	configPath  string
	logLevel    string
	logJSON     bool
	outputPath  string
	format      string
	contentPath string
	pageBreaks  string
	noPrefix    bool
	noHeaders   bool
	keepMarkup  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "docstyle",
		Short: "Restyle chat content with the formatting of a reference document",
		Long: `docstyle-go extracts fonts, paragraph roles, page layout, headers,
footers and table styling from a .docx, .pdf or .xlsx file and applies
them to a chat transcript, producing a new .docx.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error, disabled")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit logs as JSON")

	profileCmd := &cobra.Command{
		Use:   "profile [document]",
		Short: "Print the style profile of a document",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfile,
	}
	profileCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	profileCmd.Flags().StringVar(&format, "format", "json", "Output format: json, yaml")

	applyCmd := &cobra.Command{
		Use:   "apply [document]",
		Short: "Apply the styling of a document to chat content",
		Args:  cobra.ExactArgs(1),
		RunE:  runApply,
	}
	applyCmd.Flags().StringVarP(&contentPath, "content", "c", "", "Transcript (.txt) or messages (.json) file, - for stdin")
	applyCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output .docx path (default: configured filename)")
	applyCmd.Flags().StringVar(&pageBreaks, "page-breaks", "", "Page-break policy: density, none")
	applyCmd.Flags().BoolVar(&noPrefix, "no-prefix", false, "Do not prefix messages with role labels")
	applyCmd.Flags().BoolVar(&noHeaders, "no-headers", false, "Do not carry over headers and footers")
	applyCmd.Flags().BoolVar(&keepMarkup, "keep-markup", false, "Keep HTML markup in message text")
	_ = applyCmd.MarkFlagRequired("content")

	rootCmd.AddCommand(profileCmd, applyCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// setup loads configuration and builds options. Flags override the file.
func setup() (docstyle.Options, logger.Logger, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			return docstyle.Options{}, nil, err
		}
		cfg = loaded
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.ParseLevel(cfg.Log.Level)
	if logLevel != "" {
		logCfg.Level = logger.ParseLevel(logLevel)
	}
	logCfg.JSON = cfg.Log.JSON || logJSON
	log := logger.NewLogger(logCfg)

	return docstyle.OptionsFromConfig(cfg, log), log, nil
}

func runProfile(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	// Validate input file exists
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	opts, _, err := setup()
	if err != nil {
		return err
	}

	profile, err := docstyle.ExtractProfileFile(cmd.Context(), inputPath, opts)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	var data []byte
	switch format {
	case "json":
		data, err = json.MarshalIndent(profile, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(profile)
	default:
		return fmt.Errorf("invalid format: %s (must be json or yaml)", format)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(data), "\n"))
	return nil
}

func runApply(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	opts, log, err := setup()
	if err != nil {
		return err
	}
	switch pageBreaks {
	case "":
	case config.PageBreaksDensity, config.PageBreaksNone:
		opts.PageBreaks = docstyle.PageBreakPolicy(pageBreaks)
	default:
		return fmt.Errorf("invalid page-break policy: %s (must be density or none)", pageBreaks)
	}
	if noPrefix {
		opts.RolePrefix = boolPtr(false)
	}
	if noHeaders {
		opts.IncludeHeaderFooter = boolPtr(false)
	}
	if keepMarkup {
		opts.StripMarkup = boolPtr(false)
	}

	entries, err := readEntries(cmd.InOrStdin(), contentPath)
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}

	out, err := docstyle.Restyle(cmd.Context(), docstyle.Input{
		Filename: filepath.Base(inputPath),
		Data:     data,
		Entries:  entries,
	}, opts)
	if err != nil {
		result := docstyle.Report(err)
		log.Error(result.Message, "kind", result.ErrorKind)
		return err
	}

	target := outputPath
	if target == "" {
		target = out.Filename
	}
	if err := os.WriteFile(target, out.Data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	log.Info(out.Status.Message, "output", target)
	return nil
}

// readEntries loads chat content. JSON files hold message lists; anything
// else is a plain transcript.
func readEntries(stdin io.Reader, path string) ([]segment.Entry, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".json") || (path == "-" && json.Valid(data)) {
		return segment.DecodeEntries(data)
	}
	return segment.ParseTranscript(string(data)), nil
}

func boolPtr(b bool) *bool {
	return &b
}
