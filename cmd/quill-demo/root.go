package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/iw2rmb/quill"
	"github.com/iw2rmb/quill/config"
)

type options struct {
	configPath string
	debug      bool
	logFile    string
	text       string
}

func newRootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:     "quill-demo",
		Short:   "Edit text in two side-by-side quill sessions",
		Version: quill.BuildVersion(),
		Long: `quill-demo hosts two independent editing sessions in one terminal.

Tab moves focus between them, clicks focus the session under the pointer,
and ctrl+c quits. Sessions come from the presets in --config when given.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDemo(opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to a YAML or TOML config file")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "quill-demo.log", "log destination used with --debug")
	cmd.Flags().StringVar(&opts.text, "text", "", "initial text for the first session")

	return cmd
}

func runDemo(opts options) error {
	file := config.Default()
	if opts.configPath != "" {
		var err error
		if file, err = config.Load(opts.configPath); err != nil {
			return err
		}
	}

	var logOut io.Writer = io.Discard
	if opts.debug {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, opts.debug)
	quill.SetLogger(logger)
	defer quill.SetLogger(nil)
	logger.Info("starting", FieldVersion, quill.BuildVersion(), FieldConfig, opts.configPath)

	m, err := newModel(file, opts.text, newClipboard(os.Stderr))
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
