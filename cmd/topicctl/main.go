// Command topicctl checks and exports curriculum topic files.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/pai-topics/internal/curriculum"
	"github.com/p-n-ai/pai-topics/internal/editor"
	"github.com/p-n-ai/pai-topics/internal/export"
)

// errIssuesFound makes validate exit non-zero after printing issues.
var errIssuesFound = errors.New("topics have validation issues")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "topicctl",
		Short:         "Validate and export curriculum topics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log curriculum loading details")
	root.AddCommand(newValidateCmd(), newExportCmd())
	return root
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <dir>",
		Short: "Print validation issues for every topic under dir",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := curriculum.NewLoader(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			entries := loader.AllTopics()
			failed := 0
			for _, e := range entries {
				s, err := openSession(e)
				if err != nil {
					failed++
					fmt.Fprintf(out, "%s: %v\n", e.ID(), err)
					continue
				}
				issues := s.Issues()
				if len(issues) == 0 {
					fmt.Fprintf(out, "%s: ok\n", e.ID())
					continue
				}
				failed++
				for _, issue := range issues {
					fmt.Fprintf(out, "%s: %s\n", e.ID(), issue)
				}
			}

			fmt.Fprintf(out, "%d topic(s) checked, %d with issues\n", len(entries), failed)
			if failed > 0 {
				return errIssuesFound
			}
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir> <topic-id> <out.xlsx>",
		Short: "Write a topic outline workbook",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, id, outPath := args[0], args[1], args[2]

			loader, err := curriculum.NewLoader(dir)
			if err != nil {
				return err
			}
			entry, ok := loader.GetTopic(id)
			if !ok {
				return fmt.Errorf("topic %s not found under %s", id, dir)
			}
			s, err := openSession(entry)
			if err != nil {
				return fmt.Errorf("open topic %s: %w", id, err)
			}

			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				return fmt.Errorf("create export output dir: %w", err)
			}
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			if err := export.WriteWorkbook(s.Topic(), f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close export file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
			return nil
		},
	}
}

// openSession builds an unsaved editing session on a curriculum entry.
func openSession(e curriculum.Entry) (*editor.Session, error) {
	s := editor.NewSession(editor.NewMemoryStore(), nil, nil)
	if err := s.Apply(e.Record, e.SkillDescriptions); err != nil {
		return nil, err
	}
	return s, nil
}
