// pcodecheck is the command-line front end: it parses PeopleCode buffers,
// runs scope collection, type inference and call validation, and reports
// findings with source snippets. A watch mode re-checks files as they
// change on disk.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/pcodekit/pcodekit/core/metadata"
	"github.com/pcodekit/pcodekit/runtime/checker"
	"github.com/pcodekit/pcodekit/runtime/lexer"
)

func main() {
	var (
		metadataDir string
		className   string
		debug       bool
	)

	rootCmd := &cobra.Command{
		Use:           "pcodecheck",
		Short:         "Static analysis for PeopleCode source files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&metadataDir, "metadata", "", "Directory of class and field metadata JSON files")
	rootCmd.PersistentFlags().StringVar(&className, "class", "", "Qualified application class the buffer implements (PKG:SUB:Class)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output")

	rootCmd.AddCommand(
		newCheckCmd(&metadataDir, &className, &debug),
		newTokensCmd(),
		newWatchCmd(&metadataDir, &className, &debug),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newCheckCmd(metadataDir, className *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Parse and analyze PeopleCode files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := analysisOptions(*metadataDir, *className, *debug)
			if err != nil {
				return err
			}
			failed := false
			for _, path := range args {
				clean, err := checkFile(path, opts)
				if err != nil {
					return err
				}
				if !clean {
					failed = true
				}
			}
			if failed {
				return fmt.Errorf("analysis found errors")
			}
			return nil
		},
	}
}

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Dump the token stream of one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			for _, tok := range lexer.New(string(content)).Tokenize() {
				fmt.Printf("%4d:%-3d %-14s %q\n",
					tok.Span.Start.Line, tok.Span.Start.Column, tok.Type, tok.Value)
			}
			return nil
		},
	}
}

func newWatchCmd(metadataDir, className *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>...",
		Short: "Re-check files whenever they change on disk",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := analysisOptions(*metadataDir, *className, *debug)
			if err != nil {
				return err
			}
			return watchFiles(args, opts)
		},
	}
}

func analysisOptions(metadataDir, className string, debug bool) ([]checker.Option, error) {
	var opts []checker.Option
	if debug {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, checker.WithLogger(logger))
	}
	if metadataDir != "" {
		resolver, err := metadata.NewDirResolver(metadataDir)
		if err != nil {
			return nil, fmt.Errorf("loading metadata: %w", err)
		}
		opts = append(opts, checker.WithResolver(resolver))
	}
	if className != "" {
		opts = append(opts, checker.WithQualifiedName(className))
	}
	return opts, nil
}

func checkFile(path string, opts []checker.Option) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	source := string(content)
	report := checker.Run(source, opts...)

	for _, issue := range report.Issues {
		fmt.Print(renderIssue(path, source, issue))
	}
	if len(report.Issues) == 0 {
		fmt.Printf("%s: ok\n", path)
	}
	return report.Clean(), nil
}

// renderIssue formats one finding with the offending line and a caret.
func renderIssue(path, source string, issue checker.Issue) string {
	line := issue.Span.Start.Line
	column := issue.Span.Start.Column

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", issue.Severity, issue.Message)
	fmt.Fprintf(&b, "  --> %s:%d:%d\n", path, line, column)

	lines := strings.Split(source, "\n")
	if line >= 1 && line <= len(lines) {
		content := lines[line-1]
		fmt.Fprintf(&b, "   |\n%2d | %s\n   | ", line, content)
		if column > 0 && column <= len(content)+1 {
			b.WriteString(strings.Repeat(" ", column-1) + "^")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func watchFiles(paths []string, opts []checker.Option) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		watched[abs] = true
		// Watch the directory: editors replace files on save, which drops
		// a watch registered on the file itself.
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		if _, err := checkFile(path, opts); err != nil {
			return err
		}
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}
			fmt.Printf("--- %s changed\n", event.Name)
			if _, err := checkFile(event.Name, opts); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}
