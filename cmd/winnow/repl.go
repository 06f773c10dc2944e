package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/crimson-sun/winnow/internal/script"
)

var (
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#20B9B4"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C"))
)

const replHelp = `commands:
  init                          load items and diverse suggestions
  select|reject <ids> [source]  tag items (source: click, threshold, predicted)
  clear <ids>                   return items to unsure
  train                         retrain on the current labels
  thresholds <select> <reject>  set thresholds
  drag <select|reject> <score>  drag a handle and preview the result
  apply                         apply thresholds, commit and retrain
  commit                        record a manual commit
  restore <id>                  restore a commit
  status | boundary             show progress or marginal items
  show <id> | focus <id>        show an item's code or move focus
  help | quit`

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Run an interactive labeling session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			p, cleanup, err := openSession(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			exec := script.NewExecutor(p.Store(), cmd.OutOrStdout(), nil)
			return repl(cmd.InOrStdin(), cmd.OutOrStdout(), func(line string) error {
				st, err := script.ParseLine(line)
				if err != nil {
					return err
				}
				return exec.Exec(ctx, st)
			})
		},
	}
}

// repl feeds lines to exec until EOF or quit. Errors are printed and the
// loop continues.
func repl(in io.Reader, out io.Writer, exec func(string) error) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, promptStyle.Render("winnow> "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "help", "?":
			fmt.Fprintln(out, replHelp)
			continue
		}
		if err := exec(line); err != nil {
			fmt.Fprintln(out, errorStyle.Render("error: "+err.Error()))
		}
	}
}
