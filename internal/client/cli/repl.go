package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// runREPL is a read–eval–print loop over command lines.
//
// It prints the prompt with the current status, reads one line from reader
// and hands its fields to exec. "help" prints help(), "exit" and "quit"
// leave, and so do EOF and the cancellation of ctx. Errors returned by exec
// are ignored here; exec reports them itself so the loop keeps running with
// the last state.
func runREPL(ctx context.Context, reader *bufio.Reader, w io.Writer, statusFn func() string,
	help func() string, exec func(ctx context.Context, args []string) error) {
	for ctx.Err() == nil {
		fmt.Fprintf(w, "afteryou %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help", "?":
			fmt.Fprint(w, help())
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			_ = exec(ctx, parts)
		}
	}
}

func newShellCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		Annotations: map[string]string{
			annotationApp: "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			ctx := cmd.Context()
			if err := a.bootstrap(ctx); err != nil {
				return err
			}

			r.inShell = true
			defer func() { r.inShell = false }()

			a.println(titleStyle.Render("AfterYou shell") + mutedStyle.Render(" (type 'help' for commands, 'exit' to leave)"))
			runREPL(ctx, r.reader, a.out, a.status, r.help, r.execute)
			return nil
		},
	}
}

// help lists the commands the current session may run.
func (r *runner) help() string {
	var b strings.Builder
	b.WriteString("Available commands:\n")

	var walk func(prefix string, cmds []*cobra.Command)
	walk = func(prefix string, cmds []*cobra.Command) {
		for _, c := range cmds {
			if c.Hidden || c.Name() == "help" || c.Name() == "completion" {
				continue
			}
			use := strings.TrimSpace(prefix + " " + c.Use)
			if c.HasSubCommands() {
				walk(prefix+" "+c.Name(), c.Commands())
				continue
			}
			if r.allowed(c) {
				fmt.Fprintf(&b, "  %-34s %s\n", use, c.Short)
			}
		}
	}
	walk("", newRootCmd(r).Commands())
	fmt.Fprintf(&b, "  %-34s %s\n", "exit", "Leave the shell")
	return b.String()
}
