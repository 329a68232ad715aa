package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/filevault/internal/client"
	"github.com/JaimeStill/filevault/internal/workflow"
)

const sessionHelp = `Commands:
  upload <path>  upload a PDF for review
  approve        approve the pending document
  reject         reject the pending document
  retry          retry loading the extracted record
  restart        start over after a result
  history        show all records
  refresh        reload the record list
  close          hide the record list
  status         show the current state
  help           show this help
  quit           end the session`

func newSessionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Run an interactive upload and review session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			c, err := ctx.client()
			if err != nil {
				return err
			}

			co := workflow.New(c, cfg.Workflow(), ctx.logger())
			in := cmd.InOrStdin()
			return runSession(cmd.Context(), co, in, cmd.OutOrStdout(), isInteractive(in))
		},
	}
}

// session serializes writes from the command loop and the snapshot watcher.
type session struct {
	co     *workflow.Coordinator
	out    io.Writer
	prompt bool

	mu   sync.Mutex
	last string
}

// runSession drives co from line commands read from in until quit, EOF, or
// ctx cancellation. State changes are printed as they are published.
func runSession(ctx context.Context, co *workflow.Coordinator, in io.Reader, out io.Writer, prompt bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := &session{co: co, out: out, prompt: prompt}

	var wg sync.WaitGroup
	runErr := make(chan error, 1)
	wg.Go(func() { runErr <- co.Run(ctx) })

	snaps, unsubscribe := co.Subscribe()
	wg.Go(func() {
		for snap := range snaps {
			s.show(snap, false)
		}
	})

	lines := make(chan string)
	go scanLines(ctx, in, lines)

	s.writeln("Type help for commands.")
	s.showPrompt()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case line, ok := <-lines:
			if !ok {
				break loop
			}
			if s.dispatch(line) {
				break loop
			}
			s.showPrompt()
		}
	}

	unsubscribe()
	cancel()
	wg.Wait()

	if err := <-runErr; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func scanLines(ctx context.Context, in io.Reader, lines chan<- string) {
	defer close(lines)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
}

// dispatch runs one command line and reports whether the session should end.
func (s *session) dispatch(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	var err error
	switch cmd, args := strings.ToLower(fields[0]), fields[1:]; cmd {
	case "quit", "exit":
		return true
	case "help":
		s.writeln(sessionHelp)
	case "status":
		s.show(s.co.Snapshot(), true)
	case "upload":
		if len(args) != 1 {
			err = errors.New("usage: upload <path>")
			break
		}
		var f client.File
		if f, err = client.OpenFile(args[0]); err == nil {
			err = s.co.SelectFile(f)
		}
	case "approve":
		err = s.co.Approve()
	case "reject":
		err = s.co.Reject()
	case "retry":
		err = s.co.RetryResult()
	case "restart":
		err = s.co.StartOver()
	case "history":
		err = s.co.OpenHistory()
	case "refresh":
		err = s.co.RefreshHistory()
	case "close":
		err = s.co.CloseHistory()
	default:
		err = fmt.Errorf("unknown command %q (type help for commands)", cmd)
	}

	if err != nil {
		s.writeln("error: " + err.Error())
	}
	return false
}

// show prints the rendered snapshot. Published snapshots are skipped when they
// render the same as the previous one; force always prints.
func (s *session) show(snap workflow.Snapshot, force bool) {
	view := renderSnapshot(snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !force {
		if view == s.last {
			return
		}
		s.last = view
	}
	if view != "" {
		fmt.Fprintln(s.out, view)
	}
}

func (s *session) writeln(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, msg)
}

func (s *session) showPrompt() {
	if !s.prompt {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.out, "vault> ")
}
