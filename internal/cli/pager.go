package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"golang.org/x/term"
)

const defaultPager = "less -FRSX"

// pagerCommand picks the pager from FOLIO_PAGER, then PAGER, then less.
// "cat" or "-" turns paging off.
func pagerCommand() string {
	p := strings.TrimSpace(os.Getenv("FOLIO_PAGER"))
	if p == "" {
		p = strings.TrimSpace(os.Getenv("PAGER"))
	}
	switch p {
	case "":
		return defaultPager
	case "cat", "-":
		return ""
	}
	return p
}

// withPager runs write against a pager when out is a terminal, and against
// out directly otherwise.
func withPager(ctx context.Context, out, errOut io.Writer, write func(io.Writer) error) error {
	tty, ok := out.(*os.File)
	pager := pagerCommand()
	if !ok || pager == "" || !term.IsTerminal(int(tty.Fd())) {
		return write(out)
	}

	p := exec.CommandContext(ctx, "sh", "-c", pager)
	p.Stdout = tty
	p.Stderr = errOut
	in, err := p.StdinPipe()
	if err != nil {
		return write(out)
	}
	if err := p.Start(); err != nil {
		return write(out)
	}
	werr := write(in)
	_ = in.Close()
	if err := p.Wait(); err != nil && werr == nil {
		var exit *exec.ExitError
		if !errors.As(err, &exit) {
			return err
		}
	}
	// Quitting the pager early closes the pipe under us.
	if errors.Is(werr, syscall.EPIPE) {
		return nil
	}
	return werr
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
