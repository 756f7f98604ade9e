// Package session is the console port of the setup tool: one reader, one
// writer, and an optional no-echo secret reader. The menu and the bootstrap
// entry points receive a *Session instead of touching os.Stdin directly, so
// tests can drive them with scripted input.
package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// Session reads one line at a time; there is never more than one pending
// read.
type Session struct {
	in     *bufio.Reader
	out    io.Writer
	secret func() (string, error)
}

// New returns a Session over r and w. Secrets are read as plain lines.
func New(r io.Reader, w io.Writer) *Session {
	return &Session{in: bufio.NewReader(r), out: w}
}

// NewConsole binds the Session to stdin/stdout. When stdin is a terminal,
// secrets are read without echo.
func NewConsole() *Session {
	s := New(os.Stdin, os.Stdout)
	fd := int(os.Stdin.Fd())
	if isTerminal(fd) {
		s.secret = func() (string, error) {
			b, err := readPassword(fd)
			fmt.Fprintln(s.out)
			if err != nil {
				return "", err
			}
			return strings.TrimSpace(string(b)), nil
		}
	}
	return s
}

// Out is the output port.
func (s *Session) Out() io.Writer {
	return s.out
}

func (s *Session) Printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Session) Println(args ...any) {
	fmt.Fprintln(s.out, args...)
}

// ReadLine prints prompt (when non-empty) and reads one line of input with
// surrounding whitespace removed. A final line without newline is returned
// normally; io.EOF is returned only when nothing was read.
func (s *Session) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		if _, err := fmt.Fprint(s.out, prompt); err != nil {
			return "", err
		}
	}
	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ReadSecret is ReadLine without echo when the session is a terminal.
func (s *Session) ReadSecret(prompt string) (string, error) {
	if s.secret == nil {
		return s.ReadLine(prompt)
	}
	if _, err := fmt.Fprint(s.out, prompt); err != nil {
		return "", err
	}
	return s.secret()
}

// Confirm asks a yes/no question. Only "y" and "yes" (any case) count as yes.
func (s *Session) Confirm(prompt string) (bool, error) {
	answer, err := s.ReadLine(prompt + " [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
