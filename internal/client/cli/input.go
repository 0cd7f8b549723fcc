package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// test seams for the terminal
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// readText prints prompt and reads one trimmed line. A last line without a newline is still returned.
func readText(r *bufio.Reader, w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readTextDefault is readText that keeps def when the answer is empty.
func readTextDefault(r *bufio.Reader, w io.Writer, prompt, def string) (string, error) {
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, def)
	}
	s, err := readText(r, w, prompt)
	if err != nil {
		return "", err
	}
	if s == "" {
		return def, nil
	}
	return s, nil
}

// clearValue typed at an optional prompt empties the field
const clearValue = "-"

// readOptional is readTextDefault for fields that may be emptied by answering clearValue.
func readOptional(r *bufio.Reader, w io.Writer, prompt, def string) (string, error) {
	if def != "" {
		prompt += " (" + clearValue + " to clear)"
	}
	s, err := readTextDefault(r, w, prompt, def)
	if err != nil {
		return "", err
	}
	if s == clearValue {
		return "", nil
	}
	return s, nil
}

// readSecret reads without echo on a terminal and falls back to a plain line otherwise.
func readSecret(r *bufio.Reader, w io.Writer, prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return readText(r, w, prompt)
	}

	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
