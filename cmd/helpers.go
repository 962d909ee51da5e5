package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"venue-cli/form"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// dateArg turns a --from/--to value into YYYY-MM-DD. "today" and "tomorrow"
// are resolved against now; anything else is passed through for the form to
// validate.
func dateArg(input string, now time.Time) string {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "today":
		return now.Format("2006-01-02")
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format("2006-01-02")
	}
	return strings.TrimSpace(input)
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// printError renders an error for the terminal. Validation errors get one
// line per field.
func printError(w io.Writer, err error) {
	if verr, ok := form.AsValidation(err); ok {
		fields := make([]string, 0, len(verr.Fields))
		for field := range verr.Fields {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			if field == form.SubmitField {
				fmt.Fprintf(w, "Error: %s\n", verr.Fields[field])
				continue
			}
			fmt.Fprintf(w, "Error: %s: %s\n", field, verr.Fields[field])
		}
		return
	}
	fmt.Fprintf(w, "Error: %s\n", err)
}

type prompter struct {
	cmd    *cobra.Command
	reader *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{cmd: cmd, reader: bufio.NewReader(cmd.InOrStdin())}
}

func (p *prompter) line(label string) (string, error) {
	fmt.Fprint(p.cmd.ErrOrStderr(), label)
	value, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// secret reads without echo when stdin is a terminal.
func (p *prompter) secret(label string) (string, error) {
	file, ok := p.cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return p.line(label)
	}
	fmt.Fprint(p.cmd.ErrOrStderr(), label)
	bytes, err := term.ReadPassword(int(file.Fd()))
	fmt.Fprintln(p.cmd.ErrOrStderr())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(bytes)), nil
}
