package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

const defaultEditor = "vi"

// editExprCommand implements [tea.ExecCommand] for the expression
// edit-parse-retry loop. It seeds a temp file with the last input, opens
// the user's editor, and parses the result. On parse error the user is
// prompted to re-edit; declining exits the program.
type editExprCommand struct {
	seed   string
	source string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (c *editExprCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editExprCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editExprCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop. On success c.source holds the
// edited expression for the model to evaluate; an empty c.source means
// the edit was cancelled. If the user declines to re-edit after a parse
// error, it returns [ErrEditDeclined].
func (c *editExprCommand) Run() error {
	// One temp file serves every round of the loop.
	tmpPath, err := newScratchFile()
	if err != nil {
		return err
	}
	defer os.Remove(tmpPath)

	for content := c.seed; ; {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		if err := c.runEditor(tmpPath); err != nil {
			return err
		}

		data, err := os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		edited := strings.TrimSpace(string(data))
		if edited == "" {
			// User cleared the content; treat as cancelled.
			return nil
		}

		_, parseErr := parseInput(edited)
		if parseErr == nil {
			c.source = edited

			return nil
		}

		fmt.Fprintf(c.stderr, "\nparse error: %s\n", parseErr)

		if !c.confirmRetry() {
			return ErrEditDeclined
		}

		content = string(data)
	}
}

// newScratchFile creates an empty user-only temp file and returns its
// path.
func newScratchFile() (string, error) {
	f, err := os.CreateTemp("", "avon-repl-*.avon")
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := f.Chmod(0o600); err != nil {
		os.Remove(f.Name())

		return "", err
	}

	return f.Name(), nil
}

// confirmRetry asks whether to re-open the editor after a parse error.
// Anything but an explicit no (or closed stdin) retries.
func (c *editExprCommand) confirmRetry() bool {
	fmt.Fprint(c.stdout, "re-edit? [Y/n] ")

	scanner := bufio.NewScanner(c.stdin)
	if !scanner.Scan() {
		return false
	}

	answer := strings.TrimSpace(strings.ToLower(scanner.Text()))

	return answer != "n" && answer != "no"
}

// runEditor launches $EDITOR (vi when unset) on the given file.
func (c *editExprCommand) runEditor(path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = c.stdin
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr

	return cmd.Run()
}
