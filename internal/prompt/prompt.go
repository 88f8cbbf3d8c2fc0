package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ashwch/bol/internal/ui"
)

var (
	stdinIsInteractive = isStdinInteractive
	interactiveConfirm = ui.Confirm
)

func StdinIsInteractive() bool {
	return stdinIsInteractive()
}

// Confirm gates a destructive operation. assumeYes skips the question; a
// non-interactive stdin without assumeYes is an error rather than a silent
// "no". The configured UI backend is tried first, then a plain prompt on
// in/out.
func Confirm(backend string, question string, detail string, assumeYes bool, in io.Reader, out io.Writer) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if !stdinIsInteractive() {
		return false, fmt.Errorf("%s requires an interactive terminal; rerun with --yes", strings.TrimSuffix(strings.ToLower(question), "?"))
	}

	if ui.IsInteractiveBackend(backend) {
		approved, used, err := interactiveConfirm(backend, question, detail)
		if err == nil && used {
			return approved, nil
		}
	}
	return AskYesNo(in, out, question)
}

// AskYesNo reads one line from in. Only an explicit yes (in English, Hindi
// or Marathi) approves.
func AskYesNo(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", strings.TrimSpace(question))
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "haan", "han", "ha", "हाँ", "हां", "hoy", "होय":
		return true, nil
	default:
		return false, nil
	}
}

func isStdinInteractive() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
