package cmd

import (
	"bufio"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	inputsMu sync.Mutex
	inputs   = map[io.Reader]*bufio.Reader{}
)

// input returns the buffered reader over cmd's input stream. Commands that
// hand off to each other share it, so a line buffered by one is still
// there for the next.
func input(cmd *cobra.Command) *bufio.Reader {
	in := cmd.InOrStdin()
	inputsMu.Lock()
	defer inputsMu.Unlock()
	r, ok := inputs[in]
	if !ok {
		r = bufio.NewReader(in)
		inputs[in] = r
	}
	return r
}

// prompt prints label and reads one trimmed line.
func prompt(cmd *cobra.Command, reader *bufio.Reader, label string) string {
	cmd.Print(labelStyle.Render(label))
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// promptPassword reads without echo when the input is a terminal and
// falls back to a plain line otherwise.
func promptPassword(cmd *cobra.Command, reader *bufio.Reader, label string) string {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) || reader.Buffered() > 0 {
		return prompt(cmd, reader, label)
	}
	cmd.Print(labelStyle.Render(label))
	secret, err := term.ReadPassword(int(f.Fd()))
	cmd.Println()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(secret))
}
