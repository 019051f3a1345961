package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompts read answers from Input and write questions to Output.
var (
	Input  io.Reader = os.Stdin
	Output io.Writer = os.Stdout
)

// Confirm prompts the user with a yes/no question. Returns true for yes.
func Confirm(prompt string) bool {
	return ask(StyleWarning.Render(prompt))
}

// ConfirmDanger is like Confirm but styled for destructive actions.
func ConfirmDanger(prompt string) bool {
	return ask(StyleError.Render("⚠ " + prompt))
}

func ask(styled string) bool {
	fmt.Fprintf(Output, "%s [y/N]: ", styled)
	line, _ := bufio.NewReader(Input).ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))
	return line == "y" || line == "yes"
}
