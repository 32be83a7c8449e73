package cli

import (
	"bufio"
	"context"
	"fmt"
)

// printlnFn and printFn are test seams for user-facing output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface is what the REPL loop needs from the application.
type execIface interface {
	settle(ctx context.Context)
	done() bool
	showPrompt() bool
	prompt(ctx context.Context) string
	exec(ctx context.Context, line string) (quit bool)
}

// runREPL settles the machine, prints the prompt and executes one line at a
// time. It returns on input EOF, on exit|quit, or when the machine asks the
// application to exit.
func runREPL(ctx context.Context, a execIface, scanner *bufio.Scanner) {
	for {
		a.settle(ctx)
		if a.done() {
			printlnFn("Bye!")
			return
		}
		if a.showPrompt() {
			printFn(a.prompt(ctx))
		}
		if !scanner.Scan() {
			return
		}
		if a.exec(ctx, scanner.Text()) {
			printlnFn("Bye!")
			return
		}
	}
}
