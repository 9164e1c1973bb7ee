package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context) error
	Key(ctx context.Context) error
	Save(ctx context.Context, path string) error
	Ping(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the roster verifier CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//   - help           show available commands
//   - list | l       print records whose signature verifies
//   - key            print the server's public key PEM
//   - save <file>    store the raw export snapshot locally
//   - ping           probe server health
//   - exit | quit    leave the program
//
// Any errors returned by command handlers are ignored here; handlers log
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, scanner *bufio.Scanner) {
	for {
		printlnFn("roster> ")
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printlnFn("Available commands: (l)ist, key, save <file>, ping, exit")

		case "l", "list":
			_ = a.List(ctx)

		case "key":
			_ = a.Key(ctx)

		case "save":
			if len(args) == 0 {
				printlnFn("Usage: save <file>")
				continue
			}
			_ = a.Save(ctx, args[0])

		case "ping":
			_ = a.Ping(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
