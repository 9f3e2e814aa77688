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
	Budgets(ctx context.Context) error
	AddBudget(ctx context.Context) error
	RenameBudget(ctx context.Context) error
	RemoveBudget(ctx context.Context) error
	Categories(ctx context.Context) error
	AddCategory(ctx context.Context) error
	AddEntry(ctx context.Context) error
	AddTransaction(ctx context.Context) error
	Sync(ctx context.Context) error
	Status(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the budgetsync CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("bs (%s)> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn("Available commands: (b)udgets, addbudget, renamebudget, rmbudget, cats, addcat, addentry, addtxn, sync, status, exit")

		case "b", "budgets":
			_ = a.Budgets(ctx)

		case "addbudget":
			_ = a.AddBudget(ctx)

		case "renamebudget":
			_ = a.RenameBudget(ctx)

		case "rmbudget":
			_ = a.RemoveBudget(ctx)

		case "cats":
			_ = a.Categories(ctx)

		case "addcat":
			_ = a.AddCategory(ctx)

		case "addentry":
			_ = a.AddEntry(ctx)

		case "addtxn":
			_ = a.AddTransaction(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
