package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	takeNotice() string
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Ping(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: login, status, ping, exit"
	helpLoggedIn  = "Available commands: (l)ist <resource> [page], show <resource> <id>, add <resource>, delete <resource> <id>, status, ping, logout, exit"
)

// runREPL starts a simple read-eval-print loop for the propkeeper CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command and dispatches to methods on 'a' with the remaining tokens as
// arguments. The loop exits on scanner EOF, on ctx cancellation, or when the
// user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help              show available commands
//	  - login             authenticate
//	  - status            show the local session
//	  - ping              check the server
//	  - exit | quit       leave the program
//
//	Logged in, additionally:
//	  - list <resource> [page]
//	  - show <resource> <id>
//	  - add <resource>
//	  - delete <resource> <id>
//	  - logout
//
// A pending session notice (the refresh token was refused) replaces the
// error of the command that triggered it.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("pk %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "login":
			err = a.Login(ctx)

		case "status":
			err = a.Status(ctx)

		case "ping":
			err = a.Ping(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "logout", "l", "list", "show", "add", "delete":
			if !a.isLoggedIn() {
				printlnFn("Please login first")
				continue
			}
			err = dispatchSession(ctx, a, cmd, args)

		default:
			printlnFn("Unknown command:", cmd)
		}

		if notice := a.takeNotice(); notice != "" {
			printlnFn(notice)
			continue
		}
		if err != nil {
			if errors.Is(err, errUsage) {
				printlnFn(err.Error())
			} else {
				printlnFn("Error:", err)
			}
		}
	}
}

func dispatchSession(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "l", "list":
		return a.List(ctx, args)
	case "show":
		return a.Show(ctx, args)
	case "add":
		return a.Add(ctx, args)
	case "delete":
		return a.Delete(ctx, args)
	}
	return nil
}
