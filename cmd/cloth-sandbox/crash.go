package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"
	"sync"

	"github.com/gdamore/tcell/v2"
)

var (
	crashMu     sync.Mutex
	crashScreen tcell.Screen
	crashHooks  []func()
)

// setCrashScreen registers the screen restored before a crash report
func setCrashScreen(s tcell.Screen) {
	crashMu.Lock()
	crashScreen = s
	crashMu.Unlock()
}

// onCrash registers cleanup run ahead of screen restore, e.g. stopping audio
func onCrash(fn func()) {
	crashMu.Lock()
	crashHooks = append(crashHooks, fn)
	crashMu.Unlock()
}

// handleCrash restores the terminal, prints the panic with its stack and exits
func handleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	hooks := crashHooks
	screen := crashScreen
	crashMu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	if screen != nil {
		screen.Fini()
	}

	log.Printf("CRASH: %v", r)
	reportCrash(os.Stderr, r, debug.Stack())
	os.Exit(1)
}

func reportCrash(out io.Writer, r any, stack []byte) {
	fmt.Fprintf(out, "\n\x1b[31mCRASH DETECTED: %v\x1b[0m\n", r)
	fmt.Fprintf(out, "Stack Trace:\n%s\n", stack)
}

// goSafe runs fn on a new goroutine that routes panics through handleCrash
func goSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				handleCrash(r)
			}
		}()
		fn()
	}()
}
