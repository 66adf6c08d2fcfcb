package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aryanA101a/lulu/terminal"
	"github.com/aryanA101a/lulu/vm"
)

// exit codes
const (
	exitHalt        = 0
	exitLoadFailure = 1
	exitUsage       = 2
	exitFault       = 3
	exitInterrupted = 130
)

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// run executes the images named in args[1:] and returns the exit code.
func run(args []string, stdin *os.File, stdout, stderr io.Writer) int {
	var verbose bool
	var raw bool

	flags := flag.NewFlagSet(args[0], flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.BoolVar(&verbose, "v", false, "Verbose mode, trace every instruction to stderr")
	flags.BoolVar(&raw, "raw", true, "Put the terminal in raw mode while running")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: %v [-v] [-raw=false] image-file1 ...\n", args[0])
		flags.PrintDefaults()
	}
	if err := flags.Parse(args[1:]); err != nil {
		return exitUsage
	}

	log.SetOutput(stderr)
	log.SetPrefix("lulu: ")

	if flags.NArg() < 1 {
		flags.Usage()
		return exitUsage
	}

	machine := vm.NewVM(vm.NewStreamKeyboard(stdin), stdout)
	machine.Verbose = verbose

	for _, arg := range flags.Args() {
		if err := machine.LoadImageFile(arg); err != nil {
			log.Printf("failed to load image: %v", err)
			return exitLoadFailure
		}
	}

	if raw {
		term, err := terminal.EnableRawMode(stdin)
		if err != nil {
			log.Printf("raw mode: %v", err)
		} else {
			defer term.Restore()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result := make(chan error, 1)
	go func() {
		result <- machine.Run()
	}()

	select {
	case <-ctx.Done():
		return exitInterrupted
	case err := <-result:
		if err != nil {
			log.Print(err)
			return exitFault
		}
	}

	return exitHalt
}
