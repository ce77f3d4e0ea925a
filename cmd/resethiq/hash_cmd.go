package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Dey313/Resethiq-engine/internal/config"
	"github.com/Dey313/Resethiq-engine/pkg/evidence"
)

func runHash(args []string) int {
	fs := flag.NewFlagSet("hash", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	cfg := config.FromEnv()
	var chunk int64
	fs.Int64Var(&chunk, "chunk", cfg.ChunkSize, "leaf chunk size in bytes")

	if err := fs.Parse(args); err != nil {
		return exitUsageError
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "hash requires exactly one file argument")
		return exitUsageError
	}
	path := fs.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open artifact: %v\n", err)
		return exitError
	}
	defer f.Close()

	result, err := evidence.Hash(path, f, chunk)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash: %v\n", err)
		return exitError
	}

	payload, err := evidence.CanonicalizeAny(result)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode result: %v\n", err)
		return exitError
	}
	if err := writeOutput("", payload); err != nil {
		fmt.Fprintf(os.Stderr, "write output: %v\n", err)
		return exitError
	}
	return exitOK
}
