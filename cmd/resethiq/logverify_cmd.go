package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Dey313/Resethiq-engine/internal/config"
	"github.com/Dey313/Resethiq-engine/pkg/evidence"
)

// runLogVerify walks a transparency log file forward from GENESIS and
// reports the first line where entry_hash fails to reproduce, if any.
// It exposes the existing chain-verification logic through the CLI and
// introduces no new on-disk format.
func runLogVerify(args []string) int {
	fs := flag.NewFlagSet("log-verify", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	cfg := config.FromEnv()
	var logPath string
	fs.StringVar(&logPath, "log", cfg.LogPath, "transparency log path")

	if err := fs.Parse(args); err != nil {
		return exitUsageError
	}

	badIdx, err := evidence.VerifyTransparencyLog(logPath)
	if badIdx >= 0 {
		fmt.Fprintf(os.Stdout, `{"ok":false,"first_bad_line":%d}`+"\n", badIdx)
		return exitVerifyMismatch
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "log-verify: %v\n", err)
		return exitError
	}
	fmt.Fprintln(os.Stdout, `{"ok":true}`)
	return exitOK
}
