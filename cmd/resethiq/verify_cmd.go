package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/Dey313/Resethiq-engine/internal/domain"
	"github.com/Dey313/Resethiq-engine/pkg/evidence"
)

func runVerify(args []string) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var bundlePath string
	var artifactPath string
	fs.StringVar(&bundlePath, "bundle", "", "attestation bundle JSON path")
	fs.StringVar(&artifactPath, "file", "", "artifact path")

	if err := fs.Parse(args); err != nil {
		return exitUsageError
	}
	if bundlePath == "" || artifactPath == "" {
		fmt.Fprintln(os.Stderr, "verify requires --bundle and --file")
		return exitUsageError
	}

	bundleBytes, err := os.ReadFile(bundlePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read bundle: %v\n", err)
		return exitError
	}
	var bundle domain.Attestation
	if err := json.Unmarshal(bundleBytes, &bundle); err != nil {
		fmt.Fprintf(os.Stderr, "decode bundle: %v\n", err)
		return exitError
	}

	artifact, err := os.Open(artifactPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open artifact: %v\n", err)
		return exitError
	}
	defer artifact.Close()

	result, err := evidence.VerifyBundle(bundle, artifact)
	if err != nil {
		fmt.Fprintf(os.Stderr, "verify: %v\n", err)
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

	if !result.OK {
		return exitVerifyMismatch
	}
	return exitOK
}
