// Command apitestgen generates the apitest stand-in of an API interface.
//
// It is meant to run from a go:generate directive placed next to the
// interface:
//
//	//go:generate go run github.com/byte4ever/apiresult/cmd/apitestgen --type PandaAPI
//
// The input file defaults to $GOFILE and the output to the input name with an
// "_apitest.go" suffix.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/byte4ever/apiresult/internal/stubgen"
)

const stdoutPath = "-"

var errNoInput = errors.New("no input file: set --in or run through go generate")

type flags struct {
	typeName string
	in       string
	out      string
}

func main() {
	if err := newRootCommand(os.Stdout, os.Getenv).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "apitestgen: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(stdout io.Writer, getenv func(string) string) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:           "apitestgen --type NAME [--in FILE] [--out FILE]",
		Short:         "Generate the apitest stand-in of an API interface",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return generate(f, stdout, getenv)
		},
	}

	cmd.Flags().StringVarP(&f.typeName, "type", "t", "", "interface to generate a stand-in for")
	cmd.Flags().StringVarP(&f.in, "in", "i", "", "source file declaring the interface (default $GOFILE)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", `output file, "-" for stdout (default <in>_apitest.go)`)
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func generate(f flags, stdout io.Writer, getenv func(string) string) error {
	in := f.in
	if in == "" {
		in = getenv("GOFILE")
	}

	if in == "" {
		return errNoInput
	}

	src, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	iface, err := stubgen.Parse(in, src, f.typeName)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	out, err := stubgen.Render(iface, stubgen.Options{Command: "apitestgen"})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	dest := f.out
	if dest == "" {
		dest = strings.TrimSuffix(in, ".go") + "_apitest.go"
	}

	if dest == stdoutPath {
		_, err = stdout.Write(out)
		return err //nolint:wrapcheck // stdout write
	}

	//nolint:gosec,mnd // generated sources are world readable
	if err = os.WriteFile(dest, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
