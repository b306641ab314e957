package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fcpbridge/internal/fcp7"
	"fcpbridge/internal/xmlschema"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			printError(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// printError writes err and, for document errors, the offending node
// indented beneath it.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, err)
	excerpt := documentExcerpt(err)
	if excerpt == "" {
		return
	}
	for line := range strings.SplitSeq(strings.TrimRight(excerpt, "\n"), "\n") {
		fmt.Fprintln(w, "    "+line)
	}
}

func documentExcerpt(err error) string {
	var schemaErr *xmlschema.SchemaError
	if errors.As(err, &schemaErr) {
		return schemaErr.Excerpt
	}
	var refErr *fcp7.ReferenceError
	if errors.As(err, &refErr) {
		return refErr.Excerpt
	}
	return ""
}
