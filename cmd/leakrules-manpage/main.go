package main

import (
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/leakrules/cmd/leakrules"
	"github.com/arthur-debert/leakrules/internal/version"
	"github.com/arthur-debert/leakrules/pkg/logging"
)

func main() {
	rootCmd := leakrules.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "LEAKRULES",
		Section: "1",
		Source:  "leakrules " + version.Version,
		Manual:  "leakrules manual",
	}

	logging.Must(doc.GenMan(rootCmd, header, os.Stdout), "Failed to generate man page")
}
