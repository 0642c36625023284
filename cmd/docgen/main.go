// Command docgen generates CLI reference documentation from the plandiff
// command definitions. Output is written to docs/cli-reference.md.
package main

import (
	"fmt"
	"os"

	docs "github.com/urfave/cli-docs/v3"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/plandiff/internal/commands"
)

func main() {
	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "plandiff",
		Usage:     "Compare two versions of a markdown document and turn line comments into a prompt",
		UsageText: "plandiff [global options] command [command options]",
		Description: `plandiff shows what changed between two versions of a plan or any other
markdown document, as raw hunks or as rendered markdown with the changes
marked, and lets you comment on lines of the new version.

Run 'plandiff review OLD NEW' to start.`,
		Flags: flags.Global(),
	}

	root = commands.NewDiffCmd(flags).Register(root)
	root = commands.NewRenderCmd(flags).Register(root)
	root = commands.NewPromptCmd(flags).Register(root)
	root = commands.NewReviewCmd(flags).Register(root)
	root = commands.NewConfigValidateCmd(flags).Register(root)

	md, err := docs.ToMarkdown(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating docs: %v\n", err)
		os.Exit(1)
	}

	outPath := "docs/cli-reference.md"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outPath)
}
