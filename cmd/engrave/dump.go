package main

import (
	"fmt"

	"github.com/npillmayer/engrave/dom/domdbg"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Print the element tree of a score document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		if dot, _ := cmd.Flags().GetBool("dot"); dot {
			domdbg.ToGraphViz(doc, cmd.OutOrStdout(), true)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), domdbg.Dump(doc))
		return nil
	},
}

func init() {
	dumpCmd.Flags().Bool("dot", false, "output GraphViz DOT instead of a text tree")
}
