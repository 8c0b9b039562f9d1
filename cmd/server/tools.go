package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/modules"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tool catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		registry, err := newRegistry(cfg)
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		return printTools(cmd.OutOrStdout(), registry, asJSON)
	},
}

func init() {
	toolsCmd.Flags().Bool("json", false, "print the tools/list payload as JSON")
}

func printTools(w io.Writer, registry *modules.Registry, asJSON bool) error {
	tools := registry.Tools()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"tools": tools})
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, t := range tools {
		fmt.Fprintf(tw, "%s\t%s\n", t.ID, t.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d tools in %d modules\n", len(tools), len(registry.Modules()))
	return err
}
