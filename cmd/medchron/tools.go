package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rpggio/medchron/internal/mcp"
	"github.com/spf13/cobra"
)

func newToolsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the MCP tools the server exposes",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := table.NewWriter()
			tw.AppendHeader(table.Row{"Tool", "Read only", "Description"})
			for _, tool := range mcp.Tools() {
				readOnly, _ := tool.Annotations["readOnlyHint"].(bool)
				tw.AppendRow(table.Row{tool.Name, readOnly, tool.Description})
			}
			fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
			return nil
		},
	}
}
