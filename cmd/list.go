package cmd

import (
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/taoky/elblog/pkg/parser"
	"github.com/taoky/elblog/pkg/util"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <item>",
		Short: "List parsers or log fields",
		Args:  cobra.NoArgs,
		RunE:  showHelp,
	}
	cmd.AddCommand(listParsersCmd(), listFieldsCmd())
	return cmd
}

func listParsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parsers",
		Short: "List available log parsers",
		Args:  cobra.NoArgs,
	}
	var all bool
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Show all parsers, including aliases")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		table := util.NewTable(cmd.OutOrStdout())
		table.Header("Name", "Description")

		parsers := parser.All()
		slices.SortFunc(parsers, func(a, b parser.ParserMeta) int {
			return strings.Compare(a.Name, b.Name)
		})
		for _, p := range parsers {
			if all || !p.Hidden {
				if err := table.Append([]string{p.Name, p.Description}); err != nil {
					return err
				}
			}
		}
		return table.Render()
	}
	return cmd
}

func listFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List log line fields in positional order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := util.NewTable(cmd.OutOrStdout())
			table.Header("Position", "Field", "Kind")
			for _, f := range parser.Fields() {
				if err := table.Append([]string{strconv.Itoa(f.Position), string(f.Name), f.Kind.String()}); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
}
