package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erazemk/itemize/internal/model"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change the saved list preferences",
}

func init() {
	prefsCmd.AddCommand(prefsGetCmd, prefsSetCmd)
}

var prefsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the saved sort and group options",
	Args:  exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p := preferences()

		sortOpt, err := p.SortOption(ctx)
		if err != nil {
			return err
		}
		groupOpt, err := p.GroupOption(ctx)
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"sort":  string(sortOpt),
				"group": string(groupOpt),
			})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "sort:  %s\ngroup: %s\n", sortOpt, groupOpt)
		return nil
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <sort|group> <value>",
	Short: "Save the default sort or group option",
	Example: `  itemize prefs set sort newest
  itemize prefs set group category`,
	Args: exactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p := preferences()

		switch args[0] {
		case "sort":
			opt := model.SortOption(args[1])
			if !opt.Valid() {
				return usagef("unknown sort %q (want one of %s)", args[1], joinOptions(model.SortOptions))
			}
			return p.SetSortOption(ctx, opt)
		case "group":
			opt := model.GroupOption(args[1])
			if !opt.Valid() {
				return usagef("unknown group %q (want one of %s)", args[1], joinOptions(model.GroupOptions))
			}
			return p.SetGroupOption(ctx, opt)
		default:
			return usagef("unknown preference %q (want sort or group)", args[0])
		}
	},
}
