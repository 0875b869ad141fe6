package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:         "demo",
	Short:       "Manage the sample inventory",
	Annotations: map[string]string{annotationNoSeed: "true"},
}

func init() {
	demoCmd.AddCommand(demoSeedCmd, demoPurgeCmd, demoStatusCmd)
	for _, c := range demoCmd.Commands() {
		c.Annotations = map[string]string{annotationNoSeed: "true"}
	}
}

var demoSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample inventory into an empty store",
	Args:  exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		seeded, err := demoManager().Seed(cmd.Context())
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), map[string]bool{"seeded": seeded})
		}
		if seeded {
			fmt.Fprintln(cmd.OutOrStdout(), "Sample inventory added.")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Store is not empty; nothing added.")
		}
		return nil
	},
}

var demoPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete the sample items and unused sample categories",
	Args:  exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := demoManager().Purge(cmd.Context())
		if flagJSON {
			if jerr := printJSON(cmd.OutOrStdout(), report); jerr != nil {
				return jerr
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d item(s), %d photo(s) and %d categor(ies); kept %d categor(ies) still in use\n",
			report.ItemsDeleted, report.BlobsDeleted, report.CategoriesDeleted, report.CategoriesKept)
		return err
	},
}

var demoStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether sample data is present",
	Args:  exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := demoManager().Status(cmd.Context())
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), st)
		}
		t := newTable("SEEDED", "ACTIVE", "ITEMS", "CATEGORIES")
		t.row(fmt.Sprint(st.Seeded), fmt.Sprint(st.Active), fmt.Sprint(st.DemoItems), fmt.Sprint(st.DemoCategories))
		t.flush(cmd.OutOrStdout())
		return nil
	},
}
