package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erazemk/itemize/internal/inventory"
	"github.com/erazemk/itemize/internal/model"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"cat"},
	Short:   "Manage categories",
}

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags",
}

var categoryParent string

func init() {
	categoryCmd.AddCommand(categoryLsCmd, categoryAddCmd, categoryRenameCmd, categoryMvCmd, categoryRmCmd)
	categoryAddCmd.Flags().StringVarP(&categoryParent, "parent", "p", "", "parent category ID or name")
	categoryMvCmd.Flags().StringVarP(&categoryParent, "parent", "p", "", "new parent; empty moves to the top level")

	tagCmd.AddCommand(tagLsCmd, tagAddCmd, tagRmCmd)
}

var categoryLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List categories",
	Args:  exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc := inventoryService()

		categories, err := svc.ListCategories(ctx)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), categories)
		}
		if len(categories) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No categories found.")
			return nil
		}

		lookup, err := svc.Lookup(ctx)
		if err != nil {
			return err
		}
		t := newTable("ID", "PATH", "DEMO")
		for _, c := range categories {
			demo := ""
			if c.IsDemo {
				demo = "yes"
			}
			t.row(shortID(c.ID), lookup.Breadcrumb(c.ID), demo)
		}
		t.flush(cmd.OutOrStdout())
		return nil
	},
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a category",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := inventoryService()
		parentID, err := resolveCategoryID(cmd, svc, categoryParent)
		if err != nil {
			return err
		}
		c, err := svc.CreateCategory(cmd.Context(), inventory.CategoryInput{Name: args[0], ParentID: parentID})
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), c)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created category %s (%s)\n", c.Name, shortID(c.ID))
		return nil
	},
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename <category> <name>",
	Short: "Rename a category",
	Args:  exactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := inventoryService()
		c, err := svc.ResolveCategory(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return svc.RenameCategory(cmd.Context(), c.ID, args[1])
	},
}

var categoryMvCmd = &cobra.Command{
	Use:   "mv <category>",
	Short: "Move a category under another one",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := inventoryService()
		c, err := svc.ResolveCategory(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		parentID, err := resolveCategoryID(cmd, svc, categoryParent)
		if err != nil {
			return err
		}
		return svc.MoveCategory(cmd.Context(), c.ID, parentID)
	},
}

var categoryRmCmd = &cobra.Command{
	Use:   "rm <category>",
	Short: "Delete a category no item uses",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := inventoryService()
		c, err := svc.ResolveCategory(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := svc.DeleteCategory(cmd.Context(), c.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %s\n", c.Name)
		return nil
	},
}

var tagLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List tags",
	Args:  exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		tags, err := inventoryService().ListTags(cmd.Context())
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), tags)
		}
		if len(tags) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tags found.")
			return nil
		}
		t := newTable("ID", "NAME")
		for _, tag := range tags {
			t.row(shortID(tag.ID), tag.Name)
		}
		t.flush(cmd.OutOrStdout())
		fmt.Fprintf(cmd.OutOrStdout(), "Total: %d tag(s)\n", len(tags))
		return nil
	},
}

var tagAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a tag",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, err := inventoryService().CreateTag(cmd.Context(), inventory.TagInput{Name: args[0]})
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), tag)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created tag %s\n", tag.Name)
		return nil
	},
}

var tagRmCmd = &cobra.Command{
	Use:   "rm <tag>",
	Short: "Delete a tag; items keep everything else",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := inventoryService().DeleteTag(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted tag %s\n", model.NormalizeName(args[0]))
		return nil
	},
}
