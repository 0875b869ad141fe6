package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Manage item photos",
}

var (
	imageBlobs  bool
	pruneDryRun bool
)

func init() {
	imageCmd.AddCommand(imageAddCmd, imageRmCmd, imagePruneCmd)
	imageAddCmd.Flags().BoolVar(&imageBlobs, "blob", false, "arguments name blobs already in the image folder")
	imagePruneCmd.Flags().BoolVarP(&pruneDryRun, "dry-run", "n", false, "only list orphaned files")
}

var imageAddCmd = &cobra.Command{
	Use:   "add <item> <file>...",
	Short: "Attach photos to an item",
	Long: `Add normalises JPEG or PNG photos and attaches them after the item's
existing photos.

With --blob the arguments are names of files already in the image folder.
A blob another photo already uses is copied first.`,
	Args: minArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc := inventoryService()

		item, err := svc.ResolveItem(ctx, args[0])
		if err != nil {
			return err
		}

		if imageBlobs {
			assets, err := svc.AddImages(ctx, item.ID, args[1:])
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), assets)
			}
			for _, a := range assets {
				fmt.Fprintf(cmd.OutOrStdout(), "Attached %s\n", a.Filename)
			}
			return nil
		}

		for _, path := range args[1:] {
			if err := attachFile(cmd, svc, item.ID, path); err != nil {
				return err
			}
		}
		return nil
	},
}

var imageRmCmd = &cobra.Command{
	Use:   "rm <item> <image-id>",
	Short: "Detach a photo and delete its file",
	Args:  exactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc := inventoryService()

		item, err := svc.ResolveItem(ctx, args[0])
		if err != nil {
			return err
		}
		return svc.RemoveImage(ctx, item.ID, args[1])
	},
}

var imagePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete image files no item references",
	Args:  exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		orphans, err := inventoryService().PruneOrphans(cmd.Context(), pruneDryRun)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), map[string]any{"orphans": orphans, "deleted": !pruneDryRun})
		}

		verb := "Deleted"
		if pruneDryRun {
			verb = "Would delete"
		}
		for _, name := range orphans {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, name)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d orphaned file(s)\n", len(orphans))
		return nil
	},
}
