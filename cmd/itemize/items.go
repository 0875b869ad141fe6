package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	domainerrors "github.com/erazemk/itemize/internal/errors"
	"github.com/erazemk/itemize/internal/inventory"
	"github.com/erazemk/itemize/internal/listing"
	"github.com/erazemk/itemize/internal/model"
	"github.com/erazemk/itemize/internal/search"
)

var (
	listSearch   string
	listCategory string
	listSort     string
	listGroup    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List items",
	Long: `List filters, sorts and groups every item.

Sort and group default to the saved preferences (see "itemize prefs").

Example:
  itemize list
  itemize list --search cable --group category
  itemize list --category Kitchen --sort newest --json`,
	Args: exactArgs(0),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "match names, fields and tags")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "only items in this category (ID or name)")
	listCmd.Flags().StringVar(&listSort, "sort", "", "sort order: "+joinOptions(model.SortOptions))
	listCmd.Flags().StringVar(&listGroup, "group", "", "grouping: "+joinOptions(model.GroupOptions))
}

func joinOptions[T ~string](opts []T) string {
	names := make([]string, len(opts))
	for i, o := range opts {
		names[i] = string(o)
	}
	return strings.Join(names, ", ")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc := inventoryService()
	p := preferences()

	q := listing.Query{Search: listSearch, Labels: cfg.Labels()}

	var err error
	if q.Location, err = cfg.Location(); err != nil {
		return err
	}
	if listCategory != "" {
		c, err := svc.ResolveCategory(ctx, listCategory)
		if err != nil {
			return err
		}
		q.CategoryID = c.ID
	}

	if listSort != "" {
		q.Sort = model.SortOption(listSort)
		if !q.Sort.Valid() {
			return usagef("unknown sort %q (want one of %s)", listSort, joinOptions(model.SortOptions))
		}
	} else if q.Sort, err = p.SortOption(ctx); err != nil {
		return err
	}
	if listGroup != "" {
		q.Group = model.GroupOption(listGroup)
		if !q.Group.Valid() {
			return usagef("unknown group %q (want one of %s)", listGroup, joinOptions(model.GroupOptions))
		}
	} else if q.Group, err = p.GroupOption(ctx); err != nil {
		return err
	}

	res, err := svc.List(ctx, q)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		return printJSON(out, res)
	}

	if res.Summary.Items == 0 {
		fmt.Fprintln(out, "No items found.")
		return nil
	}
	for i, sec := range res.Sections {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if sec.Title != "" {
			fmt.Fprintf(out, "%s (%d)\n", sec.Title, len(sec.Items))
		}
		printItemRows(out, sec.Items, res.Lookup)
	}
	fmt.Fprintf(out, "Total: %d item(s) in %d categor(ies)\n", res.Summary.Items, res.Summary.Categories)
	return nil
}

var showCmd = &cobra.Command{
	Use:   "show <item>",
	Short: "Show an item and record the view",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc := inventoryService()

		ref, err := svc.ResolveItem(ctx, args[0])
		if err != nil {
			return err
		}
		item, err := svc.View(ctx, ref.ID)
		if err != nil {
			return err
		}
		lookup, err := svc.Lookup(ctx)
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(cmd.OutOrStdout(), newItemView(*item, lookup))
		}
		printItem(cmd.OutOrStdout(), *item, lookup)
		return nil
	},
}

var addPurgeDemo bool

// itemFlags are shared by add and edit.
var itemFlags struct {
	name     string
	quantity int
	category string
	fields   []string
	tags     []string
	favorite bool
	images   []string
}

func addItemFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVarP(&itemFlags.quantity, "qty", "q", 1, "quantity")
	f.StringVarP(&itemFlags.category, "category", "c", "", "category ID or name")
	f.StringArrayVarP(&itemFlags.fields, "field", "f", nil, "key=value attribute (repeatable)")
	f.StringArrayVarP(&itemFlags.tags, "tag", "t", nil, "tag name, created when missing (repeatable)")
	f.BoolVar(&itemFlags.favorite, "favorite", false, "mark as favorite")
}

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an item",
	Long: `Add creates an item. Photos given with --image are normalised and stored
in the image folder. The item is only created if every photo is accepted.

While the sample inventory is present add refuses to run; remove it with
"itemize demo purge" or pass --purge-demo.

Example:
  itemize add "Ethernet cable" -q 3 -c Cables -f length=2m -t network
  itemize add Lamp --image lamp.jpg`,
	Args:        exactArgs(1),
	RunE:        runAdd,
	Annotations: map[string]string{annotationNoSeed: "true"},
}

var editCmd = &cobra.Command{
	Use:   "edit <item>",
	Short: "Change an item",
	Long: `Edit changes the given attributes and keeps the rest.

--field and --tag replace all fields or tags when given. Use --category ""
to remove the category.`,
	Args: exactArgs(1),
	RunE: runEdit,
}

func init() {
	addItemFlags(addCmd)
	addCmd.Flags().StringArrayVar(&itemFlags.images, "image", nil, "JPEG or PNG photo to attach (repeatable)")
	addCmd.Flags().BoolVar(&addPurgeDemo, "purge-demo", false, "remove the sample inventory first if it is still present")

	addItemFlags(editCmd)
	editCmd.Flags().StringVarP(&itemFlags.name, "name", "n", "", "new name")
}

// parseFields converts key=value arguments to field inputs.
func parseFields(args []string) ([]inventory.FieldInput, error) {
	fields := make([]inventory.FieldInput, 0, len(args))
	for _, a := range args {
		key, value, ok := strings.Cut(a, "=")
		if !ok {
			return nil, usagef("invalid field %q (want key=value)", a)
		}
		fields = append(fields, inventory.FieldInput{Key: key, Value: value})
	}
	return fields, nil
}

func resolveCategoryID(cmd *cobra.Command, svc *inventory.Service, ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", nil
	}
	c, err := svc.ResolveCategory(cmd.Context(), ref)
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc := inventoryService()

	fields, err := parseFields(itemFlags.fields)
	if err != nil {
		return err
	}
	categoryID, err := resolveCategoryID(cmd, svc, itemFlags.category)
	if err != nil {
		return err
	}

	photos := make([]io.Reader, 0, len(itemFlags.images))
	for _, path := range itemFlags.images {
		f, err := os.Open(path)
		if err != nil {
			return usagef("opening image: %v", err)
		}
		defer f.Close()
		photos = append(photos, f)
	}

	report, err := demoManager().ClearForUserItem(ctx, addPurgeDemo)
	if domainerrors.Is(err, domainerrors.ErrConflict) {
		return fmt.Errorf(`%w (run "itemize demo purge" or pass --purge-demo)`, err)
	}
	if err != nil {
		return err
	}
	if report != nil && !flagJSON {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d sample item(s)\n", report.ItemsDeleted)
	}

	item, err := svc.CreateItemWithPhotos(ctx, inventory.ItemInput{
		Name:       args[0],
		Quantity:   itemFlags.quantity,
		CategoryID: categoryID,
		Fields:     fields,
		Tags:       itemFlags.tags,
		IsFavorite: itemFlags.favorite,
	}, photos)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(cmd.OutOrStdout(), item)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) with %d photo(s)\n", item.Name, shortID(item.ID), len(item.Images))
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc := inventoryService()

	item, err := svc.ResolveItem(ctx, args[0])
	if err != nil {
		return err
	}
	lookup, err := svc.Lookup(ctx)
	if err != nil {
		return err
	}

	in := inventory.ItemInput{
		Name:       item.Name,
		Quantity:   item.Quantity,
		CategoryID: item.CategoryID,
		Tags:       lookup.TagNames(item.TagIDs),
		IsFavorite: item.IsFavorite,
	}
	for _, f := range item.Fields {
		in.Fields = append(in.Fields, inventory.FieldInput{Key: f.Key, Value: f.Value})
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		in.Name = itemFlags.name
	}
	if flags.Changed("qty") {
		in.Quantity = itemFlags.quantity
	}
	if flags.Changed("category") {
		if in.CategoryID, err = resolveCategoryID(cmd, svc, itemFlags.category); err != nil {
			return err
		}
	}
	if flags.Changed("field") {
		if in.Fields, err = parseFields(itemFlags.fields); err != nil {
			return err
		}
	}
	if flags.Changed("tag") {
		in.Tags = itemFlags.tags
	}
	if flags.Changed("favorite") {
		in.IsFavorite = itemFlags.favorite
	}

	updated, err := svc.UpdateItem(ctx, item.ID, in)
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), updated)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", updated.Name, shortID(updated.ID))
	return nil
}

var rmCmd = &cobra.Command{
	Use:   "rm <item>...",
	Short: "Delete items and their photos",
	Args:  minArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc := inventoryService()
		for _, ref := range args {
			item, err := svc.ResolveItem(ctx, ref)
			if err != nil {
				return err
			}
			if err := svc.DeleteItem(ctx, item.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (%s)\n", item.Name, shortID(item.ID))
		}
		return nil
	},
}

var favOff bool

var favCmd = &cobra.Command{
	Use:   "fav <item>",
	Short: "Mark an item as favorite",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc := inventoryService()
		item, err := svc.ResolveItem(ctx, args[0])
		if err != nil {
			return err
		}
		return svc.SetFavorite(ctx, item.ID, !favOff)
	},
}

func init() {
	favCmd.Flags().BoolVar(&favOff, "off", false, "unmark instead")
}

var findLimit int

var findCmd = &cobra.Command{
	Use:   "find <text>...",
	Short: "Find items, tolerating typos",
	Long: `Find ranks items by how well their name, fields, tags and category
match the text. Small spelling mistakes still match.`,
	Args: minArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc := inventoryService()

		items, err := svc.Find(ctx, strings.Join(args, " "), findLimit)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), items)
		}
		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No items found.")
			return nil
		}
		lookup, err := svc.Lookup(ctx)
		if err != nil {
			return err
		}
		printItemRows(cmd.OutOrStdout(), items, lookup)
		return nil
	},
}

func init() {
	findCmd.Flags().IntVar(&findLimit, "limit", search.DefaultLimit, "maximum number of results")
}

var qtyCmd = &cobra.Command{
	Use:   "qty <item> <delta>",
	Short: "Change an item's quantity by delta",
	Example: `  itemize qty 4f2a9c1e +2
  itemize qty 4f2a9c1e -- -1`,
	Args: exactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc := inventoryService()

		delta, err := strconv.Atoi(args[1])
		if err != nil {
			return usagef("invalid delta %q", args[1])
		}
		item, err := svc.ResolveItem(ctx, args[0])
		if err != nil {
			return err
		}
		qty, err := svc.AdjustQuantity(ctx, item.ID, delta)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), map[string]any{"id": item.ID, "quantity": qty})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", item.Name, qty)
		return nil
	},
}

func attachFile(cmd *cobra.Command, svc *inventory.Service, itemID, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return usagef("opening image: %v", err)
	}
	defer f.Close()

	asset, err := svc.AttachImage(cmd.Context(), itemID, f)
	if err != nil {
		return fmt.Errorf("attaching %s: %w", path, err)
	}
	if !flagJSON {
		fmt.Fprintf(cmd.OutOrStdout(), "Attached %s as %s\n", path, asset.Filename)
	}
	return nil
}
