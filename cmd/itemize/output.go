package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/erazemk/itemize/internal/model"
)

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("%s: accepts %d arg(s), received %d", cmd.CommandPath(), n, len(args))
		}
		return nil
	}
}

// minArgs is cobra.MinimumNArgs reporting a usage error.
func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("%s: requires at least %d arg(s), received %d", cmd.CommandPath(), n, len(args))
		}
		return nil
	}
}

func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

// table buffers rows and prints them aligned, trailing blanks trimmed.
type table struct {
	sb strings.Builder
	tw *tabwriter.Writer
}

func newTable(headers ...string) *table {
	t := &table{}
	t.tw = tabwriter.NewWriter(&t.sb, 0, 0, 2, ' ', 0)
	t.row(headers...)
	dashes := make([]string, len(headers))
	for i, h := range headers {
		dashes[i] = strings.Repeat("-", len(h))
	}
	t.row(dashes...)
	return t
}

func (t *table) row(cols ...string) {
	fmt.Fprintln(t.tw, strings.Join(cols, "\t"))
}

func (t *table) flush(w io.Writer) {
	t.tw.Flush()
	for _, line := range strings.Split(strings.TrimRight(t.sb.String(), "\n"), "\n") {
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func favoriteMark(fav bool) string {
	if fav {
		return "*"
	}
	return ""
}

// printItemRows prints a table of items with their category and tags.
func printItemRows(w io.Writer, items []model.Item, lookup *model.Lookup) {
	t := newTable("ID", "NAME", "QTY", "FAV", "CATEGORY", "TAGS")
	for _, it := range items {
		t.row(
			shortID(it.ID),
			truncate(it.Name, 40),
			strconv.Itoa(it.Quantity),
			favoriteMark(it.IsFavorite),
			lookup.Breadcrumb(it.CategoryID),
			strings.Join(lookup.TagNames(it.TagIDs), ", "),
		)
	}
	t.flush(w)
}

// itemView is the JSON shape of a single item with resolved names.
type itemView struct {
	model.Item
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags"`
}

func newItemView(it model.Item, lookup *model.Lookup) itemView {
	return itemView{
		Item:     it,
		Category: lookup.Breadcrumb(it.CategoryID),
		Tags:     lookup.TagNames(it.TagIDs),
	}
}

func printItem(w io.Writer, it model.Item, lookup *model.Lookup) {
	t := &table{}
	t.tw = tabwriter.NewWriter(&t.sb, 0, 0, 2, ' ', 0)
	t.row("ID:", it.ID)
	t.row("Name:", it.Name)
	t.row("Quantity:", strconv.Itoa(it.Quantity))
	t.row("Favorite:", strconv.FormatBool(it.IsFavorite))
	if c := lookup.Breadcrumb(it.CategoryID); c != "" {
		t.row("Category:", c)
	}
	if names := lookup.TagNames(it.TagIDs); len(names) > 0 {
		t.row("Tags:", strings.Join(names, ", "))
	}
	for _, f := range it.Fields {
		t.row(f.Key+":", f.Value)
	}
	for _, img := range it.Images {
		t.row("Image:", img.ID+"  "+img.Filename)
	}
	t.row("Created:", it.CreatedAt.Local().Format("2006-01-02 15:04"))
	if it.LastAccessedAt != nil {
		t.row("Viewed:", fmt.Sprintf("%s (%d times)", it.LastAccessedAt.Local().Format("2006-01-02 15:04"), it.AccessCount))
	}
	if it.IsDemo {
		t.row("Demo:", "yes")
	}
	t.flush(w)
}
