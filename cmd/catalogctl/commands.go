package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/abgdnv/catalog/internal/importer"
	"github.com/abgdnv/catalog/pkg/catalogclient"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newListCmd(c *cli) *cobra.Command {
	var q catalogclient.Query
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !catalogclient.ValidSort(q.Sort) {
				return fmt.Errorf("unknown sort order %q", q.Sort)
			}
			if err := c.cache.FetchAll(cmd.Context()); err != nil {
				return c.fail(err)
			}
			products := c.cache.View(q)
			if len(products) == 0 {
				_, _ = fmt.Fprintln(c.out, "No products found.")
				return nil
			}
			return printProducts(c, products)
		},
	}
	cmd.Flags().StringVar(&q.Search, "search", "", "case-insensitive text to look for in name, category and description")
	cmd.Flags().StringVar(&q.Category, "category", catalogclient.CategoryAll, "only show this category")
	cmd.Flags().StringVar(&q.Sort, "sort", catalogclient.SortNewest, "newest, price-asc, price-desc, name-asc, name-desc or rating")
	return cmd
}

func newCreateCmd(c *cli) *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			created, err := c.cache.Create(cmd.Context(), f.candidate(cmd.Flags()))
			if err != nil {
				return c.fail(err)
			}
			_, _ = fmt.Fprintf(c.out, "Product created successfully: %s\n", created.ID)
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func newUpdateCmd(c *cli) *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update fields of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := f.patch(cmd.Flags())
			if err != nil {
				return err
			}
			updated, err := c.cache.Update(cmd.Context(), args[0], patch)
			if err != nil {
				return c.fail(err)
			}
			_, _ = fmt.Fprintf(c.out, "Product updated successfully: %s\n", updated.ID)
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func newDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.cache.Delete(cmd.Context(), args[0]); err != nil {
				return c.fail(err)
			}
			_, _ = fmt.Fprintln(c.out, "Product deleted successfully")
			return nil
		},
	}
}

func newImportCmd(c *cli) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import FILE.xlsx",
		Short: "Create products from the first sheet of a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := importer.ParseFile(args[0])
			if err != nil {
				return err
			}
			for _, rowErr := range res.Errors {
				_, _ = fmt.Fprintf(c.out, "skipped %v\n", rowErr)
			}
			if dryRun {
				_, _ = fmt.Fprintf(c.out, "%d rows ready, %d skipped\n", len(res.Rows), len(res.Errors))
				return nil
			}

			created, failed := 0, 0
			for _, row := range res.Rows {
				if _, err := c.cache.Create(cmd.Context(), row.Candidate); err != nil {
					failed++
					_, _ = fmt.Fprintf(c.out, "row %d: %s\n", row.Line, catalogclient.UserMessage(err))
					continue
				}
				created++
			}
			_, _ = fmt.Fprintf(c.out, "%d created, %d failed, %d skipped\n", created, failed, len(res.Errors))
			if failed > 0 {
				return fmt.Errorf("%d rows failed", failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse the file without creating anything")
	return cmd
}

// productFlags are the product fields settable from the command line. Only flags that were set are sent.
type productFlags struct {
	name          string
	price         float64
	image         string
	category      string
	description   string
	originalPrice float64
	inventory     int32
	rating        float64
}

func (f *productFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "product name")
	fs.Float64Var(&f.price, "price", 0, "price")
	fs.StringVar(&f.image, "image", "", "image URL")
	fs.StringVar(&f.category, "category", "", "category")
	fs.StringVar(&f.description, "description", "", "description")
	fs.Float64Var(&f.originalPrice, "original-price", 0, "price before discount")
	fs.Int32Var(&f.inventory, "inventory", 0, "units in stock")
	fs.Float64Var(&f.rating, "rating", 0, "rating from 0 to 5")
}

func (f *productFlags) details(fs *pflag.FlagSet) catalogclient.Details {
	var d catalogclient.Details
	if fs.Changed("category") {
		d.Category = &f.category
	}
	if fs.Changed("description") {
		d.Description = &f.description
	}
	if fs.Changed("original-price") {
		d.OriginalPrice = &f.originalPrice
	}
	if fs.Changed("rating") {
		d.Rating = &f.rating
	}
	if fs.Changed("inventory") {
		inStock := f.inventory > 0
		d.Inventory = &f.inventory
		d.InStock = &inStock
	}
	return d
}

func (f *productFlags) candidate(fs *pflag.FlagSet) catalogclient.Candidate {
	c := catalogclient.Candidate{
		Name:           f.name,
		Image:          f.image,
		ProductDetails: f.details(fs),
	}
	if fs.Changed("price") {
		c.Price = &f.price
	}
	return c
}

func (f *productFlags) patch(fs *pflag.FlagSet) (catalogclient.Patch, error) {
	p := catalogclient.Patch{ProductDetails: f.details(fs)}
	if fs.Changed("name") {
		p.Name = &f.name
	}
	if fs.Changed("price") {
		p.Price = &f.price
	}
	if fs.Changed("image") {
		p.Image = &f.image
	}
	if p == (catalogclient.Patch{}) {
		return p, fmt.Errorf("nothing to update, set at least one field flag")
	}
	return p, nil
}

func printProducts(c *cli, products []catalogclient.Product) error {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tPRICE\tCATEGORY\tRATING\tIN STOCK")
	for _, p := range products {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID,
			p.Name,
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			deref(p.Category, "-"),
			formatRating(p.Rating),
			formatStock(p.InStock),
		)
	}
	return w.Flush()
}

func deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func formatRating(r *float64) string {
	if r == nil {
		return "-"
	}
	return strconv.FormatFloat(*r, 'f', 1, 64)
}

func formatStock(b *bool) string {
	switch {
	case b == nil:
		return "-"
	case *b:
		return "yes"
	default:
		return "no"
	}
}
