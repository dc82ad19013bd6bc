package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pkordes/dfw-explorer/internal/browse"
	"github.com/pkordes/dfw-explorer/internal/domain"
)

// filterFlags are shared by places and browse.
type filterFlags struct {
	search    string
	city      string
	category  string
	minRating float64
	maxPrice  int
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.search, "query", "q", "", "free-text search over name, city, neighborhood and description")
	cmd.Flags().StringVar(&f.city, "city", "", "only places in this city")
	cmd.Flags().StringVar(&f.category, "category", "", "only places in this category")
	cmd.Flags().Float64Var(&f.minRating, "min-rating", 0, "minimum rating (0-5)")
	cmd.Flags().IntVar(&f.maxPrice, "max-price", 0, "maximum price level (1-3, 0 for any)")
}

func (f *filterFlags) criteria() domain.FilterCriteria {
	return domain.FilterCriteria{
		Search:        f.search,
		City:          f.city,
		Category:      f.category,
		MinRating:     f.minRating,
		MaxPriceLevel: f.maxPrice,
	}
}

func newPlacesCommand(e *env) *cobra.Command {
	var (
		filters filterFlags
		limit   int
		offset  int
	)

	cmd := &cobra.Command{
		Use:   "places [id]",
		Short: "List places or show one place",
		Long:  "List places sorted by rating, or show a single place by id. Data comes from the live API, the snapshot or the bundled dataset, whichever answers first.",
		Args:  cobra.MaximumNArgs(1),
		RunE: e.run(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			if len(args) == 1 {
				p, err := e.places.FetchPlaceByID(ctx, domain.PlaceID(args[0]))
				if err != nil {
					return err
				}
				return e.printPlaces(cmd.OutOrStdout(), []domain.Place{p})
			}

			c := filters.criteria()
			c.Limit, c.Offset = limit, offset
			places, err := e.places.FetchPlaces(ctx, c)
			if err != nil {
				return err
			}
			return e.printPlaces(cmd.OutOrStdout(), places)
		}),
	}

	filters.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of places")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of places to skip")

	return cmd
}

func newBrowseCommand(e *env) *cobra.Command {
	var (
		filters  filterFlags
		pages    int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through places the way the app scrolls",
		Long:  "Load pages one after another, accumulating them, until the requested number of pages or the end of the data is reached.",
		Args:  cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)
			ctrl := browse.NewController(e.places, browse.Options{PageSize: pageSize}, nil)
			defer ctrl.Close()
			ctrl.SetCriteria(filters.criteria())

			for range pages {
				if err := ctrl.RequestNextPage(ctx); err != nil {
					return err
				}
				if ctrl.State().Done {
					break
				}
			}

			st := ctrl.State()
			if err := e.printPlaces(cmd.OutOrStdout(), st.Places); err != nil {
				return err
			}
			if !e.asJSON {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d places in %d pages (done: %t)\n", len(st.Places), st.Page, st.Done)
			}
			return nil
		}),
	}

	filters.register(cmd)
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")
	cmd.Flags().IntVar(&pageSize, "page-size", browse.DefaultPageSize, "places per page")

	return cmd
}

func (e *env) printPlaces(w io.Writer, places []domain.Place) error {
	if e.asJSON {
		return writeJSON(w, places)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tCITY\tRATING\tPRICE")
	for _, p := range places {
		rating := "-"
		if p.Rating > 0 {
			rating = strconv.FormatFloat(p.Rating, 'f', 1, 64)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.DisplayCategory(), p.City, rating, p.PriceDisplay)
	}
	return tw.Flush()
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
