package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"rx-solvency-snapshot/internal/xbrl"
)

// Inspect prints the raw fact points behind a snapshot. Without a concept it
// lists every concept in the filing with its point count; with one it dumps
// the points themselves. Useful when a resolved value looks wrong.
func (a *App) Inspect(ctx context.Context, opts InspectOptions) error {
	data, err := a.newEdgarClient().CompanyFacts(ctx, opts.CIK)
	if err != nil {
		return err
	}

	store, err := xbrl.ParseCompanyFacts(data, a.Config.Snapshot.Taxonomy)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "entity: %s\nconcepts: %d\npoints: %d\n\n",
		store.EntityName, len(store.Concepts()), store.Len())

	if opts.Concept == "" {
		return listConcepts(store)
	}
	return listPoints(store, opts.Concept, opts.Limit)
}

func listConcepts(store *xbrl.FactStore) error {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Concept\tPoints")
	for _, name := range store.Concepts() {
		fmt.Fprintf(writer, "%s\t%d\n", name, len(store.Points(name)))
	}
	return writer.Flush()
}

func listPoints(store *xbrl.FactStore, concept string, limit int) error {
	points := store.Points(concept)
	if len(points) == 0 {
		fmt.Fprintf(os.Stdout, "no points for concept %q\n", concept)
		return nil
	}
	if limit > 0 && len(points) > limit {
		points = points[len(points)-limit:]
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "End\tUnit\tValue\tForm\tFP\tFiled\tAccession")
	for _, pt := range points {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			pt.End, pt.Unit, pt.Value.String(), pt.Form, pt.FiscalPeriod, pt.Filed, pt.Accession)
	}
	return writer.Flush()
}
