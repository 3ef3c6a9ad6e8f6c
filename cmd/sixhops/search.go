package sixhops

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sixhops/sixhops/pkg/tmdb"
	"github.com/sixhops/sixhops/pkg/types"
)

var searchFlags struct {
	kind  string
	limit int
	year  int
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the provider for people, movies or series by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, _, err := buildClient(ctx)
		if err != nil {
			return err
		}
		defer client.Close(ctx)

		var kind types.Kind
		switch searchFlags.kind {
		case "person", "":
			kind = types.KindPerson
		case "movie":
			kind = types.KindMovie
		case "tv", "series":
			kind = types.KindSeries
		default:
			return fmt.Errorf("unknown kind %q", searchFlags.kind)
		}

		opts := tmdb.SearchOptions{Limit: searchFlags.limit}
		if kind == types.KindMovie {
			opts.Year = searchFlags.year
		} else if kind == types.KindSeries {
			opts.FirstAirYear = searchFlags.year
		}

		found, err := client.Search(ctx, kind, args[0], opts)
		if err != nil {
			return err
		}

		type resultDoc struct {
			ID   string `yaml:"id"`
			Name string `yaml:"name"`
			Date string `yaml:"date,omitempty"`
		}
		docs := make([]resultDoc, 0, len(found))
		for _, r := range found {
			docs = append(docs, resultDoc{ID: r.ID.String(), Name: r.Name, Date: r.Date})
		}
		return yaml.NewEncoder(os.Stdout).Encode(docs)
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchFlags.kind, "kind", "person", "what to search for (person, movie, tv)")
	searchCmd.Flags().IntVar(&searchFlags.limit, "limit", 0, "maximum results (default 5)")
	searchCmd.Flags().IntVar(&searchFlags.year, "year", 0, "release or first-air year filter")
	rootCmd.AddCommand(searchCmd)
}
