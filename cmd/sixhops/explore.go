package sixhops

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	lib "github.com/sixhops/sixhops"
	"github.com/sixhops/sixhops/pkg/explore"
	"github.com/sixhops/sixhops/pkg/telemetry"
	"github.com/sixhops/sixhops/pkg/types"
)

var exploreFlags struct {
	depth        int
	kind         string
	credits      []string
	loadSeasons  bool
	loadEpisodes bool
	lifo         bool
}

var exploreCmd = &cobra.Command{
	Use:   "explore <name-or-id>...",
	Short: "Explore the graph outward from people, movies or series",
	Long: `Explore walks outward from the given identities up to --depth degrees of
separation, fetching and persisting every node it crosses. A degree is
consumed when stepping from a credit into a person, so --depth 2 starting
from an actor reaches their co-stars' co-stars.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, runID := telemetry.WithRunID(cmd.Context())

		client, _, err := buildClient(ctx)
		if err != nil {
			return err
		}
		defer client.Close(ctx)

		var ids []types.ID
		for _, arg := range args {
			id, err := resolveArg(ctx, client, exploreFlags.kind, arg)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}

		opts := lib.ExploreOptions{
			MaxDepth:     exploreFlags.depth,
			LoadSeasons:  exploreFlags.loadSeasons,
			LoadEpisodes: exploreFlags.loadEpisodes,
		}
		if exploreFlags.lifo {
			opts.Discipline = explore.LIFO
		}
		for _, name := range exploreFlags.credits {
			kind, err := types.ParseMediaType(name)
			if err != nil {
				return err
			}
			opts.Credits = append(opts.Credits, kind)
		}

		nodes, err := client.Explore(ctx, ids, opts)
		if err != nil {
			return fmt.Errorf("run %s: %w", runID, err)
		}

		return printNodes(nodes)
	},
}

// resolveArg turns a CLI argument into an identity: numeric ids pass
// through, names go to the provider's search endpoint.
func resolveArg(ctx context.Context, client *lib.Client, kind, arg string) (types.ID, error) {
	switch strings.ToLower(kind) {
	case "person", "":
		person, err := client.LookupPerson(ctx, arg)
		if err != nil {
			return types.ID{}, err
		}
		return person.ID(), nil
	case "movie":
		movie, err := client.LookupMovie(ctx, arg, 0)
		if err != nil {
			return types.ID{}, err
		}
		return movie.ID(), nil
	case "tv", "series":
		series, err := client.LookupSeries(ctx, arg, 0)
		if err != nil {
			return types.ID{}, err
		}
		return series.ID(), nil
	default:
		return types.ID{}, fmt.Errorf("%w: %q", types.ErrUnknownMediaType, kind)
	}
}

func printNodes(nodes []types.Node) error {
	type nodeDoc struct {
		ID      string `yaml:"id"`
		Name    string `yaml:"name"`
		IMDbURL string `yaml:"imdb_url,omitempty"`
	}
	docs := make([]nodeDoc, 0, len(nodes))
	for _, node := range nodes {
		doc := nodeDoc{ID: node.ID().String(), Name: node.Name()}
		if meta := node.Meta(); meta != nil {
			doc.IMDbURL = meta.IMDbURL(node.ID().Kind)
		}
		docs = append(docs, doc)
	}
	return yaml.NewEncoder(os.Stdout).Encode(docs)
}

func init() {
	exploreCmd.Flags().IntVar(&exploreFlags.depth, "depth", 1, "maximum degrees of separation")
	exploreCmd.Flags().StringVar(&exploreFlags.kind, "kind", "person", "kind of the arguments (person, movie, tv)")
	exploreCmd.Flags().StringSliceVar(&exploreFlags.credits, "credits", nil, "credit kinds to follow (movie, tv); empty means all")
	exploreCmd.Flags().BoolVar(&exploreFlags.loadSeasons, "load-seasons", false, "fetch season sub-trees of series")
	exploreCmd.Flags().BoolVar(&exploreFlags.loadEpisodes, "load-episodes", false, "fetch per-episode credits (implies --load-seasons)")
	exploreCmd.Flags().BoolVar(&exploreFlags.lifo, "lifo", false, "explore depth-first instead of breadth-first")
	rootCmd.AddCommand(exploreCmd)
}
