package sixhops

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	lib "github.com/sixhops/sixhops"
	"github.com/sixhops/sixhops/pkg/types"
)

var whoPlayedFlags struct {
	kind         string
	season       int
	episode      string
	year         int
	firstAirYear int
	threshold    int
	limit        int
	loadSeasons  bool
	loadEpisodes bool
}

var whoPlayedCmd = &cobra.Command{
	Use:   "whoplayed <title-or-id> <character>",
	Short: "Find who played a character in a movie or series",
	Long: `Whoplayed fuzzily matches a character name against a credit's cast. For
series, --season and --episode scope the view and load the missing sub-trees
on demand, so guest roles in individual episodes are found too.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, _, err := buildClient(ctx)
		if err != nil {
			return err
		}
		defer client.Close(ctx)

		var credit types.ID
		if whoPlayedFlags.kind == "movie" {
			movie, err := client.LookupMovie(ctx, args[0], whoPlayedFlags.year)
			if err != nil {
				return err
			}
			credit = movie.ID()
		} else {
			series, err := client.LookupSeries(ctx, args[0], whoPlayedFlags.firstAirYear)
			if err != nil {
				return err
			}
			credit = series.ID()
		}

		matches, err := client.WhoPlayed(ctx, credit, args[1], lib.WhoPlayedOptions{
			Season:       whoPlayedFlags.season,
			Episode:      whoPlayedFlags.episode,
			LoadSeasons:  whoPlayedFlags.loadSeasons || whoPlayedFlags.season > 0,
			LoadEpisodes: whoPlayedFlags.loadEpisodes || whoPlayedFlags.episode != "",
			Threshold:    whoPlayedFlags.threshold,
			Limit:        whoPlayedFlags.limit,
		})
		if err != nil {
			return err
		}

		type matchDoc struct {
			Character string `yaml:"character"`
			Person    string `yaml:"person"`
			ID        string `yaml:"id"`
			Score     int    `yaml:"score"`
		}
		docs := make([]matchDoc, 0, len(matches))
		for _, m := range matches {
			docs = append(docs, matchDoc{
				Character: m.Character,
				Person:    m.PersonName,
				ID:        m.Person.String(),
				Score:     m.Score,
			})
		}
		return yaml.NewEncoder(os.Stdout).Encode(docs)
	},
}

func init() {
	whoPlayedCmd.Flags().StringVar(&whoPlayedFlags.kind, "kind", "tv", "credit kind (movie, tv)")
	whoPlayedCmd.Flags().IntVar(&whoPlayedFlags.season, "season", 0, "restrict to one season (series only)")
	whoPlayedCmd.Flags().StringVar(&whoPlayedFlags.episode, "episode", "", "restrict to one episode, e.g. s3e7 or 3x7")
	whoPlayedCmd.Flags().IntVar(&whoPlayedFlags.year, "year", 0, "movie release year, narrows title search")
	whoPlayedCmd.Flags().IntVar(&whoPlayedFlags.firstAirYear, "first-air-year", 0, "series first air year, narrows name search")
	whoPlayedCmd.Flags().IntVar(&whoPlayedFlags.threshold, "threshold", 0, "minimum match score (default 75)")
	whoPlayedCmd.Flags().IntVar(&whoPlayedFlags.limit, "limit", 0, "maximum matches (default 5)")
	whoPlayedCmd.Flags().BoolVar(&whoPlayedFlags.loadSeasons, "load-seasons", false, "fetch all season sub-trees before matching")
	whoPlayedCmd.Flags().BoolVar(&whoPlayedFlags.loadEpisodes, "load-episodes", false, "fetch per-episode credits before matching")
	rootCmd.AddCommand(whoPlayedCmd)
}
