package sixhops

import (
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var rebuildEdgesCmd = &cobra.Command{
	Use:   "rebuild-edges",
	Short: "Rebuild the actor/credit edge tables from stored metadata",
	Long: `Rebuild-edges walks every stored person document and writes one edge per
credit into the edge tables. Run it after explorations to keep co-star
queries up to date; it never contacts the provider.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, _, err := buildClient(ctx)
		if err != nil {
			return err
		}
		defer client.Close(ctx)

		edges, err := client.RebuildCreditEdges(ctx)
		if err != nil {
			return err
		}
		cmd.Printf("wrote %d edges\n", edges)
		return nil
	},
}

var coStarsCmd = &cobra.Command{
	Use:   "costars <name-or-id>",
	Short: "List everyone sharing a stored credit with a person",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, _, err := buildClient(ctx)
		if err != nil {
			return err
		}
		defer client.Close(ctx)

		person, err := client.LookupPerson(ctx, args[0])
		if err != nil {
			return err
		}

		shared, err := client.CoStars(ctx, person.ID())
		if err != nil {
			return err
		}

		type coStarDoc struct {
			Person  string   `yaml:"person"`
			Credits []string `yaml:"credits"`
		}
		docs := make([]coStarDoc, 0, len(shared))
		for costar, credits := range shared {
			doc := coStarDoc{Person: costar.String()}
			for _, credit := range credits {
				doc.Credits = append(doc.Credits, credit.String())
			}
			docs = append(docs, doc)
		}
		sort.Slice(docs, func(i, j int) bool { return docs[i].Person < docs[j].Person })
		return yaml.NewEncoder(os.Stdout).Encode(docs)
	},
}

func init() {
	rootCmd.AddCommand(rebuildEdgesCmd)
	rootCmd.AddCommand(coStarsCmd)
}
