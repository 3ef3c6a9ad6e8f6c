// Package sixhops explores degrees of separation between actors through the
// movies and series they share, backed by a remote media-metadata provider.
//
// The graph is bipartite: person nodes connect to credit nodes (movies and
// series) and never directly to each other. One degree of separation is
// consumed when stepping from a credit into a person. Everything fetched is
// persisted, together with how deeply each identity has been explored, so
// repeated runs over the same neighborhood cost nothing.
//
// # Basic Usage
//
// Create a client over a store and the TMDB adapter:
//
//	st, err := store.New(ctx, store.Config{Driver: "sqlite", Path: "sixhops.db"}, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer st.Close(ctx)
//
//	adapter := tmdb.NewClient(os.Getenv("TMDB_API_KEY"))
//	client, err := sixhops.NewClient(st, adapter, nil, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Exploring
//
// Start from any person, movie or series and walk outward:
//
//	person, err := client.LookupPerson(ctx, "Mark Hamill")
//	if err != nil {
//		log.Fatal(err)
//	}
//	nodes, err := client.Explore(ctx, []types.ID{person.ID()}, sixhops.ExploreOptions{MaxDepth: 2})
//
// An exploration run is transactional: a provider failure mid-run rolls back
// every depth update, so the store never records a half-finished run.
//
// # Character Search
//
//	matches, err := client.WhoPlayed(ctx, seriesID, "vader", sixhops.WhoPlayedOptions{Season: 2})
//
// Season and episode scoping load the missing sub-trees on demand.
package sixhops
