// Package brewmatch embeds the beer recommender in a Go program.
//
// The client interprets a free-text request with a chat model, queries the
// Punk API catalog, relaxes the filter until something matches and asks the
// model to pick one beer.
//
//	client, _ := brewmatch.New(
//	    brewmatch.WithOpenAI(os.Getenv("OPENAI_API_KEY"), "gpt-3.5-turbo"),
//	    brewmatch.WithLogger(slog.Default()),
//	)
//	rec, err := client.FindBeer(ctx, "something dark and strong, brewed before 2015")
//	if errors.Is(err, brewmatch.ErrExhaustedRetries) {
//	    // the model stayed unavailable through every retry
//	}
//	fmt.Println(rec.Name, rec.RecommendationText)
package brewmatch
