// Package teamtl translates the free-text history of football teams and caches
// the result per (team, target language).
//
// A cached translation is reused only while the team's current history is
// byte-for-byte equal to the text the translation was computed from. Editing a
// team's history therefore invalidates every cached language for that team,
// lazily, on the next lookup.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/teamtl"
//	    "github.com/ZaguanLabs/teamtl/cache"
//	    "github.com/ZaguanLabs/teamtl/provider"
//	    "github.com/ZaguanLabs/teamtl/store"
//	)
//
//	func main() {
//	    p := provider.NewOpenAIProvider(provider.OpenAIConfig{
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    })
//
//	    teams, _ := store.NewSQLiteStore(store.SQLiteConfig{Path: "teams.db"})
//	    svc := teamtl.NewService(teams, cache.NewMemoryStore(), p)
//
//	    res, err := svc.LookupOrTranslate(context.Background(), "7", "es")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(res.TranslatedText, res.WasCached)
//	}
package teamtl
