package research

import (
	"context"
	"log"
	"strings"

	"github.com/vartanbeno/go-reddit/v2/reddit"

	"reel-pipeline/types"
)

// MineHookIdeas pulls top post titles from the configured subreddits to seed
// the script writer with hook phrasings that are currently landing. Entirely
// optional: any failure just means fewer ideas.
func (s *Scraper) MineHookIdeas(ctx context.Context, profile *types.BusinessProfile) {
	if len(s.cfg.Research.Subreddits) == 0 {
		return
	}

	client, err := reddit.NewReadonlyClient()
	if err != nil {
		log.Printf("[research] Reddit client warning: %v — skipping hook ideas", err)
		return
	}

	max := s.cfg.Research.MaxHookIdeas
	if max <= 0 {
		max = 10
	}

	for _, sub := range s.cfg.Research.Subreddits {
		posts, _, err := client.Subreddit.TopPosts(ctx, sub, &reddit.ListPostOptions{
			ListOptions: reddit.ListOptions{Limit: 25},
			Time:        "week",
		})
		if err != nil {
			log.Printf("[research] r/%s warning: %v", sub, err)
			continue
		}
		for _, post := range posts {
			if len(profile.HookIdeas) >= max {
				break
			}
			title := strings.TrimSpace(post.Title)
			// very short titles carry no hook structure worth imitating
			if len(title) < 20 || len(title) > 140 {
				continue
			}
			profile.HookIdeas = append(profile.HookIdeas, title)
		}
	}

	log.Printf("[research] Collected %d hook ideas from %d subreddit(s)",
		len(profile.HookIdeas), len(s.cfg.Research.Subreddits))
}
