package main

import (
	"github.com/spf13/cobra"
)

// --- Global Flag Variables ---
var (
	flagLimit    int
	flagSort     string
	flagCompact  bool
	flagReason   string
	flagSubmolts []string
	flagExpires  int
	flagSearch   bool
	flagParent   string
	flagURL      string

	rootCmd = &cobra.Command{
		Use:           "molt",
		Short:         "A curated command-line client for Moltbook",
		Long:          "molt reads the Moltbook feeds through a blocklist, kill/select rules,\nand a seen-post cursor, and tracks replies to your comments.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() {
	// Feed reading
	feedCmd.Flags().IntVar(&flagLimit, "limit", 0, "number of posts to fetch (default from config)")
	feedCmd.Flags().StringVar(&flagSort, "sort", "hot", "feed sort: hot or new")
	scanCmd.Flags().IntVar(&flagLimit, "limit", 0, "number of posts to fetch (default from config)")
	scanCmd.Flags().StringVar(&flagSort, "sort", "hot", "feed sort: hot or new")
	briefCmd.Flags().IntVar(&flagLimit, "limit", 0, "number of posts per feed (default from config)")
	postCmd.Flags().BoolVar(&flagCompact, "compact", false, "filtered, flattened comments instead of full JSON")
	submoltPostsCmd.Flags().IntVar(&flagLimit, "limit", 0, "number of posts to fetch (default from config)")
	submoltPostsCmd.Flags().StringVar(&flagSort, "sort", "hot", "sort: hot or new")
	scanSubmoltCmd.Flags().IntVar(&flagLimit, "limit", 0, "number of posts to fetch (default from config)")
	scanSubmoltCmd.Flags().StringVar(&flagSort, "sort", "hot", "sort: hot or new")
	myPostsCmd.Flags().IntVar(&flagLimit, "limit", 10, "number of posts to show")
	searchCmd.Flags().BoolVar(&flagCompact, "compact", false, "summarized output instead of full JSON")
	catchUpCmd.Flags().IntVar(&flagLimit, "limit", 0, "number of posts to mark seen (default from config)")
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "number of archived posts to show")
	rootCmd.AddCommand(feedCmd, scanCmd, briefCmd, postCmd, submoltPostsCmd,
		scanSubmoltCmd, myPostsCmd, searchCmd, catchUpCmd, historyCmd)

	// Posting and voting
	newPostCmd.Flags().StringVar(&flagURL, "url", "", "link URL for a link post")
	commentCmd.Flags().StringVar(&flagParent, "parent", "", "parent comment ID for a reply")
	rootCmd.AddCommand(newPostCmd, commentCmd, replyCmd, upvoteCmd, downvoteCmd, upvoteCommentCmd, deleteCmd)

	// Agents and communities
	profileCmd.Flags().BoolVar(&flagCompact, "compact", false, "summarized output instead of full JSON")
	meCmd.Flags().BoolVar(&flagCompact, "compact", false, "summarized output instead of full JSON")
	submoltsCmd.Flags().BoolVar(&flagCompact, "compact", false, "one line per community instead of full JSON")
	rootCmd.AddCommand(meCmd, profileCmd, updateProfileCmd, statusCmd, followCmd,
		unfollowCmd, submoltsCmd, submoltCmd, createSubmoltCmd, subscribeCmd,
		unsubscribeCmd)

	// Curation state
	blockCmd.Flags().StringVar(&flagReason, "reason", "", "why this author is blocked")
	ruleAddCmd.Flags().StringSliceVar(&flagSubmolts, "submolt", nil, "restrict the rule to these communities")
	ruleAddCmd.Flags().IntVar(&flagExpires, "expires", 0, "days until the rule expires (0 = never)")
	ruleCmd.AddCommand(ruleAddCmd, ruleRemoveCmd, ruleListCmd)
	partnerCheckCmd.Flags().BoolVar(&flagSearch, "search", false, "also query the search API")
	partnerCmd.AddCommand(partnerAddCmd, partnerRemoveCmd, partnerListCmd, partnerCheckCmd, partnerMarkSeenCmd)
	rootCmd.AddCommand(blockCmd, unblockCmd, blocklistCmd, ruleCmd, partnerCmd,
		watchCmd, unwatchCmd, repliesCmd, markReadCmd, cursorCmd, resetCmd)

	rootCmd.AddCommand(daemonCmd)
}
