// Package rules implements pattern-based kill/select feed rules,
// inspired by nn's kill file. Kill rules hide matching posts, select
// rules highlight them, and kill wins when both match.
package rules

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/micheloosterhof/moltbook/internal/feed"
	"github.com/micheloosterhof/moltbook/internal/state"
)

// Rule actions.
const (
	ActionKill   = "kill"
	ActionSelect = "select"
)

// Rule fields.
const (
	FieldTitle   = "title"
	FieldAuthor  = "author"
	FieldSubmolt = "submolt"
)

// Rule is one kill or select pattern. Pattern is a case-insensitive
// substring match, or a case-insensitive regexp when wrapped in
// /slashes/. Submolts, when set, scopes the rule to those communities.
type Rule struct {
	Action   string     `json:"action"`
	Field    string     `json:"field"`
	Pattern  string     `json:"pattern"`
	Submolts []string   `json:"submolts"`
	Created  time.Time  `json:"created"`
	Expires  *time.Time `json:"expires"`
}

func (r *Rule) expired(now time.Time) bool {
	return r.Expires != nil && !r.Expires.After(now)
}

// matchesPost checks the rule against a post, honoring submolt scoping.
func (r *Rule) matchesPost(p *feed.Post) bool {
	if !r.inScope(p.SubmoltName()) {
		return false
	}
	return match(r.Pattern, postField(p, r.Field))
}

// matchesComment checks the rule against a comment node. Comments carry
// no title or submolt, so those fields match nothing and a
// submolt-scoped rule never applies.
func (r *Rule) matchesComment(c *feed.Comment) bool {
	if len(r.Submolts) > 0 {
		return false
	}
	if r.Field != FieldAuthor {
		return false
	}
	return match(r.Pattern, c.AuthorName())
}

func (r *Rule) inScope(submolt string) bool {
	if len(r.Submolts) == 0 {
		return true
	}
	for _, s := range r.Submolts {
		if s == submolt {
			return true
		}
	}
	return false
}

func postField(p *feed.Post, field string) string {
	switch field {
	case FieldTitle:
		return p.Title
	case FieldAuthor:
		return p.AuthorName()
	case FieldSubmolt:
		return p.SubmoltName()
	}
	return ""
}

// match tests a pattern against text. A pattern wrapped in /slashes/
// (longer than the delimiters alone) is a case-insensitive regexp
// search; a malformed regexp never matches. Anything else is a
// case-insensitive substring test.
func match(pattern, text string) bool {
	if text == "" {
		return false
	}
	if len(pattern) > 2 && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") {
		re, err := regexp.Compile("(?i)" + pattern[1:len(pattern)-1])
		if err != nil {
			return false
		}
		return re.MatchString(text)
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(pattern))
}

type rulesData struct {
	Rules []Rule `json:"rules"`
}

// Rules is the persistent rule store. Expired rules are pruned lazily on
// every read or apply; there is no background timer.
type Rules struct {
	path string
	data rulesData
}

// New loads rules from path, or from the default state file when path is
// empty. A missing or corrupt file starts empty.
func New(path string) *Rules {
	if path == "" {
		path = state.Resolve("rules.json")
	}
	r := &Rules{path: path}
	state.Load(path, &r.data)
	return r
}

func (r *Rules) save() error {
	return state.Save(r.path, &r.data)
}

// Add appends a kill or select rule. expiresDays, when non-zero, sets
// the rule to expire that many days from now; zero means permanent.
func (r *Rules) Add(action, field, pattern string, submolts []string, expiresDays int) error {
	if action != ActionKill && action != ActionSelect {
		return fmt.Errorf("rule action must be %q or %q, got %q", ActionKill, ActionSelect, action)
	}
	if field != FieldTitle && field != FieldAuthor && field != FieldSubmolt {
		return fmt.Errorf("rule field must be %q, %q, or %q, got %q", FieldTitle, FieldAuthor, FieldSubmolt, field)
	}

	now := time.Now().UTC()
	rule := Rule{
		Action:   action,
		Field:    field,
		Pattern:  pattern,
		Submolts: submolts,
		Created:  now,
	}
	if expiresDays != 0 {
		exp := now.AddDate(0, 0, expiresDays)
		rule.Expires = &exp
	}
	r.data.Rules = append(r.data.Rules, rule)
	return r.save()
}

// Remove deletes the rule at an ordinal position; out-of-range indexes
// are a no-op. The index is the removal key: removing a rule shifts the
// indexes of every later rule, so a stale index deletes the wrong rule.
// Callers must re-list before removing.
func (r *Rules) Remove(index int) error {
	if index < 0 || index >= len(r.data.Rules) {
		return nil
	}
	r.data.Rules = append(r.data.Rules[:index], r.data.Rules[index+1:]...)
	return r.save()
}

// prune drops expired rules, persisting only when something was dropped.
func (r *Rules) prune() {
	now := time.Now().UTC()
	kept := r.data.Rules[:0]
	for _, rule := range r.data.Rules {
		if !rule.expired(now) {
			kept = append(kept, rule)
		}
	}
	if len(kept) != len(r.data.Rules) {
		r.data.Rules = kept
		if err := r.save(); err != nil {
			// Pruning is housekeeping; the expired rules are still
			// gone from memory for this process.
			return
		}
	}
}

// Active prunes expired rules and returns the remaining ones in order.
func (r *Rules) Active() []Rule {
	r.prune()
	return append([]Rule(nil), r.data.Rules...)
}

// Result partitions a post list by rule outcome. Selected posts also
// appear in Keep; killed posts appear only in Killed.
type Result struct {
	Keep     []*feed.Post
	Killed   []*feed.Post
	Selected []*feed.Post
}

// Apply evaluates every active rule against every post. A kill match
// removes the post from consideration entirely, taking precedence over
// any select match on the same post.
func (r *Rules) Apply(posts []*feed.Post) Result {
	r.prune()
	res := Result{
		Keep:     []*feed.Post{},
		Killed:   []*feed.Post{},
		Selected: []*feed.Post{},
	}
	for _, p := range posts {
		killed, selected := false, false
		for i := range r.data.Rules {
			rule := &r.data.Rules[i]
			if !rule.matchesPost(p) {
				continue
			}
			switch rule.Action {
			case ActionKill:
				killed = true
			case ActionSelect:
				selected = true
			}
		}
		switch {
		case killed:
			res.Killed = append(res.Killed, p)
		case selected:
			res.Selected = append(res.Selected, p)
			res.Keep = append(res.Keep, p)
		default:
			res.Keep = append(res.Keep, p)
		}
	}
	return res
}

// ApplyComments drops comments matching kill rules from a comment tree,
// promoting surviving replies the same way the blocklist does. Select
// rules have no meaning for comments and are ignored.
func (r *Rules) ApplyComments(comments []*feed.Comment) []*feed.Comment {
	r.prune()
	var kill []*Rule
	for i := range r.data.Rules {
		if r.data.Rules[i].Action == ActionKill {
			kill = append(kill, &r.data.Rules[i])
		}
	}
	if len(kill) == 0 {
		return comments
	}
	return feed.PruneAndPromote(comments, func(c *feed.Comment) bool {
		for _, rule := range kill {
			if rule.matchesComment(c) {
				return true
			}
		}
		return false
	})
}

// Summary returns a compact text summary of the active rules, with each
// rule's removal index.
func (r *Rules) Summary() string {
	active := r.Active()
	if len(active) == 0 {
		return "No feed rules configured."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Feed rules (%d):", len(active))
	for i, rule := range active {
		scope := ""
		if len(rule.Submolts) > 0 {
			scope = " in " + strings.Join(rule.Submolts, ",")
		}
		expires := ""
		if rule.Expires != nil {
			expires = fmt.Sprintf(" (expires %s)", rule.Expires.Format("2006-01-02"))
		}
		fmt.Fprintf(&b, "\n  [%d] %s %s=%q%s%s", i, rule.Action, rule.Field, rule.Pattern, scope, expires)
	}
	return b.String()
}
