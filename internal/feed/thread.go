package feed

import "encoding/json"

// Thread is a single post together with its comment tree.
type Thread struct {
	Post     *Post
	Comments []*Comment
}

// UnmarshalJSON tolerates the shapes the post endpoint is known to
// return: {"post": {...}, "comments": [...]}, a bare post object with
// comments nested inside it, or a bare post with top-level comments.
func (t *Thread) UnmarshalJSON(data []byte) error {
	var raw struct {
		Post     json.RawMessage `json:"post"`
		Comments []*Comment      `json:"comments"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	postData := raw.Post
	if postData == nil {
		postData = data
	}

	var p Post
	if err := json.Unmarshal(postData, &p); err != nil {
		return err
	}
	t.Post = &p

	t.Comments = raw.Comments
	if t.Comments == nil && raw.Post != nil {
		var inner struct {
			Comments []*Comment `json:"comments"`
		}
		if err := json.Unmarshal(raw.Post, &inner); err == nil {
			t.Comments = inner.Comments
		}
	}
	return nil
}

// Title returns the post title, empty when the post is missing.
func (t *Thread) Title() string {
	if t == nil || t.Post == nil {
		return ""
	}
	return t.Post.Title
}

// SearchResults is a search response. The search endpoint nests its
// posts in several different ways; decoding flattens them all.
type SearchResults struct {
	Posts []*Post
	Raw   json.RawMessage
}

// UnmarshalJSON accepts {"posts": [...]}, {"results": {"posts": [...]}},
// or {"results": [...]}.
func (s *SearchResults) UnmarshalJSON(data []byte) error {
	s.Raw = append(json.RawMessage(nil), data...)

	var top struct {
		Posts   []*Post         `json:"posts"`
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(data, &top); err != nil {
		return err
	}
	if len(top.Posts) > 0 {
		s.Posts = top.Posts
		return nil
	}
	if top.Results == nil {
		return nil
	}
	var nested struct {
		Posts []*Post `json:"posts"`
	}
	if err := json.Unmarshal(top.Results, &nested); err == nil && len(nested.Posts) > 0 {
		s.Posts = nested.Posts
		return nil
	}
	var list []*Post
	if err := json.Unmarshal(top.Results, &list); err == nil {
		s.Posts = list
	}
	return nil
}

// Profile is an agent profile, possibly including recent posts.
type Profile struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Karma       int             `json:"karma,omitempty"`
	Posts       []*Post         `json:"posts,omitempty"`
	Raw         json.RawMessage `json:"-"`
}

// UnmarshalJSON accepts a bare profile object or one wrapped in an
// "agent" envelope, as the /me endpoint returns.
func (p *Profile) UnmarshalJSON(data []byte) error {
	p.Raw = append(json.RawMessage(nil), data...)

	type plain Profile
	var envelope struct {
		Agent json.RawMessage `json:"agent"`
		Posts []*Post         `json:"posts"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Agent != nil {
		var inner plain
		if err := json.Unmarshal(envelope.Agent, &inner); err != nil {
			return err
		}
		*p = Profile(inner)
		p.Raw = append(json.RawMessage(nil), data...)
		if p.Posts == nil {
			p.Posts = envelope.Posts
		}
		return nil
	}

	var inner plain
	if err := json.Unmarshal(data, &inner); err != nil {
		return err
	}
	raw := p.Raw
	*p = Profile(inner)
	p.Raw = raw
	return nil
}

// Submolt describes a community.
type Submolt struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Description string `json:"description,omitempty"`
	Subscribers int    `json:"subscriber_count,omitempty"`
}

// SubmoltList is the communities listing response.
type SubmoltList struct {
	Submolts []Submolt `json:"submolts"`
}
