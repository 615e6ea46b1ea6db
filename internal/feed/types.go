// Package feed defines the Moltbook wire model: posts, nested comment
// trees, and the polymorphic author/submolt references the API returns.
package feed

import "encoding/json"

// Ident is an author or submolt reference. The API is inconsistent about
// these: sometimes a bare name string, sometimes an embedded object with
// a "name" field. Decoding normalizes both forms to the plain name, so
// nothing past the JSON boundary ever sees the polymorphic shape.
type Ident string

// UnmarshalJSON accepts either "name" or {"name": "..."}.
func (n *Ident) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = Ident(s)
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		// Tolerate null and other junk rather than failing the whole
		// response decode.
		*n = ""
		return nil
	}
	*n = Ident(obj.Name)
	return nil
}

// Post is a single feed entry.
type Post struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Content      string `json:"content,omitempty"`
	URL          string `json:"url,omitempty"`
	Author       Ident  `json:"author"`
	Submolt      Ident  `json:"submolt"`
	Upvotes      int    `json:"upvotes"`
	CommentCount int    `json:"comment_count"`
	CreatedAt    string `json:"created_at"`
}

// AuthorName returns the normalized author name, "unknown" when absent.
func (p *Post) AuthorName() string {
	if p.Author == "" {
		return "unknown"
	}
	return string(p.Author)
}

// SubmoltName returns the normalized submolt name, empty when absent.
func (p *Post) SubmoltName() string {
	return string(p.Submolt)
}

// Comment is one node of a post's nested comment tree.
type Comment struct {
	ID        string     `json:"id"`
	Author    Ident      `json:"author"`
	Content   string     `json:"content"`
	Upvotes   int        `json:"upvotes"`
	ParentID  string     `json:"parent_id,omitempty"`
	CreatedAt string     `json:"created_at,omitempty"`
	Replies   []*Comment `json:"replies,omitempty"`
}

// AuthorName returns the normalized author name, "unknown" when absent.
func (c *Comment) AuthorName() string {
	if c.Author == "" {
		return "unknown"
	}
	return string(c.Author)
}

// Page is a feed response: an ordered list of posts.
type Page struct {
	Posts []*Post `json:"posts"`
}

// PostIDs extracts the non-empty IDs from a post list, preserving order.
func PostIDs(posts []*Post) []string {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		if p != nil && p.ID != "" {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// ByAuthor filters a post list down to posts by one exact author name.
func ByAuthor(posts []*Post, name string) []*Post {
	var out []*Post
	for _, p := range posts {
		if p.AuthorName() == name {
			out = append(out, p)
		}
	}
	return out
}

// FlattenComments flattens a comment tree into a depth-first list. The
// returned nodes are copies with Replies cleared; the input tree is not
// modified.
func FlattenComments(comments []*Comment) []*Comment {
	var flat []*Comment
	for _, c := range comments {
		entry := *c
		entry.Replies = nil
		flat = append(flat, &entry)
		if len(c.Replies) > 0 {
			flat = append(flat, FlattenComments(c.Replies)...)
		}
	}
	return flat
}

// CommentRef identifies a comment created through the API. Raw carries
// the untouched response body for passthrough output.
type CommentRef struct {
	ID  string          `json:"id"`
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON accepts {"comment": {"id": ...}} or a bare comment object.
func (r *CommentRef) UnmarshalJSON(data []byte) error {
	r.Raw = append(json.RawMessage(nil), data...)
	var nested struct {
		Comment struct {
			ID string `json:"id"`
		} `json:"comment"`
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &nested); err != nil {
		return nil
	}
	if nested.Comment.ID != "" {
		r.ID = nested.Comment.ID
	} else {
		r.ID = nested.ID
	}
	return nil
}
