package feed

// PruneAndPromote filters a comment tree bottom-up: each node's children
// are filtered first, then the node itself is tested. A dropped node's
// already-filtered children are spliced into the parent's result at the
// position the dropped node occupied, so descendants are never lost,
// only promoted one level up. Their ParentID is left as-is even though
// it no longer resolves within the reduced tree.
//
// No input node is mutated: a kept node whose reply list changed is
// replaced by a shallow copy.
func PruneAndPromote(comments []*Comment, drop func(*Comment) bool) []*Comment {
	result := make([]*Comment, 0, len(comments))
	for _, c := range comments {
		var filtered []*Comment
		if len(c.Replies) > 0 {
			filtered = PruneAndPromote(c.Replies, drop)
		}
		if drop(c) {
			result = append(result, filtered...)
			continue
		}
		if repliesChanged(c.Replies, filtered) {
			kept := *c
			kept.Replies = filtered
			result = append(result, &kept)
		} else {
			result = append(result, c)
		}
	}
	return result
}

func repliesChanged(orig, filtered []*Comment) bool {
	if len(orig) != len(filtered) {
		return true
	}
	for i := range orig {
		if orig[i] != filtered[i] {
			return true
		}
	}
	return false
}

// CollectCommentIDs gathers every comment ID in a tree, depth-first.
func CollectCommentIDs(comments []*Comment) []string {
	var ids []string
	for _, c := range comments {
		if c.ID != "" {
			ids = append(ids, c.ID)
		}
		if len(c.Replies) > 0 {
			ids = append(ids, CollectCommentIDs(c.Replies)...)
		}
	}
	return ids
}
