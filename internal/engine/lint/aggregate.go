package lint

type dedupKey struct {
	nodeID   string
	category Category
	details  string
	message  string
}

func keyOf(i Issue) dedupKey {
	k := dedupKey{nodeID: i.NodeID, category: i.Category, details: i.Details}
	if i.Category == CategoryRadius {
		k.message = i.Message
	}
	return k
}

// Deduplicate drops repeated findings. Radius issues are keyed by node, category, details and
// message; every other category by node, category and details. The first occurrence wins.
func Deduplicate(raw []Issue) []Issue {
	seen := make(map[dedupKey]struct{}, len(raw))
	out := make([]Issue, 0, len(raw))
	for _, issue := range raw {
		k := keyOf(issue)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, issue)
	}
	return out
}

// NodeGroup is the set of issues reported for one node.
type NodeGroup struct {
	NodeID   string
	NodeName string
	Issues   []Issue
}

// GroupByNode groups issues by (node id, node name) in first-seen order.
func GroupByNode(issues []Issue) []NodeGroup {
	type groupKey struct{ id, name string }
	idx := make(map[groupKey]int)
	out := make([]NodeGroup, 0)
	for _, issue := range issues {
		k := groupKey{issue.NodeID, issue.NodeName}
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, NodeGroup{NodeID: issue.NodeID, NodeName: issue.NodeName})
		}
		out[i].Issues = append(out[i].Issues, issue)
	}
	return out
}

// GroupByCategory buckets issues per category, keeping encounter order inside each bucket.
func GroupByCategory(issues []Issue) map[Category][]Issue {
	out := make(map[Category][]Issue)
	for _, issue := range issues {
		out[issue.Category] = append(out[issue.Category], issue)
	}
	return out
}

// CountByCategory counts issues per category. Pass the deduplicated set.
func CountByCategory(issues []Issue) map[Category]int {
	out := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		out[c] = 0
	}
	for _, issue := range issues {
		out[issue.Category]++
	}
	return out
}
