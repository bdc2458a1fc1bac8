package graph

// relaxDepths recomputes every node's depth as the shortest hop count from
// any seed, via multi-source breadth-first search over the adjacency in both
// edge directions, capped at MaxDepth+1 hops. Nodes not reached within the
// cap keep the unreachable sentinel depth: they stay in the store but are
// excluded from frontier selection (lazy re-flagging, no eviction).
//
// Depth is a shortest-path quantity, not fixed at creation: a later edge may
// discover a shorter path to a previously-deep node. Caller holds the lock.
func (s *Store) relaxDepths() {
	limit := s.unreachableDepth()

	depths := make(map[string]int, len(s.nodes))
	var frontier []string
	for id, node := range s.nodes {
		if node.Seed {
			depths[id] = 0
			frontier = append(frontier, id)
		} else {
			depths[id] = limit
		}
	}

	for hop := 1; hop <= limit && len(frontier) > 0; hop++ {
		var next []string
		for _, id := range frontier {
			for _, idx := range s.adjacency[id] {
				edge := s.edges[idx]
				neighbor := edge.TargetNodeID
				if neighbor == id {
					neighbor = edge.SourceNodeID
				}
				if depths[neighbor] > hop {
					depths[neighbor] = hop
					next = append(next, neighbor)
				}
			}
		}
		frontier = next
	}

	for id, d := range depths {
		s.nodes[id].Depth = d
	}
}
