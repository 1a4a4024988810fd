package graph

import (
	"container/list"
	"errors"
	"fmt"
	"strings"
)

// processingQueue wraps a list-based queue for Kahn's algorithm processing.
// It holds tables whose referenced tables have all been processed.
type processingQueue struct {
	queue *list.List
}

// newProcessingQueue creates a new empty processing queue.
func newProcessingQueue() *processingQueue {
	return &processingQueue{
		queue: list.New(),
	}
}

// Enqueue adds a table to the back of the queue.
func (pq *processingQueue) Enqueue(node string) {
	pq.queue.PushBack(node)
}

// Dequeue removes and returns the table at the front of the queue.
// Returns empty string and false if queue is empty.
func (pq *processingQueue) Dequeue() (string, bool) {
	if pq.queue.Len() == 0 {
		return "", false
	}
	elem := pq.queue.Front()
	pq.queue.Remove(elem)
	return elem.Value.(string), true
}

// Len returns the number of tables in the queue.
func (pq *processingQueue) Len() int {
	return pq.queue.Len()
}

// IsEmpty returns true if the queue is empty.
func (pq *processingQueue) IsEmpty() bool {
	return pq.queue.Len() == 0
}

// isOrderingEdge reports whether an edge constrains creation order.
// Self references and references to unknown tables do not.
func (g *Graph) isOrderingEdge(from, to string) bool {
	return from != to && g.HasNode(to)
}

// CalculatePendingReferences counts, per table, the outgoing references to
// other known tables. A table can be created once this count reaches zero.
func (g *Graph) CalculatePendingReferences() map[string]int {
	pending := make(map[string]int, len(g.Nodes))
	for _, name := range g.order {
		pending[name] = 0
		for _, to := range g.Children[name] {
			if g.isOrderingEdge(name, to) {
				pending[name]++
			}
		}
	}
	return pending
}

// initializeQueue creates a processing queue holding all tables with no
// pending references, in insertion order.
func (g *Graph) initializeQueue(pending map[string]int) *processingQueue {
	pq := newProcessingQueue()
	for _, name := range g.order {
		if pending[name] == 0 {
			pq.Enqueue(name)
		}
	}
	return pq
}

// release marks a table as created and enqueues referencing tables that
// became ready.
func (g *Graph) release(name string, pending map[string]int, queue *processingQueue) {
	for _, from := range g.Parents[name] {
		if !g.isOrderingEdge(from, name) || !g.HasNode(from) {
			continue
		}
		pending[from]--
		if pending[from] == 0 {
			queue.Enqueue(from)
		}
	}
}

// ErrCycleDetected is returned when the references between tables form a
// cycle, making a creation order impossible.
var ErrCycleDetected = errors.New("cycle detected in foreign key graph")

// CycleInfo contains information about incomplete processing due to cycles.
type CycleInfo struct {
	TotalNodes        int      // Total number of tables in the graph
	ProcessedNodes    int      // Number of tables successfully ordered
	UnprocessedNodes  []string // Tables that couldn't be ordered (part of or blocked by cycle)
	CycleParticipants []string // Tables that are actually part of a cycle (subset of UnprocessedNodes)
	CyclePath         []string // Ordered path showing the cycle (e.g., [A, B, C, A])
}

// CycleError represents a cycle detection error with detailed information about
// which tables are involved and which are blocked by the cycle.
type CycleError struct {
	Info *CycleInfo
}

// Error implements the error interface with a descriptive message that includes
// the tables in the cycle and any tables blocked by the cycle.
func (e *CycleError) Error() string {
	msg := fmt.Sprintf("cycle detected in foreign key graph: %d of %d tables could not be ordered",
		len(e.Info.UnprocessedNodes), e.Info.TotalNodes)

	if len(e.Info.CyclePath) > 0 {
		msg += fmt.Sprintf("\nCycle path: %s", strings.Join(e.Info.CyclePath, " -> "))
	}

	if len(e.Info.CycleParticipants) > 0 {
		msg += fmt.Sprintf("\nTables in cycle: %s", strings.Join(e.Info.CycleParticipants, ", "))
	}

	if blocked := e.Info.Blocked(); len(blocked) > 0 {
		msg += fmt.Sprintf("\nTables blocked by cycle: %s", strings.Join(blocked, ", "))
	}

	return msg
}

// Is allows errors.Is(err, ErrCycleDetected).
func (e *CycleError) Is(target error) bool {
	return target == ErrCycleDetected
}

// Blocked returns the unprocessed tables that are not themselves part of a cycle.
func (ci *CycleInfo) Blocked() []string {
	participantSet := make(map[string]bool, len(ci.CycleParticipants))
	for _, p := range ci.CycleParticipants {
		participantSet[p] = true
	}

	var blocked []string
	for _, u := range ci.UnprocessedNodes {
		if !participantSet[u] {
			blocked = append(blocked, u)
		}
	}
	return blocked
}

// DetectIncompleteProcessing runs Kahn's algorithm and returns information
// about any tables that couldn't be ordered. Returns nil if there is no cycle.
func (g *Graph) DetectIncompleteProcessing() *CycleInfo {
	pending := g.CalculatePendingReferences()
	queue := g.initializeQueue(pending)

	processed := make(map[string]bool)
	for !queue.IsEmpty() {
		node, _ := queue.Dequeue()
		processed[node] = true
		g.release(node, pending, queue)
	}

	if len(processed) == len(g.Nodes) {
		return nil
	}

	var unprocessed []string
	unprocessedSet := make(map[string]bool)
	for _, name := range g.order {
		if !processed[name] {
			unprocessed = append(unprocessed, name)
			unprocessedSet[name] = true
		}
	}

	var cycleParticipants []string
	for _, node := range unprocessed {
		if g.canReachSelf(node, unprocessedSet) {
			cycleParticipants = append(cycleParticipants, node)
		}
	}

	var cyclePath []string
	if len(cycleParticipants) > 0 {
		cyclePath = g.FindCyclePath(cycleParticipants[0], unprocessedSet)
	}

	return &CycleInfo{
		TotalNodes:        len(g.Nodes),
		ProcessedNodes:    len(processed),
		UnprocessedNodes:  unprocessed,
		CycleParticipants: cycleParticipants,
		CyclePath:         cyclePath,
	}
}

// HasCycle returns true if the references between tables contain a cycle.
func (g *Graph) HasCycle() bool {
	return g.DetectIncompleteProcessing() != nil
}

// FindCyclePath finds the path that forms a cycle starting from the given table.
// Returns the ordered list of tables forming the cycle (including the start at both ends).
func (g *Graph) FindCyclePath(start string, allowedNodes map[string]bool) []string {
	visited := make(map[string]bool)
	path := []string{start}

	if g.dfsFindPath(start, start, visited, allowedNodes, &path) {
		return path
	}

	return nil
}

// dfsFindPath performs DFS to find a path back to the target table.
func (g *Graph) dfsFindPath(current, target string, visited, allowedNodes map[string]bool, path *[]string) bool {
	for _, child := range g.GetChildren(current) {
		if child == current || !allowedNodes[child] {
			continue
		}

		if child == target {
			*path = append(*path, target)
			return true
		}

		if visited[child] {
			continue
		}

		visited[child] = true
		*path = append(*path, child)

		if g.dfsFindPath(child, target, visited, allowedNodes, path) {
			return true
		}

		// Backtrack
		*path = (*path)[:len(*path)-1]
	}

	return false
}

// canReachSelf checks if a table can reach itself through the subgraph
// defined by the allowedNodes set, ignoring direct self references.
func (g *Graph) canReachSelf(start string, allowedNodes map[string]bool) bool {
	visited := make(map[string]bool)
	return g.dfsCanReach(start, start, visited, allowedNodes, true)
}

func (g *Graph) dfsCanReach(current, target string, visited, allowedNodes map[string]bool, isStart bool) bool {
	if current == target && !isStart {
		return true
	}

	if visited[current] || !allowedNodes[current] {
		return false
	}

	visited[current] = true

	for _, child := range g.GetChildren(current) {
		if child == current {
			continue
		}
		if g.dfsCanReach(child, target, visited, allowedNodes, false) {
			return true
		}
	}

	return false
}

// TopologicalSort returns tables in creation order using Kahn's algorithm:
// every table appears after the tables it references.
// Returns a CycleError if the references contain a cycle.
func (g *Graph) TopologicalSort() ([]string, error) {
	pending := g.CalculatePendingReferences()
	queue := g.initializeQueue(pending)

	result := make([]string, 0, len(g.Nodes))
	for !queue.IsEmpty() {
		node, _ := queue.Dequeue()
		result = append(result, node)
		g.release(node, pending, queue)
	}

	if len(result) != len(g.Nodes) {
		return nil, &CycleError{Info: g.DetectIncompleteProcessing()}
	}

	return result, nil
}

// CreationOrder returns the order in which the tables can be created so that
// every referenced table exists first.
func (g *Graph) CreationOrder() ([]string, error) {
	return g.TopologicalSort()
}

// DropOrder returns the order in which the tables can be dropped.
// This is the reverse of the creation order.
func (g *Graph) DropOrder() ([]string, error) {
	creationOrder, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}

	dropOrder := make([]string, len(creationOrder))
	for i, table := range creationOrder {
		dropOrder[len(creationOrder)-1-i] = table
	}

	return dropOrder, nil
}
