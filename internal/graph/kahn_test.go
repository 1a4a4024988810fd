package graph

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func addTables(g *Graph, names ...string) {
	for _, n := range names {
		g.AddNode(&Node{Name: n})
	}
}

func ref(g *Graph, from, to string) {
	g.AddEdge(Edge{From: from, To: to, Label: strings.ToLower(to) + "_id", RefColumn: "id"})
}

func TestCalculatePendingReferences(t *testing.T) {
	g := NewGraph()
	addTables(g, "order_items", "orders", "customers")
	ref(g, "order_items", "orders")
	ref(g, "orders", "customers")
	ref(g, "orders", "orders")     // self reference
	ref(g, "orders", "warehouses") // dangling

	pending := g.CalculatePendingReferences()

	want := map[string]int{"order_items": 1, "orders": 1, "customers": 0}
	if !reflect.DeepEqual(pending, want) {
		t.Errorf("Expected %v, got %v", want, pending)
	}
}

func TestTopologicalSort_Chain(t *testing.T) {
	g := NewGraph()
	addTables(g, "order_items", "orders", "customers")
	ref(g, "order_items", "orders")
	ref(g, "orders", "customers")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("TopologicalSort() failed: %v", err)
	}

	want := []string{"customers", "orders", "order_items"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("Expected %v, got %v", want, order)
	}
}

func TestTopologicalSort_IndependentTablesKeepInsertionOrder(t *testing.T) {
	g := NewGraph()
	addTables(g, "c", "a", "b")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("TopologicalSort() failed: %v", err)
	}

	want := []string{"c", "a", "b"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("Expected %v, got %v", want, order)
	}
}

func TestTopologicalSort_MultipleReferencesToSameTable(t *testing.T) {
	g := NewGraph()
	addTables(g, "transfers", "accounts")
	g.AddEdge(Edge{From: "transfers", To: "accounts", Label: "from_id"})
	g.AddEdge(Edge{From: "transfers", To: "accounts", Label: "to_id"})

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("TopologicalSort() failed: %v", err)
	}

	want := []string{"accounts", "transfers"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("Expected %v, got %v", want, order)
	}
}

func TestTopologicalSort_SelfReferenceIsNotACycle(t *testing.T) {
	g := NewGraph()
	addTables(g, "employees")
	ref(g, "employees", "employees")

	if g.HasCycle() {
		t.Error("Self reference should not be reported as a cycle")
	}
	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("TopologicalSort() failed: %v", err)
	}
	if !reflect.DeepEqual(order, []string{"employees"}) {
		t.Errorf("Unexpected order %v", order)
	}
}

func TestTopologicalSort_Cycle(t *testing.T) {
	g := NewGraph()
	addTables(g, "a", "b", "c", "d")
	ref(g, "a", "b")
	ref(g, "b", "c")
	ref(g, "c", "a")
	ref(g, "d", "a") // blocked by the cycle

	_, err := g.TopologicalSort()
	if err == nil {
		t.Fatal("Expected cycle error")
	}
	if !errors.Is(err, ErrCycleDetected) {
		t.Errorf("Expected errors.Is(err, ErrCycleDetected)")
	}

	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("Expected *CycleError, got %T", err)
	}

	if ce.Info.TotalNodes != 4 || ce.Info.ProcessedNodes != 0 {
		t.Errorf("Unexpected counts: %+v", ce.Info)
	}
	if !reflect.DeepEqual(ce.Info.CycleParticipants, []string{"a", "b", "c"}) {
		t.Errorf("Unexpected participants %v", ce.Info.CycleParticipants)
	}
	if !reflect.DeepEqual(ce.Info.Blocked(), []string{"d"}) {
		t.Errorf("Unexpected blocked tables %v", ce.Info.Blocked())
	}
	if !reflect.DeepEqual(ce.Info.CyclePath, []string{"a", "b", "c", "a"}) {
		t.Errorf("Unexpected cycle path %v", ce.Info.CyclePath)
	}

	msg := err.Error()
	for _, want := range []string{"Cycle path: a -> b -> c -> a", "Tables in cycle: a, b, c", "Tables blocked by cycle: d"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error message missing %q: %s", want, msg)
		}
	}
}

func TestDetectIncompleteProcessing_NoCycle(t *testing.T) {
	g, err := BuildFromSchema(twoTableSchema(), BuildOptions{})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if info := g.DetectIncompleteProcessing(); info != nil {
		t.Errorf("Expected nil cycle info, got %+v", info)
	}
}

func TestCreationAndDropOrder(t *testing.T) {
	g, err := BuildFromSchema(twoTableSchema(), BuildOptions{})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	creation, err := g.CreationOrder()
	if err != nil {
		t.Fatalf("CreationOrder() failed: %v", err)
	}
	if !reflect.DeepEqual(creation, []string{"A", "B"}) {
		t.Errorf("Unexpected creation order %v", creation)
	}

	drop, err := g.DropOrder()
	if err != nil {
		t.Fatalf("DropOrder() failed: %v", err)
	}
	if !reflect.DeepEqual(drop, []string{"B", "A"}) {
		t.Errorf("Unexpected drop order %v", drop)
	}
}

func TestProcessingQueueOrder(t *testing.T) {
	pq := newProcessingQueue()
	if !pq.IsEmpty() {
		t.Error("New queue should be empty")
	}

	pq.Enqueue("a")
	pq.Enqueue("b")
	if pq.Len() != 2 {
		t.Errorf("Expected length 2, got %d", pq.Len())
	}

	if v, ok := pq.Dequeue(); !ok || v != "a" {
		t.Errorf("Expected a, got %q", v)
	}
	if v, ok := pq.Dequeue(); !ok || v != "b" {
		t.Errorf("Expected b, got %q", v)
	}
	if _, ok := pq.Dequeue(); ok {
		t.Error("Dequeue on empty queue should return false")
	}
}
