package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driven/mocks"
)

// buildRegistry wires a small two-hop network:
//
//	00000001 --(officer A)--> 00000002 --(officer B)--> 00000003
func buildRegistry() *mocks.MockRegistryClient {
	registry := mocks.NewMockRegistryClient()

	registry.AddCompany(&domain.CompanyRecord{CompanyNumber: "00000001", CompanyName: "FIRST LIMITED", Status: domain.CompanyStatusActive})
	registry.AddCompany(&domain.CompanyRecord{CompanyNumber: "00000002", CompanyName: "SECOND LIMITED", Status: domain.CompanyStatusActive})
	registry.AddCompany(&domain.CompanyRecord{CompanyNumber: "00000003", CompanyName: "THIRD LIMITED", Status: domain.CompanyStatusDissolved})

	appointmentsA := []domain.Appointment{
		{CompanyNumber: "00000001", Role: "director"},
		{CompanyNumber: "00000002", Role: "director"},
	}
	appointmentsB := []domain.Appointment{
		{CompanyNumber: "00000002", Role: "secretary"},
		{CompanyNumber: "00000003", Role: "director"},
	}

	registry.AddOfficers("00000001", []domain.Director{{OfficerID: "offA", Name: "Alice Archer", Appointments: appointmentsA}})
	registry.AddOfficers("00000002", []domain.Director{
		{OfficerID: "offA", Name: "Alice Archer", Appointments: appointmentsA},
		{OfficerID: "offB", Name: "Bob Breaker", Appointments: appointmentsB},
	})
	registry.AddOfficers("00000003", []domain.Director{{OfficerID: "offB", Name: "Bob Breaker", Appointments: appointmentsB}})

	registry.AddAppointments("offA", appointmentsA)
	registry.AddAppointments("offB", appointmentsB)
	return registry
}

func newTraverser(registry *mocks.MockRegistryClient) *NetworkTraverser {
	return NewNetworkTraverser(NetworkTraverserConfig{Registry: registry})
}

func TestTraverseDepthZeroRecordsSeedsOnly(t *testing.T) {
	traverser := newTraverser(buildRegistry())

	graph, err := traverser.Traverse(context.Background(), []string{"00000001"}, false, 0)
	if err != nil {
		t.Fatalf("Traverse: %v", err)
	}
	if len(graph.Companies) != 1 || graph.Companies[0].CompanyNumber != "00000001" {
		t.Fatalf("companies = %+v, want only the seed", graph.Companies)
	}
	if graph.Statistics.DepthReached != 0 {
		t.Errorf("DepthReached = %d, want 0", graph.Statistics.DepthReached)
	}
	if len(graph.Directors) != 1 || graph.Directors[0].OfficerID != "offA" {
		t.Errorf("directors = %+v, want the seed's director", graph.Directors)
	}
}

func TestTraverseExpandsThroughSharedDirectors(t *testing.T) {
	traverser := newTraverser(buildRegistry())

	graph, err := traverser.Traverse(context.Background(), []string{"00000001"}, false, 2)
	if err != nil {
		t.Fatalf("Traverse: %v", err)
	}
	if got := len(graph.Companies); got != 3 {
		t.Fatalf("companies = %d, want 3: %+v", got, graph.Companies)
	}
	if graph.Statistics.DepthReached != 2 {
		t.Errorf("DepthReached = %d, want 2", graph.Statistics.DepthReached)
	}
	if graph.Statistics.TotalDirectors != 2 {
		t.Errorf("TotalDirectors = %d, want 2", graph.Statistics.TotalDirectors)
	}

	// Sorted by depth then number: seed first.
	if graph.Companies[0].CompanyNumber != "00000001" || graph.Companies[0].Depth != 0 {
		t.Errorf("companies[0] = %+v", graph.Companies[0])
	}
	if graph.Companies[2].CompanyNumber != "00000003" || graph.Companies[2].Depth != 2 {
		t.Errorf("companies[2] = %+v", graph.Companies[2])
	}
}

func TestTraverseNeverVisitsTwice(t *testing.T) {
	traverser := newTraverser(buildRegistry())

	// Both seeds share officer A; company 2 must appear exactly once.
	graph, err := traverser.Traverse(context.Background(), []string{"00000001", "00000002"}, false, 3)
	if err != nil {
		t.Fatalf("Traverse: %v", err)
	}
	seen := make(map[string]int)
	for _, c := range graph.Companies {
		seen[c.CompanyNumber]++
	}
	for number, count := range seen {
		if count != 1 {
			t.Errorf("company %s recorded %d times", number, count)
		}
	}
}

func TestTraverseActiveOnlySkipsResignedDirectorships(t *testing.T) {
	registry := mocks.NewMockRegistryClient()
	registry.AddCompany(&domain.CompanyRecord{CompanyNumber: "00000001", CompanyName: "FIRST LIMITED", Status: domain.CompanyStatusActive})
	registry.AddCompany(&domain.CompanyRecord{CompanyNumber: "00000002", CompanyName: "SECOND LIMITED", Status: domain.CompanyStatusActive})

	resigned := time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC)
	appointments := []domain.Appointment{
		{CompanyNumber: "00000001", Role: "director"},
		{CompanyNumber: "00000002", Role: "director", ResignedOn: &resigned},
	}
	registry.AddOfficers("00000001", []domain.Director{{OfficerID: "offA", Name: "Alice Archer", Appointments: appointments}})
	registry.AddOfficers("00000002", []domain.Director{{OfficerID: "offA", Name: "Alice Archer", Appointments: appointments}})
	registry.AddAppointments("offA", appointments)

	traverser := newTraverser(registry)

	graph, err := traverser.Traverse(context.Background(), []string{"00000001"}, true, 1)
	if err != nil {
		t.Fatalf("Traverse: %v", err)
	}
	for _, c := range graph.Companies {
		if c.CompanyNumber == "00000002" {
			t.Errorf("expanded through a resigned directorship: %+v", c)
		}
	}

	// The same network expands when resigned directorships count.
	graph, err = traverser.Traverse(context.Background(), []string{"00000001"}, false, 1)
	if err != nil {
		t.Fatalf("Traverse: %v", err)
	}
	if got := len(graph.Companies); got != 2 {
		t.Errorf("companies = %d, want 2 when resigned directorships expand: %+v", got, graph.Companies)
	}
}

func TestTraverseFailedCompanyBecomesWarning(t *testing.T) {
	registry := buildRegistry()
	traverser := newTraverser(registry)

	// Unknown seed alongside a good one.
	graph, err := traverser.Traverse(context.Background(), []string{"00000001", "99999999"}, false, 0)
	if err != nil {
		t.Fatalf("Traverse: %v", err)
	}
	if len(graph.Statistics.Warnings) == 0 {
		t.Error("expected a warning for the unknown company")
	}
	if len(graph.Companies) != 2 {
		t.Errorf("companies = %d, want 2 (failed seed still recorded)", len(graph.Companies))
	}
}

func TestTraverseRegistryDownStillReturnsGraph(t *testing.T) {
	registry := buildRegistry()
	registry.Err = errors.New("boom")
	traverser := newTraverser(registry)

	graph, err := traverser.Traverse(context.Background(), []string{"00000001"}, false, 2)
	if err != nil {
		t.Fatalf("Traverse: %v", err)
	}
	if len(graph.Statistics.Warnings) == 0 {
		t.Error("expected warnings when every fetch fails")
	}
}
