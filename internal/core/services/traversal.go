package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driven"
)

const (
	defaultTraversalConcurrency = 4

	// Hard cap on companies expanded in one traversal. Director networks
	// fan out quickly and the registry budget is 600 requests per window.
	defaultMaxCompanies = 200
)

// NetworkTraverser builds the director-sharing network around a set of seed
// companies by breadth-first expansion: company to its directors, director to
// their other appointments, repeated up to a depth limit.
type NetworkTraverser struct {
	registry     driven.RegistryClient
	logger       *slog.Logger
	concurrency  int
	maxCompanies int
}

// NetworkTraverserConfig holds dependencies for NetworkTraverser.
type NetworkTraverserConfig struct {
	Registry     driven.RegistryClient
	Logger       *slog.Logger
	Concurrency  int
	MaxCompanies int
}

// NewNetworkTraverser creates a network traverser.
func NewNetworkTraverser(cfg NetworkTraverserConfig) *NetworkTraverser {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultTraversalConcurrency
	}
	maxCompanies := cfg.MaxCompanies
	if maxCompanies <= 0 {
		maxCompanies = defaultMaxCompanies
	}
	return &NetworkTraverser{
		registry:     cfg.Registry,
		logger:       logger,
		concurrency:  concurrency,
		maxCompanies: maxCompanies,
	}
}

// traversalState accumulates the graph during expansion. All mutation goes
// through the mutex; companies are claimed in visited before their fetch is
// scheduled, so no company is fetched twice.
type traversalState struct {
	mu sync.Mutex

	visitedCompanies map[string]struct{}
	visitedOfficers  map[string]struct{}

	graph        *domain.NetworkGraph
	newOfficers  []string
	warnings     []string
	companyCount int
}

// Traverse expands the network from the seed company numbers up to maxDepth
// levels beyond the seeds. maxDepth 0 records the seeds and their directors
// without expanding to any further company. A failed company or officer fetch
// becomes a warning in the statistics, never a traversal failure; the only
// error returned is context cancellation.
func (t *NetworkTraverser) Traverse(ctx context.Context, seeds []string, activeOnly bool, maxDepth int) (*domain.NetworkGraph, error) {
	state := &traversalState{
		visitedCompanies: make(map[string]struct{}),
		visitedOfficers:  make(map[string]struct{}),
		graph:            &domain.NetworkGraph{},
	}

	frontier := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		if _, ok := state.visitedCompanies[seed]; ok {
			continue
		}
		state.visitedCompanies[seed] = struct{}{}
		frontier = append(frontier, seed)
	}

	depthReached := 0
	for depth := 0; depth <= maxDepth && len(frontier) > 0; depth++ {
		if err := t.expandLevel(ctx, state, frontier, depth, activeOnly); err != nil {
			return nil, err
		}
		depthReached = depth

		if depth == maxDepth {
			break
		}
		frontier = t.nextFrontier(ctx, state, activeOnly)
	}

	// Concurrent expansion appends in completion order; sort so the same
	// registry state always yields the same graph.
	sort.Slice(state.graph.Companies, func(i, j int) bool {
		a, b := state.graph.Companies[i], state.graph.Companies[j]
		if a.Depth != b.Depth {
			return a.Depth < b.Depth
		}
		return a.CompanyNumber < b.CompanyNumber
	})
	sort.Slice(state.graph.Directors, func(i, j int) bool {
		return state.graph.Directors[i].OfficerID < state.graph.Directors[j].OfficerID
	})
	sort.Slice(state.graph.Connections, func(i, j int) bool {
		a, b := state.graph.Connections[i], state.graph.Connections[j]
		if a.CompanyNumber != b.CompanyNumber {
			return a.CompanyNumber < b.CompanyNumber
		}
		return a.OfficerID < b.OfficerID
	})

	state.graph.Statistics = domain.NetworkStats{
		TotalCompanies:   len(state.graph.Companies),
		TotalDirectors:   len(state.graph.Directors),
		TotalConnections: len(state.graph.Connections),
		DepthReached:     depthReached,
		Warnings:         state.warnings,
	}
	return state.graph, nil
}

// expandLevel fetches every company in the frontier concurrently and records
// nodes, directors and connections at the given depth.
func (t *NetworkTraverser) expandLevel(ctx context.Context, state *traversalState, frontier []string, depth int, activeOnly bool) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)

	for _, companyNumber := range frontier {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t.visitCompany(ctx, state, companyNumber, depth, activeOnly)
			return nil
		})
	}
	return g.Wait()
}

func (t *NetworkTraverser) visitCompany(ctx context.Context, state *traversalState, companyNumber string, depth int, activeOnly bool) {
	node := domain.CompanyNode{CompanyNumber: companyNumber, Depth: depth}
	if profile, err := t.registry.Profile(ctx, companyNumber); err == nil {
		node.CompanyName = profile.CompanyName
		node.Status = profile.Status
	} else {
		t.logger.Warn("network: profile fetch failed", "company_number", companyNumber, "error", err)
		state.addWarning(fmt.Sprintf("profile unavailable for %s", companyNumber))
	}

	directors, err := t.registry.Officers(ctx, companyNumber, activeOnly)
	if err != nil {
		t.logger.Warn("network: officers fetch failed", "company_number", companyNumber, "error", err)
		state.addWarning(fmt.Sprintf("directors unavailable for %s, not expanded", companyNumber))
		state.addCompany(node)
		return
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	state.graph.Companies = append(state.graph.Companies, node)
	for _, d := range directors {
		if _, seen := state.visitedOfficers[d.OfficerID]; !seen {
			state.visitedOfficers[d.OfficerID] = struct{}{}
			state.graph.Directors = append(state.graph.Directors, domain.DirectorNode{OfficerID: d.OfficerID, Name: d.Name})
			state.newOfficers = append(state.newOfficers, d.OfficerID)
		}
		role, active := "", true
		for _, a := range d.Appointments {
			if a.CompanyNumber == companyNumber {
				role, active = a.Role, a.Active()
				break
			}
		}
		state.graph.Connections = append(state.graph.Connections, domain.Connection{
			CompanyNumber: companyNumber,
			OfficerID:     d.OfficerID,
			DirectorName:  d.Name,
			Role:          role,
			Active:        active,
			Depth:         depth,
		})
	}
}

// nextFrontier resolves the appointments of every officer discovered at the
// current level and claims the unvisited companies for the next one. When
// activeOnly is set, resigned directorships do not lead anywhere. The
// frontier is sorted so traversal output is deterministic for a given
// registry state.
func (t *NetworkTraverser) nextFrontier(ctx context.Context, state *traversalState, activeOnly bool) []string {
	state.mu.Lock()
	officers := state.newOfficers
	state.newOfficers = nil
	sort.Strings(officers)
	state.mu.Unlock()

	var frontier []string
	for _, officerID := range officers {
		appointments, err := t.registry.Appointments(ctx, officerID)
		if err != nil {
			t.logger.Warn("network: appointments fetch failed", "officer_id", officerID, "error", err)
			state.addWarning(fmt.Sprintf("appointments unavailable for officer %s", officerID))
			continue
		}
		for _, a := range appointments {
			if activeOnly && !a.Active() {
				continue
			}
			number, err := domain.NormalizeCompanyNumber(a.CompanyNumber)
			if err != nil {
				continue
			}
			if state.claimCompany(number) {
				frontier = append(frontier, number)
			}
		}
		if state.companyTotal() >= t.maxCompanies {
			state.addWarning("network size limit reached, traversal truncated")
			break
		}
	}
	sort.Strings(frontier)
	return frontier
}

func (s *traversalState) addCompany(node domain.CompanyNode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph.Companies = append(s.graph.Companies, node)
}

func (s *traversalState) addWarning(w string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnings = append(s.warnings, w)
}

// claimCompany marks a company visited; false means it was already claimed.
func (s *traversalState) claimCompany(number string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.visitedCompanies[number]; ok {
		return false
	}
	s.visitedCompanies[number] = struct{}{}
	return true
}

func (s *traversalState) companyTotal() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitedCompanies)
}
