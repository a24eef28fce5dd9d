package domain

// CompanyNode is the light company representation carried in a network graph.
type CompanyNode struct {
	CompanyNumber string        `json:"company_number"`
	CompanyName   string        `json:"company_name,omitempty"`
	Status        CompanyStatus `json:"company_status,omitempty"`
	Depth         int           `json:"depth"`
}

// DirectorNode is the light director representation carried in a network graph.
type DirectorNode struct {
	OfficerID string `json:"officer_id"`
	Name      string `json:"name"`
}

// Connection is one company-director edge discovered during traversal.
type Connection struct {
	CompanyNumber string `json:"company_number"`
	OfficerID     string `json:"officer_id"`
	DirectorName  string `json:"director_name"`
	Role          string `json:"role,omitempty"`
	Active        bool   `json:"active"`
	Depth         int    `json:"depth"`
}

// NetworkStats summarizes a completed traversal. Warnings record companies
// whose director fetch failed and were excluded from further expansion.
type NetworkStats struct {
	TotalCompanies   int      `json:"total_companies"`
	TotalDirectors   int      `json:"total_directors"`
	TotalConnections int      `json:"total_connections"`
	DepthReached     int      `json:"depth_reached"`
	Warnings         []string `json:"warnings,omitempty"`
}

// NetworkGraph is the director-sharing network built by breadth-first
// traversal. It is assembled incrementally during traversal and never mutated
// after the traversal completes. The JSON field names are part of the export
// contract ("network.statistics.*").
type NetworkGraph struct {
	Companies   []CompanyNode  `json:"companies"`
	Directors   []DirectorNode `json:"directors"`
	Connections []Connection   `json:"connections"`
	Statistics  NetworkStats   `json:"statistics"`
}
