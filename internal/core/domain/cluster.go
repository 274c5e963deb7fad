package domain

// Cluster is a group of related documents.
type Cluster struct {
	// ID is the 1-based rank of the cluster in the result.
	ID int

	// Members are document IDs sorted ascending.
	Members []string

	// Label is derived from the members' dominant themes.
	Label string

	// Keywords are the top terms across members.
	Keywords []string

	// Cohesion is the mean pairwise similarity of members.
	// It is only meaningful when the cluster has at least two members and
	// is reported as 0 otherwise.
	Cohesion float64
}

// Size returns the number of members.
func (c Cluster) Size() int {
	return len(c.Members)
}

// ClusterResult is the outcome of cluster detection.
type ClusterResult struct {
	Clusters []Cluster

	// Unclustered lists documents in components below the minimum size.
	Unclustered []string

	DocumentCount  int
	MinClusterSize int
	Threshold      float64
}

// ClusterRequest configures cluster detection. Either Query or DocumentIDs
// selects the document set.
type ClusterRequest struct {
	Query          string
	DocumentIDs    []string
	MaxDocuments   int
	MinClusterSize int

	// Threshold overrides the configured link similarity when set.
	Threshold *float64
}
