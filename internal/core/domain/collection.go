package domain

// Distance is the similarity metric of a vector collection.
type Distance string

// Supported distance metrics.
const (
	DistanceCosine    Distance = "Cosine"
	DistanceDot       Distance = "Dot"
	DistanceEuclidean Distance = "Euclid"
)

// IsValid returns true if the distance metric is recognised.
func (d Distance) IsValid() bool {
	switch d {
	case DistanceCosine, DistanceDot, DistanceEuclidean:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (d Distance) String() string {
	return string(d)
}

// CollectionSpec describes a collection to create.
// Vector size and distance are fixed once the collection exists.
type CollectionSpec struct {
	Name       string
	VectorSize int
	Distance   Distance
}

// CollectionInfo is the state reported by a vector store for a collection.
type CollectionInfo struct {
	Name       string
	VectorSize int
	Distance   Distance
	PointCount int
}
