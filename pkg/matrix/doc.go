// Package matrix provides the labelled adjacency matrix that netplot builds
// networks from.
//
// A bibliometric network arrives as a square matrix whose rows and columns
// are labelled with entity names (references for co-citation, authors for
// collaboration, keywords for co-word analysis). Cell (i, j) holds the number
// of times entities i and j co-occur, or an association strength.
//
// # Reading Matrices
//
// Two on-disk formats are supported:
//
//	CSV   header row of labels, one row per entity; an optional leading
//	      label column is detected when the first header cell is empty
//	JSON  {"labels": ["a", "b"], "values": [[0, 1], [1, 0]]}
//
// [ReadFile] dispatches on the file extension:
//
//	m, err := matrix.ReadFile("cocitation.csv")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(m.Size(), "entities")
//
// # Validation
//
// [Adjacency.Validate] rejects non-square matrices, missing or malformed
// labels and negative or non-finite cells with an INVALID_MATRIX error.
// Symmetry is a convention of the domain, not a requirement: the network
// builder reads the upper and lower triangle and keeps the larger value.
package matrix
