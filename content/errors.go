package content

import "fmt"

type (
	// PathTraversalError marks an id whose resolved location would fall
	// outside its content root.
	PathTraversalError struct {
		ID string
	}

	// NotFoundError marks an update or delete of a missing item.
	NotFoundError struct {
		ID string
	}

	// ConflictError marks a create over an existing item.
	ConflictError struct {
		ID string
	}
)

func (p PathTraversalError) Error() string {
	return fmt.Sprintf("id %v resolves outside its content root", p.ID)
}

func (n NotFoundError) Error() string {
	return fmt.Sprintf("content item %v not found", n.ID)
}

func (c ConflictError) Error() string {
	return fmt.Sprintf("content item %v already exists", c.ID)
}
