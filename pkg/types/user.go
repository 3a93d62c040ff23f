package types

// UserData is the full entity graph for one authenticated user: every
// project the user owns, each with its six entity collections. It is the
// shape returned by the service's /me/data endpoint and the unit persisted
// to the local snapshot.
type UserData struct {
	Username string              `json:"username"`
	Projects map[string]*Project `json:"projects"`
}

// Project returns the project with the given ID.
// Returns ErrProjectNotFound if the user owns no such project.
func (u *UserData) Project(projectID string) (*Project, error) {
	p, ok := u.Projects[projectID]
	if !ok {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

// Entity is implemented by every entity struct in the graph. IDs are opaque
// strings assigned by the entity service, unique within their collection.
type Entity interface {
	EntityID() string
}
