package records

import "context"

// System defines the public contract for record operations. Reads are always
// scoped to the calling user.
type System interface {
	Handler() *Handler

	List(ctx context.Context, userID string, filter Filter) ([]Record, error)
	Find(ctx context.Context, userID string, id int64) (*Record, error)
	Create(ctx context.Context, cmd CreateCommand) (*Record, error)
}
