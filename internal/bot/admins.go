package bot

// Admins is the fixed set of user ids allowed to change the catalog.
// The zero value allows nobody.
type Admins struct {
	ids map[int64]struct{}
}

func NewAdmins(ids ...int64) Admins {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return Admins{ids: set}
}

func (a Admins) Contains(userID int64) bool {
	_, ok := a.ids[userID]
	return ok
}

func (a Admins) Len() int {
	return len(a.ids)
}
