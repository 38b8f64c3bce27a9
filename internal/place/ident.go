package place

import "strconv"

// Ident addresses an entity by id or by name.
type Ident struct {
	id     int64
	name   string
	byName bool
}

// ID addresses an entity by its integer id.
func ID(id int64) Ident { return Ident{id: id} }

// Name addresses an entity by its SDE name.
func Name(name string) Ident { return Ident{name: name, byName: true} }

func (i Ident) String() string {
	if i.byName {
		return strconv.Quote(i.name)
	}
	return strconv.FormatInt(i.id, 10)
}
