package models

// Member is a club member. ID zero is a valid reference.
type Member struct {
	ID        int64
	FirstName string
	LastName  string
	Group     string
}

// DisplayName is "First Last", or the bare id when the member is unknown.
func (m *Member) DisplayName() string {
	if m.FirstName == "" && m.LastName == "" {
		return "#" + itoa(m.ID)
	}
	if m.LastName == "" {
		return m.FirstName
	}
	if m.FirstName == "" {
		return m.LastName
	}
	return m.FirstName + " " + m.LastName
}

// Boat is a club boat.
type Boat struct {
	ID    int64
	Name  string
	Seats int
	Coxed bool
}

func (b *Boat) DisplayName() string {
	if b.Name == "" {
		return "#" + itoa(b.ID)
	}
	return b.Name
}
