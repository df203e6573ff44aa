package providers

// Entry is one release name offered by a provider.
type Entry struct {
	Name    string
	Locator string
}

// Listing is an ordered mapping of release name to locator. Adding a name
// twice keeps its first position and the last locator written.
type Listing struct {
	absent  bool
	order   []string
	locator map[string]string
}

// NoMatch returns the marker a provider uses when it found nothing at all,
// which is distinct from a listing that happens to be empty.
func NoMatch() Listing {
	return Listing{absent: true}
}

// NewListing returns an empty, present listing.
func NewListing() Listing {
	return Listing{locator: make(map[string]string)}
}

// Add records name → locator.
func (l *Listing) Add(name, locator string) {
	if l.locator == nil {
		l.locator = make(map[string]string)
	}
	l.absent = false
	if _, ok := l.locator[name]; !ok {
		l.order = append(l.order, name)
	}
	l.locator[name] = locator
}

// Absent reports whether the provider signalled no match.
func (l Listing) Absent() bool { return l.absent }

// Len returns the number of distinct names.
func (l Listing) Len() int { return len(l.order) }

// Locator returns the locator for name.
func (l Listing) Locator(name string) (string, bool) {
	loc, ok := l.locator[name]
	return loc, ok
}

// Entries returns the entries in provider order.
func (l Listing) Entries() []Entry {
	if len(l.order) == 0 {
		return nil
	}
	entries := make([]Entry, 0, len(l.order))
	for _, name := range l.order {
		entries = append(entries, Entry{Name: name, Locator: l.locator[name]})
	}
	return entries
}
