package domain

// NavigationEntry describes one visible navigation link. Entries are declared
// statically per role; resolvers filter and compose them but never mutate
// them.
type NavigationEntry struct {
	Path         string
	Label        string
	RequiredRole Role
}
