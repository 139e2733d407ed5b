package repositories

// RemoteRepository reads the remotes of a local git checkout.
type RemoteRepository interface {
	// OriginURL returns the first URL of the "origin" remote of the repository containing dir.
	OriginURL(dir string) (string, error)
}
