package model

// Actor is the authenticated caller as asserted by the upstream auth
// layer. The engine never resolves identity itself; every operation takes
// the actor explicitly.
type Actor struct {
	UUID  string
	Name  string
	Email string
}
