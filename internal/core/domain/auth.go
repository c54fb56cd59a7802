package domain

// AccessToken is a caller-scoped bearer credential for the Tax Engine
// platform. It is passed explicitly to every upstream call instead of living
// in ambient client state, so two requests with different tokens can never
// observe each other's records.
type AccessToken string

func (t AccessToken) IsZero() bool {
	return t == ""
}
