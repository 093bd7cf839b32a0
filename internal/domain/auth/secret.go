package auth

import "sync/atomic"

// SecretSource supplies the signing secret at the moment of each token
// operation. An empty string means no secret is configured.
type SecretSource interface {
	Secret() string
}

// StaticSecret is a fixed secret, the common case.
type StaticSecret string

func (s StaticSecret) Secret() string {
	return string(s)
}

// ReloadableSecret allows the secret to be swapped at runtime without
// restarting, for rotation.
type ReloadableSecret struct {
	value atomic.Value
}

func NewReloadableSecret(secret string) *ReloadableSecret {
	r := &ReloadableSecret{}
	r.value.Store(secret)
	return r
}

func (r *ReloadableSecret) Set(secret string) {
	r.value.Store(secret)
}

func (r *ReloadableSecret) Secret() string {
	v, _ := r.value.Load().(string)
	return v
}
