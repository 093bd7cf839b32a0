package denylist

import "fmt"

// Driver identifiers supported by the denylist.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// New creates a denylist store based on the provided configuration. An empty
// driver returns (nil, nil): revocation disabled, tokens purely self-expire.
func New(cfg Config) (Store, error) {
	switch cfg.Driver {
	case "":
		return nil, nil
	case DriverMemory:
		return NewMemory(cfg), nil
	case DriverRedis:
		return NewRedis(cfg)
	default:
		return nil, fmt.Errorf("unsupported denylist driver: %s", cfg.Driver)
	}
}
