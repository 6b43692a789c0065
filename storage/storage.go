package storage

// Fixed keys for everything the client persists locally. Nothing else is
// written to durable storage.
const (
	KeyToken = "token"
	KeyTheme = "theme"
)

// Store is the durable client-local key-value store shared by the session
// and preference managers. Implementations must make each Set/Delete fully
// durable before returning; callers rely on that ordering when they clear
// the token during logout.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}
