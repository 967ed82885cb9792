package driven

// ConfigStore is the persisted settings layer beneath RunConfig.
//
// Keys are dotted paths ("vector.collection") over nested tables. Typed
// getters return the zero value when a key is absent or holds another type,
// so callers that must tell "unset" from "wrong type" use Get.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int

	// GetFloat also accepts integer values.
	GetFloat(key string) float64

	// GetStringSlice accepts []string and the []any produced by decoding.
	GetStringSlice(key string) []string

	// Set stores value under key and persists the file before returning.
	// On a failed write the in-memory value is rolled back.
	Set(key string, value any) error

	// Keys returns every stored key, sorted.
	Keys() []string

	// Path is the backing file, which may not exist yet.
	Path() string
}
