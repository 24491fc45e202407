package output

// Translator renders rejection reasons and other user-facing text.
type Translator interface {
	// T renders the message identified by key (a domain error code) for locale.
	// data fills template placeholders and may be nil.
	T(locale, key string, data map[string]any) string
}
