package wire

// Header names and media types set by encoders and decoders.
const (
	HeaderContentType = "Content-Type"
	HeaderAccept      = "Accept"

	MediaTypeJSON = "application/json"
	MediaTypeForm = "application/x-www-form-urlencoded"
)
