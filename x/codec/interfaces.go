package codec

// Codec decodes one payload layout carried inside an OP_RETURN push
type Codec interface {
	Name() string
	Detect(payload []byte) bool
	Decode(payload []byte) (any, error)
	MaxPayloadSize() int
}

// Registry manages multiple codec implementations
type Registry interface {
	Register(codec Codec)
	Get(name string) (Codec, bool)
	Detect(payload []byte) (Codec, bool)
	Names() []string
	Default() Codec
}
