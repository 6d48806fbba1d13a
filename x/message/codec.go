package message

// Codec adapts the package functions to the payload codec registry.
type Codec struct{}

func (Codec) Name() string                       { return "message" }
func (Codec) Detect(payload []byte) bool         { return HasMagic(payload) }
func (Codec) MaxPayloadSize() int                { return MaxMessageSize }
func (Codec) Decode(payload []byte) (any, error) { return Decode(payload) }
