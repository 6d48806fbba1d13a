package command

// Codec adapts the package functions to the payload codec registry.
type Codec struct{}

func (Codec) Name() string                       { return "command" }
func (Codec) Detect(payload []byte) bool         { return IsKnownMagic(payload) }
func (Codec) MaxPayloadSize() int                { return MaxPayloadSize }
func (Codec) Decode(payload []byte) (any, error) { return Decode(payload) }
