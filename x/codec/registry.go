package codec

import (
	"sync"

	"github.com/compose-network/bmcp/x/command"
	"github.com/compose-network/bmcp/x/message"
)

// registry implements Registry interface
type registry struct {
	mu       sync.RWMutex
	codecs   map[string]Codec
	order    []string
	default_ string
}

// NewRegistry creates a new codec registry holding the extended message and
// compact command layouts
func NewRegistry() Registry {
	r := &registry{
		codecs: make(map[string]Codec),
	}

	r.Register(message.Codec{})
	r.Register(command.Codec{})
	r.default_ = message.Codec{}.Name()

	return r
}

// Register registers a codec under its name, replacing any previous one
func (r *registry) Register(codec Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := codec.Name()
	if _, exists := r.codecs[name]; !exists {
		r.order = append(r.order, name)
	}
	r.codecs[name] = codec
}

// Get retrieves a codec by name
func (r *registry) Get(name string) (Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codec, exists := r.codecs[name]
	return codec, exists
}

// Detect returns the first registered codec recognizing payload
func (r *registry) Detect(payload []byte) (Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range r.order {
		if c := r.codecs[name]; c.Detect(payload) {
			return c, true
		}
	}
	return nil, false
}

// Names returns codec names in registration order
func (r *registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Default returns the default codec
func (r *registry) Default() Codec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.codecs[r.default_]
}
