package command

// SizeReport describes how a payload relates to MaxPayloadSize.
type SizeReport struct {
	Valid   bool `json:"valid"`
	Size    int  `json:"size"`
	MaxSize int  `json:"max_size"`
}

// EstimateSize returns the encoded length for a call data length and options.
func EstimateSize(callDataLen int, o Options) int {
	n := HeaderSize + callDataLen
	if o.Nonce != nil {
		n += 4
	}
	if o.Deadline != nil {
		n += 4
	}
	return n
}

// CheckSize reports whether payload fits the compact ceiling.
func CheckSize(payload []byte) SizeReport {
	return SizeReport{
		Valid:   len(payload) <= MaxPayloadSize,
		Size:    len(payload),
		MaxSize: MaxPayloadSize,
	}
}
