package http

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// encodeMessageReq is the JSON schema for POST routeEncodeMessage.
// Data and Text are alternatives; Text is sent as UTF-8 bytes.
type encodeMessageReq struct {
	Chain           string        `json:"chain"`    // key or selector
	Receiver        string        `json:"receiver"` // 0x-hex
	Data            hexutil.Bytes `json:"data,omitempty"`
	Text            string        `json:"text,omitempty"`
	GasLimit        uint64        `json:"gas_limit,omitempty"`
	ExtraArgs       hexutil.Bytes `json:"extra_args,omitempty"`
	AllowOutOfOrder bool          `json:"allow_out_of_order,omitempty"`
	Strict          bool          `json:"strict,omitempty"`
}

// functionCall describes call data by signature and textual arguments.
type functionCall struct {
	Signature string   `json:"signature"`
	Args      []argReq `json:"args"`
}

type argReq struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// encodeCommandReq is the JSON schema for POST routeEncodeCommand.
// CallData and Function are alternatives.
type encodeCommandReq struct {
	Chain    string        `json:"chain"`
	Contract string        `json:"contract"`
	CallData hexutil.Bytes `json:"call_data,omitempty"`
	Function *functionCall `json:"function,omitempty"`
	Nonce    *uint32       `json:"nonce,omitempty"`
	Deadline *uint32       `json:"deadline,omitempty"`
	Strict   bool          `json:"strict,omitempty"`
}

// decodeReq is the JSON schema for POST routeDecodeScript. When TxID is set
// the response also carries the forwarded message, and Confirmations adds
// whether it may be relayed yet. PubKeyX binds a command's call hash to a
// 32-byte signer key.
type decodeReq struct {
	Script        hexutil.Bytes `json:"script"`
	TxID          string        `json:"txid,omitempty"`
	Sender        string        `json:"sender,omitempty"`
	Confirmations *int64        `json:"confirmations,omitempty"`
	PubKeyX       hexutil.Bytes `json:"pubkey_x,omitempty"`
}

// selectorReq is the JSON schema for POST routeFunctionSelect.
type selectorReq struct {
	Signature string `json:"signature"`
}
