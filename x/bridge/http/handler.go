package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	apicommon "github.com/compose-network/bmcp/server/api"
	"github.com/compose-network/bmcp/x/bridge"
	"github.com/compose-network/bmcp/x/calldata"
	"github.com/compose-network/bmcp/x/chains"
	"github.com/compose-network/bmcp/x/command"
	"github.com/compose-network/bmcp/x/validate"
	"github.com/compose-network/bmcp/x/wire"
)

type Handler struct {
	encoder *bridge.Encoder
	decoder *bridge.Decoder
	chains  *chains.Registry
	log     zerolog.Logger
}

func NewHandler(enc *bridge.Encoder, dec *bridge.Decoder, reg *chains.Registry, log zerolog.Logger) *Handler {
	return &Handler{
		encoder: enc,
		decoder: dec,
		chains:  reg,
		log:     log.With().Str("component", "bridge-http").Logger(),
	}
}

func (h *Handler) handleChains(w http.ResponseWriter, r *http.Request) {
	apicommon.WriteJSON(w, http.StatusOK, map[string]any{"chains": h.chains.Entries()})
}

func (h *Handler) handleChain(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(mux.Vars(r)["chain"])
	selector, err := command.ResolveSelector(h.chains, key)
	if err != nil {
		apicommon.WriteError(w, r, http.StatusNotFound, "unknown_chain", err.Error(), nil)
		return
	}
	entry, ok := h.chains.BySelector(selector)
	if !ok {
		apicommon.WriteError(w, r, http.StatusNotFound, "unknown_chain", "no chain with selector "+key, nil)
		return
	}
	apicommon.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) handleEncodeMessage(w http.ResponseWriter, r *http.Request) {
	var req encodeMessageReq
	if err := apicommon.DecodeJSON(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	if len(req.Data) > 0 && req.Text != "" {
		apicommon.WriteError(w, r, http.StatusBadRequest, "invalid_request", "data and text are mutually exclusive", nil)
		return
	}
	data := []byte(req.Data)
	if req.Text != "" {
		data = []byte(req.Text)
	}

	art, err := h.encoder.EncodeMessage(bridge.MessageRequest{
		Chain:           req.Chain,
		Receiver:        req.Receiver,
		Data:            data,
		GasLimit:        req.GasLimit,
		ExtraArgs:       req.ExtraArgs,
		AllowOutOfOrder: req.AllowOutOfOrder,
		Strict:          req.Strict,
	})
	if err != nil {
		writeBridgeError(w, r, err)
		return
	}
	apicommon.WriteJSON(w, http.StatusOK, art)
}

func (h *Handler) handleEncodeCommand(w http.ResponseWriter, r *http.Request) {
	var req encodeCommandReq
	if err := apicommon.DecodeJSON(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}

	callData := []byte(req.CallData)
	if req.Function != nil {
		if len(callData) > 0 {
			apicommon.WriteError(w, r, http.StatusBadRequest, "invalid_request", "call_data and function are mutually exclusive", nil)
			return
		}
		var err error
		if callData, err = buildCallData(req.Function); err != nil {
			writeBridgeError(w, r, err)
			return
		}
	}

	art, err := h.encoder.EncodeCommand(bridge.CommandRequest{
		Chain:    req.Chain,
		Contract: req.Contract,
		CallData: callData,
		Nonce:    req.Nonce,
		Deadline: req.Deadline,
		Strict:   req.Strict,
	})
	if err != nil {
		writeBridgeError(w, r, err)
		return
	}
	apicommon.WriteJSON(w, http.StatusOK, art)
}

func (h *Handler) handleDecodeScript(w http.ResponseWriter, r *http.Request) {
	var req decodeReq
	if err := apicommon.DecodeJSON(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	if len(req.Script) == 0 {
		apicommon.WriteError(w, r, http.StatusBadRequest, "invalid_request", "script is required", nil)
		return
	}
	var pubKeyX *[32]byte
	if len(req.PubKeyX) > 0 {
		if len(req.PubKeyX) != 32 {
			apicommon.WriteError(w, r, http.StatusBadRequest, "invalid_request", "pubkey_x must be 32 bytes", nil)
			return
		}
		pubKeyX = (*[32]byte)(req.PubKeyX)
	}

	env, err := h.decoder.DecodeScript(req.Script)
	if err != nil {
		writeBridgeError(w, r, err)
		return
	}

	resp := map[string]any{"envelope": env}
	if req.TxID != "" {
		relay, err := bridge.ToAny2EVM(req.TxID, req.Sender, env)
		if err != nil {
			apicommon.WriteError(w, r, http.StatusBadRequest, "invalid_txid", err.Error(), nil)
			return
		}
		resp["relay"] = relay
	}
	if req.Confirmations != nil {
		resp["relayable"] = bridge.Relayable(*req.Confirmations)
		resp["min_confirmations"] = bridge.MinConfirmations
	}
	if env.Command != nil {
		if call, err := h.decoder.ContractCall(env, pubKeyX); err != nil {
			resp["contract_call_error"] = err.Error()
		} else {
			resp["contract_call"] = call
		}
	}
	apicommon.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleFunctionSelector(w http.ResponseWriter, r *http.Request) {
	var req selectorReq
	if err := apicommon.DecodeJSON(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	sig, err := calldata.ParseSignature(req.Signature)
	if err != nil {
		writeBridgeError(w, r, err)
		return
	}
	selector := sig.Selector()
	apicommon.WriteJSON(w, http.StatusOK, map[string]any{
		"signature": sig.Canonical(),
		"selector":  hexutil.Encode(selector[:]),
	})
}

func buildCallData(fn *functionCall) ([]byte, error) {
	args := make([]calldata.Arg, len(fn.Args))
	for i, a := range fn.Args {
		arg, err := calldata.ParseArg(a.Type, a.Value)
		if err != nil {
			return nil, wire.Errorf(wire.KindInvalidCallData, "argument %d: %v", i, err)
		}
		args[i] = arg
	}
	return calldata.Encode(fn.Signature, args...)
}

func writeDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		apicommon.WriteError(w, r, http.StatusRequestEntityTooLarge, "body_too_large", err.Error(), nil)
		return
	}
	apicommon.WriteError(w, r, http.StatusBadRequest, "invalid_json", "failed to decode request", nil)
}

// writeBridgeError maps pipeline errors onto statuses. Validation failures
// list the offending fields in details.
func writeBridgeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := bridge.ErrorKind(err)

	status := http.StatusBadRequest
	switch {
	case errors.Is(err, wire.ErrPayloadTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, chains.ErrUnknownChain), errors.Is(err, bridge.ErrInvalidPayload),
		errors.Is(err, wire.ErrUnsupportedVersion):
		status = http.StatusUnprocessableEntity
	}

	var details any
	if fields := validate.Fields(err); len(fields) > 0 && errors.Is(err, bridge.ErrInvalidPayload) {
		details = map[string]any{"fields": fields}
	}
	apicommon.WriteError(w, r, status, kind, err.Error(), details)
}
