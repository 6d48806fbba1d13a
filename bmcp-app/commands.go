package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/btcsuite/btcd/wire"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/compose-network/bmcp/bmcp-app/config"
	"github.com/compose-network/bmcp/log"
	"github.com/compose-network/bmcp/x/bridge"
	"github.com/compose-network/bmcp/x/calldata"
	"github.com/compose-network/bmcp/x/script"
)

// offlinePipeline builds an unmetered pipeline that logs to stderr.
func offlinePipeline(cmd *cobra.Command) (*config.Config, *pipeline, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger := log.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Pretty)
	p, err := newPipeline(cfg, nil, logger.Logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, p, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newChainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chains [key]",
		Short: "List registered destination chains",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := offlinePipeline(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				e, ok := p.chains.ByKey(args[0])
				if !ok {
					return fmt.Errorf("unknown chain %q", args[0])
				}
				return writeJSON(cmd.OutOrStdout(), e)
			}
			return writeJSON(cmd.OutOrStdout(), p.chains.Entries())
		},
	}
}

func newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a payload into an OP_RETURN script",
	}
	cmd.AddCommand(newEncodeMessageCmd(), newEncodeCommandCmd())
	return cmd
}

func newEncodeMessageCmd() *cobra.Command {
	var (
		req  bridge.MessageRequest
		data string
		text string
		fn   functionFlags
	)
	cmd := &cobra.Command{
		Use:   "message",
		Short: "Encode an extended-layout message",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, p, err := offlinePipeline(cmd)
			if err != nil {
				return err
			}
			switch {
			case fn.signature != "":
				req.Data, err = fn.callData()
			case text != "":
				req.Data = []byte(text)
			case data != "":
				req.Data, err = script.DecodeHex(data)
			}
			if err != nil {
				return fmt.Errorf("invalid data: %w", err)
			}
			art, err := p.encoder.EncodeMessage(req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), art)
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Chain, "chain", "", "destination chain key or selector")
	f.StringVar(&req.Receiver, "receiver", "", "20-byte receiver address")
	f.StringVar(&data, "data", "", "hex data delivered to the receiver")
	f.StringVar(&text, "text", "", "UTF-8 text delivered to the receiver")
	f.Uint64Var(&req.GasLimit, "gas-limit", 0, "destination gas limit (0 uses the default)")
	f.BoolVar(&req.AllowOutOfOrder, "allow-out-of-order", false, "allow out-of-order execution")
	f.BoolVar(&req.Strict, "strict", false, "require the chain to be registered")
	fn.register(cmd)
	_ = cmd.MarkFlagRequired("chain")
	_ = cmd.MarkFlagRequired("receiver")
	cmd.MarkFlagsMutuallyExclusive("data", "text", "function")
	return cmd
}

func newEncodeCommandCmd() *cobra.Command {
	var (
		req      bridge.CommandRequest
		data     string
		nonce    uint32
		deadline uint32
		fn       functionFlags
	)
	cmd := &cobra.Command{
		Use:   "command",
		Short: "Encode a compact-layout contract command",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, p, err := offlinePipeline(cmd)
			if err != nil {
				return err
			}
			switch {
			case fn.signature != "":
				req.CallData, err = fn.callData()
			case data != "":
				req.CallData, err = script.DecodeHex(data)
			}
			if err != nil {
				return fmt.Errorf("invalid call data: %w", err)
			}
			if changed(cmd, "nonce") {
				req.Nonce = &nonce
			}
			if changed(cmd, "deadline") {
				req.Deadline = &deadline
			}
			art, err := p.encoder.EncodeCommand(req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), art)
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Chain, "chain", "", "destination chain key or selector")
	f.StringVar(&req.Contract, "contract", "", "target contract address")
	f.StringVar(&data, "call-data", "", "hex call data")
	f.Uint32Var(&nonce, "nonce", 0, "replay-protection nonce")
	f.Uint32Var(&deadline, "deadline", 0, "unix deadline, requires --nonce")
	f.BoolVar(&req.Strict, "strict", false, "require the chain to be registered")
	fn.register(cmd)
	_ = cmd.MarkFlagRequired("chain")
	_ = cmd.MarkFlagRequired("contract")
	cmd.MarkFlagsMutuallyExclusive("call-data", "function")
	return cmd
}

// functionFlags builds call data from a signature and typed arguments.
type functionFlags struct {
	signature string
	args      []string
}

func (f *functionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.signature, "function", "", `function signature, e.g. "transfer(address,uint256)"`)
	cmd.Flags().StringArrayVar(&f.args, "arg", nil, "function argument as type=value, repeatable")
}

func (f *functionFlags) callData() ([]byte, error) {
	args := make([]calldata.Arg, len(f.args))
	for i, raw := range f.args {
		typ, value, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("argument %d: expected type=value, got %q", i, raw)
		}
		arg, err := calldata.ParseArg(strings.TrimSpace(typ), value)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		args[i] = arg
	}
	return calldata.Encode(f.signature, args...)
}

// relayView is the part of a decode result shared by scripts and findings.
type relayView struct {
	Envelope          *bridge.Envelope     `json:"envelope,omitempty"`
	Relay             *bridge.Any2EVM      `json:"relay,omitempty"`
	Relayable         *bool                `json:"relayable,omitempty"`
	ContractCall      *bridge.ContractCall `json:"contract_call,omitempty"`
	ContractCallError string               `json:"contract_call_error,omitempty"`
	Error             string               `json:"error,omitempty"`
}

type decodeOutput struct {
	Script hexutil.Bytes `json:"script"`
	relayView
}

type findingOutput struct {
	TxID  string `json:"txid"`
	Index int    `json:"index"`
	relayView
}

// relayOptions are the decode flags that shape relay output.
type relayOptions struct {
	txid          string
	sender        string
	confirmations *int64
	pubKeyX       *[32]byte
}

// view fills the relay fields for a successfully decoded envelope.
func (o relayOptions) view(p *pipeline, txid string, env *bridge.Envelope) (relayView, error) {
	v := relayView{Envelope: env}
	if txid != "" {
		relay, err := bridge.ToAny2EVM(txid, o.sender, env)
		if err != nil {
			return v, err
		}
		v.Relay = relay
	}
	if o.confirmations != nil {
		ok := bridge.Relayable(*o.confirmations)
		v.Relayable = &ok
	}
	if env.Command != nil {
		call, err := p.decoder.ContractCall(env, o.pubKeyX)
		if err != nil {
			v.ContractCallError = err.Error()
		} else {
			v.ContractCall = call
		}
	}
	return v, nil
}

func newDecodeCmd() *cobra.Command {
	var (
		rawTx         string
		pubKeyX       string
		confirmations int64
		opts          relayOptions
	)
	cmd := &cobra.Command{
		Use:   "decode [script-hex...]",
		Short: "Decode OP_RETURN scripts or every OP_RETURN output of a raw transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, p, err := offlinePipeline(cmd)
			if err != nil {
				return err
			}
			if changed(cmd, "confirmations") {
				opts.confirmations = &confirmations
			}
			if pubKeyX != "" {
				key, err := script.DecodeHex(pubKeyX)
				if err != nil || len(key) != 32 {
					return fmt.Errorf("--pubkey-x must be 32 hex bytes")
				}
				opts.pubKeyX = (*[32]byte)(key)
			}
			if rawTx != "" {
				return scanTx(cmd.OutOrStdout(), p, rawTx, opts)
			}
			if len(args) == 0 {
				return fmt.Errorf("at least one script or --tx is required")
			}
			return decodeScripts(cmd, p, args, cfg.Limits.DecodeWorkers, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&rawTx, "tx", "", "raw transaction hex; use - to read from stdin")
	f.StringVar(&opts.txid, "txid", "", "Bitcoin txid used to build the relay message")
	f.StringVar(&opts.sender, "sender", "", "sender address used in the relay message")
	f.Int64Var(&confirmations, "confirmations", 0, "confirmations of the carrying transaction; reports relayability")
	f.StringVar(&pubKeyX, "pubkey-x", "", "32-byte signer key x coordinate bound into command hashes")
	cmd.MarkFlagsMutuallyExclusive("tx", "txid")
	return cmd
}

func decodeScripts(cmd *cobra.Command, p *pipeline, args []string, workers int, opts relayOptions) error {
	scripts := make([][]byte, len(args))
	for i, a := range args {
		s, err := script.DecodeHex(a)
		if err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
		scripts[i] = s
	}

	results, err := p.decoder.DecodeAll(cmd.Context(), scripts, workers)
	if err != nil {
		return err
	}

	out := make([]decodeOutput, len(results))
	failed := 0
	for i, r := range results {
		out[i] = decodeOutput{Script: scripts[i]}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
			failed++
			continue
		}
		v, err := opts.view(p, opts.txid, r.Envelope)
		if err != nil {
			return err
		}
		out[i].relayView = v
	}
	if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scripts failed to decode", failed, len(results))
	}
	return nil
}

func scanTx(w io.Writer, p *pipeline, rawTx string, opts relayOptions) error {
	if rawTx == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read transaction: %w", err)
		}
		rawTx = string(b)
	}
	raw, err := hexutil.Decode(ensure0x(strings.TrimSpace(rawTx)))
	if err != nil {
		return fmt.Errorf("invalid transaction hex: %w", err)
	}

	tx, err := parseTx(raw)
	if err != nil {
		return fmt.Errorf("failed to parse transaction: %w", err)
	}

	findings := p.decoder.ScanTx(tx)
	out := make([]findingOutput, len(findings))
	for i, f := range findings {
		out[i] = findingOutput{TxID: f.TxID, Index: f.Index}
		if f.Err != nil {
			out[i].Error = f.Err.Error()
			continue
		}
		v, err := opts.view(p, f.TxID, f.Envelope)
		if err != nil {
			return err
		}
		out[i].relayView = v
	}
	return writeJSON(w, out)
}

// parseTx decodes a serialized transaction. A zero input count reads as the
// segwit marker, so a parse is only accepted when it consumes every byte and
// the legacy encoding is tried when the witness one does not.
func parseTx(raw []byte) (*wire.MsgTx, error) {
	var tx wire.MsgTx
	r := bytes.NewReader(raw)
	err := tx.Deserialize(r)
	if err == nil && r.Len() == 0 {
		return &tx, nil
	}

	var legacy wire.MsgTx
	r = bytes.NewReader(raw)
	if legacyErr := legacy.DeserializeNoWitness(r); legacyErr == nil && r.Len() == 0 {
		return &legacy, nil
	}

	if err == nil {
		err = errors.New("trailing bytes after transaction")
	}
	return nil, err
}

func ensure0x(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s
	}
	return "0x" + s
}
