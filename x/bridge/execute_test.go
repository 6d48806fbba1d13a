package bridge

import (
	"io"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compose-network/bmcp/x/calldata"
	"github.com/compose-network/bmcp/x/chains"
	"github.com/compose-network/bmcp/x/validate"
)

var clockNow = time.Unix(1_700_000_000, 0)

func decoderAt(t *testing.T, now time.Time) (*Encoder, *Decoder, *Metrics) {
	t.Helper()
	m := NewMetricsWith(prometheus.NewRegistry())
	v := validate.New(validate.WithClock(func() time.Time { return now }))
	log := zerolog.New(io.Discard)
	return NewEncoder(chains.Default(), v, m, log), NewDecoder(chains.Default(), v, m, log), m
}

func commandEnvelope(t *testing.T, enc *Encoder, dec *Decoder, nonce, deadline *uint32) *Envelope {
	t.Helper()
	art, err := enc.EncodeCommand(CommandRequest{
		Chain:    "base_sepolia",
		Contract: receiverHex,
		CallData: []byte{0xa9, 0x05, 0x9c, 0xbb, 0x01},
		Nonce:    nonce,
		Deadline: deadline,
	})
	require.NoError(t, err)
	env, err := dec.DecodeScript(art.Script)
	require.NoError(t, err)
	return env
}

func TestContractCall(t *testing.T) {
	t.Parallel()

	enc, dec, _ := decoderAt(t, clockNow)

	tests := []struct {
		name     string
		nonce    *uint32
		deadline *uint32
		wantNon  int64
		wantDead int64
	}{
		{name: "nonce and deadline", nonce: uint32Ptr(7), deadline: uint32Ptr(1_800_000_000), wantNon: 7, wantDead: 1_800_000_000},
		{name: "nonce only", nonce: uint32Ptr(3), wantNon: 3, wantDead: clockNow.Add(calldata.DefaultCommandTTL).Unix()},
		{name: "bare", wantDead: clockNow.Add(calldata.DefaultCommandTTL).Unix()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			env := commandEnvelope(t, enc, dec, tc.nonce, tc.deadline)

			call, err := dec.ContractCall(env, nil)
			require.NoError(t, err)
			assert.Equal(t, common.HexToAddress(receiverHex), call.Command.Target)
			assert.Equal(t, []byte{0xa9, 0x05, 0x9c, 0xbb, 0x01}, []byte(call.Command.Data))
			assert.Equal(t, env.Chain.ChainID, call.Command.ChainID.Uint64())
			assert.Equal(t, tc.wantNon, call.Command.Nonce.Int64())
			assert.Equal(t, tc.wantDead, call.Command.Deadline.Int64())

			encoded, err := call.Command.EncodeForContract()
			require.NoError(t, err)
			assert.Equal(t, encoded, []byte(call.Encoded))
			hash, err := call.Command.Hash(nil)
			require.NoError(t, err)
			assert.Equal(t, hash, call.Hash)
		})
	}
}

func TestContractCall_PubKeyBindsHash(t *testing.T) {
	t.Parallel()

	enc, dec, _ := decoderAt(t, clockNow)
	env := commandEnvelope(t, enc, dec, uint32Ptr(1), uint32Ptr(1_800_000_000))

	plain, err := dec.ContractCall(env, nil)
	require.NoError(t, err)
	var key [32]byte
	key[31] = 0x01
	bound, err := dec.ContractCall(env, &key)
	require.NoError(t, err)

	assert.NotEqual(t, plain.Hash, bound.Hash)
	assert.Equal(t, plain.Encoded, bound.Encoded)
}

func TestContractCall_Rejects(t *testing.T) {
	t.Parallel()

	enc, dec, m := decoderAt(t, clockNow)

	expired := commandEnvelope(t, enc, dec, uint32Ptr(1), uint32Ptr(1_600_000_000))
	_, err := dec.ContractCall(expired, nil)
	require.ErrorIs(t, err, ErrInvalidPayload)
	assert.Equal(t, []string{"deadline"}, validate.Fields(err))
	assert.InDelta(t, 1, testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("contract_call", "invalid_payload")), 0)

	art, err := enc.EncodeMessage(MessageRequest{Chain: "sepolia", Receiver: receiverHex, Data: []byte("gm")})
	require.NoError(t, err)
	msg, err := dec.DecodeScript(art.Script)
	require.NoError(t, err)
	_, err = dec.ContractCall(msg, nil)
	assert.Error(t, err)

	_, err = dec.ContractCall(nil, nil)
	assert.Error(t, err)
}

func TestDecodeAll_Metrics(t *testing.T) {
	t.Parallel()

	enc, dec, m := decoderAt(t, clockNow)
	art, err := enc.EncodeMessage(MessageRequest{Chain: "sepolia", Receiver: receiverHex, Data: []byte("gm")})
	require.NoError(t, err)

	_, err = dec.DecodeAll(t.Context(), [][]byte{art.Script, art.Script, {0x00}}, 2)
	require.NoError(t, err)

	var h dto.Metric
	require.NoError(t, m.BatchSize.Write(&h))
	assert.Equal(t, uint64(1), h.GetHistogram().GetSampleCount())
	assert.InDelta(t, 3, h.GetHistogram().GetSampleSum(), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.InflightDecodes), 0)
}
