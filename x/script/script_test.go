package script

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/btcsuite/btcd/txscript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bwire "github.com/compose-network/bmcp/x/wire"
)

func payloadOf(n int) []byte {
	return bytes.Repeat([]byte{0xab}, n)
}

func TestWrap_Tiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n      int
		tier   Tier
		header []byte
	}{
		{n: 0, tier: TierDirect, header: []byte{0x6a, 0x00}},
		{n: 1, tier: TierDirect, header: []byte{0x6a, 0x01}},
		{n: 75, tier: TierDirect, header: []byte{0x6a, 0x4b}},
		{n: 76, tier: TierPushData1, header: []byte{0x6a, 0x4c, 0x4c}},
		{n: 100, tier: TierPushData1, header: []byte{0x6a, 0x4c, 0x64}},
		{n: 255, tier: TierPushData1, header: []byte{0x6a, 0x4c, 0xff}},
		{n: 256, tier: TierPushData2, header: []byte{0x6a, 0x4d, 0x00, 0x01}},
		{n: 65535, tier: TierPushData2, header: []byte{0x6a, 0x4d, 0xff, 0xff}},
		{n: 65536, tier: TierPushData4, header: []byte{0x6a, 0x4e, 0x00, 0x00, 0x01, 0x00}},
	}

	for _, tc := range tests {
		t.Run(strconv.Itoa(tc.n), func(t *testing.T) {
			t.Parallel()
			payload := payloadOf(tc.n)
			script := Wrap(payload)

			assert.Equal(t, tc.tier, TierFor(tc.n))
			assert.Equal(t, tc.header, script[:len(tc.header)])
			assert.Len(t, script, len(tc.header)+tc.n)
			assert.Equal(t, Size(tc.n), len(script))

			got, err := Unwrap(script)
			require.NoError(t, err)
			if tc.n == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, payload, got)
		})
	}
}

// Wrapped scripts are parsed by btcd's tokenizer as OP_RETURN plus one push
// of the same payload.
func TestWrap_MatchesTokenizer(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 20, 75, 76, 255, 256, 1000} {
		payload := payloadOf(n)
		tok := txscript.MakeScriptTokenizer(0, Wrap(payload))

		require.True(t, tok.Next(), "n=%d", n)
		assert.Equal(t, byte(txscript.OP_RETURN), tok.Opcode())

		require.True(t, tok.Next(), "n=%d", n)
		assert.Equal(t, payload, tok.Data())

		assert.False(t, tok.Next())
		require.NoError(t, tok.Err())
	}
}

func TestWrap_OneHundredBytes(t *testing.T) {
	t.Parallel()

	script := Wrap(payloadOf(100))
	assert.Len(t, script, 103)
	assert.Equal(t, []byte{0x6a, 0x4c, 0x64}, script[:3])
}

func TestUnwrap_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script []byte
		kind   bwire.Kind
	}{
		{name: "empty", script: nil, kind: bwire.KindUnrecognizedScript},
		{name: "zero length", script: []byte{}, kind: bwire.KindUnrecognizedScript},
		{name: "not op_return", script: []byte{0x76, 0xa9, 0x14}, kind: bwire.KindUnrecognizedScript},
		{name: "bare op_return", script: []byte{0x6a}, kind: bwire.KindTruncatedInput},
		{name: "direct push short", script: []byte{0x6a, 0x05, 0x01, 0x02}, kind: bwire.KindTruncatedInput},
		{name: "pushdata1 missing length", script: []byte{0x6a, 0x4c}, kind: bwire.KindTruncatedInput},
		{name: "pushdata1 short", script: []byte{0x6a, 0x4c, 0x10, 0x01}, kind: bwire.KindTruncatedInput},
		{name: "pushdata2 missing length", script: []byte{0x6a, 0x4d, 0x01}, kind: bwire.KindTruncatedInput},
		{name: "pushdata2 short", script: []byte{0x6a, 0x4d, 0x00, 0x01, 0xff}, kind: bwire.KindTruncatedInput},
		{name: "pushdata4 missing length", script: []byte{0x6a, 0x4e, 0x00, 0x00}, kind: bwire.KindTruncatedInput},
		{name: "pushdata4 huge", script: []byte{0x6a, 0x4e, 0xff, 0xff, 0xff, 0xff, 0x00}, kind: bwire.KindTruncatedInput},
		{name: "op_1negate", script: []byte{0x6a, 0x4f}, kind: bwire.KindUnrecognizedScript},
		{name: "op_1", script: []byte{0x6a, 0x51}, kind: bwire.KindUnrecognizedScript},
		{name: "op_return twice", script: []byte{0x6a, 0x6a}, kind: bwire.KindUnrecognizedScript},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Unwrap(tc.script)
			require.Error(t, err)
			assert.Equal(t, tc.kind, bwire.KindOf(err))
		})
	}
}

func TestUnwrap_IgnoresTrailingBytes(t *testing.T) {
	t.Parallel()

	script := append(Wrap([]byte{1, 2, 3}), 0x51, 0x52)
	got, err := Unwrap(script)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestUnwrap_NonMinimalPush(t *testing.T) {
	t.Parallel()

	// A 3-byte payload pushed with PUSHDATA2 still unwraps.
	got, err := Unwrap([]byte{0x6a, 0x4d, 0x03, 0x00, 0x01, 0x02, 0x03})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestHex(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0x6a03010203", WrapHex([]byte{1, 2, 3}))

	for _, in := range []string{"0x6a03010203", "6a03010203", "0X6A03010203"} {
		got, err := UnwrapHex(in)
		require.NoError(t, err, in)
		assert.Equal(t, []byte{1, 2, 3}, got)
	}

	_, err := UnwrapHex("0x6a0")
	assert.ErrorIs(t, err, bwire.ErrUnrecognizedScript)
	_, err = UnwrapHex("zz")
	assert.ErrorIs(t, err, bwire.ErrUnrecognizedScript)
}

func TestIsOpReturn(t *testing.T) {
	t.Parallel()

	assert.True(t, IsOpReturn([]byte{0x6a}))
	assert.False(t, IsOpReturn(nil))
	assert.False(t, IsOpReturn([]byte{0x00, 0x14}))
}

func TestTxOut(t *testing.T) {
	t.Parallel()

	out := TxOut([]byte{0xca, 0xfe})
	assert.Equal(t, int64(0), out.Value)
	assert.Equal(t, []byte{0x6a, 0x02, 0xca, 0xfe}, out.PkScript)
	assert.Equal(t, txscript.NullDataTy, txscript.GetScriptClass(out.PkScript))
}
