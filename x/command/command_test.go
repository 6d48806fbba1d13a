package command

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compose-network/bmcp/x/chains"
	"github.com/compose-network/bmcp/x/wire"
)

func u32(v uint32) *uint32 { return &v }

func TestEncodeDecode_ScenarioRawSelector(t *testing.T) {
	t.Parallel()

	data, err := EncodeFor(chains.Default(), "11155111", "0x00000000000000000000000000000000000001", []byte{0x12, 0x34})
	require.NoError(t, err)
	require.Len(t, data, HeaderSize+2)

	c, err := Decode(data)
	require.NoError(t, err)

	want := make([]byte, 20)
	want[19] = 0x01
	assert.Equal(t, ProtocolMagic, c.Magic)
	assert.Equal(t, "BMCP", c.Protocol())
	assert.Equal(t, Version, c.Version)
	assert.Equal(t, uint64(11155111), c.ChainSelector)
	assert.Equal(t, want, []byte(c.Contract))
	assert.Equal(t, []byte{0x12, 0x34}, []byte(c.CallData))
	assert.Nil(t, c.Nonce)
	assert.Nil(t, c.Deadline)
}

func TestEncodeDecode_Roundtrip(t *testing.T) {
	t.Parallel()

	contract := "0x0123456789abcdef0123456789abcdef01234567"
	tests := []struct {
		name     string
		callData []byte
		opts     []Option
	}{
		{name: "no options", callData: []byte{0xa9, 0x05, 0x9c, 0xbb}},
		{name: "nonce only", callData: []byte{0x01}, opts: []Option{WithNonce(7)}},
		{name: "nonce and deadline", callData: []byte{0x01, 0x02}, opts: []Option{WithNonce(0), WithDeadline(1_900_000_000)}},
		{name: "empty call data", callData: nil, opts: []Option{WithNonce(^uint32(0))}},
		{name: "max call data", callData: bytes.Repeat([]byte{0xee}, MaxCallDataSize)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in, err := New(16015286601757825753, contract, tt.callData, tt.opts...)
			require.NoError(t, err)

			data, err := Encode(in)
			require.NoError(t, err)
			require.Len(t, data, in.EncodedSize())

			out, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, in, out)
		})
	}
}

func TestEncode_Layout(t *testing.T) {
	t.Parallel()

	c, err := New(0x0102030405060708, "0x0123456789abcdef0123456789abcdef01234567", []byte{0xaa}, WithNonce(0x11223344), WithDeadline(0x55667788))
	require.NoError(t, err)
	data, err := Encode(c)
	require.NoError(t, err)

	assert.Equal(t, MagicBytes(), data[0:4])
	assert.Equal(t, []byte{0x42, 0x4d, 0x43, 0x50}, data[0:4])
	assert.Equal(t, byte(0x01), data[4])
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, data[5:13])
	assert.Equal(t, []byte(c.Contract), data[13:33])
	assert.Equal(t, []byte{0x00, 0x01}, data[33:35])
	assert.Equal(t, byte(0xaa), data[35])
	assert.Equal(t, []byte{0x11, 0x22, 0x33, 0x44}, data[36:40])
	assert.Equal(t, []byte{0x55, 0x66, 0x77, 0x88}, data[40:44])
	assert.Equal(t, "0x0123456789abcdef0123456789abcdef01234567", c.ContractHex())
}

func TestEncode_Failures(t *testing.T) {
	t.Parallel()

	valid, err := New(1, "0x01", nil)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(c *Command)
		want   error
	}{
		{name: "call data over u16", mutate: func(c *Command) { c.CallData = make([]byte, MaxCallDataSize+1) }, want: wire.ErrPayloadTooLarge},
		{name: "short contract", mutate: func(c *Command) { c.Contract = c.Contract[:19] }, want: wire.ErrMalformedAddress},
		{name: "deadline without nonce", mutate: func(c *Command) { c.Deadline = u32(10) }, want: wire.ErrInvalidOptions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := *valid
			tt.mutate(&c)
			out, err := Encode(&c)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, out)
		})
	}

	_, err = New(1, "0x0123456789abcdef0123456789abcdef0123456789", nil)
	assert.ErrorIs(t, err, wire.ErrMalformedAddress)
}

func TestDecode_OptionalFields(t *testing.T) {
	t.Parallel()

	c, err := New(1, "0x01", []byte{0xff})
	require.NoError(t, err)
	base, err := Encode(c)
	require.NoError(t, err)

	withNonce := binary.BigEndian.AppendUint32(bytes.Clone(base), 9)
	withBoth := binary.BigEndian.AppendUint32(bytes.Clone(withNonce), 10)
	withTrailing := append(bytes.Clone(withBoth), 0xde, 0xad)

	out, err := Decode(withNonce)
	require.NoError(t, err)
	require.NotNil(t, out.Nonce)
	assert.Equal(t, uint32(9), *out.Nonce)
	assert.Nil(t, out.Deadline)

	out, err = Decode(withBoth)
	require.NoError(t, err)
	assert.Equal(t, uint32(9), *out.Nonce)
	assert.Equal(t, uint32(10), *out.Deadline)

	out, err = Decode(withTrailing)
	require.NoError(t, err)
	assert.Equal(t, uint32(10), *out.Deadline)

	_, err = Decode(append(bytes.Clone(base), 0x01, 0x02))
	assert.ErrorIs(t, err, wire.ErrTruncatedInput)

	_, err = Decode(append(bytes.Clone(withNonce), 0x01))
	assert.ErrorIs(t, err, wire.ErrTruncatedInput)
}

func TestDecode_Truncated(t *testing.T) {
	t.Parallel()

	c, err := New(1, "0x01", []byte{1, 2, 3})
	require.NoError(t, err)
	data, err := Encode(c)
	require.NoError(t, err)

	for _, n := range []int{0, 3, 4, 12, HeaderSize - 1, HeaderSize, len(data) - 1} {
		_, err := Decode(data[:n])
		assert.ErrorIs(t, err, wire.ErrTruncatedInput, "length %d", n)
	}
}

func TestDecode_DoesNotCheckMagic(t *testing.T) {
	t.Parallel()

	c, err := New(1, "0x01", nil)
	require.NoError(t, err)
	c.Magic = 0xdeadbeef
	c.Version = 9
	data, err := Encode(c)
	require.NoError(t, err)

	assert.False(t, IsKnownMagic(data))
	out, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), out.Magic)
	assert.Equal(t, uint8(9), out.Version)
}

func TestIsKnownMagic(t *testing.T) {
	t.Parallel()

	assert.True(t, IsKnownMagic([]byte("BMCP")))
	assert.True(t, IsKnownMagic([]byte("BMCP\x01")))
	assert.False(t, IsKnownMagic([]byte("BMC")))
	assert.False(t, IsKnownMagic([]byte{0x42, 0x43, 0x02, 0x00}))
	assert.False(t, IsKnownMagic(nil))
}

func TestResolveSelector(t *testing.T) {
	t.Parallel()

	reg := chains.Default()
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{in: "sepolia", want: 16015286601757825753},
		{in: "CITREA_TESTNET", want: chains.CitreaTestnetSelector},
		{in: "16015286601757825753", want: 16015286601757825753},
		{in: "0x4349545245410000", want: chains.CitreaSelector},
		{in: "11155111", want: 11155111},
		{in: "atlantis", wantErr: true},
		{in: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveSelector(reg, tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ResolveSelector(reg, "atlantis")
	assert.ErrorIs(t, err, chains.ErrUnknownChain)
}

func TestSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, HeaderSize, EstimateSize(0, Options{}))
	assert.Equal(t, HeaderSize+10+8, EstimateSize(10, Options{Nonce: u32(1), Deadline: u32(2)}))

	r := CheckSize(make([]byte, MaxPayloadSize))
	assert.Equal(t, SizeReport{Valid: true, Size: MaxPayloadSize, MaxSize: MaxPayloadSize}, r)
	assert.False(t, CheckSize(make([]byte, MaxPayloadSize+1)).Valid)
}

func TestCodec(t *testing.T) {
	t.Parallel()

	c := Codec{}
	assert.Equal(t, "command", c.Name())
	assert.Equal(t, MaxPayloadSize, c.MaxPayloadSize())
	assert.True(t, c.Detect(MagicBytes()))
	_, err := c.Decode(MagicBytes())
	assert.ErrorIs(t, err, wire.ErrTruncatedInput)
}
