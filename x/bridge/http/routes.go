package http

// Route patterns for the bridge HTTP surface.
const (
	routeChains         = "/v1/chains"
	routeChainByID      = "/v1/chains/{chain}"
	routeEncodeMessage  = "/v1/messages/encode"
	routeEncodeCommand  = "/v1/commands/encode"
	routeDecodeScript   = "/v1/scripts/decode"
	routeFunctionSelect = "/v1/calldata/selector"
)

// Route names for mux URL building.
const (
	routeNameChains         = "bridge_chains"
	routeNameChainByID      = "bridge_chain_by_id"
	routeNameEncodeMessage  = "bridge_encode_message"
	routeNameEncodeCommand  = "bridge_encode_command"
	routeNameDecodeScript   = "bridge_decode_script"
	routeNameFunctionSelect = "bridge_calldata_selector"
)
