package script

// Opcodes used by this engine. Named after the Bitcoin-derivative script
// opcodes spec.md §3/§4.1/§4.2 references; only the subset the HRC-20
// commit-reveal flow actually emits is defined here.
const (
	OpFalse = 0x00
	OpData1 = 0x01 // First direct-push opcode: pushes the next N bytes, N == opcode (1..75).
	// Direct-push opcodes run from OpData1 (0x01) through 0x4b (75 bytes).
	OpDataMax      = 0x4b
	OpPushData1    = 0x4c // Next byte is the length (up to 255).
	OpPushData2    = 0x4d // Next two bytes (little-endian) are the length (up to 65535).
	OpIf           = 0x63
	OpEndIf        = 0x68
	OpEqual        = 0x87
	OpCheckSig     = 0xac
	OpCheckSigECDSA = 0xab
	OpBlake3       = 0xc0
)

// OpData32/OpData33 are the direct-push opcodes for 32-byte and 33-byte
// pushes, used as literal scriptPubKey prefixes for Schnorr/ECDSA/P2SH
// outputs (spec.md §4.1).
const (
	OpData32 = 0x20
	OpData33 = 0x21
)

// maxScriptElementSize is the largest single push-data chunk the builder
// will ever emit in one opcode (520 bytes), matching Bitcoin-derivative
// chains' MAX_SCRIPT_ELEMENT_SIZE. Payloads longer than this are split
// into successive chunks (spec.md §4.2).
const maxScriptElementSize = 520
