package txmodel

import "encoding/hex"

// WireOutpoint is the JSON shape of an Outpoint on the node HTTP surface:
// a big-endian hex txid and a numeric index (spec.md §6).
type WireOutpoint struct {
	TransactionID string `json:"transactionId"`
	Index         uint32 `json:"index"`
}

// WireScriptPubKey is the JSON shape of a ScriptPubKey.
type WireScriptPubKey struct {
	Version uint16 `json:"version"`
	Script  string `json:"scriptPublicKey"`
}

// WireInput is the JSON shape of an Input.
type WireInput struct {
	PreviousOutpoint WireOutpoint `json:"previousOutpoint"`
	SignatureScript  string       `json:"signatureScript"`
	Sequence         uint64       `json:"sequence"`
	SigOpCount       uint8        `json:"sigOpCount"`
}

// WireOutput is the JSON shape of an Output.
type WireOutput struct {
	Amount       uint64           `json:"amount"`
	ScriptPubKey WireScriptPubKey `json:"scriptPublicKey"`
}

// WireTransaction is the JSON shape submitted to POST /transactions
// (spec.md §6): every byte field is lowercase hex, matching this engine's
// hex codec conventions.
type WireTransaction struct {
	Version      uint16       `json:"version"`
	Inputs       []WireInput  `json:"inputs"`
	Outputs      []WireOutput `json:"outputs"`
	LockTime     uint64       `json:"lockTime"`
	SubnetworkID string       `json:"subnetworkId"`
	Gas          uint64       `json:"gas"`
	Payload      string       `json:"payload"`
}

// ToWire renders tx as its JSON transport shape.
func (tx *Transaction) ToWire() WireTransaction {
	w := WireTransaction{
		Version:      tx.Version,
		LockTime:     tx.LockTime,
		SubnetworkID: hex.EncodeToString(tx.SubnetworkID[:]),
		Gas:          tx.Gas,
		Payload:      hex.EncodeToString(tx.Payload),
	}
	for _, in := range tx.Inputs {
		w.Inputs = append(w.Inputs, WireInput{
			PreviousOutpoint: WireOutpoint{
				TransactionID: hex.EncodeToString(reverseBytes(in.PrevOut.TxID[:])),
				Index:         in.PrevOut.Index,
			},
			SignatureScript: hex.EncodeToString(in.SignatureScript),
			Sequence:        in.Sequence,
			SigOpCount:      in.SigOpCount,
		})
	}
	for _, out := range tx.Outputs {
		w.Outputs = append(w.Outputs, WireOutput{
			Amount: out.Amount,
			ScriptPubKey: WireScriptPubKey{
				Version: out.ScriptPubKey.Version,
				Script:  hex.EncodeToString(out.ScriptPubKey.Script),
			},
		})
	}
	return w
}

// OutpointFromWire decodes a single wire outpoint, as needed when an
// orchestrator matches a UTXO entry's outpoint against a known commit
// transaction id rather than decoding a whole transaction.
func OutpointFromWire(w WireOutpoint) (Outpoint, error) {
	txidBytes, err := hex.DecodeString(w.TransactionID)
	if err != nil {
		return Outpoint{}, err
	}
	var txid [32]byte
	copy(txid[:], reverseBytes(txidBytes))
	return Outpoint{TxID: txid, Index: w.Index}, nil
}

// ScriptPubKeyFromWire decodes a single wire scriptPubKey.
func ScriptPubKeyFromWire(w WireScriptPubKey) (ScriptPubKey, error) {
	script, err := hex.DecodeString(w.Script)
	if err != nil {
		return ScriptPubKey{}, err
	}
	return ScriptPubKey{Version: w.Version, Script: script}, nil
}

// FromWire parses a JSON transport shape back into a Transaction, as used
// when reading UTXO entries' embedded scriptPublicKey material from the
// node's GET /addresses/{address}/utxos response.
func FromWire(w WireTransaction) (*Transaction, error) {
	tx := &Transaction{
		Version:  w.Version,
		LockTime: w.LockTime,
		Gas:      w.Gas,
	}
	subnet, err := hex.DecodeString(w.SubnetworkID)
	if err != nil {
		return nil, err
	}
	copy(tx.SubnetworkID[:], subnet)

	payload, err := hex.DecodeString(w.Payload)
	if err != nil {
		return nil, err
	}
	tx.Payload = payload

	for _, in := range w.Inputs {
		txidBytes, err := hex.DecodeString(in.PreviousOutpoint.TransactionID)
		if err != nil {
			return nil, err
		}
		var txid [32]byte
		copy(txid[:], reverseBytes(txidBytes))
		sigScript, err := hex.DecodeString(in.SignatureScript)
		if err != nil {
			return nil, err
		}
		tx.Inputs = append(tx.Inputs, Input{
			PrevOut:         Outpoint{TxID: txid, Index: in.PreviousOutpoint.Index},
			SignatureScript: sigScript,
			Sequence:        in.Sequence,
			SigOpCount:      in.SigOpCount,
		})
	}

	for _, out := range w.Outputs {
		script, err := hex.DecodeString(out.ScriptPubKey.Script)
		if err != nil {
			return nil, err
		}
		tx.Outputs = append(tx.Outputs, Output{
			Amount: out.Amount,
			ScriptPubKey: ScriptPubKey{
				Version: out.ScriptPubKey.Version,
				Script:  script,
			},
		})
	}

	return tx, nil
}
