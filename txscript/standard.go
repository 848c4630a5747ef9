// Copyright (c) 2024-2026 The spvkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

// PayToPubKeyHashScript returns a script which pays to the passed 20-byte
// public key hash.
func PayToPubKeyHashScript(pubKeyHash []byte) *Script {
	return NewScript(
		OpcodeCommand(OP_DUP),
		OpcodeCommand(OP_HASH160),
		DataCommand(pubKeyHash),
		OpcodeCommand(OP_EQUALVERIFY),
		OpcodeCommand(OP_CHECKSIG),
	)
}

// PayToScriptHashScript returns a script which pays to the passed 20-byte
// script hash.
func PayToScriptHashScript(scriptHash []byte) *Script {
	return NewScript(
		OpcodeCommand(OP_HASH160),
		DataCommand(scriptHash),
		OpcodeCommand(OP_EQUAL),
	)
}

// PayToWitnessPubKeyHashScript returns a version 0 witness program which pays
// to the passed 20-byte public key hash.
func PayToWitnessPubKeyHashScript(pubKeyHash []byte) *Script {
	return NewScript(
		OpcodeCommand(OP_0),
		DataCommand(pubKeyHash),
	)
}

// PayToWitnessScriptHashScript returns a version 0 witness program which pays
// to the passed 32-byte script hash.
func PayToWitnessScriptHashScript(scriptHash []byte) *Script {
	return NewScript(
		OpcodeCommand(OP_0),
		DataCommand(scriptHash),
	)
}

// MultiSigScript returns a valid script for a multisignature redemption where
// the specified number of valid signatures are required from the passed
// serialized public keys.  An error is returned when the threshold is larger
// than the number of keys provided.
func MultiSigScript(pubKeys [][]byte, nRequired int) (*Script, error) {
	if len(pubKeys) < nRequired {
		str := "unable to generate multisig script with more " +
			"required signatures than keys available"
		return nil, scriptError(ErrInvalidSignatureCount, str)
	}
	if nRequired < 1 || len(pubKeys) > 16 {
		str := "invalid signature or key count for multisig script"
		return nil, scriptError(ErrInvalidPubKeyCount, str)
	}

	cmds := make([]Command, 0, len(pubKeys)+3)
	cmds = append(cmds, OpcodeCommand(byte(OP_1-1+nRequired)))
	for _, key := range pubKeys {
		cmds = append(cmds, DataCommand(key))
	}
	cmds = append(cmds, OpcodeCommand(byte(OP_1-1+len(pubKeys))))
	cmds = append(cmds, OpcodeCommand(OP_CHECKMULTISIG))
	return NewScript(cmds...), nil
}

// IsPayToPubKeyHash returns true if the passed raw script is a standard
// pay-to-pubkey-hash script.
func IsPayToPubKeyHash(script []byte) bool {
	return len(script) == 25 &&
		script[0] == OP_DUP &&
		script[1] == OP_HASH160 &&
		script[2] == OP_DATA_20 &&
		script[23] == OP_EQUALVERIFY &&
		script[24] == OP_CHECKSIG
}

// IsPayToScriptHash returns true if the passed raw script is a standard
// pay-to-script-hash script.
func IsPayToScriptHash(script []byte) bool {
	return len(script) == 23 &&
		script[0] == OP_HASH160 &&
		script[1] == OP_DATA_20 &&
		script[22] == OP_EQUAL
}

// IsPayToWitnessPubKeyHash returns true if the passed raw script is a
// version 0 pay-to-witness-pubkey-hash program.
func IsPayToWitnessPubKeyHash(script []byte) bool {
	return len(script) == 22 &&
		script[0] == OP_0 &&
		script[1] == OP_DATA_20
}

// IsPayToWitnessScriptHash returns true if the passed raw script is a
// version 0 pay-to-witness-script-hash program.
func IsPayToWitnessScriptHash(script []byte) bool {
	return len(script) == 34 &&
		script[0] == OP_0 &&
		script[1] == OP_DATA_32
}

// IsPayToPubKey returns true if the passed raw script is a standard
// pay-to-pubkey script.
func IsPayToPubKey(script []byte) bool {
	s, err := NewScriptFromBytes(script)
	if err != nil {
		return false
	}
	cmds := s.Commands()
	if len(cmds) != 2 || !cmds[0].IsData() {
		return false
	}
	keyLen := len(cmds[0].Data())
	return (keyLen == 33 || keyLen == 65) &&
		!cmds[1].IsData() && cmds[1].Opcode() == OP_CHECKSIG
}

// IsMultiSig returns true if the passed raw script is a standard bare
// multisignature script.
func IsMultiSig(script []byte) bool {
	s, err := NewScriptFromBytes(script)
	if err != nil {
		return false
	}
	cmds := s.Commands()
	if len(cmds) < 4 {
		return false
	}

	isSmallInt := func(cmd Command) bool {
		return !cmd.IsData() &&
			(cmd.Opcode() == OP_0 ||
				(cmd.Opcode() >= OP_1 && cmd.Opcode() <= OP_16))
	}
	if !isSmallInt(cmds[0]) || !isSmallInt(cmds[len(cmds)-2]) {
		return false
	}
	if cmds[len(cmds)-1].IsData() ||
		cmds[len(cmds)-1].Opcode() != OP_CHECKMULTISIG {

		return false
	}

	for _, cmd := range cmds[1 : len(cmds)-2] {
		if !cmd.IsData() {
			return false
		}
		keyLen := len(cmd.Data())
		if keyLen != 33 && keyLen != 65 {
			return false
		}
	}
	return true
}

// PushedData returns the data pushed by the script's data commands in the
// order they appear.
func (s *Script) PushedData() [][]byte {
	var data [][]byte
	for _, cmd := range s.cmds {
		if cmd.IsData() {
			data = append(data, cmd.Data())
		}
	}
	return data
}
