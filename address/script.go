// Copyright (c) 2024-2026 The spvkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package address

import (
	"fmt"

	"github.com/spvkit/spvkit/chaincfg"
	"github.com/spvkit/spvkit/txscript"
)

// PayToAddrScript creates a new script to pay a transaction output to the
// specified address.
func PayToAddrScript(addr Address) (*txscript.Script, error) {
	switch addr := addr.(type) {
	case *AddressPubKeyHash:
		if addr == nil {
			return nil, fmt.Errorf("unable to generate payment " +
				"script for nil address")
		}
		return txscript.PayToPubKeyHashScript(addr.ScriptAddress()), nil

	case *AddressScriptHash:
		if addr == nil {
			return nil, fmt.Errorf("unable to generate payment " +
				"script for nil address")
		}
		return txscript.PayToScriptHashScript(addr.ScriptAddress()), nil

	case *AddressWitnessPubKeyHash:
		if addr == nil {
			return nil, fmt.Errorf("unable to generate payment " +
				"script for nil address")
		}
		return txscript.PayToWitnessPubKeyHashScript(
			addr.ScriptAddress()), nil

	case *AddressWitnessScriptHash:
		if addr == nil {
			return nil, fmt.Errorf("unable to generate payment " +
				"script for nil address")
		}
		return txscript.PayToWitnessScriptHashScript(
			addr.ScriptAddress()), nil
	}

	return nil, fmt.Errorf("unable to generate payment script for "+
		"unsupported address type %T", addr)
}

// ExtractAddress returns the address a standard public key script pays to,
// along with whether the script was recognized as one of the standard
// single-address templates.
func ExtractAddress(pkScript []byte, net *chaincfg.Params) (Address, error) {
	switch {
	case txscript.IsPayToPubKeyHash(pkScript):
		return newAddressPubKeyHash(pkScript[3:23], net.PubKeyHashAddrID)

	case txscript.IsPayToScriptHash(pkScript):
		return newAddressScriptHashFromHash(pkScript[2:22],
			net.ScriptHashAddrID)

	case txscript.IsPayToWitnessPubKeyHash(pkScript):
		return newAddressWitnessPubKeyHash(net.Bech32HRPSegwit,
			pkScript[2:22])

	case txscript.IsPayToWitnessScriptHash(pkScript):
		return newAddressWitnessScriptHash(net.Bech32HRPSegwit,
			pkScript[2:34])
	}

	return nil, ErrUnknownAddressType
}
