// Copyright (c) 2024-2026 The spvkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	flags "github.com/jessevdk/go-flags"

	"github.com/spvkit/spvkit/address"
	"github.com/spvkit/spvkit/chaincfg"
	"github.com/spvkit/spvkit/txscript"
	"github.com/spvkit/spvkit/wire"
)

type config struct {
	TestNet bool `long:"testnet" description:"Interpret addresses for the test network"`
	RegTest bool `long:"regtest" description:"Interpret addresses for the regression test network"`
	Verbose bool `short:"v" long:"verbose" description:"Dump the full decoded transaction structure"`
}

var activeNetParams = &chaincfg.MainNetParams

// readTxHex returns the raw transaction hex from the first positional
// argument, falling back to stdin when no argument is given.
func readTxHex(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %v", err)
	}
	return string(raw), nil
}

// disasmScript returns the human-readable form of the passed raw script, or
// a hex dump when the script does not parse.
func disasmScript(script []byte) string {
	if len(script) == 0 {
		return "(empty)"
	}
	parsed, err := txscript.NewScriptFromBytes(script)
	if err != nil {
		return fmt.Sprintf("(non-parseable: %x)", script)
	}
	return parsed.String()
}

// scriptClass returns a short template name for the passed public key
// script along with its address when one applies.
func scriptClass(pkScript []byte) string {
	var class string
	switch {
	case txscript.IsPayToPubKeyHash(pkScript):
		class = "pubkeyhash"
	case txscript.IsPayToScriptHash(pkScript):
		class = "scripthash"
	case txscript.IsPayToWitnessPubKeyHash(pkScript):
		class = "witness_v0_keyhash"
	case txscript.IsPayToWitnessScriptHash(pkScript):
		class = "witness_v0_scripthash"
	case txscript.IsPayToPubKey(pkScript):
		return "pubkey"
	case txscript.IsMultiSig(pkScript):
		return "multisig"
	default:
		return "nonstandard"
	}

	addr, err := address.ExtractAddress(pkScript, activeNetParams)
	if err != nil {
		return class
	}
	return fmt.Sprintf("%s %s", class, addr.EncodeAddress())
}

func printTx(w io.Writer, tx *wire.MsgTx) {
	fmt.Fprintf(w, "txid: %s\n", tx.TxHash())
	if tx.HasWitness() {
		fmt.Fprintf(w, "wtxid: %s\n", tx.WitnessHash())
	}
	fmt.Fprintf(w, "version: %d\n", tx.Version)
	fmt.Fprintf(w, "size: %d bytes\n", tx.SerializeSize())

	fmt.Fprintf(w, "inputs (%d):\n", len(tx.TxIn))
	for i, txIn := range tx.TxIn {
		fmt.Fprintf(w, "  %d: %s\n", i, &txIn.PreviousOutPoint)
		fmt.Fprintf(w, "     scriptSig: %s\n",
			disasmScript(txIn.SignatureScript))
		fmt.Fprintf(w, "     sequence: %#x\n", txIn.Sequence)
		for j, item := range txIn.Witness {
			fmt.Fprintf(w, "     witness %d: %x\n", j, item)
		}
	}

	fmt.Fprintf(w, "outputs (%d):\n", len(tx.TxOut))
	for i, txOut := range tx.TxOut {
		fmt.Fprintf(w, "  %d: value %d\n", i, txOut.Value)
		fmt.Fprintf(w, "     pkScript: %s\n",
			disasmScript(txOut.PkScript))
		fmt.Fprintf(w, "     type: %s\n", scriptClass(txOut.PkScript))
	}

	fmt.Fprintf(w, "locktime: %d\n", tx.LockTime)
}

func realMain() error {
	cfg := config{}
	parser := flags.NewParser(&cfg, flags.Default)
	args, err := parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			return nil
		}
		return err
	}

	if cfg.TestNet && cfg.RegTest {
		return fmt.Errorf("the testnet and regtest params can't be " +
			"used together -- choose one of the two")
	}
	if cfg.TestNet {
		activeNetParams = &chaincfg.TestNet3Params
	}
	if cfg.RegTest {
		activeNetParams = &chaincfg.RegressionNetParams
	}

	txHex, err := readTxHex(args)
	if err != nil {
		return err
	}
	serializedTx, err := hex.DecodeString(strings.TrimSpace(txHex))
	if err != nil {
		return fmt.Errorf("failed to decode transaction hex: %v", err)
	}

	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(serializedTx)); err != nil {
		return fmt.Errorf("failed to deserialize transaction: %v", err)
	}

	printTx(os.Stdout, &tx)
	if cfg.Verbose {
		fmt.Print(spew.Sdump(&tx))
	}
	return nil
}

func main() {
	if err := realMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
