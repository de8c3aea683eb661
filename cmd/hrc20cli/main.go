// hrc20cli is a command-line client for the hrc20engined operator
// JSON-RPC surface (spec.md §6).
//
// Usage:
//
//	hrc20cli [--rpc <url>] <command> [flags]
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/hoosat-labs/hrc20-engine/internal/rpc"
	"github.com/hoosat-labs/hrc20-engine/internal/rpcclient"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	rpcURL := "http://127.0.0.1:8645"
	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--rpc" && len(args) > 1:
			rpcURL = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--rpc="):
			rpcURL = args[0][len("--rpc="):]
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	client := rpcclient.New(rpcURL)
	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "address":
		cmdGetAddress(client)
	case "balance":
		cmdGetBalance(client, cmdArgs)
	case "consolidate":
		cmdConsolidate(client, cmdArgs)
	case "deploy":
		cmdDeployToken(client, cmdArgs)
	case "mint":
		cmdMintToken(client, cmdArgs)
	case "reveal":
		cmdRevealOperation(client, cmdArgs)
	case "pending":
		cmdGetPendingReveals(client)
	case "redeem-script":
		cmdGetRedeemScript(client, cmdArgs)
	case "estimate-fees":
		cmdEstimateFees(client, cmdArgs)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: hrc20cli [--rpc <url>] <command> [args]

Global flags:
  --rpc <url>   Operator RPC endpoint (default: http://127.0.0.1:8645)

Commands:
  address                                   Show this engine's address and public key
  balance <address>                         Show an address's confirmed/pending balance
  consolidate <from_address>                Consolidate up to 10 UTXOs into one
  deploy <tick> <max> <lim> [dec] <from>    Deploy an HRC-20 token
  mint <tick> [recipient] <from>            Mint an HRC-20 token
  reveal <commit_tx_id> <recipient>         Reveal a pending commit
  pending                                    List pending reveals
  redeem-script <commit_tx_id>              Show a pending commit's redeem script
  estimate-fees <payload_json>               Estimate commit/reveal fees for a payload
`)
}

func cmdGetAddress(client *rpcclient.Client) {
	var result rpc.AddressResult
	if err := client.Call("get_address", nil, &result); err != nil {
		fatal("get_address: %v", err)
	}
	printJSON(result)
}

func cmdGetBalance(client *rpcclient.Client, args []string) {
	if len(args) != 1 {
		fatal("usage: balance <address>")
	}
	var result rpc.BalanceResult
	if err := client.Call("get_balance", rpc.AddressParam{Address: args[0]}, &result); err != nil {
		fatal("get_balance: %v", err)
	}
	printJSON(result)
}

func cmdConsolidate(client *rpcclient.Client, args []string) {
	if len(args) != 1 {
		fatal("usage: consolidate <from_address>")
	}
	var result rpc.ConsolidateResult
	if err := client.Call("consolidate_utxos", rpc.ConsolidateParam{FromAddress: args[0]}, &result); err != nil {
		fatal("consolidate_utxos: %v", err)
	}
	printJSON(result)
}

func cmdDeployToken(client *rpcclient.Client, args []string) {
	if len(args) != 4 && len(args) != 5 {
		fatal("usage: deploy <tick> <max> <lim> [dec] <from_address>")
	}
	p := rpc.DeployTokenParam{Tick: args[0], Max: args[1], Lim: args[2]}
	if len(args) == 5 {
		p.Dec = args[3]
		p.FromAddress = args[4]
	} else {
		p.FromAddress = args[3]
	}

	var result rpc.CommitResult
	if err := client.Call("deploy_token", p, &result); err != nil {
		fatal("deploy_token: %v", err)
	}
	printJSON(result)
}

func cmdMintToken(client *rpcclient.Client, args []string) {
	if len(args) != 2 && len(args) != 3 {
		fatal("usage: mint <tick> [recipient] <from_address>")
	}
	p := rpc.MintTokenParam{Tick: args[0]}
	if len(args) == 3 {
		p.Recipient = args[1]
		p.FromAddress = args[2]
	} else {
		p.FromAddress = args[1]
	}

	var result rpc.CommitResult
	if err := client.Call("mint_token", p, &result); err != nil {
		fatal("mint_token: %v", err)
	}
	printJSON(result)
}

func cmdRevealOperation(client *rpcclient.Client, args []string) {
	if len(args) != 2 {
		fatal("usage: reveal <commit_tx_id> <recipient>")
	}
	var result rpc.RevealResult
	if err := client.Call("reveal_operation", rpc.RevealOperationParam{CommitTxID: args[0], Recipient: args[1]}, &result); err != nil {
		fatalRPC("reveal_operation", err)
	}
	printJSON(result)
}

func cmdGetPendingReveals(client *rpcclient.Client) {
	var result []rpc.PendingRevealResult
	if err := client.Call("get_pending_reveals", nil, &result); err != nil {
		fatal("get_pending_reveals: %v", err)
	}
	printJSON(result)
}

func cmdGetRedeemScript(client *rpcclient.Client, args []string) {
	if len(args) != 1 {
		fatal("usage: redeem-script <commit_tx_id>")
	}
	var result rpc.RedeemScriptResult
	if err := client.Call("get_redeem_script", rpc.RedeemScriptParam{CommitTxID: args[0]}, &result); err != nil {
		fatalRPC("get_redeem_script", err)
	}
	printJSON(result)
}

func cmdEstimateFees(client *rpcclient.Client, args []string) {
	if len(args) != 1 {
		fatal("usage: estimate-fees <payload_json>")
	}
	var result rpc.FeeEstimateResult
	if err := client.Call("estimate_fees", rpc.EstimateFeesParam{PayloadJSON: args[0]}, &result); err != nil {
		fatal("estimate_fees: %v", err)
	}
	printJSON(result)
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal("encode result: %v", err)
	}
	fmt.Println(string(data))
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// fatalRPC reports an RPC failure and exits with a code that distinguishes
// "no such pending reveal" (exit 2) from other failures, so callers scripting
// against hrc20cli can tell a missing commit apart from a broken request or
// a down engine without parsing the message text.
func fatalRPC(method string, err error) {
	if rpcErr, ok := err.(*rpcclient.RPCError); ok && rpcErr.NotFound() {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", method, err)
		os.Exit(2)
	}
	fatal("%s: %v", method, err)
}
