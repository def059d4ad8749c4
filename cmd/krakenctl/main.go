// krakenctl is a command-line client for the Kraken exchange REST API.
//
// Public market data (ticker, ohlc) needs no credentials. Private
// account commands (balance, order) authenticate with the key pair from
// the KRAKEN_API_KEY / KRAKEN_PRIVATE_KEY environment variables.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
