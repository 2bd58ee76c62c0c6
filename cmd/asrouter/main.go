package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/netrelay/asrouter/bgp"
	"github.com/netrelay/asrouter/log"
)

/*

  Examples:

  Start as AS 65001 with three neighbors: a customer, a peer and a provider,
  each reachable over the local collaborator socket transport named after
  its address:

  # go run ./cmd/asrouter 65001 192.168.0.2,cust 172.16.0.2,peer 10.0.0.2,prov

  Enable debug-level logging:

  # go run ./cmd/asrouter -v 65001 192.168.0.2,cust

*/

func main() {
	verbose := flag.Bool("v", false, "Verbose (debug-level) logging")
	socketDir := flag.String("socket-dir", bgp.DefaultSocketDir(), "Directory holding per-neighbor collaborator sockets")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <asn> <address,relation> [<address,relation> ...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "relation is one of: cust, peer, prov\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()
	args := flag.Args()

	if len(args) < 2 {
		flag.Usage()
		os.Exit(2)
	}

	logger := log.New()
	logger.SetLevel(*verbose)

	asn, err := parseASN(args[0])
	if err != nil {
		logger.Fatal(err)
		os.Exit(1)
	}

	pairs, err := parseNeighbors(args[1:])
	if err != nil {
		logger.Fatal(err)
		os.Exit(1)
	}

	neighbors, err := bgp.NewNeighborTable(pairs, bgp.DialUnixNeighbor(*socketDir))
	if err != nil {
		logger.Fatal(err)
		os.Exit(1)
	}

	router := bgp.NewRouter(asn, neighbors, logger)

	if err := router.Run(); err != nil {
		logger.Fatal(err)
		os.Exit(1)
	}
}

func parseASN(s string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, fmt.Errorf("bad AS number %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("AS number must be non-negative, got %d", n)
	}
	return n, nil
}

func parseNeighbors(args []string) ([]struct {
	Address  string
	Relation bgp.Relation
}, error) {
	out := make([]struct {
		Address  string
		Relation bgp.Relation
	}, 0, len(args))

	for _, arg := range args {
		parts := strings.SplitN(arg, ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("bad neighbor argument %q: want address,relation", arg)
		}

		relation, err := bgp.ParseRelation(parts[1])
		if err != nil {
			return nil, fmt.Errorf("bad neighbor argument %q: %w", arg, err)
		}

		out = append(out, struct {
			Address  string
			Relation bgp.Relation
		}{Address: parts[0], Relation: relation})
	}

	return out, nil
}
