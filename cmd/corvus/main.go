// corvus is a UCI chess engine: iterative-deepening negamax with alpha-beta pruning,
// a transposition table, quiescence search and a phase-blended positional evaluator.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/corvuschess/corvus/pkg/engine"
	"github.com/corvuschess/corvus/pkg/engine/console"
	"github.com/corvuschess/corvus/pkg/engine/uci"
	"github.com/seekerror/logw"
)

var (
	depth    = flag.Uint("depth", 7, "Fixed search depth, used when no time control is given (zero means the search package's default depth)")
	hash     = flag.Uint("hash", 64, "Transposition table size in MB")
	protocol = flag.String("protocol", "", "Shell protocol: \"uci\" or \"console\" (auto-detected from the first input line if unset)")
	book     = flag.Bool("book", true, "Use the built-in named-line opening book")
	seed     = flag.Int64("seed", 0, "Zobrist hashing and opening-book random seed")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: corvus [options]

corvus is a classical chess-playing engine: iterative-deepening negamax search with
alpha-beta pruning, a transposition table, quiescence search, move-ordering heuristics
and a phase-blended positional evaluator, exposed over the UCI protocol.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	var opts []engine.Option
	opts = append(opts, engine.WithOptions(engine.Options{Depth: *depth, Hash: *hash, UseBook: *book}))
	opts = append(opts, engine.WithZobrist(*seed))
	if *book {
		b, err := engine.DefaultBook()
		if err != nil {
			logw.Exitf(ctx, "Failed to build opening book: %v", err)
		}
		opts = append(opts, engine.WithBook(b))
	}

	e := engine.New(ctx, "corvus", "corvuschess", opts...)
	logw.Infof(ctx, "%v starting", e.Name())

	in := engine.ReadStdinLines(ctx)

	selected := strings.ToLower(strings.TrimSpace(*protocol))
	if selected == "" {
		first, ok := <-in
		if !ok {
			logw.Exitf(ctx, "No input received")
		}
		selected = strings.ToLower(strings.TrimSpace(first))
	}

	switch selected {
	case uci.ProtocolName:
		driver, out := uci.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)
		<-driver.Closed()

	case console.ProtocolName:
		driver, out := console.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)
		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported: %q", selected)
	}
}
