package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/corvuschess/corvus/pkg/board"
	"github.com/corvuschess/corvus/pkg/board/fen"
)

// Book represents a named-line opening book, layered above the single-ply random
// e2e4/d2d4 fallback implemented directly in pkg/search.GetBestMove. A handful of
// short, named lines let the engine play recognizable openings instead of always
// falling back to the bare two-move choice: Find returns an empty list once a
// position falls off every known line, and the caller then defers to search.
type Book interface {
	// Find returns the candidate moves (potentially empty) the book recommends from
	// the given FEN position.
	Find(fen string) []board.Move
}

// Line is a named sequence of moves in pure algebraic notation, e.g. "e2e4 e7e5".
type Line struct {
	Name  string
	Moves []string
}

// NoBook is an empty opening book: Find always returns nil.
var NoBook Book = noBook{}

type noBook struct{}

func (noBook) Find(string) []board.Move { return nil }

// defaultLines is a short table of named opening lines.
var defaultLines = []Line{
	{Name: "Italian Game", Moves: []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1c4"}},
	{Name: "Ruy Lopez", Moves: []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5"}},
	{Name: "Queen's Gambit", Moves: []string{"d2d4", "d7d5", "c2c4"}},
	{Name: "English Opening", Moves: []string{"c2c4", "e7e5"}},
}

// DefaultBook returns the engine's built-in named-line opening book.
func DefaultBook() (Book, error) {
	return NewBook(defaultLines)
}

// NewBook compiles a set of named lines into a Book, keyed by the cropped FEN (piece
// placement, turn, castling, en-passant -- the first four fields) each prefix position
// reaches.
func NewBook(lines []Line) (Book, error) {
	m := map[string]map[board.Move]bool{}

	for _, line := range lines {
		key := fen.Initial
		for _, str := range line.Moves {
			next, err := board.ParseMove(str)
			if err != nil {
				return nil, fmt.Errorf("invalid line %q: %w", line.Name, err)
			}

			pos, turn, _, _, err := fen.Decode(key)
			if err != nil {
				return nil, fmt.Errorf("invalid line %q: %w", line.Name, err)
			}

			found := false
			for _, candidate := range pos.PseudoLegalMoves(turn) {
				if !candidate.Equals(next) {
					continue
				}

				np, ok := pos.Move(candidate)
				if !ok {
					return nil, fmt.Errorf("invalid line %q: move %v not legal", line.Name, next)
				}

				k := bookKey(key)
				if m[k] == nil {
					m[k] = map[board.Move]bool{}
				}
				m[k][candidate] = true

				key = fen.Encode(np, turn.Opponent(), 0, 1)
				found = true
				break
			}
			if !found {
				return nil, fmt.Errorf("invalid line %q: move %v not found", line.Name, next)
			}
		}
	}

	dedup := map[string][]board.Move{}
	for k, set := range m {
		var list []board.Move
		for mv := range set {
			list = append(list, mv)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].String() < list[j].String() })
		dedup[k] = list
	}
	return &book{moves: dedup}, nil
}

type book struct {
	moves map[string][]board.Move
}

func (b *book) Find(fen string) []board.Move {
	return b.moves[bookKey(fen)]
}

// bookKey crops a FEN string down to its first four fields (piece placement, turn,
// castling rights, en-passant target), ignoring halfmove/fullmove counters so the same
// book entry matches regardless of how the position was reached move-count-wise.
func bookKey(f string) string {
	parts := strings.Split(f, " ")
	if len(parts) < 4 {
		return f
	}
	return strings.Join(parts[:4], " ")
}
