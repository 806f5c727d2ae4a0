package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case AuthResult:
		o.printAuthResult(v)
	case Game:
		o.printGame(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"pp_path"`
}

// AuthResult combines user and token
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// GameState response type
type GameState struct {
	Phase       string           `json:"phase"`
	CurrentTurn string           `json:"currentTurn"`
	Round       int              `json:"round"`
	Hands       map[string][]int `json:"playerHands"`
	Played      map[string]int   `json:"playedCards"`
	WarPile     []int            `json:"warPile"`
	LastWinner  string           `json:"lastWinner,omitempty"`
}

// Game response type
type Game struct {
	ID      string    `json:"gameId"`
	Type    string    `json:"type"`
	Status  string    `json:"status"`
	Players []string  `json:"players"`
	State   GameState `json:"state"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	fmt.Printf("User: %s (%s)\n", u.Username, u.ID)
	if u.ProfilePicture != "" {
		fmt.Printf("Picture: %s\n", u.ProfilePicture)
	}
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printUser(a.User)
	fmt.Printf("Token: %s\n", a.Token)
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s (%s)\n", g.ID, g.Type)
	fmt.Printf("Phase: %s\n", g.Status)
	fmt.Printf("Players: %s\n", strings.Join(g.Players, ", "))

	if g.State.Phase == "playing" {
		fmt.Printf("Round: %d\n", g.State.Round)
		fmt.Printf("Turn: %s\n", g.State.CurrentTurn)
	}
	if g.State.LastWinner != "" {
		fmt.Printf("Last trick: %s\n", g.State.LastWinner)
	}

	if len(g.State.Played) > 0 {
		fmt.Println("On the table:")
		for _, p := range sortedKeys(g.State.Played) {
			fmt.Printf("  %s: %s\n", p, cardName(g.State.Played[p]))
		}
	}

	if len(g.State.Hands) > 0 {
		fmt.Println("Hands:")
		for _, p := range sortedKeys(g.State.Hands) {
			fmt.Printf("  %s: %d cards\n", p, len(g.State.Hands[p]))
		}
	}

	if len(g.State.WarPile) > 0 {
		fmt.Printf("War pile: %d cards\n", len(g.State.WarPile))
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

var cliSuits = [4]string{"hearts", "diamonds", "clubs", "spades"}

var cliRanks = [13]string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "jack", "queen", "king", "ace"}

// cardName renders a card id for text output
func cardName(id int) string {
	switch {
	case id >= 1 && id <= 52:
		return fmt.Sprintf("%s of %s", cliRanks[(id-1)%13], cliSuits[(id-1)/13])
	case id == 53:
		return "joker"
	case id == 54:
		return "card back"
	default:
		return fmt.Sprintf("card %d", id)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
